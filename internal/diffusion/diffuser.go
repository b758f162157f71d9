package diffusion

import (
	"errors"
	"math"
	"time"

	"impact-engine/internal/model"
)

const (
	DefaultSteps         = 10
	DefaultDampingFactor = 0.8
	DefaultEpsilon       = 0.01
	DefaultMaxStepChange = 0.5
)

// Params configures a fixed-horizon simulation. Zero values take defaults.
type Params struct {
	Steps         int
	DampingFactor float64
	// Epsilon is the magnitude below which a flow is dropped.
	Epsilon float64
	// MaxStepChange bounds the fractional change one flow applies in one step.
	MaxStepChange float64
	// Start is the timestamp of step 0. Zero means time.Now().
	Start time.Time
}

func (p Params) withDefaults() Params {
	if p.Steps <= 0 {
		p.Steps = DefaultSteps
	}
	if p.DampingFactor == 0 {
		p.DampingFactor = DefaultDampingFactor
	}
	if p.Epsilon <= 0 {
		p.Epsilon = DefaultEpsilon
	}
	if p.MaxStepChange <= 0 {
		p.MaxStepChange = DefaultMaxStepChange
	}
	return p
}

func (p Params) Validate() error {
	if p.DampingFactor <= 0 || p.DampingFactor > 1 {
		return errors.New("damping_factor must be in (0, 1]")
	}
	if p.Steps > 1000 {
		return errors.New("steps must be <= 1000")
	}
	return nil
}

type Diffuser struct {
	params Params
}

func New(p Params) (*Diffuser, error) {
	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Diffuser{params: p}, nil
}

func (d *Diffuser) Params() Params { return d.params }

// Simulate returns exactly Steps snapshots, one simulated day apart.
//
// At step k every live flow moves its target by
// magnitude_k × multiplier × damping^k / 100 × sign(impact), where
// magnitude_k is the initial magnitude damped k times, so the effect decays
// as damping^2k. Node values compound across steps.
// The flows in snapshot k carry magnitude_{k+1}; flows whose next
// magnitude is not above Epsilon are dropped.
func (d *Diffuser) Simulate(flows []model.EconomicFlow) []model.FlowPropagation {
	p := d.params
	start := p.Start
	if start.IsZero() {
		start = time.Now()
	}

	current := append([]model.EconomicFlow(nil), flows...)
	states := map[string]model.NodeState{}
	out := make([]model.FlowPropagation, 0, p.Steps)

	for step := 0; step < p.Steps; step++ {
		decay := math.Pow(p.DampingFactor, float64(step))
		for _, f := range current {
			change := f.Magnitude * f.Multiplier * decay / 100 * f.Impact.Sign()
			change = math.Max(-p.MaxStepChange, math.Min(p.MaxStepChange, change))

			st, ok := states[f.To]
			if !ok {
				st = model.NodeState{Value: 1.0}
			}
			st.Value *= 1 + change
			st.CumulativeChange += change
			states[f.To] = st
		}

		damped := make([]model.EconomicFlow, len(current))
		for i, f := range current {
			damped[i] = f.WithMagnitude(f.Magnitude * p.DampingFactor)
		}
		out = append(out, model.FlowPropagation{
			Step:        step,
			Timestamp:   start.AddDate(0, 0, step),
			ActiveFlows: damped,
			NodeStates:  cloneStates(states),
		})

		next := make([]model.EconomicFlow, 0, len(damped))
		for _, f := range damped {
			if f.Magnitude > p.Epsilon {
				next = append(next, f)
			}
		}
		current = next
	}
	return out
}

func cloneStates(in map[string]model.NodeState) map[string]model.NodeState {
	out := make(map[string]model.NodeState, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

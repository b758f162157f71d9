package flow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"impact-engine/internal/data"
	"impact-engine/internal/model"
)

type Options struct {
	Chains  []Chain
	Catalog data.Catalog
	// Now stamps every flow of one Derive call. Defaults to time.Now.
	Now func() time.Time
}

// Deriver compares macro snapshots and emits flows along fixed chains.
type Deriver struct {
	chains  []Chain
	catalog data.Catalog
	now     func() time.Time
}

func NewDeriver(opts Options) *Deriver {
	d := &Deriver{chains: opts.Chains, catalog: opts.Catalog, now: opts.Now}
	if d.chains == nil {
		d.chains = DefaultChains()
	}
	if d.catalog == nil {
		d.catalog = data.DefaultCatalog()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

func (d *Deriver) Chains() []Chain { return d.chains }

// Derive returns a fresh flow slice in chain order. Missing values on
// either side fall back to catalog defaults; state may be nil.
func (d *Deriver) Derive(prev, curr model.MacroState, state *model.PropagationState) []model.EconomicFlow {
	ctx := Context{
		Prev:    prev,
		Curr:    curr,
		State:   state,
		Catalog: d.catalog,
		Now:     d.now(),
	}
	out := []model.EconomicFlow{}
	for _, c := range d.chains {
		out = append(out, c.Emit(ctx)...)
	}
	return out
}

var flowNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("impact-engine/flows"))

// flowID is a UUIDv5 of the chain edge and timestamp, stable across runs.
func flowID(chain string, edge int, from, to string, ts time.Time) string {
	key := fmt.Sprintf("%s/%d/%s/%s/%s", chain, edge, from, to, ts.UTC().Format(time.RFC3339Nano))
	return uuid.NewSHA1(flowNamespace, []byte(key)).String()
}

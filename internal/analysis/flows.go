package analysis

import (
	"fmt"

	"impact-engine/internal/model"
)

// FlowSummary is the headline view of one derivation.
type FlowSummary struct {
	Total            int                 `json:"total"`
	Positive         int                 `json:"positive"`
	Negative         int                 `json:"negative"`
	AverageMagnitude float64             `json:"average_magnitude"`
	Strongest        *model.EconomicFlow `json:"strongest,omitempty"`
	// MostAffected is the entity named by the most flows, first mention on ties.
	MostAffected string `json:"most_affected"`
}

func SummarizeFlows(flows []model.EconomicFlow) FlowSummary {
	s := FlowSummary{Total: len(flows)}
	if len(flows) == 0 {
		return s
	}

	sum := 0.0
	strongest := 0
	counts := map[string]int{}
	order := []string{}
	mention := func(id string) {
		if _, ok := counts[id]; !ok {
			order = append(order, id)
		}
		counts[id]++
	}
	for i, f := range flows {
		switch f.Impact {
		case model.ImpactPositive:
			s.Positive++
		case model.ImpactNegative:
			s.Negative++
		}
		sum += f.Magnitude
		if f.Magnitude > flows[strongest].Magnitude {
			strongest = i
		}
		mention(f.From)
		mention(f.To)
	}
	s.AverageMagnitude = sum / float64(len(flows))
	f := flows[strongest]
	s.Strongest = &f

	best := 0
	for _, id := range order {
		if counts[id] > best {
			best = counts[id]
			s.MostAffected = id
		}
	}
	return s
}

// FormatFlow renders "from ↑ to: description (magnitude × multiplier)".
func FormatFlow(f model.EconomicFlow) string {
	arrow := "→"
	switch f.Impact {
	case model.ImpactPositive:
		arrow = "↑"
	case model.ImpactNegative:
		arrow = "↓"
	}
	return fmt.Sprintf("%s %s %s: %s (%.2f × %.1f)", f.From, arrow, f.To, f.Description, f.Magnitude, f.Multiplier)
}

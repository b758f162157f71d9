package analysis

import (
	"math"
	"sort"

	"impact-engine/internal/model"
)

// SectorSummary aggregates company composite impacts within one sector.
type SectorSummary struct {
	Sector        model.Sector `json:"sector"`
	RevenueImpact float64      `json:"revenue_impact"`
	Count         int          `json:"count"`

	MinComposite  float64 `json:"min_composite"`
	MaxComposite  float64 `json:"max_composite"`
	MeanComposite float64 `json:"mean_composite"`
	P05Composite  float64 `json:"p05_composite"`
	P95Composite  float64 `json:"p95_composite"`

	MarketCapChange float64 `json:"market_cap_change"`
}

// SummarizeSectors returns one summary per Level2 sector, ordered by sector id.
// baseline supplies the market caps the change is measured against and may be nil.
func SummarizeSectors(st model.PropagationState, baseline *model.PropagationState) []SectorSummary {
	bySector := map[model.Sector][]model.CompanyState{}
	for _, cs := range st.Level3 {
		bySector[cs.Sector] = append(bySector[cs.Sector], cs)
	}

	out := make([]SectorSummary, 0, len(st.Level2))
	for sector, ss := range st.Level2 {
		s := SectorSummary{Sector: sector, RevenueImpact: ss.RevenueImpact}
		companies := bySector[sector]
		s.Count = len(companies)
		if s.Count > 0 {
			vals := make([]float64, 0, s.Count)
			sum := 0.0
			for _, cs := range companies {
				vals = append(vals, cs.CompositeImpact)
				sum += cs.CompositeImpact
				if baseline != nil {
					if b, ok := baseline.Level3[cs.Ticker]; ok {
						s.MarketCapChange += cs.MarketCap - b.MarketCap
					}
				}
			}
			sort.Float64s(vals)
			s.MinComposite = vals[0]
			s.MaxComposite = vals[len(vals)-1]
			s.MeanComposite = sum / float64(len(vals))
			s.P05Composite = percentileSorted(vals, 0.05)
			s.P95Composite = percentileSorted(vals, 0.95)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sector < out[j].Sector })
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

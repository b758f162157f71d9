package analysis

import (
	"math"
	"sort"

	"impact-engine/internal/impact"
	"impact-engine/internal/model"
)

// CompanyImpact is one ranked Level3 entry with its render score.
type CompanyImpact struct {
	model.CompanyState
	Score impact.Score `json:"score"`
}

// ScoreScale is the composite percent impact that maps to tanh(1).
const ScoreScale = 10.0

// RankCompanies sorts Level3 by |CompositeImpact| descending, ties by ticker.
func RankCompanies(st model.PropagationState) []CompanyImpact {
	out := make([]CompanyImpact, 0, len(st.Level3))
	for _, cs := range st.Level3 {
		out = append(out, CompanyImpact{
			CompanyState: cs,
			Score:        impact.NewScore(cs.CompositeImpact, ScoreScale),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].CompositeImpact), math.Abs(out[j].CompositeImpact)
		if ai != aj {
			return ai > aj
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

// TopN returns at most n entries of a ranking.
func TopN(ranked []CompanyImpact, n int) []CompanyImpact {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

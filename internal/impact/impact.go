// Package impact turns raw impact numbers into render weights.
package impact

import (
	"math"

	"impact-engine/internal/model"
)

// Diverging scale, strongest negative to strongest positive.
const (
	ColorStrongNegative = "#EF4444"
	ColorNegative       = "#FB923C"
	ColorNeutral        = "#94A3B8"
	ColorPositive       = "#4ADE80"
	ColorStrongPositive = "#00FF9F"
)

// Edge colors by flow impact.
const (
	FlowColorPositive = "#10B981"
	FlowColorNegative = "#EF4444"
	FlowColorNeutral  = "#6B7280"
)

const (
	MinSizeMultiplier = 0.5
	MaxSizeMultiplier = 2.5
)

// Clamp bounds score to [-1, 1]. NaN maps to 0.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(-1, math.Min(1, score))
}

// Color maps a score to the diverging five-band scale.
func Color(score float64) string {
	s := Clamp(score)
	switch {
	case s > 0.3:
		return ColorStrongPositive
	case s > 0.1:
		return ColorPositive
	case s > -0.1:
		return ColorNeutral
	case s > -0.3:
		return ColorNegative
	default:
		return ColorStrongNegative
	}
}

// SizeMultiplier grows linearly with |score| from 0.5 to 2.5.
func SizeMultiplier(score float64) float64 {
	return MinSizeMultiplier + (MaxSizeMultiplier-MinSizeMultiplier)*math.Abs(Clamp(score))
}

// Normalize squashes a percent impact into (-1, 1). scale is the percent
// that maps to tanh(1) ≈ 0.76; non-positive scale means 10.
func Normalize(pct, scale float64) float64 {
	if scale <= 0 {
		scale = 10
	}
	if math.IsNaN(pct) {
		return 0
	}
	return math.Tanh(pct / scale)
}

func FlowColor(i model.Impact) string {
	switch i {
	case model.ImpactPositive:
		return FlowColorPositive
	case model.ImpactNegative:
		return FlowColorNegative
	default:
		return FlowColorNeutral
	}
}

// Score is the render-ready view of one entity's impact.
type Score struct {
	Raw            float64 `json:"raw"`
	Normalized     float64 `json:"normalized"`
	Color          string  `json:"color"`
	SizeMultiplier float64 `json:"size_multiplier"`
}

func NewScore(pct, scale float64) Score {
	n := Normalize(pct, scale)
	return Score{Raw: pct, Normalized: n, Color: Color(n), SizeMultiplier: SizeMultiplier(n)}
}

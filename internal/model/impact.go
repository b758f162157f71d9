package model

// Impact is the sign of a flow's effect on its target entity.
// Keep these values stable; they are part of the JSON and CSV output.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

func ImpactFromDelta(delta float64) Impact {
	switch {
	case delta > 0:
		return ImpactPositive
	case delta < 0:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}

// Sign returns +1, -1 or 0.
func (i Impact) Sign() float64 {
	switch i {
	case ImpactPositive:
		return 1
	case ImpactNegative:
		return -1
	default:
		return 0
	}
}

// Invert flips positive and negative; neutral stays neutral.
func (i Impact) Invert() Impact {
	switch i {
	case ImpactPositive:
		return ImpactNegative
	case ImpactNegative:
		return ImpactPositive
	default:
		return ImpactNeutral
	}
}

// Direction is the sign a linkage applies to its source signal.
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

func (d Direction) Sign() float64 {
	switch d {
	case DirectionPositive:
		return 1
	case DirectionNegative:
		return -1
	default:
		return 0
	}
}

package controller

import "math"

// Axis selects one of the two classifier weights.
type Axis int

const (
	AxisText Axis = iota
	AxisImage
)

func (a Axis) String() string {
	if a == AxisImage {
		return "image"
	}
	return "text"
}

// Weights is the text/image blend sent with every analysis. Text+Image is 1
// to one decimal place.
type Weights struct {
	Text  float64 `json:"text_weight"`
	Image float64 `json:"cnn_weight"`
}

// WeightStep is the slider granularity.
const WeightStep = 0.1

// NewWeights builds a pair from a text weight.
func NewWeights(text float64) Weights {
	return Weights{}.With(AxisText, text)
}

// With returns the pair after moving axis to value. The value is clamped to
// [0,1] and rounded to one decimal; the other axis takes the complement.
func (w Weights) With(axis Axis, value float64) Weights {
	v := roundTenth(clamp01(value))
	other := roundTenth(1 - v)
	if axis == AxisImage {
		return Weights{Text: other, Image: v}
	}
	return Weights{Text: v, Image: other}
}

// Get returns the weight of axis.
func (w Weights) Get(axis Axis) float64 {
	if axis == AxisImage {
		return w.Image
	}
	return w.Text
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

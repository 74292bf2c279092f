package timeline

import "math"

// Ease maps normalized segment time [0,1] to normalized progress
type Ease func(float64) float64

// Linear is the identity ease
func Linear(t float64) float64 { return t }

// InOutSine accelerates and decelerates gently
func InOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// InOutCubic is a stronger ease for long camera moves
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// OutQuad decelerates into the target
func OutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

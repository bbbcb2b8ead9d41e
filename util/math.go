package util

import "math"

// Clamp restricts v to the closed range [min, max].
func Clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

// ClampPercent restricts v to [0, 100].
func ClampPercent(v float64) float64 {
	return Clamp(v, 0, 100)
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LinearPercent returns where v sits between min and max as a percentage.
func LinearPercent(v, min, max float64) float64 {
	if min == max {
		return 0
	}

	return ClampPercent(100 * (v - min) / (max - min))
}

// LinearValue is the inverse of LinearPercent.
func LinearValue(percent, min, max float64) float64 {
	return Lerp(min, max, ClampPercent(percent)/100)
}

// ToStep rounds v to the nearest multiple of step.
func ToStep(v, step float64) float64 {
	if step == 0 {
		return v
	}

	return math.Round(v/step) * step
}

// Dist returns the distance between two points.
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

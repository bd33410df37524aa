// Package mathutil provides scalar interpolation helpers shared by the
// sampler and the texture baker.
package mathutil

import (
	"math"
)

// Saturate clamps v to [0, 1].
func Saturate(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Lerp linearly interpolates between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp returns where v lies between a and b as a fraction in [0, 1].
// A zero-width range (a == b) yields 0 rather than NaN.
func InverseLerp(a, b, v float64) float64 {
	if b == a {
		return 0
	}
	return Saturate((v - a) / (b - a))
}

// Remap maps v from the range [a, b] onto [c, d], saturating at the ends.
func Remap(a, b, c, d, v float64) float64 {
	return c + (d-c)*InverseLerp(a, b, v)
}

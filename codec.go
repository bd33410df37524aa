package curvetex

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is a single keyframe: a value of type T at a point in time.
// Time is in caller-defined units (seconds, normalized 0..1, ...).
type Frame[T any] struct {
	Time  float64
	Value T
}

// Color is a linear RGB color. Alpha is carried by a separate scalar curve.
type Color struct {
	R, G, B float64
}

// Codec converts between a curve's value type and the flat float channels the
// sampler interpolates. Each curve variant selects one codec; there is no
// per-variant curve type.
type Codec[T any] struct {
	// Stride reports how many channels v occupies.
	Stride func(v T) int

	// Flatten appends the channels of v to dst and returns the extended slice.
	Flatten func(dst []float64, v T) []float64

	// Build constructs a new value from channels. It must not retain src.
	Build func(src []float64) T
}

// ScalarCodec encodes a float64 as a single channel.
var ScalarCodec = Codec[float64]{
	Stride:  func(float64) int { return scalarStride },
	Flatten: func(dst []float64, v float64) []float64 { return append(dst, v) },
	Build:   func(src []float64) float64 { return src[0] },
}

// Vector3Codec encodes an r3.Vec as X, Y, Z.
var Vector3Codec = Codec[r3.Vec]{
	Stride: func(r3.Vec) int { return vectorStride },
	Flatten: func(dst []float64, v r3.Vec) []float64 {
		return append(dst, v.X, v.Y, v.Z)
	},
	Build: func(src []float64) r3.Vec {
		return r3.Vec{X: src[0], Y: src[1], Z: src[2]}
	},
}

// ColorCodec encodes a Color as R, G, B.
var ColorCodec = Codec[Color]{
	Stride: func(Color) int { return vectorStride },
	Flatten: func(dst []float64, v Color) []float64 {
		return append(dst, v.R, v.G, v.B)
	},
	Build: func(src []float64) Color {
		return Color{R: src[0], G: src[1], B: src[2]}
	},
}

// RawCodec passes channel slices through unchanged. Stride is taken from each
// value's length, so mixed lengths are caught at construction.
var RawCodec = Codec[[]float64]{
	Stride:  func(v []float64) int { return len(v) },
	Flatten: func(dst []float64, v []float64) []float64 { return append(dst, v...) },
	Build: func(src []float64) []float64 {
		out := make([]float64, len(src))
		copy(out, src)
		return out
	},
}

package curvetex

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-curve-texture/internal/sampler"
)

// Common errors returned by curve construction and baking.
var (
	// ErrInvalidInput indicates missing keyframes, a nil curve, or an empty value.
	ErrInvalidInput = errors.New("invalid curve input")

	// ErrDimensionMismatch indicates keyframes whose channel count differs
	// from the first keyframe's, or a channel count outside {1, 3, 4}.
	ErrDimensionMismatch = errors.New("keyframe dimension mismatch")

	// ErrInvalidConfig indicates invalid baker configuration parameters.
	ErrInvalidConfig = errors.New("invalid baker configuration")
)

// Curve is a piecewise-linear animation curve over keyframes of type T.
//
// A Curve is immutable after construction except for its internal scratch
// buffer, which every evaluation overwrites. Evaluate is therefore not safe
// for concurrent use on the same Curve; use one Curve per goroutine or guard
// it externally.
type Curve[T any] struct {
	codec   Codec[T]
	frames  []Frame[T]
	times   []float64
	sampler *sampler.Linear
}

// ScalarCurve interpolates float64 keyframes.
type ScalarCurve = Curve[float64]

// Vector3Curve interpolates 3-component vectors.
type Vector3Curve = Curve[r3.Vec]

// ColorCurve interpolates RGB colors.
type ColorCurve = Curve[Color]

// RawCurve interpolates channel slices of stride 1, 3 or 4.
type RawCurve = Curve[[]float64]

// NewCurve builds a curve from frames using codec to flatten values.
//
// The frames are copied and sorted by time; the caller's slice is left
// untouched. Frames with equal times keep their relative order. A single
// frame yields a constant curve.
func NewCurve[T any](frames []Frame[T], codec Codec[T]) (*Curve[T], error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no keyframes", ErrInvalidInput)
	}

	sorted := slices.Clone(frames)
	slices.SortStableFunc(sorted, func(a, b Frame[T]) int {
		return cmp.Compare(a.Time, b.Time)
	})

	stride := codec.Stride(sorted[0].Value)
	if stride == 0 {
		return nil, fmt.Errorf("%w: keyframe value has no channels", ErrInvalidInput)
	}
	if stride != scalarStride && stride != vectorStride && stride != rgbaStride {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrDimensionMismatch, stride)
	}

	times := make([]float64, len(sorted))
	values := make([]float64, 0, len(sorted)*stride)
	for i, f := range sorted {
		if got := codec.Stride(f.Value); got != stride {
			return nil, fmt.Errorf("%w: keyframe %d at t=%g has %d channels, want %d",
				ErrDimensionMismatch, i, f.Time, got, stride)
		}
		if math.IsNaN(f.Time) || math.IsInf(f.Time, 0) {
			return nil, fmt.Errorf("%w: keyframe %d has non-finite time", ErrInvalidInput, i)
		}
		times[i] = f.Time
		values = codec.Flatten(values, f.Value)
		// Keep a private copy so later caller mutations cannot leak in.
		sorted[i].Value = codec.Build(values[i*stride : (i+1)*stride])
	}

	s, err := sampler.NewLinear(times, values, stride)
	if err != nil {
		return nil, fmt.Errorf("failed to build sampler: %w", err)
	}

	return &Curve[T]{
		codec:   codec,
		frames:  sorted,
		times:   times,
		sampler: s,
	}, nil
}

// NewScalarCurve builds a curve over float64 keyframes.
func NewScalarCurve(frames []Frame[float64]) (*ScalarCurve, error) {
	return NewCurve(frames, ScalarCodec)
}

// NewVector3Curve builds a curve over r3.Vec keyframes.
func NewVector3Curve(frames []Frame[r3.Vec]) (*Vector3Curve, error) {
	return NewCurve(frames, Vector3Codec)
}

// NewColorCurve builds a curve over RGB keyframes.
func NewColorCurve(frames []Frame[Color]) (*ColorCurve, error) {
	return NewCurve(frames, ColorCodec)
}

// NewRawCurve builds a curve over channel slices. Every value must have the
// same length, which must be 1, 3 or 4.
func NewRawCurve(frames []Frame[[]float64]) (*RawCurve, error) {
	return NewCurve(frames, RawCodec)
}

// Evaluate returns the curve value at time t, clamping t to the keyframe
// range. The result is a fresh value independent of later evaluations.
func (c *Curve[T]) Evaluate(t float64) T {
	c.sampler.Evaluate(t)
	return c.Result()
}

// Result rebuilds the value from the most recent evaluation. Before the first
// evaluation every channel is 0.
func (c *Curve[T]) Result() T {
	return c.codec.Build(c.sampler.Current())
}

// sample evaluates into the scratch buffer and returns it without copying.
// The slice is overwritten by the next evaluation.
func (c *Curve[T]) sample(t float64) []float64 {
	return c.sampler.Evaluate(t)
}

// Stride returns the number of channels per keyframe.
func (c *Curve[T]) Stride() int {
	return c.sampler.Stride()
}

// Len returns the number of keyframes.
func (c *Curve[T]) Len() int {
	return len(c.frames)
}

// Degenerate reports whether the curve has a single keyframe and is therefore
// constant.
func (c *Curve[T]) Degenerate() bool {
	return len(c.frames) == 1
}

// Duration returns the time of the last keyframe.
func (c *Curve[T]) Duration() float64 {
	return c.times[len(c.times)-1]
}

// Frames returns a copy of the keyframes in ascending time order.
func (c *Curve[T]) Frames() []Frame[T] {
	return slices.Clone(c.frames)
}

// Times returns a copy of the sorted keyframe times.
func (c *Curve[T]) Times() []float64 {
	return slices.Clone(c.times)
}

// keyTimes exposes the sorted times without copying.
func (c *Curve[T]) keyTimes() []float64 {
	return c.times
}

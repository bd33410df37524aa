// Package sampler implements piecewise-linear evaluation over a flattened,
// time-major keyframe buffer.
package sampler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tphakala/go-curve-texture/internal/mathutil"
)

// ErrInvalidLayout is returned when the times and values buffers disagree.
var ErrInvalidLayout = errors.New("invalid sampler layout")

// Linear evaluates a piecewise-linear curve.
//
// Values are stored time-major: the channels of keyframe i occupy
// values[i*stride : (i+1)*stride]. Times must be sorted ascending.
//
// Linear owns a scratch buffer of length stride that every Evaluate call
// overwrites. It is not safe for concurrent use.
type Linear struct {
	times   []float64
	values  []float64
	stride  int
	scratch []float64
}

// NewLinear creates a sampler over the given buffers. The slices are retained,
// not copied; callers must not modify them afterwards.
func NewLinear(times, values []float64, stride int) (*Linear, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: no keyframe times", ErrInvalidLayout)
	}
	if stride < 1 {
		return nil, fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidLayout, stride)
	}
	if len(values) != len(times)*stride {
		return nil, fmt.Errorf("%w: %d values for %d keyframes of stride %d",
			ErrInvalidLayout, len(values), len(times), stride)
	}

	return &Linear{
		times:   times,
		values:  values,
		stride:  stride,
		scratch: make([]float64, stride),
	}, nil
}

// Evaluate interpolates the curve at time t and returns the scratch buffer.
// Times outside the keyframe range are clamped to the boundary keyframe.
// The returned slice is only valid until the next call to Evaluate.
func (s *Linear) Evaluate(t float64) []float64 {
	n := len(s.times)

	// Index of the first keyframe strictly after t.
	hi := sort.Search(n, func(i int) bool { return s.times[i] > t })

	switch {
	case hi == 0:
		s.copyFrame(0)
	case hi == n:
		s.copyFrame(n - 1)
	default:
		lo := hi - 1
		f := mathutil.InverseLerp(s.times[lo], s.times[hi], t)
		a := s.values[lo*s.stride : hi*s.stride]
		b := s.values[hi*s.stride : (hi+1)*s.stride]
		for c := range s.scratch {
			s.scratch[c] = mathutil.Lerp(a[c], b[c], f)
		}
	}

	return s.scratch
}

// Current returns the scratch buffer as left by the last Evaluate call.
func (s *Linear) Current() []float64 {
	return s.scratch
}

func (s *Linear) copyFrame(i int) {
	copy(s.scratch, s.values[i*s.stride:(i+1)*s.stride])
}

// Stride returns the number of channels per keyframe.
func (s *Linear) Stride() int {
	return s.stride
}

// Len returns the number of keyframes.
func (s *Linear) Len() int {
	return len(s.times)
}

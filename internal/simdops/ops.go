// Package simdops provides generic SIMD operations for float32 and float64 types.
// Curves are evaluated in float64 while baked pixels are float32, so both
// precisions go through the same accessor.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
type Ops[F Float] struct {
	// Sum returns the sum of all elements.
	Sum func(a []F) F
}

var (
	ops32 = Ops[float32]{Sum: f32.Sum}
	ops64 = Ops[float64]{Sum: f64.Sum}
)

// For returns the Ops instance for type F.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

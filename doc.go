// Package curvetex evaluates keyframe animation curves and bakes them into
// lookup textures for GPU sampling.
//
// A shader that needs an animation curve (particle size over lifetime, a
// color ramp, a camera path) can read it with a single texture fetch instead
// of having the host interpolate every frame. This package provides both
// halves: host-side evaluation of sparse, irregularly spaced keyframes and
// resampling of those keyframes onto a uniform grid.
//
// # Features
//
//   - Piecewise-linear curves over scalars, 3-vectors ([r3.Vec]) and RGB colors
//   - Raw curves over channel slices of length 1, 3 or 4
//   - Binary-search evaluation, clamped to the keyframe range
//   - Automatic texture width selection that resolves the narrowest keyframe gap
//   - Color baking merged with an independently keyed alpha curve
//   - Texture descriptors expressed in [github.com/gogpu/gputypes] terms
//
// # Quick Start
//
// Evaluate a curve on the host:
//
//	size, err := curvetex.NewScalarCurve([]curvetex.Frame[float64]{
//	    {Time: 0, Value: 0},
//	    {Time: 0.2, Value: 1},
//	    {Time: 1, Value: 0.5},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v := size.Evaluate(0.1) // 0.5
//
// Bake it for a shader:
//
//	tex, err := curvetex.BakeScalar(size)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	upload(tex.Extent(), tex.Format, tex.Bytes())
//
// Colors are baked together with an optional alpha curve into RGBA:
//
//	tex, err := curvetex.BakeColor(tint, fade)
//
// # Resolution
//
// The width of a baked texture is ceil(1/s)+1, where s is the narrowest gap
// between consecutive keyframes divided by the curve duration, and never more
// than [Config.SeedStep] (0.5 by default). A single-keyframe curve therefore
// bakes to a constant 3-pixel texture. Widths are capped by [Config.MaxWidth].
//
// Pixel k holds the curve at time k/(Width-1)*Duration. [Texture.Coord] maps
// a curve time to the texture coordinate that reproduces it under linear
// filtering.
//
// # Errors
//
// Construction fails with [ErrInvalidInput] when no keyframes are given and
// with [ErrDimensionMismatch] when keyframes disagree on channel count. Once a
// curve exists, evaluation and baking cannot fail on its account.
//
// # Thread Safety
//
// Each curve owns a scratch buffer that evaluation overwrites, so calls to
// [Curve.Evaluate] on the same curve must be serialized. Values returned from
// Evaluate and Result are always fresh copies. A [Baker] is safe to share.
package curvetex

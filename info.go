package curvetex

// Info describes a curve and the texture a baker would produce for it.
type Info struct {
	// Keyframes is the number of keyframes in the curve.
	Keyframes int

	// Stride is the number of channels per keyframe.
	Stride int

	// Duration is the time of the last keyframe.
	Duration float64

	// SmallestStep is the narrowest keyframe gap as a fraction of Duration,
	// bounded above by the seed step.
	SmallestStep float64

	// Width is the baked texture width, after any MaxWidth clamp.
	Width int

	// Clamped reports whether MaxWidth reduced the width.
	Clamped bool

	// Degenerate reports a single-keyframe, constant curve.
	Degenerate bool

	// MemoryUsage is the size of the baked pixel buffer in bytes.
	MemoryUsage int64
}

// GetInfo reports how b would bake c without evaluating it.
// A nil baker uses the default configuration. A nil curve yields the zero
// Info. Alpha merging is not accounted for.
func GetInfo[T any](b *Baker, c *Curve[T]) Info {
	if c == nil {
		return Info{}
	}
	if b == nil {
		b = defaultBaker
	}

	width, step, clamped := b.resolution(c.keyTimes())

	channels := scalarStride
	if c.Stride() != scalarStride {
		channels = rgbaStride
	}

	return Info{
		Keyframes:    c.Len(),
		Stride:       c.Stride(),
		Duration:     c.Duration(),
		SmallestStep: step,
		Width:        width,
		Clamped:      clamped,
		Degenerate:   c.Degenerate(),
		MemoryUsage:  int64(width * channels * bytesPerChannel),
	}
}

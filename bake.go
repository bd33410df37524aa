package curvetex

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"gonum.org/v1/gonum/floats"
)

// Baker resamples curves into uniformly spaced lookup textures.
//
// The texture width is chosen so that every keyframe gap spans at least one
// grid interval: width = ceil(1/smallestStep) + 1, where smallestStep is the
// narrowest gap divided by the curve duration, bounded above by
// Config.SeedStep.
//
// A Baker holds only its configuration and may be shared between goroutines,
// but a curve must not be evaluated elsewhere while it is being baked.
type Baker struct {
	config Config
}

// source is the part of a Curve the baker needs, independent of value type.
type source interface {
	keyTimes() []float64
	sample(t float64) []float64
	Stride() int
	Len() int
}

var defaultBaker = &Baker{config: DefaultConfig()}

// NewBaker creates a baker with the given configuration.
func NewBaker(config *Config) (*Baker, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Baker{config: config.withDefaults()}, nil
}

// Config returns the effective configuration, with defaults applied.
func (b *Baker) Config() Config {
	return b.config
}

// resolution returns the texture width for keyframes at times, the smallest
// normalized step it was derived from, and whether MaxWidth clamped it.
//
// Coincident keyframes (zero gaps) are ignored. When the last keyframe time is
// not positive the gaps cannot be normalized and the seed step is used.
func (b *Baker) resolution(times []float64) (width int, smallestStep float64, clamped bool) {
	smallestStep = b.config.SeedStep
	maxTime := times[len(times)-1]

	if len(times) > 1 && maxTime > 0 {
		gaps := make([]float64, 0, len(times)-1)
		for i := 1; i < len(times); i++ {
			if gap := times[i] - times[i-1]; gap > 0 {
				gaps = append(gaps, gap)
			}
		}
		// Division is monotonic, so normalizing only the minimum gap picks
		// the same step as normalizing every gap.
		if len(gaps) > 0 {
			smallestStep = math.Min(smallestStep, floats.Min(gaps)/maxTime)
		}
	}

	w := math.Ceil(1/smallestStep) + widthExtra
	if w > float64(b.config.MaxWidth) {
		return b.config.MaxWidth, smallestStep, true
	}
	return int(w), smallestStep, false
}

// grid returns width uniformly spaced sample times over [0, duration].
func grid(width int, duration float64) []float64 {
	return floats.Span(make([]float64, width), 0, duration)
}

func (b *Baker) width(src source, kind string) int {
	width, step, clamped := b.resolution(src.keyTimes())
	if clamped {
		Logger().Warn("curvetex: texture width clamped",
			"curve", kind,
			"smallest_step", step,
			"max_width", b.config.MaxWidth)
	}
	return width
}

// BakeScalar bakes a scalar curve into a Width×1 R32Float texture.
func (b *Baker) BakeScalar(c *ScalarCurve) (*Texture, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: scalar curve is nil", ErrInvalidInput)
	}
	return b.bakeSingle(c, "scalar"), nil
}

// BakeVector3 bakes a vector curve into a Width×1 RGBA32Float texture with
// X, Y, Z in R, G, B and A fixed at 1.
func (b *Baker) BakeVector3(c *Vector3Curve) (*Texture, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: vector curve is nil", ErrInvalidInput)
	}
	return b.bakeRGBA(c, nil, "vector3")
}

// BakeColor bakes a color curve into a Width×1 RGBA32Float texture.
//
// When alpha is nil every pixel has A = 1. Otherwise alpha is first baked on
// its own and the result is resampled in normalized time [0, 1], so the final
// width is the larger of the color and alpha widths. Alpha keeps its own time
// base: its duration is mapped onto the color curve's duration.
func (b *Baker) BakeColor(c *ColorCurve, alpha *ScalarCurve) (*Texture, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: color curve is nil", ErrInvalidInput)
	}
	return b.bakeRGBA(c, alpha, "color")
}

// BakeRaw bakes a raw curve according to its stride: stride 1 produces
// R32Float, stride 3 RGBA32Float with A = 1, stride 4 RGBA32Float as is.
func (b *Baker) BakeRaw(c *RawCurve) (*Texture, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: raw curve is nil", ErrInvalidInput)
	}
	if c.Stride() == scalarStride {
		return b.bakeSingle(c, "raw"), nil
	}
	return b.bakeRGBA(c, nil, "raw")
}

// bakeSingle writes channel 0 of src into an R32Float texture.
func (b *Baker) bakeSingle(src source, kind string) *Texture {
	width := b.width(src, kind)
	times := src.keyTimes()
	duration := times[len(times)-1]

	tex := newTexture(width, gputypes.TextureFormatR32Float, duration)
	for k, t := range grid(width, duration) {
		tex.Pixels[k] = float32(src.sample(t)[0])
	}

	logBake(kind, src.Len(), tex)
	return tex
}

// bakeRGBA writes the RGB(A) channels of src and an optional alpha curve
// into an RGBA32Float texture.
func (b *Baker) bakeRGBA(src source, alpha *ScalarCurve, kind string) (*Texture, error) {
	width := b.width(src, kind)
	times := src.keyTimes()
	duration := times[len(times)-1]

	var alphaCurve *ScalarCurve
	if alpha != nil {
		resampled, alphaWidth, err := b.normalizedAlpha(alpha)
		if err != nil {
			return nil, err
		}
		alphaCurve = resampled
		width = max(width, alphaWidth)
	}

	tex := newTexture(width, gputypes.TextureFormatRGBA32Float, duration)
	normalized := grid(width, 1)
	for k, t := range grid(width, duration) {
		px := tex.Pixels[k*rgbaStride : (k+1)*rgbaStride]
		channels := src.sample(t)
		for c := range channels {
			px[c] = float32(channels[c])
		}

		switch {
		case alphaCurve != nil:
			px[alphaChannel] = float32(alphaCurve.Evaluate(normalized[k]))
		case len(channels) < rgbaStride:
			px[alphaChannel] = opaqueAlpha
		}
	}

	logBake(kind, src.Len(), tex)
	return tex, nil
}

// normalizedAlpha bakes alpha at its native resolution and rebuilds it as a
// curve over normalized time, one keyframe per baked pixel.
func (b *Baker) normalizedAlpha(alpha *ScalarCurve) (*ScalarCurve, int, error) {
	baked := b.bakeSingle(alpha, "alpha")

	frames := make([]Frame[float64], baked.Width)
	for i, t := range grid(baked.Width, 1) {
		frames[i] = Frame[float64]{Time: t, Value: float64(baked.Pixels[i])}
	}

	resampled, err := NewScalarCurve(frames)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resample alpha curve: %w", err)
	}
	return resampled, baked.Width, nil
}

func logBake(kind string, keyframes int, tex *Texture) {
	Logger().Debug("curvetex: baked texture",
		"curve", kind,
		"keyframes", keyframes,
		"width", tex.Width,
		"channels", tex.Channels())
}

// BakeScalar bakes c with the default configuration.
func BakeScalar(c *ScalarCurve) (*Texture, error) {
	return defaultBaker.BakeScalar(c)
}

// BakeVector3 bakes c with the default configuration.
func BakeVector3(c *Vector3Curve) (*Texture, error) {
	return defaultBaker.BakeVector3(c)
}

// BakeColor bakes c, merged with the optional alpha curve, with the default
// configuration.
func BakeColor(c *ColorCurve, alpha *ScalarCurve) (*Texture, error) {
	return defaultBaker.BakeColor(c, alpha)
}

// BakeRaw bakes c with the default configuration.
func BakeRaw(c *RawCurve) (*Texture, error) {
	return defaultBaker.BakeRaw(c)
}

package curvetex

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-curve-texture/internal/testutil"
)

const (
	pixelTolerance = testutil.Float32Tolerance

	// Widths produced by evenly spaced keyframes.
	widthQuarterSteps = 5 // gaps of 1/4
	widthEighthSteps  = 9 // gaps of 1/8
	widthSeedOnly     = 3 // ceil(1/0.5)+1
	widthTenthStep    = 11
	widthFineStep     = 1025 // gap of 1/1024
	testMaxWidth      = 64
)

func evenTimes(n int) []float64 {
	times := make([]float64, n+1)
	for i := range times {
		times[i] = float64(i) / float64(n)
	}
	return times
}

// rampColorCurve builds a color curve with R=t, G=1-t, B=0.5 keyed at times.
func rampColorCurve(t *testing.T, times []float64) *ColorCurve {
	t.Helper()
	frames := make([]Frame[Color], len(times))
	for i, tm := range times {
		frames[i] = Frame[Color]{Time: tm, Value: Color{R: tm, G: 1 - tm, B: 0.5}}
	}
	c, err := NewColorCurve(frames)
	require.NoError(t, err)
	return c
}

func assertLookupSampler(t *testing.T, tex *Texture) {
	t.Helper()
	assert.Equal(t, 1, tex.Height)
	assert.Equal(t, gputypes.FilterModeLinear, tex.MinFilter)
	assert.Equal(t, gputypes.FilterModeLinear, tex.MagFilter)
	assert.Equal(t, gputypes.AddressModeClampToEdge, tex.AddressModeU)
	assert.Equal(t, gputypes.AddressModeClampToEdge, tex.AddressModeV)
	assert.Len(t, tex.Pixels, tex.Width*tex.Channels())
	testutil.AssertNoNaNOrInf(t, tex.Pixels)
}

// TestBake_WidthFormula checks the documented example: keyframes at
// normalized times 0, 0.1, 0.5, 1 give width ceil(1/0.1)+1 = 11.
func TestBake_WidthFormula(t *testing.T) {
	c, err := NewScalarCurve([]Frame[float64]{
		{Time: 0, Value: 0},
		{Time: 0.1, Value: 1},
		{Time: 0.5, Value: 0},
		{Time: 1, Value: 1},
	})
	require.NoError(t, err)

	tex, err := BakeScalar(c)
	require.NoError(t, err)

	assert.Equal(t, widthTenthStep, tex.Width)
	assert.Equal(t, gputypes.TextureFormatR32Float, tex.Format)
	assertLookupSampler(t, tex)
}

func TestBake_WidthScalesWithDuration(t *testing.T) {
	// Same shape as the normalized example, stretched to 10 seconds.
	c, err := NewScalarCurve([]Frame[float64]{
		{Time: 0, Value: 0},
		{Time: 2.5, Value: 1},
		{Time: 10, Value: 0},
	})
	require.NoError(t, err)

	tex, err := BakeScalar(c)
	require.NoError(t, err)
	assert.Equal(t, widthQuarterSteps, tex.Width)
	assert.InDelta(t, 10.0, tex.Duration, evalTolerance)
	assert.InDelta(t, 1.0, float64(tex.Pixels[1]), pixelTolerance)
}

// TestBake_WidthNonBinaryDurations checks the width for keyframe times whose
// duration is not a power of two, where normalizing by a reciprocal would
// round one ulp low and add a texel.
func TestBake_WidthNonBinaryDurations(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		want  int
	}{
		{"halves_of_98", []float64{0, 49, 98}, 3},
		{"eleventh_of_187", []float64{0, 17, 187}, 12},
		{"quarter_of_196", []float64{0, 49, 196}, 5},
		{"thirds_of_3", []float64{0, 1, 2, 3}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := make([]Frame[float64], len(tt.times))
			for i, tm := range tt.times {
				frames[i] = Frame[float64]{Time: tm, Value: float64(i)}
			}
			c, err := NewScalarCurve(frames)
			require.NoError(t, err)

			tex, err := BakeScalar(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tex.Width)
			assert.Equal(t, tt.want, GetInfo(nil, c).Width)

			// Pixels still land on the keyframes at the grid endpoints.
			assert.InDelta(t, 0.0, float64(tex.Pixels[0]), pixelTolerance)
			assert.InDelta(t, float64(len(tt.times)-1), float64(tex.Pixels[tex.Width-1]), pixelTolerance)
		})
	}
}

// TestBake_NarrowestGapLast verifies the final keyframe gap takes part in the
// smallest-step search.
func TestBake_NarrowestGapLast(t *testing.T) {
	c, err := NewScalarCurve([]Frame[float64]{
		{Time: 0, Value: 0},
		{Time: 0.75, Value: 1},
		{Time: 1, Value: 0},
	})
	require.NoError(t, err)

	tex, err := BakeScalar(c)
	require.NoError(t, err)
	require.Equal(t, widthQuarterSteps, tex.Width)
	testutil.AssertPixelsNear(t, []float64{0, 1.0 / 3, 2.0 / 3, 1, 0}, tex.Pixels, pixelTolerance)

	info := GetInfo(nil, c)
	assert.InDelta(t, 0.25, info.SmallestStep, evalTolerance)
}

// TestBake_SingleKeyframe verifies the degenerate curve bakes to a constant
// 3-pixel texture.
func TestBake_SingleKeyframe(t *testing.T) {
	t.Run("vector3", func(t *testing.T) {
		c, err := NewVector3Curve([]Frame[r3.Vec]{{Time: 0, Value: r3.Vec{X: 1, Y: 2, Z: 3}}})
		require.NoError(t, err)

		tex, err := BakeVector3(c)
		require.NoError(t, err)

		require.Equal(t, widthSeedOnly, tex.Width)
		assert.Equal(t, gputypes.TextureFormatRGBA32Float, tex.Format)
		for k := range tex.Width {
			testutil.AssertPixelsNear(t, []float64{1, 2, 3, 1}, tex.Pixel(k), pixelTolerance, "pixel %d", k)
		}
	})

	t.Run("scalar", func(t *testing.T) {
		c, err := NewScalarCurve([]Frame[float64]{{Time: 0.75, Value: 4}})
		require.NoError(t, err)

		tex, err := BakeScalar(c)
		require.NoError(t, err)

		require.Equal(t, widthSeedOnly, tex.Width)
		testutil.AssertPixelsNear(t, []float64{4, 4, 4}, tex.Pixels, pixelTolerance)
	})
}

// TestBake_ScalarRoundTrip verifies the baked grid reproduces Evaluate.
func TestBake_ScalarRoundTrip(t *testing.T) {
	c, err := NewScalarCurve([]Frame[float64]{{Time: 0, Value: 0}, {Time: 1, Value: 10}})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, c.Evaluate(0.5), evalTolerance)

	tex, err := BakeScalar(c)
	require.NoError(t, err)
	require.Equal(t, widthSeedOnly, tex.Width)

	mid := tex.Width / 2
	assert.InDelta(t, c.Evaluate(0.5), float64(tex.Pixels[mid]), pixelTolerance)
	testutil.AssertPixelsNear(t, []float64{0, 5, 10}, tex.Pixels, pixelTolerance)
}

func TestBake_GridEndpoints(t *testing.T) {
	c, err := NewScalarCurve(testScalarFrames())
	require.NoError(t, err)

	tex, err := BakeScalar(c)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, float64(tex.Pixels[0]), pixelTolerance)
	assert.InDelta(t, -2.0, float64(tex.Pixels[tex.Width-1]), pixelTolerance)

	for k := range tex.Width {
		tm := float64(k) / float64(tex.Width-1)
		assert.InDelta(t, c.Evaluate(tm), float64(tex.Pixels[k]), pixelTolerance, "pixel %d", k)
	}
}

// TestBakeColor_AlphaWidthWins verifies a finer alpha curve raises the merged
// width and is reproduced exactly in the A channel.
func TestBakeColor_AlphaWidthWins(t *testing.T) {
	color := rampColorCurve(t, evenTimes(4))

	alphaFrames := make([]Frame[float64], widthEighthSteps)
	for i, tm := range evenTimes(8) {
		alphaFrames[i] = Frame[float64]{Time: tm, Value: float64(i % 2)}
	}
	alpha, err := NewScalarCurve(alphaFrames)
	require.NoError(t, err)

	colorInfo := GetInfo(nil, color)
	require.Equal(t, widthQuarterSteps, colorInfo.Width)

	alphaTex, err := BakeScalar(alpha)
	require.NoError(t, err)
	require.Equal(t, widthEighthSteps, alphaTex.Width)

	tex, err := BakeColor(color, alpha)
	require.NoError(t, err)
	require.Equal(t, widthEighthSteps, tex.Width)
	assert.Equal(t, gputypes.TextureFormatRGBA32Float, tex.Format)
	assertLookupSampler(t, tex)

	for k := range tex.Width {
		u := float64(k) / float64(tex.Width-1)
		px := tex.Pixel(k)
		want := color.Evaluate(u)
		testutil.AssertPixelsNear(t, []float64{want.R, want.G, want.B}, px[:3], pixelTolerance, "pixel %d", k)
		assert.InDelta(t, float64(alphaTex.Pixels[k]), float64(px[alphaChannel]), pixelTolerance, "alpha %d", k)
	}
}

func TestBakeColor_ColorWidthWins(t *testing.T) {
	color := rampColorCurve(t, evenTimes(8))
	alpha, err := NewScalarCurve([]Frame[float64]{{Time: 0, Value: 0}, {Time: 1, Value: 1}})
	require.NoError(t, err)

	tex, err := BakeColor(color, alpha)
	require.NoError(t, err)
	require.Equal(t, widthEighthSteps, tex.Width)

	a := testutil.Channel(tex.Pixels, rgbaStride, alphaChannel)
	testutil.AssertMonotonic(t, a)
	for k, v := range a {
		assert.InDelta(t, float64(k)/8, float64(v), pixelTolerance, "alpha %d", k)
	}
}

// TestBakeColor_AlphaNormalizedTime verifies alpha is mapped by normalized
// time even when its duration differs from the color curve's.
func TestBakeColor_AlphaNormalizedTime(t *testing.T) {
	color := rampColorCurve(t, evenTimes(4))
	alpha, err := NewScalarCurve([]Frame[float64]{
		{Time: 0, Value: 1},
		{Time: 1, Value: 0.5},
		{Time: 2, Value: 0},
	})
	require.NoError(t, err)

	tex, err := BakeColor(color, alpha)
	require.NoError(t, err)
	require.Equal(t, widthQuarterSteps, tex.Width)

	a := testutil.Channel(tex.Pixels, rgbaStride, alphaChannel)
	testutil.AssertPixelsNear(t, []float64{1, 0.75, 0.5, 0.25, 0}, a, pixelTolerance)
}

func TestBakeColor_NoAlphaIsOpaque(t *testing.T) {
	tex, err := BakeColor(rampColorCurve(t, evenTimes(4)), nil)
	require.NoError(t, err)

	a := testutil.Channel(tex.Pixels, rgbaStride, alphaChannel)
	testutil.AssertPixelsNear(t, []float64{1, 1, 1, 1, 1}, a, pixelTolerance)

	r := testutil.Channel(tex.Pixels, rgbaStride, 0)
	testutil.AssertPixelsNear(t, []float64{0, 0.25, 0.5, 0.75, 1}, r, pixelTolerance)
	testutil.AssertAllInRange(t, tex.Pixels, 0, 1)
}

func TestBakeRaw_Strides(t *testing.T) {
	tests := []struct {
		name     string
		values   [][]float64
		format   gputypes.TextureFormat
		lastWant []float64
	}{
		{"stride_1", [][]float64{{0}, {2}}, gputypes.TextureFormatR32Float, []float64{2}},
		{"stride_3", [][]float64{{0, 0, 0}, {1, 2, 3}}, gputypes.TextureFormatRGBA32Float, []float64{1, 2, 3, 1}},
		{"stride_4", [][]float64{{0, 0, 0, 0}, {1, 2, 3, 0.5}}, gputypes.TextureFormatRGBA32Float, []float64{1, 2, 3, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewRawCurve([]Frame[[]float64]{
				{Time: 0, Value: tt.values[0]},
				{Time: 1, Value: tt.values[1]},
			})
			require.NoError(t, err)

			tex, err := BakeRaw(c)
			require.NoError(t, err)
			assert.Equal(t, tt.format, tex.Format)
			testutil.AssertPixelsNear(t, tt.lastWant, tex.Pixel(tex.Width-1), pixelTolerance)
		})
	}
}

func TestBake_CoincidentKeyframes(t *testing.T) {
	c, err := NewScalarCurve([]Frame[float64]{
		{Time: 0, Value: 0},
		{Time: 0.5, Value: 0},
		{Time: 0.5, Value: 1},
		{Time: 1, Value: 1},
	})
	require.NoError(t, err)

	tex, err := BakeScalar(c)
	require.NoError(t, err)
	assert.Equal(t, widthSeedOnly, tex.Width)
	testutil.AssertPixelsNear(t, []float64{0, 1, 1}, tex.Pixels, pixelTolerance)
}

func TestBake_NonPositiveDuration(t *testing.T) {
	c, err := NewScalarCurve([]Frame[float64]{
		{Time: -2, Value: 3},
		{Time: -1, Value: 5},
	})
	require.NoError(t, err)

	tex, err := BakeScalar(c)
	require.NoError(t, err)
	assert.Equal(t, widthSeedOnly, tex.Width)
	testutil.AssertNoNaNOrInf(t, tex.Pixels)
}

func TestBaker_MaxWidthClamp(t *testing.T) {
	c, err := NewScalarCurve([]Frame[float64]{
		{Time: 0, Value: 0},
		{Time: 1.0 / 1024, Value: 1},
		{Time: 1, Value: 0},
	})
	require.NoError(t, err)

	info := GetInfo(nil, c)
	assert.Equal(t, widthFineStep, info.Width)
	assert.False(t, info.Clamped)

	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	b, err := NewBaker(&Config{MaxWidth: testMaxWidth})
	require.NoError(t, err)

	tex, err := b.BakeScalar(c)
	require.NoError(t, err)
	assert.Equal(t, testMaxWidth, tex.Width)
	assert.True(t, GetInfo(b, c).Clamped)
	assert.Contains(t, logs.String(), "texture width clamped")
	assert.Contains(t, logs.String(), "baked texture")
}

func TestBaker_SeedStep(t *testing.T) {
	c, err := NewScalarCurve([]Frame[float64]{{Time: 0, Value: 1}})
	require.NoError(t, err)

	b, err := NewBaker(&Config{SeedStep: 0.125})
	require.NoError(t, err)

	tex, err := b.BakeScalar(c)
	require.NoError(t, err)
	assert.Equal(t, widthEighthSteps, tex.Width)

	// The largest seed still leaves both grid endpoints.
	b, err = NewBaker(&Config{SeedStep: 1})
	require.NoError(t, err)
	tex, err = b.BakeScalar(c)
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width)
}

func TestBake_NilCurves(t *testing.T) {
	_, err := BakeScalar(nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = BakeVector3(nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = BakeColor(nil, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = BakeRaw(nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBake_Vector3(t *testing.T) {
	c, err := NewVector3Curve(testVectorFrames())
	require.NoError(t, err)

	tex, err := BakeVector3(c)
	require.NoError(t, err)
	require.Equal(t, widthSeedOnly, tex.Width)
	assertLookupSampler(t, tex)

	testutil.AssertPixelsNear(t, []float64{1, -2, 4, 1}, tex.Pixel(1), pixelTolerance)
}

func BenchmarkBakeColor(b *testing.B) {
	frames := make([]Frame[Color], 64)
	for i := range frames {
		frames[i] = Frame[Color]{Time: float64(i) / 63, Value: Color{R: float64(i % 2)}}
	}
	color, err := NewColorCurve(frames)
	require.NoError(b, err)
	alpha, err := NewScalarCurve([]Frame[float64]{{Time: 0, Value: 1}, {Time: 1, Value: 0}})
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = BakeColor(color, alpha)
	}
}

package curvetex

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/tphakala/go-curve-texture/internal/mathutil"
	"github.com/tphakala/go-curve-texture/internal/simdops"
)

// Texture is a baked curve: a Width×1 float texture sampled uniformly over
// [0, Duration], ascending in time.
//
// The texture is a plain description for a rendering engine to upload; it
// holds no reference to the curve that produced it.
type Texture struct {
	Width  int
	Height int

	// Format is TextureFormatR32Float for scalar curves and
	// TextureFormatRGBA32Float for vector and color curves.
	Format gputypes.TextureFormat

	MinFilter    gputypes.FilterMode
	MagFilter    gputypes.FilterMode
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode

	// Duration is the curve time covered by the last pixel. The first pixel
	// is at time 0.
	Duration float64

	// Pixels holds Width*Channels() values, channels interleaved.
	Pixels []float32
}

func newTexture(width int, format gputypes.TextureFormat, duration float64) *Texture {
	tex := &Texture{
		Width:        width,
		Height:       textureHeight,
		Format:       format,
		MinFilter:    gputypes.FilterModeLinear,
		MagFilter:    gputypes.FilterModeLinear,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		Duration:     duration,
	}
	tex.Pixels = make([]float32, width*tex.Channels())
	return tex
}

// Channels returns the number of float channels per pixel.
func (t *Texture) Channels() int {
	if t.Format == gputypes.TextureFormatRGBA32Float {
		return rgbaStride
	}
	return scalarStride
}

// Pixel returns a copy of the channels of pixel k.
func (t *Texture) Pixel(k int) []float32 {
	ch := t.Channels()
	out := make([]float32, ch)
	copy(out, t.Pixels[k*ch:(k+1)*ch])
	return out
}

// Extent returns the texture size for a device texture descriptor.
func (t *Texture) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(t.Width),
		Height:             uint32(t.Height),
		DepthOrArrayLayers: 1,
	}
}

// Usage returns the usage flags a sampled lookup texture needs.
func (t *Texture) Usage() gputypes.TextureUsage {
	return gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
}

// BytesPerRow returns the size of one texture row in bytes.
func (t *Texture) BytesPerRow() int {
	return t.Width * t.Channels() * bytesPerChannel
}

// Bytes returns the pixels as little-endian float32 data, ready for upload.
func (t *Texture) Bytes() []byte {
	buf := make([]byte, 0, len(t.Pixels)*bytesPerChannel)
	for _, v := range t.Pixels {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// Coord returns the horizontal texture coordinate a shader should sample to
// read the curve at time. With linear filtering the lookup reproduces the
// baked samples: pixel k's center maps to time k/(Width-1)*Duration.
func (t *Texture) Coord(time float64) float64 {
	u := 0.0
	if t.Duration > 0 {
		u = mathutil.InverseLerp(0, t.Duration, time)
	}
	// Texel centers span [0.5/W, 1-0.5/W].
	half := texelCenterShift / float64(t.Width)
	return mathutil.Remap(0, 1, half, 1-half, u)
}

// ChannelMean returns the average of channel c across all pixels.
func (t *Texture) ChannelMean(c int) float32 {
	ch := t.Channels()
	if c < 0 || c >= ch || t.Width == 0 {
		return 0
	}

	values := make([]float32, t.Width)
	for k := range values {
		values[k] = t.Pixels[k*ch+c]
	}
	return simdops.For[float32]().Sum(values) / float32(t.Width)
}

package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	curvetex "github.com/tphakala/go-curve-texture"
	"github.com/tphakala/go-curve-texture/internal/curvefile"
	"github.com/tphakala/go-curve-texture/internal/mathutil"
)

// writeOptions controls which files writeBaked produces.
type writeOptions struct {
	dir     string
	wav     bool
	wavRate int
}

// descriptor is the sidecar written next to each texel dump.
type descriptor struct {
	Name        string  `yaml:"name"`
	Kind        string  `yaml:"kind"`
	Data        string  `yaml:"data"`
	Format      string  `yaml:"format"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Channels    int     `yaml:"channels"`
	BytesPerRow int     `yaml:"bytes_per_row"`
	Duration    float64 `yaml:"duration"`
	MinFilter   string  `yaml:"min_filter"`
	MagFilter   string  `yaml:"mag_filter"`
	AddressU    string  `yaml:"address_mode_u"`
	AddressV    string  `yaml:"address_mode_v"`
}

// writeBaked writes the texel dump, the descriptor and, if requested, the
// WAV preview of one baked curve.
func writeBaked(b curvefile.Baked, opts writeOptions) error {
	if err := os.MkdirAll(opts.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	binName := b.Name + binExt
	if err := os.WriteFile(filepath.Join(opts.dir, binName), b.Texture.Bytes(), filePerm); err != nil {
		return fmt.Errorf("failed to write texture data: %w", err)
	}

	data, err := yaml.Marshal(newDescriptor(b, binName))
	if err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.dir, b.Name+descriptorExt), data, filePerm); err != nil {
		return fmt.Errorf("failed to write descriptor: %w", err)
	}

	if opts.wav {
		if err := writePreview(filepath.Join(opts.dir, b.Name+wavExt), b.Texture, opts.wavRate); err != nil {
			return err
		}
	}
	return nil
}

func newDescriptor(b curvefile.Baked, binName string) descriptor {
	tex := b.Texture
	return descriptor{
		Name:        b.Name,
		Kind:        string(b.Kind),
		Data:        binName,
		Format:      formatName(tex.Format),
		Width:       tex.Width,
		Height:      tex.Height,
		Channels:    tex.Channels(),
		BytesPerRow: tex.BytesPerRow(),
		Duration:    tex.Duration,
		MinFilter:   filterName(tex.MinFilter),
		MagFilter:   filterName(tex.MagFilter),
		AddressU:    addressName(tex.AddressModeU),
		AddressV:    addressName(tex.AddressModeV),
	}
}

// formatName returns the WebGPU spelling of the texture formats the baker
// produces.
func formatName(f gputypes.TextureFormat) string {
	switch f {
	case gputypes.TextureFormatR32Float:
		return "r32float"
	case gputypes.TextureFormatRGBA32Float:
		return "rgba32float"
	default:
		return fmt.Sprintf("unknown(%v)", f)
	}
}

func filterName(m gputypes.FilterMode) string {
	switch m {
	case gputypes.FilterModeLinear:
		return "linear"
	default:
		return fmt.Sprintf("unknown(%v)", m)
	}
}

func addressName(m gputypes.AddressMode) string {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return "clamp-to-edge"
	default:
		return fmt.Sprintf("unknown(%v)", m)
	}
}

// previewSamples returns how many WAV frames a texture is stretched over:
// its duration in seconds at rate, but at least one frame per texel and at
// most maxPreviewLength seconds.
func previewSamples(tex *curvetex.Texture, rate int) int {
	n := int(math.Round(tex.Duration * float64(rate)))
	n = min(n, int(maxPreviewLength*float64(rate)))
	return max(n, tex.Width)
}

// previewData stretches the texels over n frames with nearest sampling and
// converts them to interleaved 16-bit PCM, one WAV channel per texture
// channel. Values outside [-1, 1] are clipped.
func previewData(tex *curvetex.Texture, n int) []int {
	channels := tex.Channels()
	data := make([]int, n*channels)
	for i := range n {
		texel := i * tex.Width / n
		for ch := range channels {
			v := mathutil.Clamp(float64(tex.Pixels[texel*channels+ch]), -1, 1)
			data[i*channels+ch] = int(v * maxInt16)
		}
	}
	return data
}

// writePreview renders tex as a WAV file.
func writePreview(path string, tex *curvetex.Texture, rate int) (err error) {
	if rate <= 0 {
		return fmt.Errorf("invalid WAV sample rate %d", rate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV preview: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	channels := tex.Channels()
	enc := wav.NewEncoder(f, rate, wavBitDepth, channels, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           previewData(tex, previewSamples(tex, rate)),
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV preview: %w", err)
	}
	// Close patches the RIFF header sizes.
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV preview: %w", err)
	}
	return nil
}

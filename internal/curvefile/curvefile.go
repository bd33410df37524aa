// Package curvefile decodes YAML curve assets and bakes every curve they
// describe.
//
// An asset lists named curves. Each curve is either keyed explicitly or
// generated from an easing function:
//
//	bake:
//	  max_width: 1024
//	curves:
//	  - name: tint
//	    kind: color
//	    alpha: fade
//	    keyframes:
//	      - {time: 0, value: "#ff8000"}
//	      - {time: 1, value: [0.2, 0.4, 1]}
//	  - name: fade
//	    ease: {name: outQuad, from: 1, to: 0, samples: 16}
package curvefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	curvetex "github.com/tphakala/go-curve-texture"
)

// ErrInvalidAsset indicates a structurally invalid curve asset.
var ErrInvalidAsset = errors.New("invalid curve asset")

// Kind names the value type of a curve.
type Kind string

// Supported curve kinds.
const (
	KindScalar  Kind = "scalar"
	KindVector3 Kind = "vector3"
	KindColor   Kind = "color"
	KindRaw     Kind = "raw"
)

// Defaults applied to omitted fields.
const (
	defaultEaseName     = "linear"
	defaultEaseDuration = 1.0
	defaultEaseSamples  = 16
)

// Asset is a decoded curve file.
type Asset struct {
	BakeConfig BakeConfig `yaml:"bake"`
	Curves     []CurveDef `yaml:"curves"`
}

// BakeConfig mirrors curvetex.Config. Zero values select library defaults.
type BakeConfig struct {
	SeedStep float64 `yaml:"seed_step,omitempty"`
	MaxWidth int     `yaml:"max_width,omitempty"`
}

// CurveDef describes one curve.
type CurveDef struct {
	Name      string        `yaml:"name"`
	Kind      Kind          `yaml:"kind"`
	Alpha     string        `yaml:"alpha,omitempty"` // name of a scalar curve, color curves only
	Keyframes []KeyframeDef `yaml:"keyframes,omitempty"`
	Ease      *EaseDef      `yaml:"ease,omitempty"`
}

// KeyframeDef is a single keyframe.
type KeyframeDef struct {
	Time  float64 `yaml:"time"`
	Value Value   `yaml:"value"`
}

// EaseDef generates scalar keyframes by sampling an easing function.
type EaseDef struct {
	Name     string  `yaml:"name"`
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Duration float64 `yaml:"duration"`
	Samples  int     `yaml:"samples"`
}

// Load reads and parses a curve asset from path.
func Load(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curve asset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a curve asset, applies defaults and validates it.
func Parse(data []byte) (*Asset, error) {
	var asset Asset
	if err := yaml.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	asset.applyDefaults()

	if err := asset.Validate(); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (a *Asset) applyDefaults() {
	for i := range a.Curves {
		c := &a.Curves[i]
		if c.Kind == "" {
			c.Kind = KindScalar
		}
		if c.Ease == nil {
			continue
		}
		if c.Ease.Name == "" {
			c.Ease.Name = defaultEaseName
		}
		if c.Ease.Duration == 0 {
			c.Ease.Duration = defaultEaseDuration
		}
		if c.Ease.Samples == 0 {
			c.Ease.Samples = defaultEaseSamples
		}
	}
}

// Validate checks names, kinds and alpha references. Keyframe values are
// checked when curves are built.
func (a *Asset) Validate() error {
	if len(a.Curves) == 0 {
		return fmt.Errorf("%w: no curves", ErrInvalidAsset)
	}

	seen := make(map[string]bool, len(a.Curves))
	for i := range a.Curves {
		c := &a.Curves[i]
		if c.Name == "" {
			return fmt.Errorf("%w: curve %d has no name", ErrInvalidAsset, i)
		}
		if !validName(c.Name) {
			return fmt.Errorf("%w: curve name %q must be a plain file name", ErrInvalidAsset, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate curve name %q", ErrInvalidAsset, c.Name)
		}
		seen[c.Name] = true

		switch c.Kind {
		case KindScalar, KindVector3, KindColor, KindRaw:
		default:
			return fmt.Errorf("%w: curve %q has unknown kind %q", ErrInvalidAsset, c.Name, c.Kind)
		}

		if (len(c.Keyframes) > 0) == (c.Ease != nil) {
			return fmt.Errorf("%w: curve %q needs either keyframes or ease", ErrInvalidAsset, c.Name)
		}
		if c.Ease != nil && c.Kind != KindScalar {
			return fmt.Errorf("%w: curve %q: ease is only valid for scalar curves", ErrInvalidAsset, c.Name)
		}
	}

	for i := range a.Curves {
		c := &a.Curves[i]
		if c.Alpha == "" {
			continue
		}
		if c.Kind != KindColor {
			return fmt.Errorf("%w: curve %q: alpha is only valid for color curves", ErrInvalidAsset, c.Name)
		}
		ref := a.Curve(c.Alpha)
		if ref == nil {
			return fmt.Errorf("%w: curve %q: alpha curve %q not found", ErrInvalidAsset, c.Name, c.Alpha)
		}
		if ref.Kind != KindScalar {
			return fmt.Errorf("%w: curve %q: alpha curve %q is not scalar", ErrInvalidAsset, c.Name, c.Alpha)
		}
	}

	return nil
}

// validName reports whether name can be used as an output file stem: no
// path separators, not "." or "..".
func validName(name string) bool {
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return false
	}
	return filepath.IsLocal(name)
}

// Curve returns the curve with the given name, or nil.
func (a *Asset) Curve(name string) *CurveDef {
	for i := range a.Curves {
		if a.Curves[i].Name == name {
			return &a.Curves[i]
		}
	}
	return nil
}

// Config returns the baker configuration requested by the asset.
func (a *Asset) Config() curvetex.Config {
	return curvetex.Config{
		SeedStep: a.BakeConfig.SeedStep,
		MaxWidth: a.BakeConfig.MaxWidth,
	}
}

// Frames returns the curve's keyframes as channel slices.
func (d *CurveDef) Frames() ([]curvetex.Frame[[]float64], error) {
	if d.Ease != nil {
		fn, ok := curvetex.EaseFunc(d.Ease.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown easing %q", ErrInvalidAsset, d.Ease.Name)
		}
		eased, err := curvetex.EasedFrames(d.Ease.From, d.Ease.To, d.Ease.Duration, d.Ease.Samples, fn)
		if err != nil {
			return nil, err
		}
		frames := make([]curvetex.Frame[[]float64], len(eased))
		for i, f := range eased {
			frames[i] = curvetex.Frame[[]float64]{Time: f.Time, Value: []float64{f.Value}}
		}
		return frames, nil
	}

	frames := make([]curvetex.Frame[[]float64], len(d.Keyframes))
	for i, k := range d.Keyframes {
		frames[i] = curvetex.Frame[[]float64]{Time: k.Time, Value: []float64(k.Value)}
	}
	return frames, nil
}

package curvefile

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	curvetex "github.com/tphakala/go-curve-texture"
)

// Baked is one baked curve of an asset.
type Baked struct {
	Name    string
	Kind    Kind
	Texture *curvetex.Texture
}

// Bake bakes every curve in the asset, in file order. Scalar curves that
// are only used as alpha for a color curve are still baked on their own.
// A nil baker is built from the asset's bake section.
func (a *Asset) Bake(b *curvetex.Baker) ([]Baked, error) {
	b, err := a.baker(b)
	if err != nil {
		return nil, err
	}

	out := make([]Baked, 0, len(a.Curves))
	for i := range a.Curves {
		def := &a.Curves[i]
		tex, err := a.bakeCurve(b, def)
		if err != nil {
			return nil, fmt.Errorf("curve %q: %w", def.Name, err)
		}
		out = append(out, Baked{Name: def.Name, Kind: def.Kind, Texture: tex})
	}
	return out, nil
}

// BakeParallel is Bake with one goroutine per curve. Every goroutine builds
// its own curves, so only the baker is shared. Results keep file order; the
// first failing curve in file order is reported.
func (a *Asset) BakeParallel(b *curvetex.Baker) ([]Baked, error) {
	b, err := a.baker(b)
	if err != nil {
		return nil, err
	}

	out := make([]Baked, len(a.Curves))
	errs := make([]error, len(a.Curves))
	var wg sync.WaitGroup

	for i := range a.Curves {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			def := &a.Curves[idx]
			tex, err := a.bakeCurve(b, def)
			if err != nil {
				errs[idx] = fmt.Errorf("curve %q: %w", def.Name, err)
				return
			}
			out[idx] = Baked{Name: def.Name, Kind: def.Kind, Texture: tex}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *Asset) baker(b *curvetex.Baker) (*curvetex.Baker, error) {
	if b != nil {
		return b, nil
	}
	config := a.Config()
	return curvetex.NewBaker(&config)
}

func (a *Asset) bakeCurve(b *curvetex.Baker, def *CurveDef) (*curvetex.Texture, error) {
	frames, err := def.Frames()
	if err != nil {
		return nil, err
	}

	switch def.Kind {
	case KindScalar:
		c, err := scalarCurve(frames)
		if err != nil {
			return nil, err
		}
		return b.BakeScalar(c)

	case KindVector3:
		c, err := vector3Curve(frames)
		if err != nil {
			return nil, err
		}
		return b.BakeVector3(c)

	case KindColor:
		c, err := colorCurve(frames)
		if err != nil {
			return nil, err
		}
		var alpha *curvetex.ScalarCurve
		if def.Alpha != "" {
			alphaFrames, err := a.Curve(def.Alpha).Frames()
			if err != nil {
				return nil, fmt.Errorf("alpha: %w", err)
			}
			if alpha, err = scalarCurve(alphaFrames); err != nil {
				return nil, fmt.Errorf("alpha: %w", err)
			}
		}
		return b.BakeColor(c, alpha)

	default:
		c, err := curvetex.NewRawCurve(frames)
		if err != nil {
			return nil, err
		}
		return b.BakeRaw(c)
	}
}

func checkChannels(frames []curvetex.Frame[[]float64], want int) error {
	for i, f := range frames {
		if len(f.Value) != want {
			return fmt.Errorf("%w: keyframe %d has %d channels, want %d",
				curvetex.ErrDimensionMismatch, i, len(f.Value), want)
		}
	}
	return nil
}

func scalarCurve(frames []curvetex.Frame[[]float64]) (*curvetex.ScalarCurve, error) {
	if err := checkChannels(frames, 1); err != nil {
		return nil, err
	}
	typed := make([]curvetex.Frame[float64], len(frames))
	for i, f := range frames {
		typed[i] = curvetex.Frame[float64]{Time: f.Time, Value: f.Value[0]}
	}
	return curvetex.NewScalarCurve(typed)
}

func vector3Curve(frames []curvetex.Frame[[]float64]) (*curvetex.Vector3Curve, error) {
	if err := checkChannels(frames, 3); err != nil {
		return nil, err
	}
	typed := make([]curvetex.Frame[r3.Vec], len(frames))
	for i, f := range frames {
		typed[i] = curvetex.Frame[r3.Vec]{Time: f.Time, Value: r3.Vec{X: f.Value[0], Y: f.Value[1], Z: f.Value[2]}}
	}
	return curvetex.NewVector3Curve(typed)
}

func colorCurve(frames []curvetex.Frame[[]float64]) (*curvetex.ColorCurve, error) {
	if err := checkChannels(frames, 3); err != nil {
		return nil, err
	}
	typed := make([]curvetex.Frame[curvetex.Color], len(frames))
	for i, f := range frames {
		typed[i] = curvetex.Frame[curvetex.Color]{
			Time:  f.Time,
			Value: curvetex.Color{R: f.Value[0], G: f.Value[1], B: f.Value[2]},
		}
	}
	return curvetex.NewColorCurve(typed)
}

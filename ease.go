package curvetex

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/floats"
)

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"outbounce":  ease.OutBounce,
}

// EaseFunc looks up an easing function by name, ignoring case, dashes and
// underscores ("outQuad", "out-quad" and "OUT_QUAD" are equivalent).
func EaseFunc(name string) (ease.TweenFunc, bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
	fn, ok := easings[key]
	return fn, ok
}

// EasedFrames samples an easing function into evenly spaced scalar keyframes
// going from `from` to `to` over [0, duration]. The linear curve through the
// keyframes approximates the easing; more samples give a closer fit.
func EasedFrames(from, to, duration float64, samples int, fn ease.TweenFunc) ([]Frame[float64], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: easing function is nil", ErrInvalidInput)
	}
	if samples < minWidth {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrInvalidInput, minWidth, samples)
	}
	if !(duration > 0) {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidInput, duration)
	}

	frames := make([]Frame[float64], samples)
	for i, t := range floats.Span(make([]float64, samples), 0, duration) {
		v := fn(float32(t), float32(from), float32(to-from), float32(duration))
		frames[i] = Frame[float64]{Time: t, Value: float64(v)}
	}

	// Pin the endpoints exactly; the easing runs in float32.
	frames[0].Value = from
	frames[samples-1].Value = to

	return frames, nil
}

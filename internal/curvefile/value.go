package curvefile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Hex color lengths, without the leading '#'.
const (
	hexRGBLen  = 6
	hexRGBALen = 8
	hexMax     = 255.0
)

// Value is a keyframe value: one to four channels.
//
// In YAML it may be written as a number (scalar), a sequence ([x, y, z]),
// a mapping with x/y/z or r/g/b[/a] keys, or a hex color string ("#rrggbb"
// or "#rrggbbaa").
type Value []float64

var (
	vectorKeys = []string{"x", "y", "z"}
	colorKeys  = []string{"r", "g", "b", "a"}
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if strings.HasPrefix(node.Value, "#") {
			channels, err := parseHexColor(node.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", node.Line, err)
			}
			*v = channels
			return nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = Value{f}
		return nil

	case yaml.SequenceNode:
		var channels []float64
		if err := node.Decode(&channels); err != nil {
			return err
		}
		*v = channels
		return nil

	case yaml.MappingNode:
		var m map[string]float64
		if err := node.Decode(&m); err != nil {
			return err
		}
		channels, err := fromMapping(m)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*v = channels
		return nil

	default:
		return fmt.Errorf("line %d: unsupported keyframe value", node.Line)
	}
}

// MarshalYAML writes single-channel values as plain numbers.
func (v Value) MarshalYAML() (any, error) {
	if len(v) == 1 {
		return v[0], nil
	}
	return []float64(v), nil
}

func fromMapping(m map[string]float64) (Value, error) {
	for _, keys := range [][]string{vectorKeys, colorKeys} {
		if _, ok := m[keys[0]]; !ok {
			continue
		}
		out := make(Value, 0, len(keys))
		for _, k := range keys {
			f, ok := m[k]
			if !ok {
				break
			}
			out = append(out, f)
		}
		if len(out) != len(m) {
			return nil, fmt.Errorf("unexpected keys in keyframe value %v", m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("keyframe value mapping needs x/y/z or r/g/b keys, got %v", m)
}

func parseHexColor(s string) (Value, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != hexRGBLen && len(hex) != hexRGBALen {
		return nil, fmt.Errorf("invalid hex color %q", s)
	}

	out := make(Value, 0, len(hex)/2)
	for i := 0; i < len(hex); i += 2 {
		b, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		out = append(out, float64(b)/hexMax)
	}
	return out, nil
}

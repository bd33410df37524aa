package curvetex

import (
	"fmt"
	"math"
)

// Config holds texture baking configuration.
type Config struct {
	// SeedStep is the initial upper bound for the smallest normalized gap
	// between keyframes. It caps the coarsest resolution: a curve with no
	// narrower gap bakes to ceil(1/SeedStep)+1 pixels.
	// Must be in (0, 1]. Zero selects DefaultSeedStep.
	SeedStep float64

	// MaxWidth caps the baked texture width. Keyframes packed closer than
	// 1/MaxWidth of the duration are under-sampled once the cap applies.
	// Must be at least 2. Zero selects DefaultMaxWidth.
	MaxWidth int
}

// DefaultConfig returns the configuration used by the package-level Bake
// functions.
func DefaultConfig() Config {
	return Config{
		SeedStep: DefaultSeedStep,
		MaxWidth: DefaultMaxWidth,
	}
}

// Validate checks if the configuration is valid. Zero fields are accepted and
// replaced by defaults in NewBaker.
func (c *Config) Validate() error {
	if math.IsNaN(c.SeedStep) || c.SeedStep < 0 || c.SeedStep > maxSeedStep {
		return fmt.Errorf("%w: seed step must be in (0, %g], got %g", ErrInvalidConfig, maxSeedStep, c.SeedStep)
	}

	if c.MaxWidth != 0 && c.MaxWidth < minWidth {
		return fmt.Errorf("%w: max width must be at least %d, got %d", ErrInvalidConfig, minWidth, c.MaxWidth)
	}

	return nil
}

// withDefaults returns a copy of c with zero fields filled in.
func (c Config) withDefaults() Config {
	if c.SeedStep == 0 {
		c.SeedStep = DefaultSeedStep
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = DefaultMaxWidth
	}
	return c
}

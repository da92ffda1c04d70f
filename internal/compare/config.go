package compare

import (
	"fmt"
	"time"
)

// Config holds the tunables of the comparison engine.
// It is loaded from the "compare" section of the service configuration.
type Config struct {
	// Eligibility radius
	DefaultMaxDistance float64   `mapstructure:"default_max_distance"`
	AllowedDistances   []float64 `mapstructure:"allowed_distances"`

	// Fallback ladder
	ExpandedRadius float64 `mapstructure:"expanded_radius"`
	NearestLimit   int     `mapstructure:"nearest_limit"`

	// Memoization of computed results (0 disables)
	MemoSize int           `mapstructure:"memo_size"`
	MemoTTL  time.Duration `mapstructure:"memo_ttl"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		DefaultMaxDistance: 10,
		AllowedDistances:   []float64{1, 3, 5, 10, 15, 20},
		ExpandedRadius:     25,
		NearestLimit:       10,
		MemoSize:           256,
		MemoTTL:            5 * time.Minute,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.AllowedDistances) == 0 {
		return ErrInvalidConfig{Field: "allowed_distances", Reason: "must not be empty"}
	}
	for i, d := range c.AllowedDistances {
		if d <= 0 {
			return ErrInvalidConfig{Field: "allowed_distances", Reason: fmt.Sprintf("value at index %d must be positive", i)}
		}
	}
	if !c.isAllowedDistance(c.DefaultMaxDistance) {
		return ErrInvalidConfig{Field: "default_max_distance", Reason: "must be one of allowed_distances"}
	}
	if c.ExpandedRadius <= c.maxAllowedDistance() {
		return ErrInvalidConfig{Field: "expanded_radius", Reason: "must exceed every allowed distance"}
	}
	if c.NearestLimit < 1 {
		return ErrInvalidConfig{Field: "nearest_limit", Reason: "must be at least 1"}
	}
	if c.MemoSize < 0 {
		return ErrInvalidConfig{Field: "memo_size", Reason: "must be non-negative"}
	}
	if c.MemoSize > 0 && c.MemoTTL <= 0 {
		return ErrInvalidConfig{Field: "memo_ttl", Reason: "must be positive when memo is enabled"}
	}
	return nil
}

// ResolveMaxDistance applies the default radius and rejects values outside the allowed set.
func (c *Config) ResolveMaxDistance(d float64) (float64, error) {
	if d == 0 {
		return c.DefaultMaxDistance, nil
	}
	if !c.isAllowedDistance(d) {
		return 0, ErrInvalidRequest{Field: "maxDistance", Reason: fmt.Sprintf("must be one of %v", c.AllowedDistances)}
	}
	return d, nil
}

func (c *Config) isAllowedDistance(d float64) bool {
	for _, a := range c.AllowedDistances {
		if a == d {
			return true
		}
	}
	return false
}

func (c *Config) maxAllowedDistance() float64 {
	m := 0.0
	for _, d := range c.AllowedDistances {
		if d > m {
			m = d
		}
	}
	return m
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}

package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"Empty allowed distances", func(c *Config) { c.AllowedDistances = nil }, "allowed_distances"},
		{"Non-positive allowed distance", func(c *Config) { c.AllowedDistances = []float64{0, 10} }, "allowed_distances"},
		{"Default not allowed", func(c *Config) { c.DefaultMaxDistance = 7 }, "default_max_distance"},
		{"Expanded radius too small", func(c *Config) { c.ExpandedRadius = 20 }, "expanded_radius"},
		{"Nearest limit zero", func(c *Config) { c.NearestLimit = 0 }, "nearest_limit"},
		{"Negative memo size", func(c *Config) { c.MemoSize = -1 }, "memo_size"},
		{"Memo without TTL", func(c *Config) { c.MemoTTL = 0 }, "memo_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			var invalid ErrInvalidConfig
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestResolveMaxDistance(t *testing.T) {
	c := Defaults()

	d, err := c.ResolveMaxDistance(0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, d)

	for _, allowed := range []float64{1, 3, 5, 10, 15, 20} {
		d, err := c.ResolveMaxDistance(allowed)
		require.NoError(t, err)
		assert.Equal(t, allowed, d)
	}

	_, err = c.ResolveMaxDistance(25)
	assert.True(t, IsInvalidRequest(err))
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"Defaults", func(c *Config) {}, ""},
		{"File source without path", func(c *Config) { c.Path = "" }, "path"},
		{"HTTP source without url", func(c *Config) { c.Source = SourceHTTP }, "url"},
		{"Postgres source", func(c *Config) { c.Source = SourcePostgres }, ""},
		{"Unknown source", func(c *Config) { c.Source = "ftp" }, "source"},
		{"Zero load timeout", func(c *Config) { c.LoadTimeout = 0 }, "load_timeout"},
		{"Negative refresh", func(c *Config) { c.RefreshInterval = -1 }, "refresh_interval"},
		{"No failures allowed", func(c *Config) { c.MaxFailures = 0 }, "max_failures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr ErrInvalidConfig
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestNewProvider(t *testing.T) {
	c := DefaultConfig()
	p, err := NewProvider(c, nil)
	require.NoError(t, err)
	assert.Equal(t, "file", p.Name())

	c.Source = SourceHTTP
	c.URL = "https://example.com/catalog.json"
	p, err = NewProvider(c, nil)
	require.NoError(t, err)
	assert.Equal(t, "http", p.Name())

	c.Source = SourcePostgres
	_, err = NewProvider(c, nil)
	assert.Error(t, err)

	c.Source = "ftp"
	_, err = NewProvider(c, nil)
	assert.Error(t, err)
}

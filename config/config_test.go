package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/compare-service/internal/catalog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "PORT", "HOST", "LOG_LEVEL", "INTERNAL_API_KEY", "CATALOG_PATH", "GEOCODER_API_KEY", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", "server:\n  port: 3000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	assert.Equal(t, catalog.SourceFile, cfg.Catalog.Source)
	assert.Equal(t, 10.0, cfg.Compare.DefaultMaxDistance)
	assert.Equal(t, []float64{1, 3, 5, 10, 15, 20}, cfg.Compare.AllowedDistances)
	assert.Equal(t, 25.0, cfg.Compare.ExpandedRadius)
	assert.Equal(t, 10, cfg.Compare.NearestLimit)
	assert.Equal(t, 30*time.Second, cfg.Catalog.LoadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Nil(t, cfg.DefaultLocation.UserLocation())
	assert.Same(t, cfg, Get())
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  port: 8088
catalog:
  source: http
  url: https://catalog.example.com/catalog.json
  refresh_interval: 10m
compare:
  default_max_distance: 5
  allowed_distances: [5, 10]
  expanded_radius: 30
default_location:
  city: Austin
  state: TX
  zip_code: "78701"
  latitude: 30.27
  longitude: -97.74
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, catalog.SourceHTTP, cfg.Catalog.Source)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.RefreshInterval)
	assert.Equal(t, []float64{5, 10}, cfg.Compare.AllowedDistances)
	assert.Equal(t, 30.0, cfg.Compare.ExpandedRadius)

	loc := cfg.DefaultLocation.UserLocation()
	require.NotNil(t, loc)
	assert.Equal(t, "TX", loc.State)
	require.NotNil(t, loc.ZipCode)
	assert.Equal(t, "78701", *loc.ZipCode)
	assert.InDelta(t, -97.74, loc.Coordinates.Longitude, 1e-9)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", "logging:\n  level: warn\n")

	t.Setenv("PORT", "9090")
	t.Setenv("INTERNAL_API_KEY", "secret")
	t.Setenv("COMPARE_SERVICE_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Auth.InternalAPIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"postgres source without database", "catalog:\n  source: postgres\n", "database.url"},
		{"unknown source", "catalog:\n  source: ftp\n", "invalid catalog config"},
		{"default radius not allowed", "compare:\n  default_max_distance: 7\n", "invalid compare config"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	t.Setenv("COMPARE_TEST_EXISTING", "kept")
	os.Unsetenv("COMPARE_TEST_NEW")
	t.Cleanup(func() { os.Unsetenv("COMPARE_TEST_NEW") })

	path := writeFile(t, t.TempDir(), ".env", `
# comment
export COMPARE_TEST_NEW="from-file"
COMPARE_TEST_EXISTING=overwritten
not a pair
`)

	require.NoError(t, loadDotEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("COMPARE_TEST_NEW"))
	assert.Equal(t, "kept", os.Getenv("COMPARE_TEST_EXISTING"))
}

func TestDatabasePoolConfig(t *testing.T) {
	d := DatabaseConfig{URL: "postgres://x", MaxConnections: 4, MinConnections: 1, MaxConnLifetime: time.Hour}
	p := d.PoolConfig()
	assert.Equal(t, "postgres://x", p.URL)
	assert.Equal(t, 4, p.MaxConns)
	assert.Equal(t, 1, p.MinConns)
	assert.Equal(t, time.Hour, p.MaxLifetime)
}

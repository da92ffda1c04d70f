package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kosarica/compare-service/internal/catalog"
	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/database"
	"github.com/kosarica/compare-service/internal/location"
	"github.com/kosarica/compare-service/internal/middleware"
	"github.com/kosarica/compare-service/internal/telemetry"
)

// EnvPrefix prefixes every environment override, e.g. COMPARE_SERVICE_SERVER_PORT.
const EnvPrefix = "COMPARE_SERVICE"

// Config holds the application configuration
type Config struct {
	Server          ServerConfig                 `mapstructure:"server"`
	Database        DatabaseConfig               `mapstructure:"database"`
	Auth            AuthConfig                   `mapstructure:"auth"`
	RateLimit       middleware.RateLimiterConfig `mapstructure:"rate_limit"`
	Catalog         catalog.Config               `mapstructure:"catalog"`
	Compare         compare.Config               `mapstructure:"compare"`
	Geocoder        location.GeocoderConfig      `mapstructure:"geocoder"`
	DefaultLocation DefaultLocationConfig        `mapstructure:"default_location"`
	Logging         LoggingConfig                `mapstructure:"logging"`
	Telemetry       telemetry.Config             `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database connection configuration.
// The database is optional unless the catalog source is postgres.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// PoolConfig converts to the pool settings.
func (d DatabaseConfig) PoolConfig() database.PoolConfig {
	return database.PoolConfig{
		URL:         d.URL,
		MaxConns:    d.MaxConnections,
		MinConns:    d.MinConnections,
		MaxLifetime: d.MaxConnLifetime,
		MaxIdleTime: d.MaxConnIdleTime,
	}
}

// AuthConfig holds the shared key guarding internal routes.
type AuthConfig struct {
	InternalAPIKey string `mapstructure:"internal_api_key"`
}

// DefaultLocationConfig is the location used when the location service
// cannot resolve one. It is disabled while State is empty.
type DefaultLocationConfig struct {
	City      string  `mapstructure:"city"`
	State     string  `mapstructure:"state"`
	ZipCode   string  `mapstructure:"zip_code"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// UserLocation returns the configured location, or nil when none is set.
func (d DefaultLocationConfig) UserLocation() *compare.UserLocation {
	if strings.TrimSpace(d.State) == "" {
		return nil
	}
	loc := &compare.UserLocation{
		City:        d.City,
		State:       d.State,
		Coordinates: compare.Coordinates{Latitude: d.Latitude, Longitude: d.Longitude},
	}
	if d.ZipCode != "" {
		zip := d.ZipCode
		loc.ZipCode = &zip
	}
	return loc
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := loadEnvFile(); err != nil {
		// .env is optional
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Validate checks the sections that own a validator.
func (c *Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("invalid catalog config: %w", err)
	}
	if err := c.Compare.Validate(); err != nil {
		return fmt.Errorf("invalid compare config: %w", err)
	}
	if c.Catalog.Source == catalog.SourcePostgres && c.Database.URL == "" {
		return fmt.Errorf("database.url is required for the postgres catalog source")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}

// loadEnvFile loads the first .env file found into the process environment.
func loadEnvFile() error {
	for _, path := range []string{".", "./config"} {
		envFile := path + "/.env"
		if _, err := os.Stat(envFile); err == nil {
			return loadDotEnvFile(envFile)
		}
	}
	return fmt.Errorf("no .env file found")
}

// loadDotEnvFile reads KEY=VALUE lines. Variables already set in the
// environment win over the file.
func loadDotEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), "\"'")
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		os.Setenv(key, value)
	}
	return scanner.Err()
}

// bindEnvVars binds the conventional unprefixed variables.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	v.BindEnv("server.host", EnvPrefix+"_SERVER_HOST", "HOST")
	v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")
	v.BindEnv("auth.internal_api_key", EnvPrefix+"_AUTH_INTERNAL_API_KEY", "INTERNAL_API_KEY")
	v.BindEnv("catalog.path", EnvPrefix+"_CATALOG_PATH", "CATALOG_PATH")
	v.BindEnv("geocoder.api_key", EnvPrefix+"_GEOCODER_API_KEY", "GEOCODER_API_KEY")
	v.BindEnv("telemetry.endpoint", EnvPrefix+"_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	rl := middleware.DefaultRateLimiterConfig()
	v.SetDefault("rate_limit.requests_per_second", rl.RequestsPerSecond)
	v.SetDefault("rate_limit.burst_size", rl.BurstSize)
	v.SetDefault("rate_limit.idle_ttl", rl.IdleTTL)

	cat := catalog.DefaultConfig()
	v.SetDefault("catalog.source", string(cat.Source))
	v.SetDefault("catalog.path", cat.Path)
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.load_timeout", cat.LoadTimeout)
	v.SetDefault("catalog.refresh_interval", cat.RefreshInterval)
	v.SetDefault("catalog.stale_after", cat.StaleAfter)
	v.SetDefault("catalog.archive_dir", "")
	v.SetDefault("catalog.archive_keep", cat.ArchiveKeep)
	v.SetDefault("catalog.max_failures", cat.MaxFailures)
	v.SetDefault("catalog.reset_timeout", cat.ResetTimeout)
	v.SetDefault("catalog.half_open_max_calls", cat.HalfOpenMaxCalls)

	cmp := compare.Defaults()
	v.SetDefault("compare.default_max_distance", cmp.DefaultMaxDistance)
	v.SetDefault("compare.allowed_distances", cmp.AllowedDistances)
	v.SetDefault("compare.expanded_radius", cmp.ExpandedRadius)
	v.SetDefault("compare.nearest_limit", cmp.NearestLimit)
	v.SetDefault("compare.memo_size", cmp.MemoSize)
	v.SetDefault("compare.memo_ttl", cmp.MemoTTL)

	v.SetDefault("geocoder.url", "")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.limit", 10)
	v.SetDefault("geocoder.timeout", 10*time.Second)
	v.SetDefault("geocoder.rate_limit.requests_per_second", 5)
	v.SetDefault("geocoder.rate_limit.burst", 5)
	v.SetDefault("geocoder.rate_limit.max_retries", 2)
	v.SetDefault("geocoder.rate_limit.initial_backoff", 200*time.Millisecond)
	v.SetDefault("geocoder.rate_limit.max_backoff", 5*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", telemetry.DefaultServiceName)
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.export_interval", time.Minute)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}

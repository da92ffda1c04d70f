package catalog

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Source names a catalog provider implementation.
type Source string

const (
	SourceFile     Source = "file"
	SourcePostgres Source = "postgres"
	SourceHTTP     Source = "http"
)

// Config holds catalog loading and caching configuration.
type Config struct {
	Source Source `mapstructure:"source"`
	Path   string `mapstructure:"path"` // file source: .json, .xlsx or a CSV directory
	URL    string `mapstructure:"url"`  // http source: JSON document URL

	LoadTimeout     time.Duration `mapstructure:"load_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 disables background refresh
	StaleAfter      time.Duration `mapstructure:"stale_after"`

	// Last-good snapshots; an empty ArchiveDir disables archiving
	ArchiveDir  string `mapstructure:"archive_dir"`
	ArchiveKeep int    `mapstructure:"archive_keep"`

	// Circuit breaker around the provider
	MaxFailures      int           `mapstructure:"max_failures"`
	ResetTimeout     time.Duration `mapstructure:"reset_timeout"`
	HalfOpenMaxCalls int           `mapstructure:"half_open_max_calls"`
}

// DefaultConfig returns the default catalog configuration.
func DefaultConfig() *Config {
	return &Config{
		Source:           SourceFile,
		Path:             "data/catalog.json",
		LoadTimeout:      30 * time.Second,
		RefreshInterval:  0,
		StaleAfter:       24 * time.Hour,
		ArchiveKeep:      3,
		MaxFailures:      5,
		ResetTimeout:     30 * time.Second,
		HalfOpenMaxCalls: 1,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceFile:
		if c.Path == "" {
			return ErrInvalidConfig{Field: "path", Reason: "required for file source"}
		}
	case SourceHTTP:
		if c.URL == "" {
			return ErrInvalidConfig{Field: "url", Reason: "required for http source"}
		}
	case SourcePostgres:
	default:
		return ErrInvalidConfig{Field: "source", Reason: "must be file, postgres or http"}
	}
	if c.LoadTimeout <= 0 {
		return ErrInvalidConfig{Field: "load_timeout", Reason: "must be positive"}
	}
	if c.RefreshInterval < 0 {
		return ErrInvalidConfig{Field: "refresh_interval", Reason: "must be non-negative"}
	}
	if c.ArchiveDir != "" && c.ArchiveKeep < 1 {
		return ErrInvalidConfig{Field: "archive_keep", Reason: "must be at least 1 when archiving"}
	}
	if c.MaxFailures < 1 {
		return ErrInvalidConfig{Field: "max_failures", Reason: "must be at least 1"}
	}
	if c.HalfOpenMaxCalls < 1 {
		return ErrInvalidConfig{Field: "half_open_max_calls", Reason: "must be at least 1"}
	}
	return nil
}

// CircuitBreakerConfig derives the breaker settings.
func (c *Config) CircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:      c.MaxFailures,
		ResetTimeout:     c.ResetTimeout,
		HalfOpenMaxCalls: c.HalfOpenMaxCalls,
	}
}

// NewProvider builds the provider named by Source. pool is only used by the
// postgres source and must be non-nil for it.
func NewProvider(c *Config, pool *pgxpool.Pool) (Provider, error) {
	switch c.Source {
	case SourceFile:
		return NewFileProvider(c.Path), nil
	case SourceHTTP:
		return NewHTTPProvider(c.URL, nil, nil), nil
	case SourcePostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres catalog source needs a database connection")
		}
		return NewPostgresProvider(pool), nil
	default:
		return nil, ErrInvalidConfig{Field: "source", Reason: fmt.Sprintf("unknown source %q", c.Source)}
	}
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return "catalog." + e.Field + ": " + e.Reason
}

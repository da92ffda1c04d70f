package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiting and retry configuration
type Config struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second" json:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst" json:"burst"`
	MaxRetries        int           `mapstructure:"max_retries" json:"maxRetries"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff" json:"initialBackoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff" json:"maxBackoff"`
}

// DefaultConfig returns the default rate limit configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 2,
		Burst:             1,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
	}
}

// RateLimiter throttles outgoing requests with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter with the given config.
// A non-positive rate disables throttling.
func NewRateLimiter(config Config) *RateLimiter {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Throttle waits until a request may be sent or ctx is done.
func (r *RateLimiter) Throttle(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

package ratelimit

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// FetchRetryError represents an error when all retry attempts are exhausted
type FetchRetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *FetchRetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *FetchRetryError) Unwrap() error {
	return e.LastError
}

// IsRetryableStatus checks if an HTTP status code is retryable
// Retryable: 429, 5xx
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// CalculateBackoff calculates exponential backoff with 0-25% jitter.
func CalculateBackoff(attempt int, config Config) time.Duration {
	return backoff(attempt, 2.0, config)
}

// CalculateRateLimitBackoff calculates backoff for HTTP 429 responses.
// A Retry-After header in seconds takes precedence; otherwise the base grows 3x per attempt.
func CalculateRateLimitBackoff(attempt int, config Config, retryAfter string) time.Duration {
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds)*time.Second + time.Duration(rand.Float64()*float64(time.Second))
	}
	return backoff(attempt, 3.0, config)
}

func backoff(attempt int, factor float64, config Config) time.Duration {
	delay := float64(config.InitialBackoff) * math.Pow(factor, float64(attempt))
	capped := math.Min(delay, float64(config.MaxBackoff))
	jitter := rand.Float64() * 0.25 * capped
	return time.Duration(capped + jitter)
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

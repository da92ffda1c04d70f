package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/compare-service/internal/http/ratelimit"
)

const userAgent = "Kosarica-CompareService/1.0"

// Client is an HTTP client with rate limiting and retry logic
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.RateLimiter
	config      ratelimit.Config
	logger      zerolog.Logger
}

// NewClient creates a new HTTP client with rate limiting
func NewClient(config ratelimit.Config, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: ratelimit.NewRateLimiter(config),
		config:      config,
		logger:      log.With().Str("component", "http_client").Logger(),
	}
}

// NewClientDefault creates a new HTTP client with default rate limiting
func NewClientDefault() *Client {
	return NewClient(ratelimit.DefaultConfig(), 0)
}

// Get performs a GET request with rate limiting and retry logic.
// The caller must close the response body.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.rateLimiter.Throttle(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if attempt < c.config.MaxRetries {
				if err := c.wait(ctx, url, attempt, ratelimit.CalculateBackoff(attempt, c.config)); err != nil {
					return nil, err
				}
				continue
			}
			break
		}

		lastStatus = resp.StatusCode
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		resp.Body.Close()

		if !ratelimit.IsRetryableStatus(resp.StatusCode) || attempt == c.config.MaxRetries {
			return nil, &ratelimit.FetchRetryError{URL: url, Attempts: attempt + 1, LastStatus: resp.StatusCode}
		}

		delay := ratelimit.CalculateBackoff(attempt, c.config)
		if resp.StatusCode == http.StatusTooManyRequests {
			delay = ratelimit.CalculateRateLimitBackoff(attempt, c.config, retryAfter)
		}
		if err := c.wait(ctx, url, attempt, delay); err != nil {
			return nil, err
		}
	}

	return nil, &ratelimit.FetchRetryError{
		URL:        url,
		Attempts:   c.config.MaxRetries + 1,
		LastStatus: lastStatus,
		LastError:  lastErr,
	}
}

// GetBytes performs a GET request and returns the response body as bytes
func (c *Client) GetBytes(ctx context.Context, url string, header http.Header) ([]byte, error) {
	resp, err := c.Get(ctx, url, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func (c *Client) wait(ctx context.Context, url string, attempt int, d time.Duration) error {
	c.logger.Debug().
		Str("url", url).
		Int("attempt", attempt+1).
		Dur("backoff", d).
		Msg("Retrying request")
	return ratelimit.Sleep(ctx, d)
}

package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"requestId": GetRequestID(c)})
	})
	return r
}

func get(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInternalAuthMiddleware(t *testing.T) {
	r := newRouter(InternalAuthMiddleware("s3cret"))

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"Valid key", "s3cret", http.StatusOK},
		{"Wrong key", "guess", http.StatusUnauthorized},
		{"Missing key", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.key != "" {
				h.Set(APIKeyHeader, tt.key)
			}
			assert.Equal(t, tt.status, get(r, h).Code)
		})
	}
}

func TestInternalAuthMiddlewareMisconfigured(t *testing.T) {
	r := newRouter(InternalAuthMiddleware(""))
	h := http.Header{}
	h.Set(APIKeyHeader, "")
	assert.Equal(t, http.StatusInternalServerError, get(r, h).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newRouter(RateLimitMiddleware(ctx, RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2}))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)
}

func TestServiceRateLimitMiddleware(t *testing.T) {
	r := newRouter(ServiceRateLimitMiddleware(0.001, 1))
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)
}

func TestCleanupOldLimiters(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	rl.GetLimiter("10.0.0.1")
	rl.GetLimiter("10.0.0.2")

	assert.Equal(t, 0, rl.CleanupOldLimiters(time.Now()))
	assert.Equal(t, 2, rl.CleanupOldLimiters(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, rl.Len())
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r := newRouter(RequestID(&logger), RequestLogger(&logger))

	t.Run("Generated", func(t *testing.T) {
		w := get(r, nil)
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Contains(t, w.Body.String(), id)
		assert.Contains(t, buf.String(), id)
	})

	t.Run("Propagated", func(t *testing.T) {
		incoming := uuid.NewString()
		h := http.Header{}
		h.Set(RequestIDHeader, incoming)
		assert.Equal(t, incoming, get(r, h).Header().Get(RequestIDHeader))
	})

	t.Run("Malformed replaced", func(t *testing.T) {
		h := http.Header{}
		h.Set(RequestIDHeader, "not-a-uuid")
		assert.NotEqual(t, "not-a-uuid", get(r, h).Header().Get(RequestIDHeader))
	})
}

package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/kosarica/compare-service/internal/http"
	"github.com/kosarica/compare-service/internal/http/ratelimit"
)

func TestHTTPProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sampleCatalog())
	}))
	defer srv.Close()

	client := httpclient.NewClient(ratelimit.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}, time.Second)

	c, err := NewHTTPProvider(srv.URL, http.Header{"Authorization": {"Bearer token"}}, client).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog(), c)

	_, err = NewHTTPProvider(srv.URL, nil, client).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

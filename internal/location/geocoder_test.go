package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/compare-service/internal/http/ratelimit"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) (*GeocoderClient, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	g := NewGeocoderClient(GeocoderConfig{
		URL:     srv.URL + "/v1/search",
		APIKey:  "key",
		Limit:   5,
		Timeout: time.Second,
		RateLimit: ratelimit.Config{
			MaxRetries:     1,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
		},
	}, NewStaticService(springfield(), nil))
	return g, &calls
}

func TestGeocoderSearch(t *testing.T) {
	g, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "springfield il", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "key", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"results":[
			{"label":"Springfield, IL","city":"Springfield","state":"il","zipCode":"62701","latitude":39.78,"longitude":-89.65},
			{"city":"Springfield","state":"MO","latitude":37.21,"longitude":-93.29,"address":"1 Main St"}
		]}`))
	})

	results, err := g.Search(context.Background(), "  springfield il ")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Springfield, IL", results[0].Label)
	assert.Equal(t, "IL", results[0].Location.State)
	require.NotNil(t, results[0].Location.ZipCode)
	assert.Equal(t, "62701", *results[0].Location.ZipCode)

	assert.Equal(t, "Springfield, MO", results[1].Label)
	assert.Nil(t, results[1].Location.ZipCode)
	require.NotNil(t, results[1].Location.Address)
	assert.InDelta(t, -93.29, results[1].Location.Coordinates.Longitude, 1e-9)
}

func TestGeocoderShortQuerySkipsRequest(t *testing.T) {
	g, calls := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {})

	results, err := g.Search(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int32(0), calls.Load())
}

func TestGeocoderUpstreamFailure(t *testing.T) {
	g, calls := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := g.Search(context.Background(), "springfield")
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGeocoderCurrentLocationDelegates(t *testing.T) {
	g, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {})
	loc, err := g.CurrentLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Springfield", loc.City)

	_, err = NewGeocoderClient(GeocoderConfig{URL: "http://localhost"}, nil).CurrentLocation(context.Background())
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestSearcherAppliesLastQuery(t *testing.T) {
	svc := NewStaticService(nil, func() []SearchResult {
		return []SearchResult{{Label: "Springfield, IL"}, {Label: "Chatham, IL"}}
	})
	applied := make(chan Result[[]SearchResult], 2)
	s := NewSearcher(svc, 10*time.Millisecond, func(r Result[[]SearchResult]) { applied <- r })
	defer s.Stop()

	s.Query(context.Background(), "spring")
	s.Query(context.Background(), "chat")

	select {
	case r := <-applied:
		require.NoError(t, r.Err)
		require.Len(t, r.Value, 1)
		assert.Equal(t, "Chatham, IL", r.Value[0].Label)
	case <-time.After(time.Second):
		t.Fatal("no results applied")
	}
}

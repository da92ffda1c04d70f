package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/compare-service/internal/compare"
	httpclient "github.com/kosarica/compare-service/internal/http"
	"github.com/kosarica/compare-service/internal/http/ratelimit"
)

// GeocoderConfig configures the geocoding endpoint.
type GeocoderConfig struct {
	URL       string           `mapstructure:"url"`
	APIKey    string           `mapstructure:"api_key"`
	Limit     int              `mapstructure:"limit"`
	Timeout   time.Duration    `mapstructure:"timeout"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
}

// geocodeResponse is the wire shape of the geocoding endpoint.
type geocodeResponse struct {
	Results []struct {
		Label     string  `json:"label"`
		Address   string  `json:"address"`
		City      string  `json:"city"`
		State     string  `json:"state"`
		ZipCode   string  `json:"zipCode"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// GeocoderClient searches locations against a remote geocoding endpoint.
// Current-location lookups are delegated to fallback, since a server cannot
// observe the user's device position.
type GeocoderClient struct {
	config   GeocoderConfig
	client   *httpclient.Client
	fallback Service
	logger   zerolog.Logger
}

// NewGeocoderClient creates a client. fallback may be nil.
func NewGeocoderClient(config GeocoderConfig, fallback Service) *GeocoderClient {
	if config.Limit <= 0 {
		config.Limit = 10
	}
	return &GeocoderClient{
		config:   config,
		client:   httpclient.NewClient(config.RateLimit, config.Timeout),
		fallback: fallback,
		logger:   log.With().Str("component", "geocoder").Logger(),
	}
}

// CurrentLocation delegates to the fallback service.
func (g *GeocoderClient) CurrentLocation(ctx context.Context) (*compare.UserLocation, error) {
	if g.fallback == nil {
		return nil, ErrLocationUnavailable
	}
	return g.fallback.CurrentLocation(ctx)
}

// Search queries the endpoint. Queries shorter than MinQueryLength return no results.
func (g *GeocoderClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if ShortQuery(query) {
		return []SearchResult{}, nil
	}

	u, err := url.Parse(g.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoder url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(g.config.Limit))
	u.RawQuery = q.Encode()

	header := http.Header{}
	if g.config.APIKey != "" {
		header.Set("X-API-Key", g.config.APIKey)
	}

	start := time.Now()
	body, err := g.client.GetBytes(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("geocoder search failed: %w", err)
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		loc := compare.UserLocation{
			City:        r.City,
			State:       strings.ToUpper(r.State),
			Coordinates: compare.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
		}
		if r.ZipCode != "" {
			zip := r.ZipCode
			loc.ZipCode = &zip
		}
		if r.Address != "" {
			addr := r.Address
			loc.Address = &addr
		}
		label := r.Label
		if label == "" {
			label = r.City + ", " + loc.State
		}
		results = append(results, SearchResult{Label: label, Location: loc})
	}

	g.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Geocoder search completed")
	return results, nil
}

// Package location resolves the user location comparisons are computed against.
package location

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/matching"
)

// MinQueryLength is the shortest search query that triggers a lookup.
const MinQueryLength = 2

// ErrLocationUnavailable is returned when the current location cannot be determined.
var ErrLocationUnavailable = errors.New("current location unavailable")

// SearchResult is a candidate location returned by a text search.
type SearchResult struct {
	Label    string               `json:"label"`
	Location compare.UserLocation `json:"location"`
}

// Service resolves the current location and searches for locations by text.
type Service interface {
	CurrentLocation(ctx context.Context) (*compare.UserLocation, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// ResolveOrFallback returns the service's current location, or fallback when
// resolution fails, is denied or yields nothing. The boolean reports whether
// the fallback was used.
func ResolveOrFallback(ctx context.Context, svc Service, fallback *compare.UserLocation) (*compare.UserLocation, bool) {
	if svc == nil {
		return fallback, true
	}
	loc, err := svc.CurrentLocation(ctx)
	if err != nil || loc == nil {
		log.Debug().Err(err).Msg("Location resolution failed, using fallback location")
		return fallback, true
	}
	return loc, false
}

// ShortQuery reports whether query is too short to search.
func ShortQuery(query string) bool {
	return len([]rune(strings.TrimSpace(query))) < MinQueryLength
}

// StaticService serves a fixed current location and searches an in-memory place list.
type StaticService struct {
	current *compare.UserLocation
	places  func() []SearchResult
}

// NewStaticService creates a service. current may be nil, in which case
// CurrentLocation reports ErrLocationUnavailable. places is called on every search.
func NewStaticService(current *compare.UserLocation, places func() []SearchResult) *StaticService {
	if places == nil {
		places = func() []SearchResult { return nil }
	}
	return &StaticService{current: current, places: places}
}

// CurrentLocation returns the configured location.
func (s *StaticService) CurrentLocation(ctx context.Context) (*compare.UserLocation, error) {
	if s.current == nil {
		return nil, ErrLocationUnavailable
	}
	loc := *s.current
	return &loc, nil
}

// Search matches query against label, city, state and zip code of every place.
func (s *StaticService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if ShortQuery(query) {
		return []SearchResult{}, nil
	}
	results := make([]SearchResult, 0)
	for _, p := range s.places() {
		fields := []string{p.Label, p.Location.City, p.Location.State}
		if p.Location.ZipCode != nil {
			fields = append(fields, *p.Location.ZipCode)
		}
		if matching.ContainsAny(fields, query) {
			results = append(results, p)
		}
	}
	return results, nil
}

// PlacesFromStores derives one searchable place per distinct (city, state, zip)
// among open stores, located at the first such store.
func PlacesFromStores(stores []compare.Store) []SearchResult {
	seen := make(map[string]struct{}, len(stores))
	places := make([]SearchResult, 0)
	for _, s := range stores {
		if s.PermanentlyClosed || s.City == "" {
			continue
		}
		key := matching.FoldKey(s.City) + "|" + strings.ToUpper(s.State) + "|" + s.ZipCode
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		loc := compare.UserLocation{City: s.City, State: s.State, Coordinates: s.Coordinates}
		label := s.City + ", " + s.State
		if s.ZipCode != "" {
			zip := s.ZipCode
			loc.ZipCode = &zip
			label += " " + zip
		}
		places = append(places, SearchResult{Label: label, Location: loc})
	}
	sort.SliceStable(places, func(i, j int) bool { return places[i].Label < places[j].Label })
	return places
}

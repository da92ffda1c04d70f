package compare

import (
	"strings"

	"github.com/kosarica/compare-service/internal/matching"
)

// IsEligible reports whether a priced entry may appear in the default list for
// location under radius maxDistance (miles). State scoping is mandatory; an
// exact zip match overrides the radius.
func IsEligible(entry PricedEntry, location *UserLocation, maxDistance float64) bool {
	if location == nil {
		return false
	}
	if entry.Store.PermanentlyClosed || entry.Closed {
		return false
	}
	if !sameState(entry.Store.State, location.State) {
		return false
	}
	if zipMatches(entry.Store.ZipCode, location.ZipCode) {
		return true
	}
	return entry.Distance <= maxDistance
}

func zipMatches(storeZip string, userZip *string) bool {
	if userZip == nil {
		return false
	}
	a, b := strings.TrimSpace(storeZip), strings.TrimSpace(*userZip)
	return a != "" && a == b
}

// eligibleEntries returns the subset of entries passing the predicate.
func eligibleEntries(entries []PricedEntry, location *UserLocation, maxDistance float64) []PricedEntry {
	out := make([]PricedEntry, 0, len(entries))
	for _, e := range entries {
		if IsEligible(e, location, maxDistance) {
			out = append(out, e)
		}
	}
	return out
}

// inStateEntries returns the open entries in the user's state, radius ignored.
func inStateEntries(entries []PricedEntry, location *UserLocation) []PricedEntry {
	out := make([]PricedEntry, 0, len(entries))
	for _, e := range entries {
		if e.Store.PermanentlyClosed || e.Closed {
			continue
		}
		if sameState(e.Store.State, location.State) {
			out = append(out, e)
		}
	}
	return out
}

// MatchesFilters applies the free-text query and category filter to an item.
func MatchesFilters(item Item, query, category string) bool {
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		if !matching.EqualFold(item.Category, c) {
			return false
		}
	}
	if strings.TrimSpace(query) == "" {
		return true
	}
	fields := make([]string, 0, 3+len(item.Tags))
	fields = append(fields, item.Name, item.Category)
	if item.Brand != nil {
		fields = append(fields, *item.Brand)
	}
	fields = append(fields, item.Tags...)
	return matching.ContainsAny(fields, query)
}

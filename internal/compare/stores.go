package compare

import (
	"sort"
	"strings"
)

// ParseStoresSort validates the all-stores view sort key. Empty means price.
func ParseStoresSort(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortPrice:
		return SortPrice, nil
	case SortDistance:
		return SortDistance, nil
	default:
		return "", ErrInvalidRequest{Field: "sort", Reason: "must be price or distance"}
	}
}

// AllStores projects every open store carrying itemID. Entries are limited to
// the user's state and, unless opts.IncludeFar, to opts.MaxDistance; a zero
// MaxDistance means the default radius. Without a location nothing is
// restricted and distances are zero. No fallback ladder is applied: the result
// is the literal consequence of the toggles.
func AllStores(catalog *Catalog, itemID string, location *UserLocation, opts StoresViewOptions) ([]PricedEntry, error) {
	if catalog == nil || !hasItem(catalog, itemID) {
		return nil, ErrItemNotFound
	}

	maxDistance := opts.MaxDistance
	if maxDistance <= 0 {
		maxDistance = Defaults().DefaultMaxDistance
	}

	var stats BuildStats
	joined := joinCatalog(catalog, location, itemID, &stats)
	if len(joined) == 0 {
		return []PricedEntry{}, nil
	}

	entries := make([]PricedEntry, 0, len(joined[0].Entries))
	for _, e := range joined[0].Entries {
		if location != nil {
			if !sameState(e.Store.State, location.State) {
				continue
			}
			if !opts.IncludeFar && e.Distance > maxDistance {
				continue
			}
		}
		entries = append(entries, e)
	}

	less := lessByPrice
	if opts.Sort == SortDistance {
		less = lessByDistance
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
	return entries, nil
}

func hasItem(catalog *Catalog, itemID string) bool {
	for _, it := range catalog.Items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

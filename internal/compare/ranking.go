package compare

import (
	"math"
	"sort"
	"strings"

	"github.com/kosarica/compare-service/internal/matching"
)

// ParseSortKey validates a default-list sort key. Empty means price.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortPrice:
		return SortPrice, nil
	case SortDistance:
		return SortDistance, nil
	case SortName:
		return SortName, nil
	case SortRating:
		return SortRating, nil
	default:
		return "", ErrInvalidRequest{Field: "sortBy", Reason: "must be one of price, distance, name, rating"}
	}
}

// SortComparisons returns a sorted copy of list. The input is not modified.
// Ties are always broken by item ID so the order is fully deterministic.
func SortComparisons(list []Comparison, key SortKey) []Comparison {
	sorted := make([]Comparison, len(list))
	copy(sorted, list)

	var less func(a, b *Comparison) int
	switch key {
	case SortDistance:
		less = func(a, b *Comparison) int { return compareFloat(lowestDistance(a), lowestDistance(b)) }
	case SortName:
		// Folding is computed once per item rather than per comparison.
		keys := make(map[string]string, len(sorted))
		for i := range sorted {
			keys[sorted[i].Item.ID] = matching.FoldKey(sorted[i].Item.Name)
		}
		less = func(a, b *Comparison) int { return strings.Compare(keys[a.Item.ID], keys[b.Item.ID]) }
	case SortRating:
		less = func(a, b *Comparison) int {
			if c := compareRating(a, b); c != 0 {
				return c
			}
			return compareInt(lowestEffective(a), lowestEffective(b))
		}
	default:
		less = func(a, b *Comparison) int { return compareInt(lowestEffective(a), lowestEffective(b)) }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if c := less(&sorted[i], &sorted[j]); c != 0 {
			return c < 0
		}
		return sorted[i].Item.ID < sorted[j].Item.ID
	})
	return sorted
}

func lowestEffective(c *Comparison) int64 {
	if c.LowestPrice == nil {
		return math.MaxInt64
	}
	return c.LowestPrice.EffectivePrice()
}

func lowestDistance(c *Comparison) float64 {
	if c.LowestPrice == nil {
		return math.Inf(1)
	}
	return c.LowestPrice.Distance
}

// compareRating orders rated stores before unrated ones, higher ratings first.
func compareRating(a, b *Comparison) int {
	ra, oka := lowestRating(a)
	rb, okb := lowestRating(b)
	switch {
	case oka && okb:
		return -compareFloat(ra, rb)
	case oka:
		return -1
	case okb:
		return 1
	default:
		return 0
	}
}

func lowestRating(c *Comparison) (float64, bool) {
	if c.LowestPrice == nil || c.LowestPrice.Store.Rating == nil {
		return 0, false
	}
	return *c.LowestPrice.Store.Rating, true
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

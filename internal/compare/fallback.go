package compare

import (
	"sort"
)

// Resolution is the outcome of one pass over the fallback ladder.
type Resolution struct {
	Comparisons    []Comparison
	Tier           Tier
	TiersEvaluated int
}

// Resolver applies eligibility and escalates through the fallback tiers when
// the strict filter yields nothing. The ladder runs once per search, over the
// whole filtered item set, and stops at the first non-empty tier.
type Resolver struct {
	config *Config
}

// NewResolver creates a resolver using config's radii and limits.
func NewResolver(config *Config) *Resolver {
	if config == nil {
		config = Defaults()
	}
	return &Resolver{config: config}
}

// Resolve runs the ladder for items (already narrowed by query and category).
func (r *Resolver) Resolve(items []ItemPrices, location *UserLocation, maxDistance float64) Resolution {
	if len(items) == 0 || location == nil {
		return Resolution{Tier: TierStrict}
	}

	// 1. strict radius
	if list := r.withinRadius(items, location, maxDistance); len(list) > 0 {
		return Resolution{Comparisons: list, Tier: TierStrict, TiersEvaluated: 1}
	}

	// 2. fixed expanded radius, state rule retained
	if list := r.withinRadius(items, location, r.config.ExpandedRadius); len(list) > 0 {
		return Resolution{Comparisons: list, Tier: TierExpanded, TiersEvaluated: 2}
	}

	// 3. nearest in-state stores, radius ignored
	if list := r.nearest(items, func(ip ItemPrices) []PricedEntry {
		return inStateEntries(ip.Entries, location)
	}); len(list) > 0 {
		return Resolution{Comparisons: list, Tier: TierNearest, TiersEvaluated: 3}
	}

	// 4. no stores in state at all: relax the state constraint as a last resort
	list := r.nearest(items, func(ip ItemPrices) []PricedEntry {
		return ip.Entries
	})
	return Resolution{Comparisons: list, Tier: TierNoLocalStores, TiersEvaluated: 4}
}

func (r *Resolver) withinRadius(items []ItemPrices, location *UserLocation, radius float64) []Comparison {
	var list []Comparison
	for _, ip := range items {
		eligible := eligibleEntries(ip.Entries, location, radius)
		if len(eligible) == 0 {
			continue
		}
		list = append(list, buildComparison(ip, eligible))
	}
	return list
}

type nearestCandidate struct {
	prices   ItemPrices
	entries  []PricedEntry
	distance float64
}

// nearest ranks items by the distance of their closest selected entry and
// keeps the configured number of them.
func (r *Resolver) nearest(items []ItemPrices, selectEntries func(ItemPrices) []PricedEntry) []Comparison {
	candidates := make([]nearestCandidate, 0, len(items))
	for _, ip := range items {
		entries := selectEntries(ip)
		if len(entries) == 0 {
			continue
		}
		candidates = append(candidates, nearestCandidate{
			prices:   ip,
			entries:  entries,
			distance: nearestDistance(entries),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].prices.Item.ID < candidates[j].prices.Item.ID
	})

	if len(candidates) > r.config.NearestLimit {
		candidates = candidates[:r.config.NearestLimit]
	}

	list := make([]Comparison, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, buildComparison(c.prices, c.entries))
	}
	return list
}

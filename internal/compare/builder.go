package compare

import (
	"math"
	"sort"
)

// ItemPrices holds every open priced entry of one item, ordered by store ID.
type ItemPrices struct {
	Item    Item
	Entries []PricedEntry
}

// BuildStats counts what the builder joined and what it skipped.
type BuildStats struct {
	Joined       int
	Closed       int
	Duplicates   int
	UnknownStore int
	UnknownItem  int
}

// BuildPricedEntries joins the catalog's items and stores into priced entries
// carrying the distance from location. Closed stores and closed entries are
// dropped here, before eligibility is considered. A nil location yields no
// entries.
func BuildPricedEntries(catalog *Catalog, location *UserLocation) ([]ItemPrices, BuildStats) {
	var stats BuildStats
	if catalog == nil || location == nil {
		return nil, stats
	}
	return joinCatalog(catalog, location, "", &stats), stats
}

// joinCatalog does the actual join. When onlyItem is set, only that item is
// joined. A nil location leaves every distance at zero.
func joinCatalog(catalog *Catalog, location *UserLocation, onlyItem string, stats *BuildStats) []ItemPrices {
	stores := make(map[string]Store, len(catalog.Stores))
	for _, s := range catalog.Stores {
		stores[s.ID] = s
	}

	knownItems := make(map[string]struct{}, len(catalog.Items))
	for _, it := range catalog.Items {
		knownItems[it.ID] = struct{}{}
	}

	// itemID -> storeID -> entry; one entry per (item, store) pair
	byItem := make(map[string]map[string]PricedEntry)
	for _, p := range catalog.Prices {
		if onlyItem != "" && p.ItemID != onlyItem {
			continue
		}
		if _, ok := knownItems[p.ItemID]; !ok {
			stats.UnknownItem++
			continue
		}
		store, ok := stores[p.StoreID]
		if !ok {
			stats.UnknownStore++
			continue
		}
		if store.PermanentlyClosed || p.Closed {
			stats.Closed++
			continue
		}

		entry := PricedEntry{PriceEntry: p, Store: store}
		if location != nil {
			entry.Distance = DistanceMiles(location.Coordinates, store.Coordinates)
		}

		perStore := byItem[p.ItemID]
		if perStore == nil {
			perStore = make(map[string]PricedEntry)
			byItem[p.ItemID] = perStore
		}
		if existing, dup := perStore[p.StoreID]; dup {
			stats.Duplicates++
			if existing.EffectivePrice() <= entry.EffectivePrice() {
				continue
			}
		} else {
			stats.Joined++
		}
		perStore[p.StoreID] = entry
	}

	result := make([]ItemPrices, 0, len(catalog.Items))
	for _, it := range catalog.Items {
		if onlyItem != "" && it.ID != onlyItem {
			continue
		}
		perStore := byItem[it.ID]
		entries := make([]PricedEntry, 0, len(perStore))
		for _, e := range perStore {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].StoreID < entries[j].StoreID
		})
		result = append(result, ItemPrices{Item: it, Entries: entries})
	}
	return result
}

// buildComparison assembles the Comparison for one item from the entries that
// passed the active tier's predicate.
func buildComparison(ip ItemPrices, eligible []PricedEntry) Comparison {
	c := Comparison{
		Item:            ip.Item,
		Entries:         eligible,
		LowestPrice:     SelectLowestPrice(eligible, ip.Entries),
		NearestDistance: nearestDistance(ip.Entries),
	}

	priced := eligible
	if len(priced) == 0 {
		priced = ip.Entries
	}
	c.AveragePrice = averageEffectivePrice(priced)
	if c.LowestPrice != nil {
		if s := c.AveragePrice - c.LowestPrice.EffectivePrice(); s > 0 {
			c.Savings = s
		}
	}
	return c
}

// SelectLowestPrice picks the eligible entry with the minimal effective price.
// When nothing is eligible it falls back to the geographically nearest entry so
// the UI always has something to show. It returns nil only when all is empty.
func SelectLowestPrice(eligible, all []PricedEntry) *PricedEntry {
	if len(eligible) > 0 {
		best := eligible[0]
		for _, e := range eligible[1:] {
			if lessByPrice(e, best) {
				best = e
			}
		}
		return &best
	}
	if len(all) == 0 {
		return nil
	}
	best := all[0]
	for _, e := range all[1:] {
		if lessByDistance(e, best) {
			best = e
		}
	}
	return &best
}

func averageEffectivePrice(entries []PricedEntry) int64 {
	if len(entries) == 0 {
		return 0
	}
	var sum int64
	for _, e := range entries {
		sum += e.EffectivePrice()
	}
	return int64(math.Round(float64(sum) / float64(len(entries))))
}

func nearestDistance(entries []PricedEntry) float64 {
	if len(entries) == 0 {
		return math.Inf(1)
	}
	d := entries[0].Distance
	for _, e := range entries[1:] {
		if e.Distance < d {
			d = e.Distance
		}
	}
	return d
}

// lessByPrice orders entries by effective price, then distance, then store ID.
func lessByPrice(a, b PricedEntry) bool {
	if pa, pb := a.EffectivePrice(), b.EffectivePrice(); pa != pb {
		return pa < pb
	}
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.StoreID < b.StoreID
}

// lessByDistance orders entries by distance, then effective price, then store ID.
func lessByDistance(a, b PricedEntry) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if pa, pb := a.EffectivePrice(), b.EffectivePrice(); pa != pb {
		return pa < pb
	}
	return a.StoreID < b.StoreID
}

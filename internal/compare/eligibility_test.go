package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func priced(s Store, p PriceEntry) PricedEntry {
	return PricedEntry{PriceEntry: p, Store: s, Distance: DistanceMiles(home, s.Coordinates)}
}

func TestIsEligible(t *testing.T) {
	closedStore := store("closed", "IL", "62702", 1)
	closedStore.PermanentlyClosed = true
	closedEntry := price("i", "s", 100)
	closedEntry.Closed = true

	tests := []struct {
		name        string
		entry       PricedEntry
		location    *UserLocation
		maxDistance float64
		expected    bool
	}{
		{"Within radius", priced(store("s", "IL", "62702", 4), price("i", "s", 100)), testLocation(), 5, true},
		{"On the radius boundary", priced(store("s", "IL", "62702", 5), price("i", "s", 100)), testLocation(), 5.000001, true},
		{"Beyond radius", priced(store("s", "IL", "62702", 6), price("i", "s", 100)), testLocation(), 5, false},
		{"Zip match overrides radius", priced(store("s", "IL", "62701", 40), price("i", "s", 100)), testLocation(), 1, true},
		{"Zip match does not override state", priced(store("s", "MO", "62701", 0.5), price("i", "s", 100)), testLocation(), 10, false},
		{"Other state within radius", priced(store("s", "MO", "63101", 0.5), price("i", "s", 100)), testLocation(), 10, false},
		{"State compared case-insensitively", priced(store("s", " il ", "62702", 1), price("i", "s", 100)), testLocation(), 10, true},
		{"Closed store", priced(closedStore, price("i", "closed", 100)), testLocation(), 10, false},
		{"Closed entry", priced(store("s", "IL", "62702", 1), closedEntry), testLocation(), 10, false},
		{"Nil location", priced(store("s", "IL", "62702", 1), price("i", "s", 100)), nil, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEligible(tt.entry, tt.location, tt.maxDistance))
		})
	}
}

func TestIsEligibleWithoutUserZip(t *testing.T) {
	loc := testLocation()
	loc.ZipCode = nil

	entry := priced(store("s", "IL", "", 40), price("i", "s", 100))
	assert.False(t, IsEligible(entry, loc, 10), "empty zips must never match each other")
}

func TestMatchesFilters(t *testing.T) {
	milk := Item{
		ID:       "milk",
		Name:     "Organic Whole Milk",
		Brand:    strPtr("Horizon"),
		Category: "Dairy",
		Tags:     []string{"organic", "gluten-free"},
	}

	tests := []struct {
		name     string
		query    string
		category string
		expected bool
	}{
		{"No filters", "", "", true},
		{"Category all", "", "All", true},
		{"Category match ignores case", "", "dairy", true},
		{"Category mismatch", "", "Bakery", false},
		{"Category is exact, not substring", "", "Dair", false},
		{"Query on name", "whole", "", true},
		{"Query on brand", "HORIZON", "", true},
		{"Query on tag", "gluten", "", true},
		{"Query on category", "dai", "", true},
		{"Query miss", "bread", "", false},
		{"Query and category both required", "whole", "Bakery", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesFilters(milk, tt.query, tt.category))
		})
	}
}

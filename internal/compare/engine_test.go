package compare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeComparisonsBananas(t *testing.T) {
	res, err := ComputeComparisons(bananasCatalog(), testLocation(), Filters{MaxDistance: 10})
	require.NoError(t, err)

	assert.Equal(t, NoteNone, res.Note)
	assert.Equal(t, 1, res.TiersEvaluated)
	require.Len(t, res.List, 1)

	c := res.List[0]
	assert.Len(t, c.Entries, 2)
	require.NotNil(t, c.LowestPrice)
	assert.Equal(t, "B", c.LowestPrice.StoreID)
	assert.Equal(t, int64(49), c.LowestPrice.EffectivePrice())

	ref, ok := c.LowestPrice.ReferencePrice()
	assert.True(t, ok)
	assert.Equal(t, int64(59), ref)
}

func TestComputeComparisonsEighteenMiles(t *testing.T) {
	catalog := &Catalog{
		Items:  []Item{item("milk", "Milk", "Dairy")},
		Stores: []Store{store("x", "IL", "62650", 18), store("y", "IL", "62651", 18)},
		Prices: []PriceEntry{price("milk", "x", 379), price("milk", "y", 389)},
	}

	res, err := ComputeComparisons(catalog, testLocation(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, NoteExpanded, res.Note)
	assert.Equal(t, TierExpanded, res.Tier)
	require.Len(t, res.List, 1)
	assert.ElementsMatch(t, []string{"x", "y"}, storeIDs(res.List[0].Entries))
}

func TestComputeComparisonsDefaults(t *testing.T) {
	res, err := ComputeComparisons(bananasCatalog(), testLocation(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, 10.0, res.Filters.MaxDistance)
	assert.Equal(t, SortPrice, res.Filters.SortBy)
	assert.Equal(t, testLocation(), res.Location)
}

func TestComputeComparisonsValidation(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		field   string
	}{
		{"Distance outside allowed set", Filters{MaxDistance: 7}, "maxDistance"},
		{"Negative distance", Filters{MaxDistance: -1}, "maxDistance"},
		{"Unknown sort key", Filters{SortBy: "popularity"}, "sortBy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeComparisons(bananasCatalog(), testLocation(), tt.filters)
			require.Error(t, err)
			var invalid ErrInvalidRequest
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestComputeComparisonsWithoutLocation(t *testing.T) {
	res, err := ComputeComparisons(bananasCatalog(), nil, Filters{})
	require.NoError(t, err)

	assert.Empty(t, res.List)
	assert.NotNil(t, res.List)
	assert.Equal(t, NoteNone, res.Note)
	assert.Zero(t, res.TiersEvaluated)
}

func TestComputeComparisonsEmptyFilterResult(t *testing.T) {
	// Nothing matches the query, so nothing escalates.
	res, err := ComputeComparisons(bananasCatalog(), testLocation(), Filters{Query: "caviar"})
	require.NoError(t, err)

	assert.Empty(t, res.List)
	assert.Equal(t, NoteNone, res.Note)
	assert.Zero(t, res.TiersEvaluated)
}

func TestComputeComparisonsFiltersAndSort(t *testing.T) {
	catalog := &Catalog{
		Items: []Item{
			item("milk", "Whole Milk", "Dairy"),
			item("oat", "Oat Milk", "Dairy"),
			item("bread", "Bread", "Bakery"),
		},
		Stores: []Store{store("s", "IL", "62702", 1)},
		Prices: []PriceEntry{
			price("milk", "s", 399),
			price("oat", "s", 449),
			price("bread", "s", 249),
		},
	}

	res, err := ComputeComparisons(catalog, testLocation(), Filters{Query: "MILK", SortBy: SortName})
	require.NoError(t, err)
	assert.Equal(t, []string{"oat", "milk"}, itemIDs(res.List))

	res, err = ComputeComparisons(catalog, testLocation(), Filters{Category: "bakery"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bread"}, itemIDs(res.List))
}

func TestComputeComparisonsDoesNotMutateCatalog(t *testing.T) {
	catalog := storesCatalog()
	before := storesCatalog()

	_, err := ComputeComparisons(catalog, testLocation(), Filters{SortBy: SortDistance})
	require.NoError(t, err)

	assert.Equal(t, before, catalog)
}

func TestComputeComparisonsPure(t *testing.T) {
	first, err := ComputeComparisons(storesCatalog(), testLocation(), Filters{MaxDistance: 5})
	require.NoError(t, err)
	second, err := ComputeComparisons(storesCatalog(), testLocation(), Filters{MaxDistance: 5})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngineCompareUsesMemo(t *testing.T) {
	config := Defaults()
	engine := NewEngine(config, NewMetricsRecorder())
	catalog := bananasCatalog()

	first, err := engine.Compare(context.Background(), catalog, testLocation(), Filters{})
	require.NoError(t, err)
	second, err := engine.Compare(context.Background(), catalog, testLocation(), Filters{})
	require.NoError(t, err)

	// The second call is served from the memo.
	assert.Same(t, first, second)
	assert.Equal(t, 1, engine.memo.Len())

	// A different location is a different key.
	other := testLocation()
	other.ZipCode = strPtr("62702")
	_, err = engine.Compare(context.Background(), catalog, other, Filters{})
	require.NoError(t, err)
	assert.Equal(t, 2, engine.memo.Len())
}

func TestEngineCompareRecomputesWhenCatalogChangesUnderSameVersion(t *testing.T) {
	engine := NewEngine(Defaults(), nil)

	before, err := engine.Compare(context.Background(), bananasCatalog(), testLocation(), Filters{})
	require.NoError(t, err)
	require.Len(t, before.List, 1)
	require.NotNil(t, before.List[0].LowestPrice)
	assert.Equal(t, int64(49), before.List[0].LowestPrice.EffectivePrice())

	repriced := bananasCatalog()
	repriced.Prices[1].SalePrice = int64Ptr(10)
	require.Equal(t, "bananas-v1", repriced.Version)

	after, err := engine.Compare(context.Background(), repriced, testLocation(), Filters{})
	require.NoError(t, err)
	require.Len(t, after.List, 1)
	require.NotNil(t, after.List[0].LowestPrice)
	assert.Equal(t, int64(10), after.List[0].LowestPrice.EffectivePrice())

	pure, err := ComputeComparisons(repriced, testLocation(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, pure.List, after.List)
}

func TestEngineCompareWithoutVersionSkipsMemo(t *testing.T) {
	engine := NewEngine(Defaults(), nil)
	catalog := bananasCatalog()
	catalog.Version = ""

	first, err := engine.Compare(context.Background(), catalog, testLocation(), Filters{})
	require.NoError(t, err)
	second, err := engine.Compare(context.Background(), catalog, testLocation(), Filters{})
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
	assert.Zero(t, engine.memo.Len())
}

func TestEngineCompareMemoDisabled(t *testing.T) {
	config := Defaults()
	config.MemoSize = 0
	engine := NewEngine(config, nil)
	assert.Nil(t, engine.memo)

	res, err := engine.Compare(context.Background(), bananasCatalog(), testLocation(), Filters{})
	require.NoError(t, err)
	assert.Len(t, res.List, 1)
}

func TestEngineCompareInvalidRequest(t *testing.T) {
	engine := NewEngine(nil, nil)

	_, err := engine.Compare(context.Background(), bananasCatalog(), testLocation(), Filters{MaxDistance: 2})
	assert.True(t, IsInvalidRequest(err))
	assert.Zero(t, engine.memo.Len())
}

func TestEngineStores(t *testing.T) {
	engine := NewEngine(nil, nil)

	entries, err := engine.Stores(context.Background(), storesCatalog(), "milk", testLocation(), StoresViewOptions{MaxDistance: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"four", "two"}, storeIDs(entries))

	// Zero max distance uses the configured default of 10 miles.
	entries, err = engine.Stores(context.Background(), storesCatalog(), "milk", testLocation(), StoresViewOptions{Sort: SortDistance})
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "four", "nine"}, storeIDs(entries))

	_, err = engine.Stores(context.Background(), storesCatalog(), "milk", testLocation(), StoresViewOptions{Sort: "name"})
	assert.True(t, IsInvalidRequest(err))

	_, err = engine.Stores(context.Background(), storesCatalog(), "milk", testLocation(), StoresViewOptions{MaxDistance: 7})
	assert.True(t, IsInvalidRequest(err))
}

package catalog

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/compare-service/internal/compare"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *compare.Catalog)
		wantErr string
	}{
		{"Valid", func(c *compare.Catalog) {}, ""},
		{"Missing store id", func(c *compare.Catalog) { c.Stores[0].ID = " " }, "store 0: missing id"},
		{"Duplicate store", func(c *compare.Catalog) { c.Stores[1].ID = "s1" }, "store s1: duplicate id"},
		{"Missing state", func(c *compare.Catalog) { c.Stores[0].State = "" }, "missing state"},
		{"Latitude out of range", func(c *compare.Catalog) { c.Stores[0].Coordinates.Latitude = 91 }, "invalid coordinates"},
		{"NaN longitude", func(c *compare.Catalog) { c.Stores[0].Coordinates.Longitude = math.NaN() }, "invalid coordinates"},
		{"Rating above five", func(c *compare.Catalog) { c.Stores[0].Rating = float64Ptr(5.5) }, "rating must be between 0 and 5"},
		{"Duplicate item", func(c *compare.Catalog) { c.Items[1].ID = "bananas" }, "item bananas: duplicate id"},
		{"Negative price", func(c *compare.Catalog) { c.Prices[0].Price = -1 }, "price must be positive"},
		{"Zero price", func(c *compare.Catalog) { c.Prices[0].Price = 0 }, "price 0 (bananas@s1): price must be positive"},
		{"Negative sale price", func(c *compare.Catalog) { c.Prices[0].SalePrice = int64Ptr(-5) }, "negative sale price"},
		{"Dangling references tolerated", func(c *compare.Catalog) { c.Prices[0].StoreID = "ghost" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleCatalog()
			tt.mutate(c)
			err := Validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := sampleCatalog()
	c.Stores[0].State = ""
	c.Prices[2].Price = -1

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing state")
	assert.Contains(t, err.Error(), "price must be positive")
}

func TestComputeVersion(t *testing.T) {
	a, err := ComputeVersion(sampleCatalog())
	require.NoError(t, err)
	b, err := ComputeVersion(sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)

	changed := sampleCatalog()
	changed.Prices[0].Price = 70
	c, err := ComputeVersion(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	// The version field itself does not feed the hash.
	stamped := sampleCatalog()
	stamped.Version = "anything"
	d, err := ComputeVersion(stamped)
	require.NoError(t, err)
	assert.Equal(t, a, d)
}

func TestStampVersion(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"No label", "", "abc123"},
		{"Label", "2026-10-01", "2026-10-01+abc123"},
		{"Already stamped", "2026-10-01+abc123", "2026-10-01+abc123"},
		{"Label is the hash", "abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StampVersion(tt.label, "abc123"))
		})
	}
}

func TestMemoryProvider(t *testing.T) {
	c := sampleCatalog()
	got, err := NewMemoryProvider(c).Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = NewMemoryProvider(nil).Load(context.Background())
	assert.Error(t, err)
}

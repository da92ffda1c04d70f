package catalog

import (
	"github.com/kosarica/compare-service/internal/compare"
)

func strPtr(s string) *string       { return &s }
func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func sampleCatalog() *compare.Catalog {
	return &compare.Catalog{
		Stores: []compare.Store{
			{ID: "s1", Name: "Corner Market", City: "Springfield", State: "IL", ZipCode: "62701",
				Coordinates: compare.Coordinates{Latitude: 39.79, Longitude: -89.65}, Rating: float64Ptr(4.5)},
			{ID: "s2", Name: "Big Box", City: "Springfield", State: "IL", ZipCode: "62702",
				Coordinates: compare.Coordinates{Latitude: 39.82, Longitude: -89.65}},
		},
		Items: []compare.Item{
			{ID: "bananas", Name: "Bananas", Category: "Produce", Tags: []string{"fruit"}},
			{ID: "milk", Name: "Whole Milk", Brand: strPtr("Prairie Farms"), Category: "Dairy"},
		},
		Prices: []compare.PriceEntry{
			{ItemID: "bananas", StoreID: "s1", Price: 68, InStock: true},
			{ItemID: "bananas", StoreID: "s2", Price: 59, SalePrice: int64Ptr(49), InStock: true},
			{ItemID: "milk", StoreID: "s1", Price: 399, Unit: "gal", Size: "1gal", InStock: false},
		},
	}
}

package compare

import (
	"math"
)

// Springfield, IL
var home = Coordinates{Latitude: 39.7817, Longitude: -89.6501}

// milesPerDegreeLat is the length of one degree of latitude on the sphere used by DistanceMiles.
var milesPerDegreeLat = earthRadiusMiles * math.Pi / 180

// north returns the point the given number of miles due north of home.
func north(miles float64) Coordinates {
	return Coordinates{Latitude: home.Latitude + miles/milesPerDegreeLat, Longitude: home.Longitude}
}

func strPtr(s string) *string       { return &s }
func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func testLocation() *UserLocation {
	return &UserLocation{
		City:        "Springfield",
		State:       "IL",
		ZipCode:     strPtr("62701"),
		Coordinates: home,
	}
}

func store(id, state, zip string, miles float64) Store {
	return Store{
		ID:          id,
		Name:        "Store " + id,
		City:        "Somewhere",
		State:       state,
		ZipCode:     zip,
		Coordinates: north(miles),
	}
}

func item(id, name, category string) Item {
	return Item{ID: id, Name: name, Category: category}
}

func price(itemID, storeID string, cents int64) PriceEntry {
	return PriceEntry{ItemID: itemID, StoreID: storeID, Price: cents, InStock: true}
}

func sale(itemID, storeID string, cents, saleCents int64) PriceEntry {
	p := price(itemID, storeID, cents)
	p.SalePrice = int64Ptr(saleCents)
	return p
}

// bananasCatalog: A is in the user's zip 0.8 mi away, B is 2.8 mi away with a sale.
func bananasCatalog() *Catalog {
	return &Catalog{
		Items: []Item{item("bananas", "Bananas", "Produce")},
		Stores: []Store{
			store("A", "IL", "62701", 0.8),
			store("B", "IL", "62702", 2.8),
		},
		Prices: []PriceEntry{
			price("bananas", "A", 68),
			sale("bananas", "B", 59, 49),
		},
		Version: "bananas-v1",
	}
}

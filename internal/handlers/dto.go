package handlers

import (
	"math"

	"github.com/kosarica/compare-service/internal/compare"
)

// LocationDTO is the wire shape of a user location.
type LocationDTO struct {
	City      string  `json:"city" binding:"max=100"`
	State     string  `json:"state" binding:"required,max=50"`
	ZipCode   *string `json:"zipCode,omitempty" binding:"omitempty,max=10"`
	Address   *string `json:"address,omitempty" binding:"omitempty,max=200"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

func (l *LocationDTO) toDomain() *compare.UserLocation {
	if l == nil {
		return nil
	}
	return &compare.UserLocation{
		City:        l.City,
		State:       l.State,
		ZipCode:     l.ZipCode,
		Address:     l.Address,
		Coordinates: compare.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude},
	}
}

func locationFromDomain(l *compare.UserLocation) *LocationDTO {
	if l == nil {
		return nil
	}
	return &LocationDTO{
		City:      l.City,
		State:     l.State,
		ZipCode:   l.ZipCode,
		Address:   l.Address,
		Latitude:  l.Coordinates.Latitude,
		Longitude: l.Coordinates.Longitude,
	}
}

// CompareRequest is the body of POST /internal/compare.
type CompareRequest struct {
	Location *LocationDTO `json:"location,omitempty"`
	// UseDefaultLocation resolves the server's default location when no location is sent.
	UseDefaultLocation bool    `json:"useDefaultLocation,omitempty"`
	MaxDistance        float64 `json:"maxDistance,omitempty" binding:"omitempty,gt=0"`
	Query              string  `json:"query,omitempty" binding:"max=200"`
	Category           string  `json:"category,omitempty" binding:"max=100"`
	SortBy             string  `json:"sortBy,omitempty" binding:"omitempty,oneof=price distance name rating"`
}

// StoresRequest is the body of POST /internal/compare/items/:itemId/stores.
type StoresRequest struct {
	Location           *LocationDTO `json:"location,omitempty"`
	UseDefaultLocation bool         `json:"useDefaultLocation,omitempty"`
	Sort               string       `json:"sort,omitempty" binding:"omitempty,oneof=price distance"`
	IncludeFar         bool         `json:"includeFar,omitempty"`
	MaxDistance        float64      `json:"maxDistance,omitempty" binding:"omitempty,gt=0"`
}

// StoreDTO is the wire shape of a store.
type StoreDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Chain             string   `json:"chain,omitempty"`
	Address           string   `json:"address,omitempty"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	ZipCode           string   `json:"zipCode"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	PermanentlyClosed bool     `json:"permanentlyClosed,omitempty"`
	Rating            *float64 `json:"rating,omitempty"`
}

// ItemDTO is the wire shape of a catalog item.
type ItemDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Brand    *string  `json:"brand,omitempty"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// PricedEntryDTO is one store's price for an item. Money is in cents, distance in miles.
type PricedEntryDTO struct {
	Store          StoreDTO `json:"store"`
	Price          int64    `json:"price"`
	SalePrice      *int64   `json:"salePrice,omitempty"`
	EffectivePrice int64    `json:"effectivePrice"`
	OnSale         bool     `json:"onSale"`
	Unit           string   `json:"unit,omitempty"`
	Size           string   `json:"size,omitempty"`
	InStock        bool     `json:"inStock"`
	Distance       float64  `json:"distance"`
}

// ComparisonDTO aggregates one item's prices.
type ComparisonDTO struct {
	Item         ItemDTO          `json:"item"`
	Entries      []PricedEntryDTO `json:"entries"`
	LowestPrice  *PricedEntryDTO  `json:"lowestPrice,omitempty"`
	AveragePrice int64            `json:"averagePrice"`
	Savings      int64            `json:"savings"`
	// NearestDistance is omitted when the item has no priced store.
	NearestDistance *float64 `json:"nearestDistance,omitempty"`
}

// FiltersDTO echoes the resolved filters.
type FiltersDTO struct {
	MaxDistance float64 `json:"maxDistance"`
	Query       string  `json:"query,omitempty"`
	Category    string  `json:"category,omitempty"`
	SortBy      string  `json:"sortBy"`
}

// CompareResponse is the default comparison list.
type CompareResponse struct {
	List           []ComparisonDTO `json:"list"`
	Note           string          `json:"note"`
	Tier           string          `json:"tier"`
	TiersEvaluated int             `json:"tiersEvaluated"`
	Location       *LocationDTO    `json:"location"`
	Filters        FiltersDTO      `json:"filters"`
	CatalogVersion string          `json:"catalogVersion,omitempty"`
}

// StoresResponse is the all-stores view for one item.
type StoresResponse struct {
	ItemID  string           `json:"itemId"`
	Entries []PricedEntryDTO `json:"entries"`
	Total   int              `json:"total"`
}

// ErrorResponse is returned for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func storeFromDomain(s compare.Store) StoreDTO {
	return StoreDTO{
		ID:                s.ID,
		Name:              s.Name,
		Chain:             s.Chain,
		Address:           s.Address,
		City:              s.City,
		State:             s.State,
		ZipCode:           s.ZipCode,
		Latitude:          s.Coordinates.Latitude,
		Longitude:         s.Coordinates.Longitude,
		PermanentlyClosed: s.PermanentlyClosed,
		Rating:            s.Rating,
	}
}

func entryFromDomain(e compare.PricedEntry) PricedEntryDTO {
	return PricedEntryDTO{
		Store:          storeFromDomain(e.Store),
		Price:          e.Price,
		SalePrice:      e.SalePrice,
		EffectivePrice: e.EffectivePrice(),
		OnSale:         e.OnSale(),
		Unit:           e.Unit,
		Size:           e.Size,
		InStock:        e.InStock,
		Distance:       e.Distance,
	}
}

func entriesFromDomain(entries []compare.PricedEntry) []PricedEntryDTO {
	out := make([]PricedEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = entryFromDomain(e)
	}
	return out
}

func comparisonFromDomain(c compare.Comparison) ComparisonDTO {
	dto := ComparisonDTO{
		Item: ItemDTO{
			ID:       c.Item.ID,
			Name:     c.Item.Name,
			Brand:    c.Item.Brand,
			Category: c.Item.Category,
			Tags:     c.Item.Tags,
		},
		Entries:      entriesFromDomain(c.Entries),
		AveragePrice: c.AveragePrice,
		Savings:      c.Savings,
	}
	if c.LowestPrice != nil {
		lowest := entryFromDomain(*c.LowestPrice)
		dto.LowestPrice = &lowest
	}
	// JSON cannot carry +Inf.
	if !math.IsInf(c.NearestDistance, 0) && !math.IsNaN(c.NearestDistance) {
		d := c.NearestDistance
		dto.NearestDistance = &d
	}
	return dto
}

func compareResponseFromDomain(r *compare.ComparisonResult, version string) CompareResponse {
	list := make([]ComparisonDTO, len(r.List))
	for i, c := range r.List {
		list[i] = comparisonFromDomain(c)
	}
	return CompareResponse{
		List:           list,
		Note:           string(r.Note),
		Tier:           r.Tier.String(),
		TiersEvaluated: r.TiersEvaluated,
		Location:       locationFromDomain(r.Location),
		Filters: FiltersDTO{
			MaxDistance: r.Filters.MaxDistance,
			Query:       r.Filters.Query,
			Category:    r.Filters.Category,
			SortBy:      string(r.Filters.SortBy),
		},
		CatalogVersion: version,
	}
}

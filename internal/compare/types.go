package compare

import (
	"errors"
	"strings"
)

// Coordinates is a WGS 84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Store is immutable reference data for a physical store.
type Store struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Chain             string      `json:"chain,omitempty"`
	Address           string      `json:"address,omitempty"`
	City              string      `json:"city"`
	State             string      `json:"state"`
	ZipCode           string      `json:"zipCode"`
	Coordinates       Coordinates `json:"coordinates"`
	PermanentlyClosed bool        `json:"permanentlyClosed,omitempty"`
	Rating            *float64    `json:"rating,omitempty"` // 0-5, nil when unrated
}

// Item is immutable reference data for a catalog product.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Brand    *string  `json:"brand,omitempty"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// PriceEntry is the price of one item at one store, in minor currency units (cents).
type PriceEntry struct {
	ItemID    string `json:"itemId"`
	StoreID   string `json:"storeId"`
	Price     int64  `json:"price"`
	SalePrice *int64 `json:"salePrice,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Size      string `json:"size,omitempty"`
	InStock   bool   `json:"inStock"`
	Closed    bool   `json:"closed,omitempty"`
}

// EffectivePrice returns the price used for every comparison: the sale price
// when one exists and is lower, otherwise the regular price.
func (p PriceEntry) EffectivePrice() int64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

// OnSale reports whether the sale price undercuts the regular price.
func (p PriceEntry) OnSale() bool {
	return p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price
}

// ReferencePrice returns the struck-through regular price, only when on sale.
func (p PriceEntry) ReferencePrice() (int64, bool) {
	if !p.OnSale() {
		return 0, false
	}
	return p.Price, true
}

// Catalog is an immutable snapshot supplied by a catalog provider.
type Catalog struct {
	Items   []Item       `json:"items"`
	Stores  []Store      `json:"stores"`
	Prices  []PriceEntry `json:"prices"`
	Version string       `json:"version,omitempty"`
}

// UserLocation is the request-scoped location comparisons are computed against.
type UserLocation struct {
	City        string      `json:"city"`
	State       string      `json:"state"`
	ZipCode     *string     `json:"zipCode,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Address     *string     `json:"address,omitempty"`
}

// PricedEntry is a PriceEntry joined with its store and the distance in miles
// from the user's location. It is derived and never cached across locations.
type PricedEntry struct {
	PriceEntry
	Store    Store
	Distance float64
}

// Comparison aggregates the priced entries of one item.
type Comparison struct {
	Item            Item
	Entries         []PricedEntry // eligible entries
	LowestPrice     *PricedEntry
	AveragePrice    int64
	Savings         int64
	NearestDistance float64
}

// FallbackNote tells the caller which fallback tier produced the list.
type FallbackNote string

const (
	NoteNone          FallbackNote = "none"
	NoteExpanded      FallbackNote = "expanded"
	NoteNearest       FallbackNote = "nearest"
	NoteNoLocalStores FallbackNote = "no_local_stores"
)

// Tier identifies a rung of the fallback ladder.
type Tier int

const (
	TierStrict Tier = iota + 1
	TierExpanded
	TierNearest
	TierNoLocalStores
)

// String returns the metric/log label for the tier.
func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierExpanded:
		return "expanded"
	case TierNearest:
		return "nearest"
	case TierNoLocalStores:
		return "no_local_stores"
	default:
		return "unknown"
	}
}

// Note maps the tier to the note surfaced to the UI.
func (t Tier) Note() FallbackNote {
	switch t {
	case TierExpanded:
		return NoteExpanded
	case TierNearest:
		return NoteNearest
	case TierNoLocalStores:
		return NoteNoLocalStores
	default:
		return NoteNone
	}
}

// SortKey selects the ordering of the default list.
type SortKey string

const (
	SortPrice    SortKey = "price"
	SortDistance SortKey = "distance"
	SortName     SortKey = "name"
	SortRating   SortKey = "rating"
)

// Filters are the caller-controlled parameters of the default list.
type Filters struct {
	MaxDistance float64 // miles, 0 means DefaultMaxDistance
	Query       string
	Category    string
	SortBy      SortKey
}

// ComparisonResult is the default list emitted to the UI.
type ComparisonResult struct {
	List           []Comparison
	Note           FallbackNote
	Tier           Tier
	TiersEvaluated int
	Location       *UserLocation
	Filters        Filters
}

// StoresViewOptions controls the "all stores for one item" view.
type StoresViewOptions struct {
	Sort        SortKey // price or distance
	IncludeFar  bool
	MaxDistance float64
}

// ErrItemNotFound is returned when the all-stores view is asked for an unknown item.
var ErrItemNotFound = errors.New("item not found")

// ErrInvalidRequest is returned when comparison parameters are invalid.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}

// IsInvalidRequest reports whether err is (or wraps) an ErrInvalidRequest.
func IsInvalidRequest(err error) bool {
	var target ErrInvalidRequest
	return errors.As(err, &target)
}

func sameState(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Package catalog loads catalog snapshots and serves them to the comparison engine.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kosarica/compare-service/internal/compare"
)

// Provider supplies immutable catalog snapshots.
type Provider interface {
	// Load returns a fresh snapshot. Implementations must not retain or mutate
	// the returned catalog.
	Load(ctx context.Context) (*compare.Catalog, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// MemoryProvider serves a fixed catalog.
type MemoryProvider struct {
	catalog *compare.Catalog
}

// NewMemoryProvider creates a provider returning catalog on every load.
func NewMemoryProvider(catalog *compare.Catalog) *MemoryProvider {
	return &MemoryProvider{catalog: catalog}
}

// Load returns the catalog.
func (p *MemoryProvider) Load(ctx context.Context) (*compare.Catalog, error) {
	if p.catalog == nil {
		return nil, errors.New("memory provider has no catalog")
	}
	return p.catalog, nil
}

// Name returns "memory".
func (p *MemoryProvider) Name() string { return "memory" }

// ComputeVersion hashes the catalog content. Equal content gives an equal version.
func ComputeVersion(c *compare.Catalog) (string, error) {
	payload, err := json.Marshal(struct {
		Items  []compare.Item
		Stores []compare.Store
		Prices []compare.PriceEntry
	}{c.Items, c.Stores, c.Prices})
	if err != nil {
		return "", fmt.Errorf("failed to hash catalog: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8]), nil
}

// StampVersion combines a provider-supplied version label with the content
// hash, so two catalogs share a version only when their content is equal.
// An empty label yields the bare hash. Already stamped labels are kept.
func StampVersion(label, hash string) string {
	switch {
	case label == "":
		return hash
	case label == hash, strings.HasSuffix(label, "+"+hash):
		return label
	default:
		return label + "+" + hash
	}
}

// Validate checks the structural rules a catalog must satisfy before it is served.
// Dangling references are tolerated (the engine skips them); malformed records are not.
func Validate(c *compare.Catalog) error {
	var errs []error

	stores := make(map[string]struct{}, len(c.Stores))
	for i, s := range c.Stores {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Errorf("store %d: missing id", i))
			continue
		}
		if _, dup := stores[s.ID]; dup {
			errs = append(errs, fmt.Errorf("store %s: duplicate id", s.ID))
		}
		stores[s.ID] = struct{}{}
		if strings.TrimSpace(s.State) == "" {
			errs = append(errs, fmt.Errorf("store %s: missing state", s.ID))
		}
		if !validCoordinates(s.Coordinates) {
			errs = append(errs, fmt.Errorf("store %s: invalid coordinates", s.ID))
		}
		if s.Rating != nil && (*s.Rating < 0 || *s.Rating > 5) {
			errs = append(errs, fmt.Errorf("store %s: rating must be between 0 and 5", s.ID))
		}
	}

	items := make(map[string]struct{}, len(c.Items))
	for i, it := range c.Items {
		if strings.TrimSpace(it.ID) == "" {
			errs = append(errs, fmt.Errorf("item %d: missing id", i))
			continue
		}
		if _, dup := items[it.ID]; dup {
			errs = append(errs, fmt.Errorf("item %s: duplicate id", it.ID))
		}
		items[it.ID] = struct{}{}
	}

	for i, p := range c.Prices {
		if p.Price <= 0 {
			errs = append(errs, fmt.Errorf("price %d (%s@%s): price must be positive", i, p.ItemID, p.StoreID))
		}
		if p.SalePrice != nil && *p.SalePrice < 0 {
			errs = append(errs, fmt.Errorf("price %d (%s@%s): negative sale price", i, p.ItemID, p.StoreID))
		}
	}

	return errors.Join(errs...)
}

func validCoordinates(c compare.Coordinates) bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

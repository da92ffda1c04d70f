package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/matching"
	"github.com/kosarica/compare-service/internal/parsers"
	"github.com/kosarica/compare-service/internal/parsers/csv"
)

// Tabular catalogs (CSV directories and XLSX workbooks) share these layouts.
// Header names are matched loosely; the first alias found wins.
var (
	storeColumns = map[string][]string{
		"id":        {"id", "store_id"},
		"name":      {"name", "store_name"},
		"chain":     {"chain", "banner"},
		"address":   {"address", "street"},
		"city":      {"city"},
		"state":     {"state", "region"},
		"zip":       {"zip_code", "zip", "postal_code"},
		"latitude":  {"latitude", "lat"},
		"longitude": {"longitude", "lon", "lng"},
		"closed":    {"permanently_closed", "closed"},
		"rating":    {"rating"},
	}
	itemColumns = map[string][]string{
		"id":       {"id", "item_id"},
		"name":     {"name", "item_name"},
		"brand":    {"brand"},
		"category": {"category"},
		"tags":     {"tags"},
	}
	priceColumns = map[string][]string{
		"item":     {"item_id", "item"},
		"store":    {"store_id", "store"},
		"price":    {"price", "regular_price"},
		"sale":     {"sale_price", "sale"},
		"unit":     {"unit"},
		"size":     {"size", "quantity"},
		"in_stock": {"in_stock", "available"},
		"closed":   {"closed"},
	}
)

// columns resolves a layout against a table.
type columns map[string]int

func resolveColumns(t *parsers.Table, layout map[string][]string, required ...string) (columns, error) {
	cols := make(columns, len(layout))
	for field, aliases := range layout {
		if i, ok := t.Column(aliases...); ok {
			cols[field] = i
		} else {
			cols[field] = -1
		}
	}
	for _, field := range required {
		if cols[field] < 0 {
			return nil, fmt.Errorf("%s: missing required column %q", t.Name, layout[field][0])
		}
	}
	return cols, nil
}

func (c columns) get(row []string, field string) string {
	return parsers.Cell(row, c[field])
}

func storesFromTable(t *parsers.Table) ([]compare.Store, error) {
	cols, err := resolveColumns(t, storeColumns, "id", "name", "state", "latitude", "longitude")
	if err != nil {
		return nil, err
	}

	var errs []error
	stores := make([]compare.Store, 0, len(t.Rows))
	for i, row := range t.Rows {
		rowNum := i + 2
		s := compare.Store{
			ID:      cols.get(row, "id"),
			Name:    cols.get(row, "name"),
			Chain:   cols.get(row, "chain"),
			Address: cols.get(row, "address"),
			City:    cols.get(row, "city"),
			State:   strings.ToUpper(cols.get(row, "state")),
			ZipCode: cols.get(row, "zip"),
		}

		lat, err := strconv.ParseFloat(cols.get(row, "latitude"), 64)
		if err != nil {
			errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "latitude", Message: err.Error()})
			continue
		}
		lon, err := strconv.ParseFloat(cols.get(row, "longitude"), 64)
		if err != nil {
			errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "longitude", Message: err.Error()})
			continue
		}
		s.Coordinates = compare.Coordinates{Latitude: lat, Longitude: lon}

		if s.PermanentlyClosed, err = parseBool(cols.get(row, "closed"), false); err != nil {
			errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "permanently_closed", Message: err.Error()})
			continue
		}
		if v := cols.get(row, "rating"); v != "" {
			r, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "rating", Message: err.Error()})
				continue
			}
			s.Rating = &r
		}
		stores = append(stores, s)
	}
	return stores, errors.Join(errs...)
}

func itemsFromTable(t *parsers.Table) ([]compare.Item, error) {
	cols, err := resolveColumns(t, itemColumns, "id", "name")
	if err != nil {
		return nil, err
	}

	items := make([]compare.Item, 0, len(t.Rows))
	for _, row := range t.Rows {
		it := compare.Item{
			ID:       cols.get(row, "id"),
			Name:     cols.get(row, "name"),
			Category: cols.get(row, "category"),
			Tags:     splitTags(cols.get(row, "tags")),
		}
		if b := cols.get(row, "brand"); b != "" {
			it.Brand = &b
		}
		items = append(items, it)
	}
	return items, nil
}

func pricesFromTable(t *parsers.Table) ([]compare.PriceEntry, error) {
	cols, err := resolveColumns(t, priceColumns, "item", "store", "price")
	if err != nil {
		return nil, err
	}

	var errs []error
	prices := make([]compare.PriceEntry, 0, len(t.Rows))
	for i, row := range t.Rows {
		rowNum := i + 2
		p := compare.PriceEntry{
			ItemID:  cols.get(row, "item"),
			StoreID: cols.get(row, "store"),
			Unit:    cols.get(row, "unit"),
			Size:    cols.get(row, "size"),
		}
		if p.Unit != "" || p.Size != "" {
			p.Size = matching.NormalizeUnit(p.Unit, p.Size)
		}

		if p.Price, err = csv.ParsePrice(cols.get(row, "price")); err != nil {
			errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "price", Message: err.Error()})
			continue
		}
		if v := cols.get(row, "sale"); v != "" {
			sale, err := csv.ParsePrice(v)
			if err != nil {
				errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "sale_price", Message: err.Error()})
				continue
			}
			p.SalePrice = &sale
		}
		if p.InStock, err = parseBool(cols.get(row, "in_stock"), true); err != nil {
			errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "in_stock", Message: err.Error()})
			continue
		}
		if p.Closed, err = parseBool(cols.get(row, "closed"), false); err != nil {
			errs = append(errs, parsers.RowError{Table: t.Name, Row: rowNum, Field: "closed", Message: err.Error()})
			continue
		}
		prices = append(prices, p)
	}
	return prices, errors.Join(errs...)
}

// parseBool accepts the spellings spreadsheet exports use. Blank means def.
func parseBool(v string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return def, nil
	case "1", "true", "t", "yes", "y", "x":
		return true, nil
	case "0", "false", "f", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", v)
	}
}

// splitTags splits on "|", ";" or ",", dropping blanks.
func splitTags(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == '|' || r == ';' || r == ',' })
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

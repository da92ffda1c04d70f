// Package parsers holds the tabular readers used by the catalog loaders.
package parsers

import (
	"fmt"
	"strings"

	"github.com/kosarica/compare-service/internal/matching"
)

// Table is a header-indexed set of rows read from a CSV file or a worksheet.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewTable creates a table. Header names are matched case-, whitespace- and
// separator-insensitively, so "Zip Code", "zip_code" and "ZIPCODE" are the same column.
func NewTable(name string, headers []string, rows [][]string) *Table {
	t := &Table{Name: name, Headers: headers, Rows: rows, index: make(map[string]int, len(headers))}
	for i, h := range headers {
		key := HeaderKey(h)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	return t
}

// HeaderKey normalizes a header name for lookup.
func HeaderKey(h string) string {
	h = matching.FoldKey(h)
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// Column returns the index of the first header matching any of names.
func (t *Table) Column(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := t.index[HeaderKey(n)]; ok {
			return i, true
		}
	}
	return -1, false
}

// RequireColumns returns an error naming the first missing column.
func (t *Table) RequireColumns(names ...string) error {
	for _, n := range names {
		if _, ok := t.Column(n); !ok {
			return fmt.Errorf("%s: missing required column %q", t.Name, n)
		}
	}
	return nil
}

// Cell returns the trimmed value of row at column, or "" when the row is short.
func Cell(row []string, column int) string {
	if column < 0 || column >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[column])
}

// IsEmptyRow reports whether every cell of row is blank.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// RowError describes a row that could not be converted.
type RowError struct {
	Table   string
	Row     int // 1-based, header included
	Field   string
	Message string
}

func (e RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s row %d: %s", e.Table, e.Row, e.Message)
	}
	return fmt.Sprintf("%s row %d, %s: %s", e.Table, e.Row, e.Field, e.Message)
}

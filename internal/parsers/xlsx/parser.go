package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/kosarica/compare-service/internal/parsers"
)

// Workbook is an opened XLSX workbook.
type Workbook struct {
	file *excelize.File
}

// Open opens a workbook from bytes.
func Open(content []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists the worksheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet reads a worksheet into a table. Sheet names match case-insensitively.
// The first non-empty row is the header; empty rows are skipped.
func (w *Workbook) Sheet(name string) (*parsers.Table, error) {
	sheetName, err := w.selectSheet(name)
	if err != nil {
		return nil, err
	}

	rows, err := w.file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}

	var headers []string
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		if parsers.IsEmptyRow(row) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(row))
			for i, cell := range row {
				headers[i] = strings.TrimSpace(cell)
			}
			continue
		}
		data = append(data, row)
	}
	if headers == nil {
		return nil, fmt.Errorf("worksheet %q is empty", sheetName)
	}

	log.Debug().
		Str("sheet", sheetName).
		Int("rows", len(data)).
		Msg("Parsed worksheet")

	return parsers.NewTable(sheetName, headers, data), nil
}

// selectSheet resolves a sheet by name
func (w *Workbook) selectSheet(name string) (string, error) {
	sheetList := w.file.GetSheetList()
	if len(sheetList) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	for _, s := range sheetList {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found. Available sheets: %s", name, strings.Join(sheetList, ", "))
}

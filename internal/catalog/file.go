package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/parsers"
	"github.com/kosarica/compare-service/internal/parsers/archive"
	"github.com/kosarica/compare-service/internal/parsers/csv"
	"github.com/kosarica/compare-service/internal/parsers/xlsx"
)

// CSV directory layout
const (
	storesFile = "stores.csv"
	itemsFile  = "items.csv"
	pricesFile = "prices.csv"
)

// XLSX workbook layout
const (
	storesSheet = "Stores"
	itemsSheet  = "Items"
	pricesSheet = "Prices"
)

// catalogJSON is the document looked for inside a ZIP bundle.
const catalogJSON = "catalog.json"

// FileProvider loads a catalog from disk. The path may be a .json document,
// an .xlsx workbook, a .zip bundle or a directory of CSV files.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Name returns "file".
func (p *FileProvider) Name() string { return "file" }

// Load reads and parses the catalog.
func (p *FileProvider) Load(ctx context.Context) (*compare.Catalog, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog path: %w", err)
	}

	if info.IsDir() {
		return loadCSVDir(ctx, p.path)
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(p.path)) {
	case ".json":
		return DecodeJSON(data)
	case ".xlsx":
		return DecodeXLSX(data)
	case ".zip":
		return DecodeZIP(ctx, data)
	default:
		return nil, fmt.Errorf("unsupported catalog file %q: expected .json, .xlsx, .zip or a directory", p.path)
	}
}

// DecodeJSON decodes a {"items", "stores", "prices"} document.
func DecodeJSON(data []byte) (*compare.Catalog, error) {
	var c compare.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog JSON: %w", err)
	}
	return &c, nil
}

// DecodeXLSX reads the Stores, Items and Prices sheets of a workbook.
func DecodeXLSX(data []byte) (*compare.Catalog, error) {
	wb, err := xlsx.Open(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	var c compare.Catalog

	storesTable, err := wb.Sheet(storesSheet)
	if err != nil {
		return nil, err
	}
	if c.Stores, err = storesFromTable(storesTable); err != nil {
		return nil, err
	}

	itemsTable, err := wb.Sheet(itemsSheet)
	if err != nil {
		return nil, err
	}
	if c.Items, err = itemsFromTable(itemsTable); err != nil {
		return nil, err
	}

	pricesTable, err := wb.Sheet(pricesSheet)
	if err != nil {
		return nil, err
	}
	if c.Prices, err = pricesFromTable(pricesTable); err != nil {
		return nil, err
	}

	return &c, nil
}

// DecodeZIP reads a bundle holding catalog.json, a single workbook, or the
// three CSV tables. Directories inside the archive are ignored.
func DecodeZIP(ctx context.Context, data []byte) (*compare.Catalog, error) {
	files, err := archive.Expand(ctx, data, archive.DefaultOptions())
	if err != nil {
		return nil, err
	}

	if f, ok := archive.Find(files, catalogJSON); ok {
		return DecodeJSON(f.Content)
	}
	if _, ok := archive.Find(files, storesFile); ok {
		return decodeCSVTables(ctx, func(name string) ([]byte, error) {
			f, ok := archive.Find(files, name)
			if !ok {
				return nil, fmt.Errorf("archive has no %s", name)
			}
			return f.Content, nil
		})
	}
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f.Name), ".xlsx") {
			return DecodeXLSX(f.Content)
		}
	}
	return nil, fmt.Errorf("archive holds no %s, %s or workbook", catalogJSON, storesFile)
}

// loadCSVDir parses the three CSV tables of dir.
func loadCSVDir(ctx context.Context, dir string) (*compare.Catalog, error) {
	return decodeCSVTables(ctx, func(name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	})
}

// decodeCSVTables parses the three tables concurrently. read returns the raw
// bytes of a table file.
func decodeCSVTables(ctx context.Context, read func(name string) ([]byte, error)) (*compare.Catalog, error) {
	var c compare.Catalog
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := readCSV(ctx, storesFile, read)
		if err != nil {
			return err
		}
		c.Stores, err = storesFromTable(t)
		return err
	})
	g.Go(func() error {
		t, err := readCSV(ctx, itemsFile, read)
		if err != nil {
			return err
		}
		c.Items, err = itemsFromTable(t)
		return err
	})
	g.Go(func() error {
		t, err := readCSV(ctx, pricesFile, read)
		if err != nil {
			return err
		}
		c.Prices, err = pricesFromTable(t)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

func readCSV(ctx context.Context, name string, read func(string) ([]byte, error)) (*parsers.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := read(name)
	if err != nil {
		return nil, err
	}
	return csv.NewParser(csv.DefaultOptions()).Parse(name, data)
}

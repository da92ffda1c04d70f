package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kosarica/compare-service/internal/compare"
)

// PostgresProvider reads the catalog tables created by database.Migrate.
type PostgresProvider struct {
	db *pgxpool.Pool
}

// NewPostgresProvider creates a provider over db.
func NewPostgresProvider(db *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// Name returns "postgres".
func (p *PostgresProvider) Name() string { return "postgres" }

// Load reads all three tables in one read-only transaction so the snapshot is consistent.
func (p *PostgresProvider) Load(ctx context.Context) (*compare.Catalog, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	c := &compare.Catalog{}

	if c.Stores, err = loadStores(ctx, tx); err != nil {
		return nil, err
	}
	if c.Items, err = loadItems(ctx, tx); err != nil {
		return nil, err
	}
	if c.Prices, err = loadPrices(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return c, nil
}

func loadStores(ctx context.Context, tx pgx.Tx) ([]compare.Store, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, chain, address, city, state, zip_code,
		       latitude, longitude, permanently_closed, rating
		FROM stores
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []compare.Store
	for rows.Next() {
		var s compare.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Chain, &s.Address, &s.City, &s.State, &s.ZipCode,
			&s.Coordinates.Latitude, &s.Coordinates.Longitude, &s.PermanentlyClosed, &s.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}
	return stores, nil
}

func loadItems(ctx context.Context, tx pgx.Tx) ([]compare.Item, error) {
	rows, err := tx.Query(ctx, `SELECT id, name, brand, category, tags FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []compare.Item
	for rows.Next() {
		var it compare.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Brand, &it.Category, &it.Tags); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func loadPrices(ctx context.Context, tx pgx.Tx) ([]compare.PriceEntry, error) {
	rows, err := tx.Query(ctx, `
		SELECT item_id, store_id, price, sale_price, unit, size, in_stock, closed
		FROM prices
		ORDER BY item_id, store_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []compare.PriceEntry
	for rows.Next() {
		var p compare.PriceEntry
		if err := rows.Scan(&p.ItemID, &p.StoreID, &p.Price, &p.SalePrice, &p.Unit, &p.Size, &p.InStock, &p.Closed); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}
	return prices, nil
}

// ImportStats summarizes an import.
type ImportStats struct {
	Stores int
	Items  int
	Prices int
	// Price rows dropped for a dangling reference or a duplicate (item, store) pair.
	SkippedPrices int
}

// WritePostgres replaces the catalog tables with c in a single transaction.
// Rows are bulk-loaded with COPY.
func WritePostgres(ctx context.Context, db *pgxpool.Pool, c *compare.Catalog) (ImportStats, error) {
	var stats ImportStats
	if err := Validate(c); err != nil {
		return stats, fmt.Errorf("refusing to import invalid catalog: %w", err)
	}

	prices := importablePrices(c)
	stats.SkippedPrices = len(c.Prices) - len(prices)

	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE prices, items, stores`); err != nil {
			return fmt.Errorf("failed to truncate catalog tables: %w", err)
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{"stores"},
			[]string{"id", "name", "chain", "address", "city", "state", "zip_code", "latitude", "longitude", "permanently_closed", "rating"},
			pgx.CopyFromSlice(len(c.Stores), func(i int) ([]any, error) {
				s := c.Stores[i]
				return []any{s.ID, s.Name, s.Chain, s.Address, s.City, s.State, s.ZipCode,
					s.Coordinates.Latitude, s.Coordinates.Longitude, s.PermanentlyClosed, s.Rating}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy stores: %w", err)
		}
		stats.Stores = int(n)

		n, err = tx.CopyFrom(ctx, pgx.Identifier{"items"},
			[]string{"id", "name", "brand", "category", "tags"},
			pgx.CopyFromSlice(len(c.Items), func(i int) ([]any, error) {
				it := c.Items[i]
				tags := it.Tags
				if tags == nil {
					tags = []string{}
				}
				return []any{it.ID, it.Name, it.Brand, it.Category, tags}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy items: %w", err)
		}
		stats.Items = int(n)

		now := time.Now()
		n, err = tx.CopyFrom(ctx, pgx.Identifier{"prices"},
			[]string{"item_id", "store_id", "price", "sale_price", "unit", "size", "in_stock", "closed", "updated_at"},
			pgx.CopyFromSlice(len(prices), func(i int) ([]any, error) {
				p := prices[i]
				return []any{p.ItemID, p.StoreID, p.Price, p.SalePrice, p.Unit, p.Size, p.InStock, p.Closed, now}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy prices: %w", err)
		}
		stats.Prices = int(n)
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

// importablePrices drops rows the foreign keys would reject and keeps the
// cheaper entry of a duplicated (item, store) pair, as the engine does.
func importablePrices(c *compare.Catalog) []compare.PriceEntry {
	stores := make(map[string]struct{}, len(c.Stores))
	for _, s := range c.Stores {
		stores[s.ID] = struct{}{}
	}
	items := make(map[string]struct{}, len(c.Items))
	for _, it := range c.Items {
		items[it.ID] = struct{}{}
	}

	type pair struct{ item, store string }
	index := make(map[pair]int, len(c.Prices))
	out := make([]compare.PriceEntry, 0, len(c.Prices))
	for _, p := range c.Prices {
		if _, ok := stores[p.StoreID]; !ok {
			continue
		}
		if _, ok := items[p.ItemID]; !ok {
			continue
		}
		key := pair{p.ItemID, p.StoreID}
		if i, dup := index[key]; dup {
			if p.EffectivePrice() < out[i].EffectivePrice() {
				out[i] = p
			}
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out
}

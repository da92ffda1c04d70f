package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// catalogSchema creates the tables the Postgres catalog provider reads.
// Money columns are integer cents.
var catalogSchema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		chain              TEXT NOT NULL DEFAULT '',
		address            TEXT NOT NULL DEFAULT '',
		city               TEXT NOT NULL DEFAULT '',
		state              TEXT NOT NULL,
		zip_code           TEXT NOT NULL DEFAULT '',
		latitude           DOUBLE PRECISION NOT NULL,
		longitude          DOUBLE PRECISION NOT NULL,
		permanently_closed BOOLEAN NOT NULL DEFAULT FALSE,
		rating             DOUBLE PRECISION CHECK (rating IS NULL OR (rating >= 0 AND rating <= 5))
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		brand    TEXT,
		category TEXT NOT NULL DEFAULT '',
		tags     TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS prices (
		item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		store_id   TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
		price      BIGINT NOT NULL CHECK (price > 0),
		sale_price BIGINT,
		unit       TEXT NOT NULL DEFAULT '',
		size       TEXT NOT NULL DEFAULT '',
		in_stock   BOOLEAN NOT NULL DEFAULT TRUE,
		closed     BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (item_id, store_id)
	)`,
	`CREATE INDEX IF NOT EXISTS prices_store_id_idx ON prices (store_id)`,
	`CREATE INDEX IF NOT EXISTS stores_state_idx ON stores (state)`,
}

// Migrate applies the catalog schema. It is idempotent.
func Migrate(ctx context.Context, p *pgxpool.Pool) error {
	for i, stmt := range catalogSchema {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	log.Info().Int("statements", len(catalogSchema)).Msg("Catalog schema applied")
	return nil
}

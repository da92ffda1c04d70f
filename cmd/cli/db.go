package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/kosarica/compare-service/config"
	"github.com/kosarica/compare-service/internal/catalog"
	"github.com/kosarica/compare-service/internal/database"
)

var dbcheckCmd = &cobra.Command{
	Use:   "dbcheck",
	Short: "Check that the configured database accepts connections",
	Long: `Open a plain database/sql connection to DATABASE_URL and ping it. This
bypasses the pgx pool so driver or TLS problems are reported on their own.`,
	Args: cobra.NoArgs,
	RunE: runDBCheck,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the catalog tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(cmd.Context(), database.Pool()); err != nil {
			return err
		}
		fmt.Println("Catalog schema is up to date")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace the Postgres catalog with a catalog file",
	Long: `Load a catalog from a JSON file, an XLSX workbook, a ZIP bundle or a CSV directory and
replace the contents of the catalog tables with it in one transaction. Price
rows referencing unknown items or stores are skipped.`,
	Example: `  compare-service import ./data/catalog.json
  compare-service import ./data/catalog.xlsx
  compare-service import ./data/export.zip
  compare-service import ./data/csv/`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(dbcheckCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	start := time.Now()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("version query failed: %w", err)
	}
	fmt.Printf("Connection successful (%s)\n%s\n", time.Since(start).Round(time.Millisecond), version)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cat, err := catalog.NewFileProvider(args[0]).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	pool := database.Pool()
	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	stats, err := catalog.WritePostgres(ctx, pool, cat)
	if err != nil {
		return err
	}

	logger.Info().
		Int("stores", stats.Stores).
		Int("items", stats.Items).
		Int("prices", stats.Prices).
		Int("skipped_prices", stats.SkippedPrices).
		Msg("Catalog imported")
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kosarica/compare-service/config"
	"github.com/kosarica/compare-service/internal/catalog"
	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/database"
)

var (
	cfgFile     string
	catalogPath string
	cfg         *config.Config
	logger      *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compare-service",
	Short: "Compare Service CLI - grocery price comparison tool",
	Long: `A CLI for the grocery price comparison service. It runs comparisons
against a catalog file or the configured catalog source, searches locations,
and manages the Postgres catalog tables.`,
	PersistentPreRunE: persistentPreRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file or CSV directory (overrides the configured source)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for commands that take a catalog path
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	needsDB := cmd.Name() == "migrate" || cmd.Name() == "import"
	if needsDB {
		if err := initDatabase(cmd.Context()); err != nil {
			return fmt.Errorf("database initialization failed: %w", err)
		}
		logger.Info().Msg("Database connected")
	}
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Logs go to stderr so command output stays pipeable
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	l := zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = l
	return &l
}

func initDatabase(ctx context.Context) error {
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	pc := database.PoolConfig{URL: dbURL}
	if cfg != nil {
		pc = cfg.Database.PoolConfig()
		pc.URL = dbURL
	}
	if err := database.Connect(ctx, pc); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

// loadCatalog loads a snapshot from --catalog, or from the configured source.
func loadCatalog(ctx context.Context) (*compare.Catalog, error) {
	catCfg := catalog.DefaultConfig()
	if cfg != nil {
		c := cfg.Catalog
		catCfg = &c
	}
	if catalogPath != "" {
		catCfg.Source = catalog.SourceFile
		catCfg.Path = catalogPath
	}

	var pool *pgxpool.Pool
	if catCfg.Source == catalog.SourcePostgres {
		if err := initDatabase(ctx); err != nil {
			return nil, err
		}
		pool = database.Pool()
	}

	provider, err := catalog.NewProvider(catCfg, pool)
	if err != nil {
		return nil, err
	}

	cache := catalog.NewCache(provider, catCfg, nil)
	defer cache.Close()

	snap, err := cache.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", provider.Name(), err)
	}
	logger.Debug().
		Str("version", snap.Catalog.Version).
		Int("items", len(snap.Catalog.Items)).
		Int("stores", len(snap.Catalog.Stores)).
		Msg("Catalog loaded")
	return snap.Catalog, nil
}

func main() {
	err := Execute()
	database.Close()
	if err != nil {
		os.Exit(1)
	}
}

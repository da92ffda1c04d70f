package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kosarica/compare-service/config"
	_ "github.com/kosarica/compare-service/docs"
	"github.com/kosarica/compare-service/internal/catalog"
	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/database"
	"github.com/kosarica/compare-service/internal/handlers"
	"github.com/kosarica/compare-service/internal/location"
	"github.com/kosarica/compare-service/internal/middleware"
	"github.com/kosarica/compare-service/internal/storage"
	"github.com/kosarica/compare-service/internal/telemetry"
)

// @title Compare Service API
// @version 1.0
// @description Internal API for location-aware grocery price comparison.
// @BasePath /internal
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Internal-API-Key
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Str("catalog_source", string(cfg.Catalog.Source)).Msg("Starting compare service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry disabled")
	} else {
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("Failed to flush telemetry")
			}
		}()
	}

	pool := connectDatabase(ctx, cfg, logger)
	defer database.Close()

	provider, err := catalog.NewProvider(&cfg.Catalog, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create catalog provider")
	}
	cache := catalog.NewCache(provider, &cfg.Catalog, catalog.NewMetricsRecorder())
	defer cache.Close()

	if cfg.Catalog.ArchiveDir != "" {
		store, err := storage.NewLocalStorage(cfg.Catalog.ArchiveDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open catalog archive")
		}
		cache.WithArchive(catalog.NewSnapshotArchive(store, cfg.Catalog.ArchiveKeep))
	}

	// The service starts without a catalog; comparison routes answer 503 until one loads.
	if err := cache.Warmup(ctx); err != nil {
		logger.Error().Err(err).Str("provider", provider.Name()).Msg("Initial catalog load failed")
	}
	cache.StartAutoRefresh()

	engine := compare.NewEngine(&cfg.Compare, compare.NewMetricsRecorder())
	fallback := cfg.DefaultLocation.UserLocation()
	handlers.InitCompare(engine, cache, newLocationService(cfg, cache, fallback), fallback)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Auth.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)

		internal.POST("/compare", handlers.Compare)
		internal.POST("/compare/items/:itemId/stores", handlers.ItemStores)

		internal.GET("/locations/search", handlers.SearchLocations)

		cat := internal.Group("/catalog")
		{
			cat.POST("/refresh", handlers.CatalogRefresh)
			cat.GET("/health", handlers.CatalogHealth)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// connectDatabase opens the shared pool when a URL is configured. Only the
// postgres catalog source requires it.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *pgxpool.Pool {
	if cfg.Database.URL == "" {
		logger.Info().Msg("No database configured")
		return nil
	}

	if err := database.Connect(ctx, cfg.Database.PoolConfig()); err != nil {
		if cfg.Catalog.Source == catalog.SourcePostgres {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		logger.Warn().Err(err).Msg("Database unavailable")
		return nil
	}

	if cfg.Catalog.Source == catalog.SourcePostgres {
		if err := database.Migrate(ctx, database.Pool()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply catalog schema")
		}
	}

	logger.Info().Msg("Database connected")
	return database.Pool()
}

// newLocationService prefers the remote geocoder and falls back to searching
// the cities of the loaded catalog's stores.
func newLocationService(cfg *config.Config, cache *catalog.Cache, fallback *compare.UserLocation) location.Service {
	places := func() []location.SearchResult {
		c := cache.Catalog()
		if c == nil {
			return nil
		}
		return location.PlacesFromStores(c.Stores)
	}
	static := location.NewStaticService(fallback, places)

	if cfg.Geocoder.URL == "" {
		return static
	}
	return location.NewGeocoderClient(cfg.Geocoder, static)
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "compare-service").Logger()
	// Package-level component loggers derive from the global logger.
	log.Logger = logger
	return &logger
}

package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/kosarica/compare-service/internal/compare"
	"github.com/kosarica/compare-service/internal/pkg/ids"
)

const refreshKey = "catalog"

// Snapshot is an immutable, validated catalog plus load metadata.
type Snapshot struct {
	Catalog  *compare.Catalog
	LoadedAt time.Time
	LoadID   string
	Source   string
}

// Freshness describes the active snapshot.
type Freshness struct {
	Loaded   bool          `json:"loaded"`
	LoadedAt time.Time     `json:"loadedAt,omitempty"`
	Age      time.Duration `json:"age"`
	IsStale  bool          `json:"isStale"`
	Version  string        `json:"version,omitempty"`
	LoadID   string        `json:"loadId,omitempty"`
	Items    int           `json:"items"`
	Stores   int           `json:"stores"`
	Prices   int           `json:"prices"`
}

// Cache holds the active catalog snapshot and refreshes it from a Provider.
// Readers never block on a refresh: the new snapshot is built off to the side
// and swapped in atomically. A failed refresh keeps the previous snapshot.
type Cache struct {
	provider Provider
	config   *Config
	snapshot atomic.Pointer[Snapshot]
	sf       singleflight.Group

	circuitBreaker *CircuitBreaker
	warmupGate     *WarmupGate
	archive        *SnapshotArchive
	metrics        *MetricsRecorder
	logger         *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCache creates a cache over provider. A nil config uses DefaultConfig.
func NewCache(provider Provider, config *Config, metrics *MetricsRecorder) *Cache {
	if config == nil {
		config = DefaultConfig()
	}
	logger := log.With().Str("component", "catalog_cache").Str("provider", provider.Name()).Logger()
	ctx, cancel := context.WithCancel(context.Background())

	return &Cache{
		provider:       provider,
		config:         config,
		circuitBreaker: NewCircuitBreaker("catalog_"+provider.Name(), config.CircuitBreakerConfig(), metrics, &logger),
		warmupGate:     NewWarmupGate(&logger),
		metrics:        metrics,
		logger:         &logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// WithArchive archives every loaded snapshot to a and lets Warmup fall back
// to the newest archived one. It must be called before Warmup.
func (c *Cache) WithArchive(a *SnapshotArchive) *Cache {
	c.archive = a
	return c
}

// Warmup performs the first load and opens the warmup gate. When the provider
// fails and an archive is configured, the newest archived snapshot is served.
func (c *Cache) Warmup(ctx context.Context) error {
	c.logger.Info().Msg("Starting catalog warmup")
	snap, err := c.Refresh(ctx)
	if err != nil && c.archive != nil {
		archived, archiveErr := c.archive.Latest(ctx)
		if archiveErr != nil {
			return fmt.Errorf("catalog warmup failed: %w (archive: %v)", err, archiveErr)
		}
		c.logger.Warn().
			Err(err).
			Str("load_id", archived.LoadID).
			Time("loaded_at", archived.LoadedAt).
			Msg("Provider unavailable, serving archived catalog")
		c.install(archived)
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog warmup failed: %w", err)
	}
	c.logger.Info().
		Str("load_id", snap.LoadID).
		Str("version", snap.Catalog.Version).
		Msg("Catalog warmup completed")
	return nil
}

// Refresh loads a new snapshot and swaps it in. Concurrent calls share one load.
// The load runs on the cache's own context so a cancelled caller does not
// fail the others; ctx only bounds how long this caller waits.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	if !c.circuitBreaker.Allow() {
		c.logger.Warn().
			Str("circuit_state", c.circuitBreaker.State().String()).
			Msg("Circuit breaker rejected catalog load")
		return nil, ErrCircuitOpen
	}

	ch := c.sf.DoChan(refreshKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(c.ctx, c.config.LoadTimeout)
		defer cancel()

		snap, err := c.load(loadCtx)
		if err != nil {
			c.circuitBreaker.RecordFailure(err)
			return nil, err
		}
		c.circuitBreaker.RecordSuccess()
		c.install(snap)

		if c.archive != nil {
			if err := c.archive.Save(loadCtx, snap); err != nil {
				c.logger.Warn().Err(err).Str("load_id", snap.LoadID).Msg("Failed to archive catalog snapshot")
			}
		}
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) install(snap *Snapshot) {
	c.snapshot.Store(snap)
	c.warmupGate.Ready()
	c.metrics.RecordSnapshot(len(snap.Catalog.Items), len(snap.Catalog.Stores), len(snap.Catalog.Prices))
	c.metrics.RecordAge(time.Since(snap.LoadedAt))
}

func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	loadID := ids.New("cat")

	loaded, err := c.provider.Load(ctx)
	if err == nil {
		err = Validate(loaded)
	}
	c.metrics.RecordLoad(c.provider.Name(), time.Since(start), err == nil)
	if err != nil {
		c.logger.Error().Err(err).Str("load_id", loadID).Msg("Catalog load failed")
		return nil, fmt.Errorf("failed to load catalog from %s: %w", c.provider.Name(), err)
	}

	// Copy before stamping so a provider's cached catalog is never mutated.
	catalog := *loaded
	hash, err := ComputeVersion(&catalog)
	if err != nil {
		return nil, err
	}
	catalog.Version = StampVersion(loaded.Version, hash)

	c.logger.Info().
		Str("load_id", loadID).
		Str("version", catalog.Version).
		Int("items", len(catalog.Items)).
		Int("stores", len(catalog.Stores)).
		Int("prices", len(catalog.Prices)).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")

	return &Snapshot{
		Catalog:  &catalog,
		LoadedAt: time.Now(),
		LoadID:   loadID,
		Source:   c.provider.Name(),
	}, nil
}

// Snapshot returns the active snapshot, or nil before the first load.
func (c *Cache) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Catalog returns the active catalog, or nil before the first load.
func (c *Cache) Catalog() *compare.Catalog {
	if snap := c.snapshot.Load(); snap != nil {
		return snap.Catalog
	}
	return nil
}

// WaitForWarmup blocks until the first load completes or ctx is done.
func (c *Cache) WaitForWarmup(ctx context.Context) bool {
	return c.warmupGate.Wait(ctx)
}

// StartAutoRefresh reloads the catalog every RefreshInterval until Close.
// It does nothing when the interval is zero.
func (c *Cache) StartAutoRefresh() {
	if c.config.RefreshInterval <= 0 {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.config.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.Refresh(c.ctx); err != nil {
					c.logger.Warn().Err(err).Msg("Scheduled catalog refresh failed, serving previous snapshot")
				}
				if snap := c.Snapshot(); snap != nil {
					c.metrics.RecordAge(time.Since(snap.LoadedAt))
				}
			}
		}
	}()

	c.logger.Info().Dur("interval", c.config.RefreshInterval).Msg("Catalog auto-refresh started")
}

// IsHealthy reports whether a catalog is loaded and the breaker is not open.
func (c *Cache) IsHealthy() bool {
	if c.circuitBreaker.State() == CircuitOpen {
		c.logger.Debug().Msg("Catalog unhealthy: circuit breaker is open")
		return false
	}
	if !c.warmupGate.IsReady() {
		c.logger.Debug().Msg("Catalog unhealthy: warmup not complete")
		return false
	}
	return c.snapshot.Load() != nil
}

// Freshness reports the age of the active snapshot.
func (c *Cache) Freshness() Freshness {
	snap := c.snapshot.Load()
	if snap == nil {
		return Freshness{}
	}
	age := time.Since(snap.LoadedAt)
	return Freshness{
		Loaded:   true,
		LoadedAt: snap.LoadedAt,
		Age:      age,
		IsStale:  c.config.StaleAfter > 0 && age > c.config.StaleAfter,
		Version:  snap.Catalog.Version,
		LoadID:   snap.LoadID,
		Items:    len(snap.Catalog.Items),
		Stores:   len(snap.Catalog.Stores),
		Prices:   len(snap.Catalog.Prices),
	}
}

// CircuitState returns the breaker state.
func (c *Cache) CircuitState() CircuitBreakerState {
	return c.circuitBreaker.State()
}

// FailureCount returns the number of consecutive failed loads.
func (c *Cache) FailureCount() int {
	return c.circuitBreaker.FailureCount()
}

// ResetCircuitBreaker closes the breaker after a manual recovery.
func (c *Cache) ResetCircuitBreaker() {
	c.circuitBreaker.Reset()
}

// Close stops background refresh and cancels in-flight loads.
func (c *Cache) Close() error {
	c.cancel()
	c.wg.Wait()
	return nil
}

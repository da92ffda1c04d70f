package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/compare-service/internal/compare"
)

// stubProvider counts loads and can block or fail.
type stubProvider struct {
	loads   atomic.Int32
	catalog *compare.Catalog
	err     error
	release chan struct{}
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Load(ctx context.Context) (*compare.Catalog, error) {
	p.loads.Add(1)
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.catalog, nil
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.LoadTimeout = time.Second
	cfg.MaxFailures = 2
	cfg.ResetTimeout = time.Hour
	return cfg
}

func TestCacheWarmupStampsVersion(t *testing.T) {
	source := sampleCatalog()
	cache := NewCache(NewMemoryProvider(source), testConfig(), nil)
	defer cache.Close()

	assert.Nil(t, cache.Catalog())
	assert.False(t, cache.IsHealthy())

	require.NoError(t, cache.Warmup(context.Background()))

	got := cache.Catalog()
	require.NotNil(t, got)
	want, err := ComputeVersion(source)
	require.NoError(t, err)
	assert.Equal(t, want, got.Version)
	assert.Empty(t, source.Version, "provider catalog must not be mutated")
	assert.True(t, cache.IsHealthy())

	snap := cache.Snapshot()
	assert.Equal(t, "memory", snap.Source)
	assert.Regexp(t, `^cat_`, snap.LoadID)

	fresh := cache.Freshness()
	assert.True(t, fresh.Loaded)
	assert.False(t, fresh.IsStale)
	assert.Equal(t, 2, fresh.Stores)
	assert.Equal(t, 3, fresh.Prices)
}

func TestCacheStampsProvidedVersionWithContentHash(t *testing.T) {
	source := sampleCatalog()
	source.Version = "2026-10-01"
	provider := NewMemoryProvider(source)
	cache := NewCache(provider, testConfig(), nil)
	defer cache.Close()

	require.NoError(t, cache.Warmup(context.Background()))
	first := cache.Catalog().Version
	hash, err := ComputeVersion(source)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-01+"+hash, first)

	// Same label, different prices: the served version must change.
	repriced := sampleCatalog()
	repriced.Version = "2026-10-01"
	repriced.Prices[0].Price++
	provider.catalog = repriced

	_, err = cache.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, cache.Catalog().Version)
	assert.True(t, strings.HasPrefix(cache.Catalog().Version, "2026-10-01+"))
}

func TestCacheRejectsInvalidCatalog(t *testing.T) {
	bad := sampleCatalog()
	bad.Stores[0].State = ""
	cache := NewCache(NewMemoryProvider(bad), testConfig(), nil)
	defer cache.Close()

	err := cache.Warmup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing state")
	assert.Nil(t, cache.Catalog())
}

func TestCacheRefreshCollapsesConcurrentLoads(t *testing.T) {
	provider := &stubProvider{catalog: sampleCatalog(), release: make(chan struct{})}
	cache := NewCache(provider, testConfig(), nil)
	defer cache.Close()

	const callers = 20
	var wg sync.WaitGroup
	var started sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		started.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			_, err := cache.Refresh(context.Background())
			errs <- err
		}()
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(provider.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), provider.loads.Load())
}

func TestCacheFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	provider := &stubProvider{catalog: sampleCatalog()}
	cache := NewCache(provider, testConfig(), nil)
	defer cache.Close()

	require.NoError(t, cache.Warmup(context.Background()))
	before := cache.Snapshot()

	provider.err = errors.New("upstream down")
	_, err := cache.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, before, cache.Snapshot())
	assert.True(t, cache.IsHealthy())
	assert.Equal(t, 1, cache.FailureCount())

	_, err = cache.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, CircuitOpen, cache.CircuitState())
	assert.False(t, cache.IsHealthy())

	// While open, loads are rejected without touching the provider.
	loads := provider.loads.Load()
	_, err = cache.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, loads, provider.loads.Load())

	provider.err = nil
	cache.ResetCircuitBreaker()
	_, err = cache.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, before, cache.Snapshot())
}

func TestCacheRefreshHonoursCallerContext(t *testing.T) {
	provider := &stubProvider{catalog: sampleCatalog(), release: make(chan struct{})}
	cache := NewCache(provider, testConfig(), nil)
	defer cache.Close()
	defer close(provider.release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := cache.Refresh(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCacheAutoRefresh(t *testing.T) {
	provider := &stubProvider{catalog: sampleCatalog()}
	cfg := testConfig()
	cfg.RefreshInterval = 5 * time.Millisecond
	cache := NewCache(provider, cfg, nil)

	cache.StartAutoRefresh()
	assert.Eventually(t, func() bool { return provider.loads.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, cache.Close())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.True(t, cache.WaitForWarmup(ctx))
}

func TestCacheStaleness(t *testing.T) {
	cfg := testConfig()
	cfg.StaleAfter = time.Nanosecond
	cache := NewCache(NewMemoryProvider(sampleCatalog()), cfg, nil)
	defer cache.Close()

	assert.False(t, cache.Freshness().Loaded)
	require.NoError(t, cache.Warmup(context.Background()))
	time.Sleep(time.Millisecond)
	assert.True(t, cache.Freshness().IsStale)
}

package compare

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	viewList   = "list"
	viewStores = "stores"
)

// ComputeComparisons builds the default list with the default configuration.
// It is a pure function of its inputs.
func ComputeComparisons(catalog *Catalog, location *UserLocation, filters Filters) (*ComparisonResult, error) {
	res, _, err := compute(Defaults(), catalog, location, filters)
	return res, err
}

// compute validates filters, joins the catalog, narrows items by query and
// category, runs the fallback ladder and sorts the outcome.
func compute(config *Config, catalog *Catalog, location *UserLocation, filters Filters) (*ComparisonResult, BuildStats, error) {
	var stats BuildStats

	sortKey, err := ParseSortKey(string(filters.SortBy))
	if err != nil {
		return nil, stats, err
	}
	maxDistance, err := config.ResolveMaxDistance(filters.MaxDistance)
	if err != nil {
		return nil, stats, err
	}
	filters.SortBy = sortKey
	filters.MaxDistance = maxDistance

	result := &ComparisonResult{
		List:     []Comparison{},
		Note:     NoteNone,
		Tier:     TierStrict,
		Location: location,
		Filters:  filters,
	}
	if location == nil || catalog == nil {
		return result, stats, nil
	}

	items, stats := BuildPricedEntries(catalog, location)
	matched := items[:0:0]
	for _, ip := range items {
		if MatchesFilters(ip.Item, filters.Query, filters.Category) {
			matched = append(matched, ip)
		}
	}

	res := NewResolver(config).Resolve(matched, location, maxDistance)
	result.Tier = res.Tier
	result.TiersEvaluated = res.TiersEvaluated
	if res.TiersEvaluated > 0 {
		result.Note = res.Tier.Note()
	}
	if len(res.Comparisons) > 0 {
		result.List = SortComparisons(res.Comparisons, sortKey)
	}
	return result, stats, nil
}

// Engine wraps the pure computations with memoization, metrics, tracing and
// logging. It is safe for concurrent use.
type Engine struct {
	config  *Config
	memo    *Memo
	metrics *MetricsRecorder
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewEngine creates an engine. A nil config uses Defaults.
func NewEngine(config *Config, metrics *MetricsRecorder) *Engine {
	if config == nil {
		config = Defaults()
	}
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	e := &Engine{
		config:  config,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/kosarica/compare-service/internal/compare"),
		logger:  log.With().Str("component", "compare").Logger(),
	}
	if config.MemoSize > 0 {
		e.memo = NewMemo(config.MemoSize, config.MemoTTL)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Compare computes the default list for location.
func (e *Engine) Compare(ctx context.Context, catalog *Catalog, location *UserLocation, filters Filters) (*ComparisonResult, error) {
	_, span := e.tracer.Start(ctx, "compare.Compare")
	defer span.End()

	start := time.Now()
	run := func() (*ComparisonResult, error) {
		res, stats, err := compute(e.config, catalog, location, filters)
		if err != nil {
			return nil, err
		}
		e.metrics.RecordBuildStats(stats)
		if stats.UnknownItem > 0 || stats.UnknownStore > 0 {
			e.logger.Warn().
				Int("unknown_items", stats.UnknownItem).
				Int("unknown_stores", stats.UnknownStore).
				Msg("Catalog has price entries referencing missing records")
		}
		return res, nil
	}

	var (
		res *ComparisonResult
		hit bool
		err error
	)
	if key, ok := MemoKey(catalog, location, filters); ok && e.memo != nil {
		res, hit, err = e.memo.Get(key, catalog, run)
		if hit {
			e.metrics.RecordMemoHit()
		} else {
			e.metrics.RecordMemoMiss()
		}
	} else {
		res, err = run()
	}

	elapsed := time.Since(start)
	e.metrics.RecordDuration(viewList, elapsed)
	if err != nil {
		e.metrics.RecordError(viewList)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	e.metrics.RecordResultSize(viewList, len(res.List))
	if res.TiersEvaluated > 0 {
		e.metrics.RecordTier(res.Tier)
	}
	if len(res.List) > 0 && res.List[0].LowestPrice != nil {
		e.metrics.RecordLowestPriceDistance(res.List[0].LowestPrice.Distance)
	}

	span.SetAttributes(
		attribute.String("compare.note", string(res.Note)),
		attribute.Int("compare.tiers_evaluated", res.TiersEvaluated),
		attribute.Int("compare.results", len(res.List)),
		attribute.Bool("compare.memo_hit", hit),
	)

	e.logger.Debug().
		Str("note", string(res.Note)).
		Int("tiers_evaluated", res.TiersEvaluated).
		Int("results", len(res.List)).
		Bool("memo_hit", hit).
		Dur("duration", elapsed).
		Msg("Comparison computed")

	return res, nil
}

// Stores computes the all-stores view of one item. A zero MaxDistance uses the
// configured default; other values must be in the allowed set.
func (e *Engine) Stores(ctx context.Context, catalog *Catalog, itemID string, location *UserLocation, opts StoresViewOptions) ([]PricedEntry, error) {
	_, span := e.tracer.Start(ctx, "compare.Stores", trace.WithAttributes(attribute.String("compare.item_id", itemID)))
	defer span.End()

	start := time.Now()
	entries, err := e.stores(catalog, itemID, location, opts)
	e.metrics.RecordDuration(viewStores, time.Since(start))
	if err != nil {
		e.metrics.RecordError(viewStores)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	e.metrics.RecordResultSize(viewStores, len(entries))
	span.SetAttributes(attribute.Int("compare.results", len(entries)))
	return entries, nil
}

func (e *Engine) stores(catalog *Catalog, itemID string, location *UserLocation, opts StoresViewOptions) ([]PricedEntry, error) {
	sortKey, err := ParseStoresSort(string(opts.Sort))
	if err != nil {
		return nil, err
	}
	maxDistance, err := e.config.ResolveMaxDistance(opts.MaxDistance)
	if err != nil {
		return nil, err
	}
	opts.Sort = sortKey
	opts.MaxDistance = maxDistance
	return AllStores(catalog, itemID, location, opts)
}

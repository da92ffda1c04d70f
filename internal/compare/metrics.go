package compare

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// computeDuration tracks the time taken to compute a view.
	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compare_compute_duration_seconds",
		Help:    "Time taken to compute a comparison view",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"view"}) // view: list, stores

	// computeErrors tracks rejected requests.
	computeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_compute_errors_total",
		Help: "Total number of rejected comparison requests by view",
	}, []string{"view"})

	// fallbackTier tracks which rung of the fallback ladder answered.
	fallbackTier = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_fallback_tier_total",
		Help: "Total number of default-list results by fallback tier",
	}, []string{"tier"})

	// resultSize tracks the number of comparisons or entries returned.
	resultSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compare_result_size",
		Help:    "Number of comparisons (list) or entries (stores) returned",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	}, []string{"view"})

	// skippedEntries tracks price entries dropped while joining.
	skippedEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_skipped_entries_total",
		Help: "Price entries dropped by the comparison builder by reason",
	}, []string{"reason"})

	// memoLookups tracks memo hits and misses.
	memoLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_memo_lookups_total",
		Help: "Memo lookups by outcome",
	}, []string{"outcome"})

	// nearestStoreDistance tracks the distance to the cheapest eligible store.
	nearestStoreDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "compare_lowest_price_distance_miles",
		Help:    "Distance to the store holding the lowest price of the first listed item",
		Buckets: []float64{0.5, 1, 3, 5, 10, 15, 20, 25, 50},
	})
)

// MetricsRecorder provides methods to record comparison metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordDuration records how long a view took to compute.
func (m *MetricsRecorder) RecordDuration(view string, d time.Duration) {
	computeDuration.WithLabelValues(view).Observe(d.Seconds())
}

// RecordError records a rejected request.
func (m *MetricsRecorder) RecordError(view string) {
	computeErrors.WithLabelValues(view).Inc()
}

// RecordTier records the fallback tier that produced a list.
func (m *MetricsRecorder) RecordTier(t Tier) {
	fallbackTier.WithLabelValues(t.String()).Inc()
}

// RecordResultSize records the size of a result.
func (m *MetricsRecorder) RecordResultSize(view string, n int) {
	resultSize.WithLabelValues(view).Observe(float64(n))
}

// RecordBuildStats records the entries skipped by the builder.
func (m *MetricsRecorder) RecordBuildStats(s BuildStats) {
	if s.Closed > 0 {
		skippedEntries.WithLabelValues("closed").Add(float64(s.Closed))
	}
	if s.Duplicates > 0 {
		skippedEntries.WithLabelValues("duplicate").Add(float64(s.Duplicates))
	}
	if s.UnknownStore > 0 {
		skippedEntries.WithLabelValues("unknown_store").Add(float64(s.UnknownStore))
	}
	if s.UnknownItem > 0 {
		skippedEntries.WithLabelValues("unknown_item").Add(float64(s.UnknownItem))
	}
}

// RecordMemoHit records a memo hit.
func (m *MetricsRecorder) RecordMemoHit() {
	memoLookups.WithLabelValues("hit").Inc()
}

// RecordMemoMiss records a memo miss.
func (m *MetricsRecorder) RecordMemoMiss() {
	memoLookups.WithLabelValues("miss").Inc()
}

// RecordLowestPriceDistance records the distance to the cheapest store.
func (m *MetricsRecorder) RecordLowestPriceDistance(miles float64) {
	nearestStoreDistance.Observe(miles)
}

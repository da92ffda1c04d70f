package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Help:    "Time taken to load a catalog snapshot by provider",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"provider"})

	loadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_load_errors_total",
		Help: "Total number of failed catalog loads by provider",
	}, []string{"provider"})

	// Record counts of the active snapshot.
	snapshotSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_snapshot_records",
		Help: "Number of records in the active catalog snapshot by kind",
	}, []string{"kind"}) // kind: items, stores, prices

	snapshotAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_snapshot_age_seconds",
		Help: "Age of the active catalog snapshot in seconds",
	})

	circuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
	}, []string{"breaker"})
)

// MetricsRecorder records catalog metrics. A nil recorder is a no-op.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordLoad records a provider load.
func (m *MetricsRecorder) RecordLoad(provider string, d time.Duration, success bool) {
	if m == nil {
		return
	}
	loadDuration.WithLabelValues(provider).Observe(d.Seconds())
	if !success {
		loadErrors.WithLabelValues(provider).Inc()
	}
}

// RecordSnapshot records the size of the active snapshot.
func (m *MetricsRecorder) RecordSnapshot(items, stores, prices int) {
	if m == nil {
		return
	}
	snapshotSize.WithLabelValues("items").Set(float64(items))
	snapshotSize.WithLabelValues("stores").Set(float64(stores))
	snapshotSize.WithLabelValues("prices").Set(float64(prices))
}

// RecordAge records the age of the active snapshot.
func (m *MetricsRecorder) RecordAge(age time.Duration) {
	if m == nil {
		return
	}
	snapshotAge.Set(age.Seconds())
}

// RecordCircuitState records a breaker transition.
func (m *MetricsRecorder) RecordCircuitState(breaker string, state CircuitBreakerState) {
	if m == nil {
		return
	}
	circuitState.WithLabelValues(breaker).Set(float64(state))
}

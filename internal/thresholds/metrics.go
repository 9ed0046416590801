package thresholds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the threshold registry metrics
type Metrics struct {
	CacheHitsTotal          prometheus.Counter
	CacheMissesTotal        prometheus.Counter
	ResolutionsTotal        *prometheus.CounterVec // Resolutions by winning source tier
	StoreErrorsTotal        prometheus.Counter
	ResolutionDuration      prometheus.Histogram
	CacheInvalidationsTotal prometheus.Counter
	ActiveThresholds        prometheus.Gauge // Threshold count of the last resolution
}

// NewMetrics creates the registry metrics and registers them with reg.
// A nil reg leaves them unregistered, which keeps isolated instances in
// tests from colliding on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuyou_thresholds_cache_hits_total",
			Help: "Total number of threshold cache hits",
		}),
		CacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuyou_thresholds_cache_misses_total",
			Help: "Total number of threshold cache misses",
		}),
		ResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fuyou_thresholds_resolutions_total",
			Help: "Total number of tier-chain resolutions by winning source",
		}, []string{"source"}),
		StoreErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuyou_thresholds_store_errors_total",
			Help: "Total number of failed threshold store reads",
		}),
		ResolutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fuyou_thresholds_resolution_duration_seconds",
			Help:    "Duration of tier-chain resolutions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}),
		CacheInvalidationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuyou_thresholds_cache_invalidations_total",
			Help: "Total number of threshold cache clears",
		}),
		ActiveThresholds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fuyou_thresholds_active",
			Help: "Number of thresholds in the last resolved map",
		}),
	}
}

// RecordResolution records one pass through the tier chain
func (m *Metrics) RecordResolution(source Source, count int, seconds float64) {
	m.ResolutionsTotal.WithLabelValues(string(source)).Inc()
	m.ActiveThresholds.Set(float64(count))
	m.ResolutionDuration.Observe(seconds)
}

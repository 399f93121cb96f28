package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fanout"

// Query and batch Prometheus metrics.
var (
	QueryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_requests_total",
			Help:      "Total number of single-key store queries",
		},
		[]string{"store", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Single-key store query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"store"},
	)

	QueryInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "query_in_flight",
			Help:      "Store queries currently executing",
		},
		[]string{"store"},
	)

	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size_keys",
			Help:      "Number of keys per batch run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	BatchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_outcomes_total",
			Help:      "Per-key batch outcomes",
		},
		[]string{"status"}, // ok / error / cancelled
	)

	ItemCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_cache_total",
			Help:      "Item cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register adds every fanout collector to the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration, httpRequestsTotal,
			QueryRequestsTotal, QueryDuration, QueryInFlight,
			BatchSize, BatchOutcomesTotal,
			ItemCacheTotal,
		)
	})
}

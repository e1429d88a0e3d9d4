// Package metrics exposes Prometheus collectors for the daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProbeTotal tracks liveness probe outcomes per provider instance.
	ProbeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "miru_provider_probe_total",
		Help: "Total number of provider liveness probes by instance and result",
	}, []string{"instance", "result"})

	// PoolAcquireDuration tracks how long it takes to find a healthy provider.
	PoolAcquireDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "miru_pool_acquire_duration_seconds",
		Help:    "Time taken to acquire a healthy provider from the pool",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 20},
	})

	// PoolExhaustedTotal counts acquisitions that failed after a full rotation.
	PoolExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "miru_pool_exhausted_total",
		Help: "Total number of pool acquisitions that found no healthy provider",
	})

	// AggregateRequestTotal tracks aggregator operations by outcome.
	AggregateRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "miru_aggregate_request_total",
		Help: "Total number of aggregator operations by operation and result",
	}, []string{"operation", "result"})

	// TrendingSourceTotal tracks which trending tier served a request.
	TrendingSourceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "miru_trending_source_total",
		Help: "Trending requests by serving tier (bulk, paged) and result",
	}, []string{"tier", "result"})
)

// IncProbe records a single liveness probe outcome.
func IncProbe(instance string, ok bool) {
	result := "error"
	if ok {
		result = "success"
	}
	ProbeTotal.WithLabelValues(instance, result).Inc()
}

// ObservePoolAcquire records the duration of a pool acquisition.
func ObservePoolAcquire(d time.Duration) {
	PoolAcquireDuration.Observe(d.Seconds())
}

// IncAggregate records an aggregator operation outcome.
func IncAggregate(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	AggregateRequestTotal.WithLabelValues(operation, result).Inc()
}

// IncTrendingSource records which tier answered a trending request.
func IncTrendingSource(tier string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	TrendingSourceTotal.WithLabelValues(tier, result).Inc()
}

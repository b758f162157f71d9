// Package metrics holds the Prometheus collectors for engine invocations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	OpPropagate = "propagate"
	OpDerive    = "derive"
	OpSimulate  = "simulate"
	OpRank      = "rank"
)

var (
	// engineDuration measures one engine call.
	// Labels: operation
	engineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "impact_engine",
		Subsystem: "engine",
		Name:      "duration_seconds",
		Help:      "Engine call latency in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"operation"})

	engineCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "impact_engine",
		Subsystem: "engine",
		Name:      "calls_total",
		Help:      "Total engine calls by operation",
	}, []string{"operation"})

	flowsDerived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "impact_engine",
		Subsystem: "flows",
		Name:      "derived_total",
		Help:      "Total economic flows emitted by the deriver",
	})

	bottlenecks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "impact_engine",
		Subsystem: "propagation",
		Name:      "bottlenecks",
		Help:      "Bottlenecked components in the most recent propagation",
	})

	constrainedFacilities = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "impact_engine",
		Subsystem: "propagation",
		Name:      "constrained_facilities",
		Help:      "Capacity-constrained facilities in the most recent propagation",
	})

	// cacheLookups counts result cache lookups.
	// Labels: result (hit, miss)
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "impact_engine",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Result cache lookups by result",
	}, []string{"result"})

	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "impact_engine",
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Entries held by the result cache",
	})
)

// ObserveEngine records one call of op that started at start.
func ObserveEngine(op string, start time.Time) {
	engineCalls.WithLabelValues(op).Inc()
	engineDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func RecordFlows(n int) {
	flowsDerived.Add(float64(n))
}

// RecordPropagation publishes the constraint counts of the latest state.
func RecordPropagation(bottleneckCount, constrainedCount int) {
	bottlenecks.Set(float64(bottleneckCount))
	constrainedFacilities.Set(float64(constrainedCount))
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

func RecordCacheSize(n int) {
	cacheEntries.Set(float64(n))
}

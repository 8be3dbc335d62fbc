package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database Metrics
var (
	DBQueryRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "db",
		Name:      "query_retries_total",
		Help:      "Total number of retried database query attempts",
	})

	DBQueryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "db",
		Name:      "query_failures_total",
		Help:      "Total number of queries that exhausted their retry budget",
	})
)

// Cache Metrics
var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total number of cache lookups that found a value",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total number of cache lookups on absent keys",
	})

	CacheUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "cache",
		Name:      "unavailable_total",
		Help:      "Total number of cache operations attempted while disconnected",
	})
)

// Rate Limit Metrics
var (
	RateLimitFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "ratelimit",
		Name:      "fallbacks_total",
		Help:      "Total number of rate-limit operations served by the in-process store",
	})

	RateLimitRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "ratelimit",
		Name:      "rejected_total",
		Help:      "Total number of requests rejected by the rate limiter",
	})
)

// Worker Metrics
var (
	JobsTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camwatch",
		Subsystem: "worker",
		Name:      "jobs_tracked",
		Help:      "Number of camera jobs currently recorded in the metadata store",
	})

	JobStartLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "camwatch",
		Subsystem: "worker",
		Name:      "job_start_latency_seconds",
		Help:      "Latency of spawning one camera container",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
	})

	SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camwatch",
		Subsystem: "worker",
		Name:      "sweep_failures_total",
		Help:      "Total number of container removals that failed during stop sweeps",
	})

	JobsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camwatch",
		Subsystem: "worker",
		Name:      "jobs_running",
		Help:      "Number of tracked camera containers observed running at last reconcile",
	})
)

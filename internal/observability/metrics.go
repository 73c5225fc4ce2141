// Package observability provides Prometheus instrumentation for upstream calls and the cache.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviegate_upstream_requests_total",
			Help: "Upstream catalog requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviegate_upstream_request_duration_seconds",
			Help:    "Upstream catalog request latency, retries included.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviegate_cache_lookups_total",
			Help: "Cache lookups by key namespace and result (hit, miss, error).",
		},
		[]string{"namespace", "result"},
	)

	cacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviegate_cache_invalidated_keys_total",
			Help: "Keys removed by cache clears, by key namespace.",
		},
		[]string{"namespace"},
	)
)

// Package observability exposes the process metrics and the debug
// listener that serves them.
package observability

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProviderRequests counts outbound provider calls by endpoint and
	// provider-reported status.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forkcast_provider_requests_total",
		Help: "Outbound provider requests by endpoint and status.",
	}, []string{"endpoint", "status"})

	// SearchCacheLookups counts search cache lookups by outcome (hit/miss).
	SearchCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forkcast_search_cache_lookups_total",
		Help: "Search result cache lookups by outcome.",
	}, []string{"outcome"})

	// SearchDuration observes end-to-end search latency in seconds.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forkcast_search_duration_seconds",
		Help:    "End-to-end restaurant search duration.",
		Buckets: prometheus.DefBuckets,
	})

	// DetailCacheLookups counts place-detail cache lookups by outcome.
	DetailCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forkcast_detail_cache_lookups_total",
		Help: "Place detail cache lookups by outcome.",
	}, []string{"outcome"})
)

// ServeMetrics starts a debug HTTP listener exposing /metrics. It
// blocks, so callers run it in a goroutine; errors are logged, not fatal.
func ServeMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("metrics listener starting", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener stopped", slog.Any("error", err))
	}
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog client metrics
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "search", "trending"
	)

	CatalogRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_request_errors_total",
			Help: "Total number of failed catalog API requests",
		},
		[]string{"operation", "error_type"},
	)

	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of catalog responses served from cache",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Recommendation batch metrics
	RecommendBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_batch_duration_seconds",
			Help:    "End-to-end duration of a recommendation batch",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"feed"}, // "home", "shorts"
	)

	RecommendCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_candidates_total",
			Help: "Raw candidates sourced per feed and pool before filtering",
		},
		[]string{"feed", "pool"},
	)

	RecommendFilterDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_filter_drops_total",
			Help: "Candidates removed by the filter pipeline, by reason",
		},
		[]string{"reason"}, // "seen", "ng_keyword", "blocked_channel", "negative"
	)

	RecommendOutputItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_output_items",
			Help: "Number of items returned by the most recent batch",
		},
		[]string{"feed"},
	)

	RecommendQueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_query_failures_total",
			Help: "Catalog queries that failed and degraded to an empty pool",
		},
		[]string{"feed"},
	)
)

// RecordCatalogRequest records one catalog call and classifies its error.
func RecordCatalogRequest(operation string, duration time.Duration, err error) {
	CatalogRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CatalogRequestErrors.WithLabelValues(operation, classifyError(err)).Inc()
	}
}

// classifyError maps an error onto a small, bounded label set.
func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "circuit breaker"):
		return "circuit_open"
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return "rate_limited"
	case strings.Contains(msg, "status"):
		return "http_status"
	case strings.Contains(msg, "decode"), strings.Contains(msg, "unmarshal"):
		return "decode"
	case strings.Contains(msg, "connection"), strings.Contains(msg, "dial"):
		return "connection"
	default:
		return "unknown"
	}
}

// RecordCatalogCache records a cache lookup outcome.
func RecordCatalogCache(hit bool) {
	if hit {
		CatalogCacheHits.Inc()
		return
	}
	CatalogCacheMisses.Inc()
}

// RecordBatch records the duration and output size of one batch.
func RecordBatch(feed string, duration time.Duration, outputItems int) {
	RecommendBatchDuration.WithLabelValues(feed).Observe(duration.Seconds())
	RecommendOutputItems.WithLabelValues(feed).Set(float64(outputItems))
}

// RecordCandidates adds n sourced candidates for feed/pool.
func RecordCandidates(feed, pool string, n int) {
	if n > 0 {
		RecommendCandidates.WithLabelValues(feed, pool).Add(float64(n))
	}
}

// RecordFilterDrops adds the per-reason drop counts of one filter pass.
func RecordFilterDrops(drops map[string]int) {
	for reason, n := range drops {
		if n > 0 {
			RecommendFilterDrops.WithLabelValues(reason).Add(float64(n))
		}
	}
}

// RecordQueryFailure counts a catalog query that degraded to empty.
func RecordQueryFailure(feed string) {
	RecommendQueryFailures.WithLabelValues(feed).Inc()
}

// WriteTextfile writes the default registry in the Prometheus text format
// to path, for collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

/*
Package metrics provides Prometheus instrumentation for Tubescope.

All collectors are registered on the default registry at init through
promauto. The CLI is short-lived, so instead of serving /metrics it can dump
the registry to a node_exporter textfile after each run (see WriteTextfile).

# Catalog

  - catalog_request_duration_seconds{operation}
  - catalog_request_errors_total{operation,error_type}
  - catalog_cache_hits_total / catalog_cache_misses_total
  - circuit_breaker_* (state, requests, consecutive failures, transitions)

# Recommendation batches

  - recommend_batch_duration_seconds{feed}
  - recommend_candidates_total{feed,pool}
  - recommend_filter_drops_total{reason}
  - recommend_output_items{feed}
  - recommend_query_failures_total{feed}
*/
package metrics

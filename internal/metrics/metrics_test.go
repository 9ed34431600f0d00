// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("search: %w", context.Canceled), "canceled"},
		{errors.New("circuit breaker is open"), "circuit_open"},
		{errors.New("rate limit exceeded (429)"), "rate_limited"},
		{errors.New("unexpected status 502"), "http_status"},
		{errors.New("failed to decode response"), "decode"},
		{errors.New("dial tcp: connection refused"), "connection"},
		{errors.New("something odd"), "unknown"},
	}

	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequestErrors.WithLabelValues("search", "timeout"))

	RecordCatalogRequest("search", 20*time.Millisecond, nil)
	RecordCatalogRequest("search", time.Second, context.DeadlineExceeded)

	after := testutil.ToFloat64(CatalogRequestErrors.WithLabelValues("search", "timeout"))
	if after-before != 1 {
		t.Errorf("timeout errors increased by %v, want 1", after-before)
	}
}

func TestRecordCatalogCache(t *testing.T) {
	hits := testutil.ToFloat64(CatalogCacheHits)
	misses := testutil.ToFloat64(CatalogCacheMisses)

	RecordCatalogCache(true)
	RecordCatalogCache(false)
	RecordCatalogCache(false)

	if got := testutil.ToFloat64(CatalogCacheHits) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CatalogCacheMisses) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordBatchAndCandidates(t *testing.T) {
	RecordBatch("home", 150*time.Millisecond, 42)
	if got := testutil.ToFloat64(RecommendOutputItems.WithLabelValues("home")); got != 42 {
		t.Errorf("output items = %v, want 42", got)
	}

	before := testutil.ToFloat64(RecommendCandidates.WithLabelValues("shorts", "popular"))
	RecordCandidates("shorts", "popular", 7)
	RecordCandidates("shorts", "popular", 0)
	if got := testutil.ToFloat64(RecommendCandidates.WithLabelValues("shorts", "popular")) - before; got != 7 {
		t.Errorf("candidates delta = %v, want 7", got)
	}
}

func TestRecordFilterDrops(t *testing.T) {
	before := testutil.ToFloat64(RecommendFilterDrops.WithLabelValues("negative"))
	RecordFilterDrops(map[string]int{"negative": 3, "seen": 0})
	if got := testutil.ToFloat64(RecommendFilterDrops.WithLabelValues("negative")) - before; got != 3 {
		t.Errorf("negative drops delta = %v, want 3", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordQueryFailure("home")

	path := filepath.Join(t.TempDir(), "tubescope.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "recommend_query_failures_total") {
		t.Error("textfile is missing recommend_query_failures_total")
	}
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"context"
	"sync/atomic"

	"github.com/tomtom215/tubescope/internal/recommend"
)

// stubCatalog counts calls and delegates to optional funcs.
type stubCatalog struct {
	searchFn   func(ctx context.Context, query string, page int) (*recommend.SearchPage, error)
	trendingFn func(ctx context.Context) ([]recommend.Item, error)

	searchCalls   int32
	trendingCalls int32
}

func (s *stubCatalog) Search(ctx context.Context, query string, page int) (*recommend.SearchPage, error) {
	atomic.AddInt32(&s.searchCalls, 1)
	if s.searchFn != nil {
		return s.searchFn(ctx, query, page)
	}
	return &recommend.SearchPage{
		Videos: []recommend.Item{{ID: "A1b2C3d4E5f", Title: query}},
	}, nil
}

func (s *stubCatalog) Trending(ctx context.Context) ([]recommend.Item, error) {
	atomic.AddInt32(&s.trendingCalls, 1)
	if s.trendingFn != nil {
		return s.trendingFn(ctx)
	}
	return []recommend.Item{{ID: "Z9y8X7w6V5u", Title: "trend"}}, nil
}

func (s *stubCatalog) searches() int32  { return atomic.LoadInt32(&s.searchCalls) }
func (s *stubCatalog) trendings() int32 { return atomic.LoadInt32(&s.trendingCalls) }

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/tubescope/internal/cache"
	"github.com/tomtom215/tubescope/internal/metrics"
	"github.com/tomtom215/tubescope/internal/recommend"
)

const trendingKey = "trending"

// CachedCatalog keeps successful responses for CacheTTL. Concurrent misses
// for the same key share one upstream call. The shared call is detached from
// any single caller's cancellation, so one caller giving up does not fail
// the others; each caller still returns as soon as its own ctx is done.
// Errors are never cached.
type CachedCatalog struct {
	next     recommend.Catalog
	searches *cache.TTLCache[*recommend.SearchPage]
	trending *cache.TTLCache[[]recommend.Item]
	group    singleflight.Group
	timeout  time.Duration
}

// NewCachedCatalog wraps next with a response cache.
func NewCachedCatalog(next recommend.Catalog, cfg Config) *CachedCatalog {
	return &CachedCatalog{
		next:     next,
		searches: cache.NewTTLCache[*recommend.SearchPage](cfg.CacheMaxEntries, cfg.CacheTTL),
		trending: cache.NewTTLCache[[]recommend.Item](1, cfg.CacheTTL),
		timeout:  cfg.Timeout * time.Duration(cfg.MaxRetries+1),
	}
}

func searchKey(query string, page int) string {
	return "search\x00" + query + "\x00" + strconv.Itoa(page)
}

// Search implements recommend.Catalog.
func (c *CachedCatalog) Search(ctx context.Context, query string, page int) (*recommend.SearchPage, error) {
	key := searchKey(query, page)
	if p, ok := c.searches.Get(key); ok {
		metrics.RecordCatalogCache(true)
		return p, nil
	}
	metrics.RecordCatalogCache(false)

	v, err := c.shared(ctx, key, func(callCtx context.Context) (interface{}, error) {
		p, err := c.next.Search(callCtx, query, page)
		if err != nil {
			return nil, err
		}
		c.searches.Set(key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*recommend.SearchPage), nil
}

// Trending implements recommend.Catalog.
func (c *CachedCatalog) Trending(ctx context.Context) ([]recommend.Item, error) {
	if items, ok := c.trending.Get(trendingKey); ok {
		metrics.RecordCatalogCache(true)
		return items, nil
	}
	metrics.RecordCatalogCache(false)

	v, err := c.shared(ctx, trendingKey, func(callCtx context.Context) (interface{}, error) {
		items, err := c.next.Trending(callCtx)
		if err != nil {
			return nil, err
		}
		c.trending.Set(trendingKey, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]recommend.Item), nil
}

// shared runs fn once per key among concurrent callers. fn gets a context
// that keeps ctx's values but not its cancellation, bounded by the client
// timeout across all retry attempts.
func (c *CachedCatalog) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := c.group.DoChan(key, func() (interface{}, error) {
		callCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, c.timeout)
			defer cancel()
		}
		return fn(callCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Purge drops every cached response.
func (c *CachedCatalog) Purge() {
	c.searches.Purge()
	c.trending.Purge()
}

var _ recommend.Catalog = (*CachedCatalog)(nil)

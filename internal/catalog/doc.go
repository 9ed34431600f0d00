// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

/*
Package catalog provides the external video catalog used by the
recommendation engine.

Client speaks the catalog proxy's JSON API:

	GET {base}/api/search?q={query}&page={page}
	GET {base}/api/trending

Responses arrive in several raw shapes depending on the upstream the proxy
talks to. Normalize maps every shape onto recommend.Item through one
documented fallback chain per field and silently drops items that fail the
shape check, so the engine never sees a malformed candidate.

Decorators compose around any recommend.Catalog:

	var c recommend.Catalog = catalog.NewClient(cfg, logger)
	c = catalog.NewBreakerCatalog(c, cfg, logger) // sony/gobreaker
	c = catalog.NewCachedCatalog(c, cfg)          // TTL LRU + singleflight

The cache sits outermost so hits never reach the breaker or the rate limiter.

Error Handling:

Errors wrap the sentinels ErrNotFound, ErrRateLimited and ErrCircuitOpen;
other HTTP failures are *StatusError. The engine treats every error as an
empty result for that query.
*/
package catalog

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

// Package cache provides the small data structures shared by the catalog
// and recommendation layers.
//
// # KeywordMatcher
//
// An immutable Aho-Corasick automaton used to test candidate titles and
// channel names against the user's NG keyword list in one pass. Matching is
// case-insensitive and width-insensitive, so "ＮＧ" and "ng" are the same
// pattern:
//
//	m := cache.NewKeywordMatcher([]string{"spoiler", "ネタバレ"})
//	if kw, ok := m.FirstMatch(title); ok {
//	    // drop, kw is the folded pattern that matched
//	}
//
// # TTLCache
//
// A generic least-recently-used cache with per-entry expiry. The catalog
// layer wraps search and trending responses in it so repeated batches do
// not hit the network:
//
//	c := cache.NewTTLCache[catalog.Page](512, 10*time.Minute)
//	c.Set(key, page)
//	page, ok := c.Get(key)
//
// All TTLCache operations are O(1) and safe for concurrent use.
package cache

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

// Package recommend implements keyword-profile based video ranking over an
// external catalog.
//
// # Architecture
//
// Every call runs one batch through the same pipeline:
//
//	Sources ──► ProfileBuilder ──► Profile ─────────────┐
//	   │                                                 ▼
//	   └──► Sourcer (parallel catalog queries) ──► Filter ──► Scorer ──► Mixer ──► []Item
//
// Components:
//
//   - Extractor: text to a deduplicated keyword set (kagome or fallback segmentation)
//   - ProfileBuilder: decayed keyword weights from searches, watches and subscriptions
//   - Scorer: relevance (cosine), freshness, popularity, duration value, short score
//   - Sourcer: history-derived queries plus the trending feed, fanned out with errgroup
//   - Filter: seen ids, NG keywords, blocked channels, learned negative keywords
//   - Mixer: pool quotas, per-channel cap, shortlist shuffles, backfill
//
// Scoring is a deterministic linear combination of hand-engineered features
// apart from a small multiplicative jitter drawn from the injected Random.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, catalogClient, logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetSegmenter(kagomeSegmenter)
//
//	feed, err := engine.GetRecommendations(ctx, sources)
//	shorts, err := engine.GetShortsRecommendations(ctx, sources, seen)
//	suggestions := engine.GetSuggestedKeywords(sources, sources.Preferences.Keywords)
//
// # Failure model
//
// A failing catalog request yields an empty result for that request only and
// is logged at warn level. Missing or malformed item fields fall back to
// neutral values (ten minutes, zero views, freshness 0.5). An empty feed is
// a valid outcome, not an error.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Profiles, candidates and scores are
// local to one call; the only caller-visible mutation is the SeenSet passed
// to GetShortsRecommendations.
package recommend

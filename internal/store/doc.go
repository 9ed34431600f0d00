// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

/*
Package store persists the user's history and preferences in BadgerDB and
hands the recommendation engine immutable snapshots of them.

Each collection is one JSON document under a fixed key:

	history:search    []string, most recent first, capped
	history:watch     []recommend.WatchEntry, most recent first, capped
	subscriptions     []recommend.Subscription
	preferences       recommend.Preferences

Writes are read-modify-write inside a single Badger transaction and are
serialized by the store, so concurrent callers never lose updates.

# Negative feedback

RecordDislike decays every learned negative keyword weight by
NegativeDecay, adds 1.0 for each keyword extracted from the disliked
title, prunes weights that fell below NegativePruneBelow and hides the
video.

# Usage

	st, err := store.Open(cfg, extractor, logger)
	if err != nil {
	    return err
	}
	defer st.Close()

	_ = st.AddSearch(ctx, "猫 動画")
	src, err := st.Snapshot(ctx)
	feed, err := engine.GetRecommendations(ctx, src)
*/
package store

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"math"
	"sort"
)

// Mixer blends scored pools into the final presentation lists.
type Mixer struct {
	feed      FeedConfig
	shorts    ShortsConfig
	rng       Random
	rerankers []Reranker
}

// NewMixer creates a mixer. Rerankers run in order on the combined
// long-form ranking; the first one is normally the ChannelCap.
func NewMixer(feed FeedConfig, shorts ShortsConfig, rng Random, rerankers ...Reranker) *Mixer {
	return &Mixer{feed: feed, shorts: shorts, rng: rng, rerankers: rerankers}
}

// sortScored orders by descending score, keeping input order on ties.
//
//nolint:gocritic // rangeValCopy is fine for the sort closure
func sortScored(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// MixLongForm ranks the trending and personalized candidates together,
// applies the rerankers, then fills the trending and personalized quotas.
// Each quota is drawn from a shuffled shortlist of the pool's best items.
// A shortfall in one pool is backfilled from the other. The result is
// shuffled again for presentation. It also returns how many ranked items
// the rerankers removed.
func (m *Mixer) MixLongForm(ctx context.Context, scored []ScoredItem) ([]Item, int) {
	ranked := make([]ScoredItem, len(scored))
	copy(ranked, scored)
	sortScored(ranked)

	before := len(ranked)
	for _, rr := range m.rerankers {
		ranked = rr.Rerank(ctx, ranked, len(ranked))
	}
	removed := before - len(ranked)

	var trending, personalized []ScoredItem
	for _, it := range ranked {
		if it.Pool == PoolTrending {
			trending = append(trending, it)
		} else {
			personalized = append(personalized, it)
		}
	}

	trendingQuota, personalQuota := m.feed.quotas()
	pickT, restT := m.pick(trending, trendingQuota)
	pickP, restP := m.pick(personalized, personalQuota)

	if deficit := trendingQuota - len(pickT); deficit > 0 {
		n := min(deficit, len(restP))
		pickT = append(pickT, restP[:n]...)
		restP = restP[n:]
	}
	if deficit := personalQuota - len(pickP); deficit > 0 {
		n := min(deficit, len(restT))
		pickP = append(pickP, restT[:n]...)
	}

	out := make([]Item, 0, len(pickT)+len(pickP))
	for _, it := range pickT {
		out = append(out, it.Item)
	}
	for _, it := range pickP {
		out = append(out, it.Item)
	}
	shuffleItems(m.rng, out)
	return out, removed
}

// pick shuffles the top factor*quota items of a ranked pool and takes quota
// of them. The rest is returned in rank order for backfill.
func (m *Mixer) pick(pool []ScoredItem, quota int) (chosen, rest []ScoredItem) {
	if quota <= 0 {
		return nil, pool
	}
	n := int(math.Ceil(float64(quota) * m.feed.ShortlistFactor))
	n = min(max(n, quota), len(pool))

	shortlist := make([]ScoredItem, n)
	copy(shortlist, pool[:n])
	m.rng.Shuffle(len(shortlist), func(i, j int) { shortlist[i], shortlist[j] = shortlist[j], shortlist[i] })

	take := min(quota, n)
	chosen = shortlist[:take]

	rest = make([]ScoredItem, 0, len(pool)-take)
	rest = append(rest, shortlist[take:]...)
	rest = append(rest, pool[n:]...)
	sortScored(rest)
	return chosen, rest
}

// MixShorts fills the shorts batch: popular-pool quota first, then the
// personalized quota, each taken best-first. Items scoring below the cutoff
// never appear. A shortfall is backfilled from the remaining popular items,
// then the remaining personalized items. The batch is shuffled.
func (m *Mixer) MixShorts(popular, personalized []ScoredItem) []Item {
	popular = m.aboveCutoff(popular)
	personalized = m.aboveCutoff(personalized)

	popularQuota, personalQuota := m.shorts.quotas()
	nPop := min(popularQuota, len(popular))
	nPers := min(personalQuota, len(personalized))

	picked := make([]ScoredItem, 0, m.shorts.BatchSize)
	picked = append(picked, popular[:nPop]...)
	picked = append(picked, personalized[:nPers]...)

	for _, rest := range [][]ScoredItem{popular[nPop:], personalized[nPers:]} {
		deficit := m.shorts.BatchSize - len(picked)
		if deficit <= 0 {
			break
		}
		picked = append(picked, rest[:min(deficit, len(rest))]...)
	}

	out := make([]Item, len(picked))
	for i, it := range picked {
		out[i] = it.Item
	}
	shuffleItems(m.rng, out)
	return out
}

// TopShorts returns the best limit shorts above the cutoff, shuffled. The
// home feed uses it for its shorts shelf.
func (m *Mixer) TopShorts(scored []ScoredItem, limit int) []Item {
	ranked := m.aboveCutoff(scored)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Item, len(ranked))
	for i, it := range ranked {
		out[i] = it.Item
	}
	shuffleItems(m.rng, out)
	return out
}

// aboveCutoff returns a sorted copy without items scoring below the cutoff.
func (m *Mixer) aboveCutoff(items []ScoredItem) []ScoredItem {
	out := make([]ScoredItem, 0, len(items))
	for _, it := range items {
		if it.Score >= m.shorts.Cutoff {
			out = append(out, it)
		}
	}
	sortScored(out)
	return out
}

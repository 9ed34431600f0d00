// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
)

// mockReranker implements Reranker for testing.
type mockReranker struct {
	name  string
	calls int32
}

func (m *mockReranker) Name() string { return m.name }

//nolint:gocritic // rangeValCopy acceptable in tests
func (m *mockReranker) Rerank(_ context.Context, items []ScoredItem, k int) []ScoredItem {
	atomic.AddInt32(&m.calls, 1)
	if len(items) > k {
		return items[:k]
	}
	return items
}

func newTestMixer(seed int64, rerankers ...Reranker) *Mixer {
	cfg := DefaultConfig()
	if len(rerankers) == 0 {
		rerankers = []Reranker{NewChannelCap(cfg.Feed.ChannelCap)}
	}
	return NewMixer(cfg.Feed, cfg.Shorts, NewRandom(seed), rerankers...)
}

// distinctChannels builds n items each on its own channel.
func distinctChannels(prefix string, n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = makeItem(prefix, i, fmt.Sprintf("%s-ch%d", prefix, i))
	}
	return items
}

func countPrefix(items []Item, prefix string) int {
	n := 0
	for _, it := range items {
		if strings.HasPrefix(it.ID, prefix) {
			n++
		}
	}
	return n
}

func TestMixer_MixLongForm_Quotas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		trending         int
		personalized     int
		wantTrending     int
		wantPersonalized int
	}{
		{"both pools full", 60, 60, 20, 30},
		{"trending short backfilled", 5, 100, 5, 45},
		{"personalized short backfilled", 100, 10, 40, 10},
		{"both short", 3, 4, 3, 4},
		{"empty", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scored := append(
				scoredItems(distinctChannels("trd", tt.trending), PoolTrending, 10),
				scoredItems(distinctChannels("per", tt.personalized), PoolPersonalized, 10)...)
			out, removed := newTestMixer(1).MixLongForm(context.Background(), scored)

			if removed != 0 {
				t.Errorf("removed = %d, want 0", removed)
			}
			if got := countPrefix(out, "trd"); got != tt.wantTrending {
				t.Errorf("trending items = %d, want %d", got, tt.wantTrending)
			}
			if got := countPrefix(out, "per"); got != tt.wantPersonalized {
				t.Errorf("personalized items = %d, want %d", got, tt.wantPersonalized)
			}
			if len(idSet(out)) != len(out) {
				t.Error("output contains duplicate ids")
			}
		})
	}
}

func TestMixer_MixLongForm_ChannelCap(t *testing.T) {
	t.Parallel()

	var items []Item
	for i := 0; i < 100; i++ {
		items = append(items, makeItem("cap", i, fmt.Sprintf("ch%d", i%5)))
	}
	scored := scoredItems(items, PoolPersonalized, 50)

	for seed := int64(1); seed <= 5; seed++ {
		out, removed := newTestMixer(seed).MixLongForm(context.Background(), scored)
		for ch, n := range countByChannel(out) {
			if n > 2 {
				t.Errorf("seed %d: channel %s has %d items, want <= 2", seed, ch, n)
			}
		}
		if len(out) != 10 {
			t.Errorf("seed %d: len = %d, want 10", seed, len(out))
		}
		if removed != 90 {
			t.Errorf("seed %d: removed = %d, want 90", seed, removed)
		}
	}
}

func TestMixer_MixLongForm_RunsRerankers(t *testing.T) {
	t.Parallel()

	mock := &mockReranker{name: "mock"}
	m := newTestMixer(1, NewChannelCap(2), mock)
	m.MixLongForm(context.Background(), scoredItems(distinctChannels("per", 10), PoolPersonalized, 1))

	if atomic.LoadInt32(&mock.calls) != 1 {
		t.Errorf("reranker calls = %d, want 1", mock.calls)
	}
}

func TestMixer_PickDrawsFromShortlist(t *testing.T) {
	t.Parallel()

	pool := scoredItems(distinctChannels("trd", 100), PoolTrending, 100)
	top := idSet(itemsOf(pool[:40]))

	for seed := int64(1); seed <= 10; seed++ {
		chosen, rest := newTestMixer(seed).pick(pool, 20)
		if len(chosen) != 20 || len(rest) != 80 {
			t.Fatalf("pick() = %d chosen, %d rest", len(chosen), len(rest))
		}
		for _, c := range chosen {
			if _, ok := top[c.Item.ID]; !ok {
				t.Errorf("seed %d: %s chosen outside the shortlist", seed, c.Item.ID)
			}
		}
		for i := 1; i < len(rest); i++ {
			if rest[i].Score > rest[i-1].Score {
				t.Fatalf("seed %d: rest not sorted at %d", seed, i)
			}
		}
	}
}

func itemsOf(scored []ScoredItem) []Item {
	out := make([]Item, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}

func TestMixer_MixShorts(t *testing.T) {
	t.Parallel()

	shorts := func(prefix string, n int) []Item {
		out := make([]Item, n)
		for i := range out {
			out[i] = makeShort(prefix, i, fmt.Sprintf("%s%d", prefix, i))
		}
		return out
	}

	tests := []struct {
		name         string
		popular      []ScoredItem
		personalized []ScoredItem
		wantPopular  int
		wantPersonal int
	}{
		{
			name:        "no personalized candidates",
			popular:     scoredItems(shorts("pop", 25), PoolPopular, 40),
			wantPopular: 20,
		},
		{
			name:         "both pools full",
			popular:      scoredItems(shorts("pop", 30), PoolPopular, 40),
			personalized: scoredItems(shorts("per", 30), PoolPersonalized, 20),
			wantPopular:  17,
			wantPersonal: 3,
		},
		{
			name:         "popular short backfilled by personalized",
			popular:      scoredItems(shorts("pop", 10), PoolPopular, 40),
			personalized: scoredItems(shorts("per", 30), PoolPersonalized, 20),
			wantPopular:  10,
			wantPersonal: 10,
		},
		{
			name: "below cutoff excluded",
			popular: append(
				scoredItems(shorts("pop", 10), PoolPopular, 40),
				scoredItems(shorts("low", 10), PoolPopular, -60)...),
			wantPopular: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := newTestMixer(3).MixShorts(tt.popular, tt.personalized)

			if got := countPrefix(out, "pop"); got != tt.wantPopular {
				t.Errorf("popular = %d, want %d", got, tt.wantPopular)
			}
			if got := countPrefix(out, "per"); got != tt.wantPersonal {
				t.Errorf("personalized = %d, want %d", got, tt.wantPersonal)
			}
			if got := countPrefix(out, "low"); got != 0 {
				t.Errorf("%d items below cutoff returned", got)
			}
			if len(out) > 20 {
				t.Errorf("len = %d, want <= 20", len(out))
			}
		})
	}
}

func TestMixer_MixShorts_PopularOnlySetEquality(t *testing.T) {
	t.Parallel()

	var popular []Item
	for i := 0; i < 20; i++ {
		popular = append(popular, makeShort("pop", i, "popch"))
	}
	out := newTestMixer(9).MixShorts(scoredItems(popular, PoolPopular, 35), nil)

	got, want := idSet(out), idSet(popular)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for id := range want {
		if _, ok := got[id]; !ok {
			t.Errorf("missing %s", id)
		}
	}
}

func TestMixer_TopShorts(t *testing.T) {
	t.Parallel()

	var items []Item
	for i := 0; i < 20; i++ {
		items = append(items, makeShort("top", i, "ch"))
	}
	scored := append(scoredItems(items, PoolPersonalized, 10),
		scoredItems([]Item{makeShort("low", 0, "ch")}, PoolPersonalized, -80)...)

	out := newTestMixer(4).TopShorts(scored, 12)
	if len(out) != 12 {
		t.Fatalf("len = %d, want 12", len(out))
	}
	top := idSet(items[:12])
	for _, it := range out {
		if _, ok := top[it.ID]; !ok {
			t.Errorf("%s is not among the best 12", it.ID)
		}
	}
}

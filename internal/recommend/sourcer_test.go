// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func newTestSourcer(catalog Catalog) *Sourcer {
	cfg := DefaultConfig()
	return NewSourcer(catalog, cfg.Sourcing, cfg.Scoring.ShortDurationSeconds, NewRandom(11), testLogger())
}

func TestStripBracketNoise(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"【公式】Cat Compilation (Official Video) [HD]", "Cat Compilation"},
		{"「テスト」 ライブ 『完全版』", "ライブ"},
		{"plain   title", "plain title"},
		{"【MV】", ""},
	}
	for _, tt := range tests {
		if got := StripBracketNoise(tt.in); got != tt.want {
			t.Errorf("StripBracketNoise(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSourcer_LongFormQueries(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig().Sourcing

	t.Run("watch history samples titles", func(t *testing.T) {
		t.Parallel()
		var src Sources
		for i := 0; i < 7; i++ {
			src.WatchHistory = append(src.WatchHistory, WatchEntry{
				Title: fmt.Sprintf("【公式】Title%d second third fourth fifth", i),
			})
		}
		queries := newTestSourcer(newMockCatalog()).LongFormQueries(src)
		if len(queries) != cfg.HistorySamples {
			t.Fatalf("got %d queries, want %d: %v", len(queries), cfg.HistorySamples, queries)
		}
		for _, q := range queries {
			if !strings.HasSuffix(q, " related") {
				t.Errorf("query %q lacks the related suffix", q)
			}
			if strings.Contains(q, "fifth") || strings.Contains(q, "公式") {
				t.Errorf("query %q was not trimmed", q)
			}
		}
	})

	t.Run("subscriptions when no history", func(t *testing.T) {
		t.Parallel()
		src := Sources{Subscriptions: []Subscription{
			{Name: "Alpha"}, {Name: "Beta"}, {Name: "Gamma"}, {Name: "Delta"},
		}}
		queries := newTestSourcer(newMockCatalog()).LongFormQueries(src)
		if len(queries) != cfg.SubscriptionSamples {
			t.Fatalf("got %d queries, want %d", len(queries), cfg.SubscriptionSamples)
		}
		for _, q := range queries {
			if !strings.HasSuffix(q, " latest") {
				t.Errorf("query %q lacks the latest suffix", q)
			}
		}
	})

	t.Run("cold start topics", func(t *testing.T) {
		t.Parallel()
		queries := newTestSourcer(newMockCatalog()).LongFormQueries(Sources{})
		if !reflect.DeepEqual(queries, cfg.ColdStartTopics) {
			t.Errorf("queries = %v, want %v", queries, cfg.ColdStartTopics)
		}
	})

	t.Run("noise-only titles fall back to cold start", func(t *testing.T) {
		t.Parallel()
		src := Sources{WatchHistory: []WatchEntry{{Title: "【MV】"}}}
		queries := newTestSourcer(newMockCatalog()).LongFormQueries(src)
		if !reflect.DeepEqual(queries, cfg.ColdStartTopics) {
			t.Errorf("queries = %v, want cold start topics", queries)
		}
	})
}

func TestSourcer_ShortsQueries(t *testing.T) {
	t.Parallel()

	s := newTestSourcer(newMockCatalog())

	if got := s.ShortsQueries(newProfile().finish()); !reflect.DeepEqual(got, []string{"trending #shorts"}) {
		t.Errorf("cold start ShortsQueries() = %v", got)
	}

	p := newProfile()
	p.add("cat", 5)
	p.add("dance", 4)
	p.add("piano", 3)
	p.add("cooking", 2)
	want := []string{"cat dance piano #shorts"}
	if got := s.ShortsQueries(p.finish()); !reflect.DeepEqual(got, want) {
		t.Errorf("ShortsQueries() = %v, want %v", got, want)
	}

	single := newProfile()
	single.add("piano", 1)
	if got := s.ShortsQueries(single.finish()); !reflect.DeepEqual(got, []string{"piano #shorts"}) {
		t.Errorf("single keyword ShortsQueries() = %v", got)
	}
}

func TestSourcer_FetchIsolatesFailures(t *testing.T) {
	t.Parallel()

	catalog := newMockCatalog()
	catalog.pages["good"] = &SearchPage{
		Videos: []Item{
			makeItem("lng", 1, "a"),
			{ID: "tinyclip001", Title: "clip", DurationText: "0:30"},
		},
		Shorts: []Item{{ID: "shelfshort1", Title: "shelf"}},
	}
	catalog.searchErr["bad"] = errors.New("upstream 503")
	catalog.trending = []Item{makeItem("trd", 1, "b"), {ID: "tagged00001", Title: "fun #Shorts"}}

	queries := []Query{
		{Text: "good", Pool: PoolPersonalized, Page: 1},
		{Text: "bad", Pool: PoolPersonalized, Page: 1},
	}
	got := newTestSourcer(catalog).Fetch(context.Background(), FeedHome, queries, PoolTrending)

	if got.Failed != 1 {
		t.Errorf("Failed = %d, want 1", got.Failed)
	}
	if n := len(got.Videos[PoolPersonalized]); n != 1 {
		t.Errorf("personalized videos = %d, want 1", n)
	}
	if n := len(got.Shorts[PoolPersonalized]); n != 2 {
		t.Errorf("personalized shorts = %d, want 2", n)
	}
	for _, it := range got.Shorts[PoolPersonalized] {
		if !it.IsShort {
			t.Errorf("%s not flagged as short", it.ID)
		}
	}
	if n := len(got.Videos[PoolTrending]); n != 1 {
		t.Errorf("trending videos = %d, want 1", n)
	}
	if n := len(got.Shorts[PoolTrending]); n != 1 {
		t.Errorf("trending shorts = %d, want 1", n)
	}
	if catalog.searchCount() != 2 {
		t.Errorf("searches = %d, want 2", catalog.searchCount())
	}
}

func TestSourcer_FetchAllFailing(t *testing.T) {
	t.Parallel()

	catalog := newMockCatalog()
	catalog.failAll = errors.New("offline")
	catalog.trendingErr = errors.New("offline")

	queries := []Query{{Text: "a", Pool: PoolPersonalized}, {Text: "b", Pool: PoolPersonalized}}
	got := newTestSourcer(catalog).Fetch(context.Background(), FeedHome, queries, PoolTrending)

	if got.Failed != 3 {
		t.Errorf("Failed = %d, want 3", got.Failed)
	}
	for pool, items := range got.Videos {
		if len(items) != 0 {
			t.Errorf("pool %s has %d videos, want 0", pool, len(items))
		}
	}
}

func TestSourcer_FetchPreservesQueryOrder(t *testing.T) {
	t.Parallel()

	catalog := newMockCatalog()
	var queries []Query
	for i := 0; i < 12; i++ {
		text := fmt.Sprintf("q%d", i)
		catalog.pages[text] = &SearchPage{Videos: []Item{makeItem("ord", i, text)}}
		queries = append(queries, Query{Text: text, Pool: PoolPersonalized})
	}

	got := newTestSourcer(catalog).Fetch(context.Background(), FeedHome, queries, PoolTrending)
	videos := got.Videos[PoolPersonalized]
	if len(videos) != 12 {
		t.Fatalf("videos = %d, want 12", len(videos))
	}
	for i, it := range videos {
		if want := makeItem("ord", i, "").ID; it.ID != want {
			t.Errorf("videos[%d] = %s, want %s", i, it.ID, want)
		}
	}
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"fmt"
	"testing"
)

func candidatesOf(items ...Item) []Candidate {
	return asCandidates(items, PoolPersonalized)
}

func TestFilter_BlockedChannel(t *testing.T) {
	t.Parallel()

	a := Item{ID: "aaaaaaaaaaa", Title: "same title", ChannelID: "UCblocked", ChannelName: "Same"}
	b := Item{ID: "bbbbbbbbbbb", Title: "same title", ChannelID: "UCfine", ChannelName: "Same"}

	f := NewFilter(Preferences{BlockedChannels: []string{"UCblocked"}}, NewExtractor(nil), 2.0)
	kept, drops := f.FilterAndDedupe(candidatesOf(a, b), NewSeenSet())

	if len(kept) != 1 || kept[0].Item.ID != b.ID {
		t.Fatalf("kept = %+v, want only %s", kept, b.ID)
	}
	if drops[DropBlockedChannel] != 1 {
		t.Errorf("drops = %v, want one blocked_channel", drops)
	}
}

func TestFilter_Reasons(t *testing.T) {
	t.Parallel()

	prefs := Preferences{
		NGKeywords:       []string{"Spoiler", "ネタバレ"},
		NegativeKeywords: map[string]float64{"drama": 1.5, "gossip": 1.0, "prank": 2.0},
	}

	tests := []struct {
		name     string
		item     Item
		seen     []string
		wantKept bool
		reason   string
	}{
		{"clean", Item{ID: "v1", Title: "cooking pasta"}, nil, true, ""},
		{"seen", Item{ID: "v2", Title: "cooking pasta"}, []string{"v2"}, false, DropSeen},
		{"ng in title any case", Item{ID: "v3", Title: "Finale SPOILERS inside"}, nil, false, DropNGKeyword},
		{"ng in channel name", Item{ID: "v4", Title: "review", ChannelName: "ネタバレ部"}, nil, false, DropNGKeyword},
		{"negative above threshold", Item{ID: "v5", Title: "drama gossip"}, nil, false, DropNegative},
		{"negative at threshold kept", Item{ID: "v6", Title: "prank"}, nil, true, ""},
		{"negative below threshold kept", Item{ID: "v7", Title: "drama recap"}, nil, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := NewFilter(prefs, NewExtractor(nil), 2.0)
			kept, drops := f.FilterAndDedupe(candidatesOf(tt.item), NewSeenSet(tt.seen...))

			if got := len(kept) == 1; got != tt.wantKept {
				t.Fatalf("kept = %v, want kept %v (drops %v)", kept, tt.wantKept, drops)
			}
			if tt.reason != "" && drops[tt.reason] != 1 {
				t.Errorf("drops = %v, want one %s", drops, tt.reason)
			}
		})
	}
}

func TestFilter_FillsKeywordsAndNegative(t *testing.T) {
	t.Parallel()

	f := NewFilter(Preferences{NegativeKeywords: map[string]float64{"drama": 1.5}}, NewExtractor(nil), 2.0)
	kept, _ := f.FilterAndDedupe(candidatesOf(Item{ID: "v1", Title: "Drama recap", ChannelName: "TV"}), NewSeenSet())

	if len(kept) != 1 {
		t.Fatalf("kept %d candidates, want 1", len(kept))
	}
	c := kept[0]
	if c.Negative != 1.5 {
		t.Errorf("Negative = %v, want 1.5", c.Negative)
	}
	want := []string{"drama", "recap", "tv"}
	if len(c.Keywords) != len(want) {
		t.Fatalf("Keywords = %v, want %v", c.Keywords, want)
	}
	for i := range want {
		if c.Keywords[i] != want[i] {
			t.Errorf("Keywords[%d] = %q, want %q", i, c.Keywords[i], want[i])
		}
	}
}

func TestFilter_DedupesWithinBatchAndUpdatesSeen(t *testing.T) {
	t.Parallel()

	item := Item{ID: "dup", Title: "one"}
	f := NewFilter(Preferences{}, NewExtractor(nil), 2.0)
	seen := NewSeenSet()

	kept, drops := f.FilterAndDedupe(candidatesOf(item, item, Item{ID: "other", Title: "two"}), seen)
	if len(kept) != 2 {
		t.Errorf("kept %d, want 2", len(kept))
	}
	if drops[DropSeen] != 1 {
		t.Errorf("drops = %v, want one seen", drops)
	}
	if !seen.Has("dup") || !seen.Has("other") {
		t.Errorf("seen = %v, want survivors added", seen.IDs())
	}
}

func TestFilter_Idempotent(t *testing.T) {
	t.Parallel()

	prefs := Preferences{
		NGKeywords:       []string{"bad"},
		BlockedChannels:  []string{"UC3"},
		HiddenVideos:     []string{"v00"},
		NegativeKeywords: map[string]float64{"meh": 3},
	}
	var cands []Candidate
	for i := 0; i < 40; i++ {
		title := fmt.Sprintf("title %d", i%7)
		switch i % 5 {
		case 1:
			title += " bad"
		case 2:
			title += " meh"
		}
		cands = append(cands, Candidate{Item: Item{
			ID:        fmt.Sprintf("v%02d", i%30),
			Title:     title,
			ChannelID: fmt.Sprintf("UC%d", i%4),
		}})
	}

	f := NewFilter(prefs, NewExtractor(nil), 2.0)
	base := NewSeenSet(prefs.HiddenVideos...)

	first, _ := f.FilterAndDedupe(cands, base.Clone())
	second, drops := f.FilterAndDedupe(first, base.Clone())

	if len(second) != len(first) {
		t.Fatalf("second pass kept %d, first kept %d (drops %v)", len(second), len(first), drops)
	}
	for i := range first {
		if first[i].Item.ID != second[i].Item.ID {
			t.Errorf("item %d: %s != %s", i, first[i].Item.ID, second[i].Item.ID)
		}
	}
}

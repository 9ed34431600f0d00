// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"github.com/tomtom215/tubescope/internal/cache"
)

// Drop reasons reported by FilterAndDedupe.
const (
	DropSeen           = "seen"
	DropNGKeyword      = "ng_keyword"
	DropBlockedChannel = "blocked_channel"
	DropNegative       = "negative"
)

// Filter removes unwanted candidates. It is built once per batch from an
// immutable Preferences snapshot.
type Filter struct {
	extractor *Extractor
	ng        *cache.KeywordMatcher
	blocked   map[string]struct{}
	negative  map[string]float64
	threshold float64
}

// NewFilter prepares the NG automaton and lookup sets for prefs.
func NewFilter(prefs Preferences, extractor *Extractor, threshold float64) *Filter {
	f := &Filter{
		extractor: extractor,
		ng:        cache.NewKeywordMatcher(prefs.NGKeywords),
		blocked:   make(map[string]struct{}, len(prefs.BlockedChannels)),
		negative:  make(map[string]float64, len(prefs.NegativeKeywords)),
		threshold: threshold,
	}
	for _, id := range prefs.BlockedChannels {
		f.blocked[id] = struct{}{}
	}
	for kw, w := range prefs.NegativeKeywords {
		if w > 0 {
			f.negative[cache.Fold(kw)] += w
		}
	}
	return f
}

// NegativeScore sums the negative weights of keywords.
func (f *Filter) NegativeScore(keywords []string) float64 {
	if len(f.negative) == 0 {
		return 0
	}
	sum := 0.0
	for _, kw := range keywords {
		sum += f.negative[kw]
	}
	return sum
}

// FilterAndDedupe drops candidates that are already in seen, match an NG
// keyword in title or channel name, belong to a blocked channel, or carry a
// negative score above the threshold. Survivors get their Keywords and
// Negative fields filled and their ids added to seen, so duplicates later
// in the same slice or in a later call are dropped as seen.
//
// The returned map counts drops by reason.
func (f *Filter) FilterAndDedupe(candidates []Candidate, seen *SeenSet) ([]Candidate, map[string]int) {
	drops := make(map[string]int, 4)
	kept := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if seen.Has(c.Item.ID) {
			drops[DropSeen]++
			continue
		}
		if f.ng.Contains(c.Item.Title + "\n" + c.Item.ChannelName) {
			drops[DropNGKeyword]++
			continue
		}
		if _, ok := f.blocked[c.Item.ChannelID]; ok && c.Item.ChannelID != "" {
			drops[DropBlockedChannel]++
			continue
		}

		c.Keywords = f.extractor.Extract(c.Item.Title + " " + c.Item.ChannelName)
		c.Negative = f.NegativeScore(c.Keywords)
		if c.Negative > f.threshold {
			drops[DropNegative]++
			continue
		}

		seen.Add(c.Item.ID)
		kept = append(kept, c)
	}
	return kept, drops
}

func mergeDrops(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}

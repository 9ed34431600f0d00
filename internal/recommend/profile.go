// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"math"
	"sort"
)

// Profile is a sparse keyword vector built fresh for every batch.
type Profile struct {
	Keywords  map[string]float64
	Magnitude float64

	// order records first insertion so ties rank deterministically.
	order []string
}

func newProfile() *Profile {
	return &Profile{Keywords: make(map[string]float64)}
}

func (p *Profile) add(keyword string, weight float64) {
	if weight <= 0 {
		return
	}
	if _, ok := p.Keywords[keyword]; !ok {
		p.order = append(p.order, keyword)
	}
	p.Keywords[keyword] += weight
}

// finish computes the Euclidean norm once the map is complete.
func (p *Profile) finish() *Profile {
	sum := 0.0
	for _, w := range p.Keywords {
		sum += w * w
	}
	p.Magnitude = math.Sqrt(sum)
	return p
}

// Weight returns the weight of keyword, zero when absent.
func (p *Profile) Weight(keyword string) float64 {
	return p.Keywords[keyword]
}

// IsEmpty reports whether the profile carries no signal.
func (p *Profile) IsEmpty() bool {
	return p == nil || len(p.Keywords) == 0 || p.Magnitude == 0
}

// TopInterests returns up to limit keywords by descending weight. Ties keep
// insertion order.
func (p *Profile) TopInterests(limit int) []string {
	if p == nil || limit <= 0 {
		return nil
	}
	ranked := make([]string, len(p.order))
	copy(ranked, p.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return p.Keywords[ranked[i]] > p.Keywords[ranked[j]]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ProfileBuilder folds history into keyword vectors.
type ProfileBuilder struct {
	cfg       ProfileConfig
	extractor *Extractor
}

// NewProfileBuilder creates a builder.
func NewProfileBuilder(cfg ProfileConfig, extractor *Extractor) *ProfileBuilder {
	return &ProfileBuilder{cfg: cfg, extractor: extractor}
}

// decayed returns base * exp(-index / decay).
func decayed(base float64, index int, decay float64) float64 {
	return base * math.Exp(-float64(index)/decay)
}

// Build creates the long-form profile from the first SearchLimit searches,
// the first WatchLimit watches and all subscriptions.
func (b *ProfileBuilder) Build(src Sources) *Profile {
	return b.build(src, 1, 1)
}

// BuildShorts creates the shorts profile, which boosts short-form watches
// and subscriptions over the long-form schedule.
func (b *ProfileBuilder) BuildShorts(src Sources) *Profile {
	return b.build(src, b.cfg.ShortsWatchBoost, b.cfg.ShortsSubscriptionBoost)
}

func (b *ProfileBuilder) build(src Sources, shortsBoost, subBoost float64) *Profile {
	p := newProfile()

	for i, term := range limitStrings(src.SearchHistory, b.cfg.SearchLimit) {
		w := decayed(b.cfg.SearchWeight, i, b.cfg.SearchDecay)
		for _, kw := range b.extractor.Extract(term) {
			p.add(kw, w)
		}
	}

	watches := src.WatchHistory
	if len(watches) > b.cfg.WatchLimit {
		watches = watches[:b.cfg.WatchLimit]
	}
	for i, entry := range watches {
		w := decayed(b.cfg.WatchWeight, i, b.cfg.WatchDecay)
		if entry.IsShort {
			w *= shortsBoost
		}
		for _, kw := range b.extractor.Extract(entry.Title) {
			p.add(kw, w)
		}
		for _, kw := range b.extractor.Extract(entry.ChannelName) {
			p.add(kw, w*b.cfg.ChannelAffinity)
		}
	}

	subWeight := b.cfg.SubscriptionWeight * subBoost
	for _, sub := range src.Subscriptions {
		for _, kw := range b.extractor.Extract(sub.Name) {
			p.add(kw, subWeight)
		}
	}

	return p.finish()
}

func limitStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

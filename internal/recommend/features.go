// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"math"
	"strings"
)

const (
	neutralFreshness       = 0.5
	defaultDurationSeconds = 600
)

// Feature names recorded in ScoredItem.Scores.
const (
	FeatureRelevance  = "relevance"
	FeatureFreshness  = "freshness"
	FeaturePopularity = "popularity"
	FeatureDuration   = "duration"
	FeatureLoyalty    = "loyalty"
	FeatureJitter     = "jitter"
	FeatureNegative   = "negative"
	FeaturePopular    = "popular_bonus"
	FeatureSubscribed = "subscribed"
)

// Relevance is the cosine similarity between an unweighted keyword set and
// the profile vector: dot / (|profile| * sqrt(len(keywords))).
func Relevance(keywords []string, p *Profile) float64 {
	if len(keywords) == 0 || p.IsEmpty() {
		return 0
	}
	dot := 0.0
	for _, kw := range keywords {
		dot += p.Weight(kw)
	}
	return dot / (p.Magnitude * math.Sqrt(float64(len(keywords))))
}

// Popularity compresses a view count: log10(views+1)/10. Unparseable text
// counts as zero views.
func Popularity(views string) float64 {
	n, _ := ParseViewCount(views)
	return math.Log10(n+1) / 10
}

// Scorer holds the tunable feature functions.
type Scorer struct {
	cfg    ScoringConfig
	shorts ShortsConfig
}

// NewScorer creates a scorer.
func NewScorer(cfg ScoringConfig, shorts ShortsConfig) Scorer {
	return Scorer{cfg: cfg, shorts: shorts}
}

// Freshness maps relative upload text to exp(-k * daysAgo), or 0.5 when the
// text is not recognized.
func (s Scorer) Freshness(uploaded string) float64 {
	days, ok := ParseDaysAgo(uploaded)
	if !ok {
		return neutralFreshness
	}
	return math.Exp(-s.cfg.FreshnessDecay * days)
}

// DurationMultiplier down-weights sub-minute items and up-weights long-form
// ones. Missing durations are assumed to be ten minutes.
func (s Scorer) DurationMultiplier(iso, text string) float64 {
	secs, ok := parseDurationSeconds(iso, text)
	if !ok {
		secs = defaultDurationSeconds
	}
	switch {
	case secs < s.cfg.ShortDurationSeconds:
		return s.cfg.ShortDurationMultiplier
	case secs > s.cfg.LongDurationSeconds:
		return s.cfg.LongDurationMultiplier
	default:
		return 1.0
	}
}

// Composite scores a long-form candidate:
//
//	((relevance*5 + freshness*2 + popularity*1) * duration * loyalty) * jitter
func (s Scorer) Composite(c Candidate, p *Profile, watched channelSet, rng Random) ScoredItem {
	rel := Relevance(c.Keywords, p)
	fresh := s.Freshness(c.Item.UploadedAt)
	pop := Popularity(c.Item.Views)
	dur := s.DurationMultiplier(c.Item.DurationISO, c.Item.DurationText)

	score := rel*s.cfg.RelevanceWeight + fresh*s.cfg.FreshnessWeight + pop*s.cfg.PopularityWeight
	score *= dur

	loyalty := 1.0
	if watched.has(c.Item) {
		loyalty = s.cfg.LoyaltyBoost
	}
	score *= loyalty

	jitter := uniform(rng, s.cfg.JitterMin, s.cfg.JitterMax)
	score *= jitter

	return ScoredItem{
		Candidate: c,
		Score:     score,
		Scores: map[string]float64{
			FeatureRelevance:  rel,
			FeatureFreshness:  fresh,
			FeaturePopularity: pop,
			FeatureDuration:   dur,
			FeatureLoyalty:    loyalty,
			FeatureJitter:     jitter,
		},
	}
}

// ShortScore scores a shorts candidate on an additive scale:
// popular-pool bonus, scaled relevance, subscription bonus, negative
// penalty and symmetric jitter.
func (s Scorer) ShortScore(c Candidate, p *Profile, subscribed channelSet, rng Random) ScoredItem {
	cfg := s.shorts
	scores := make(map[string]float64, 5)

	score := 0.0
	if c.Pool == PoolPopular {
		score += cfg.PopularBonus
		scores[FeaturePopular] = cfg.PopularBonus
	}

	rel := Relevance(c.Keywords, p)
	score += rel * cfg.RelevanceWeight
	scores[FeatureRelevance] = rel

	if subscribed.has(c.Item) {
		score += cfg.SubscriptionBonus
		scores[FeatureSubscribed] = cfg.SubscriptionBonus
	}

	score -= c.Negative * cfg.NegativePenalty
	scores[FeatureNegative] = c.Negative

	jitter := uniform(rng, -cfg.Jitter, cfg.Jitter)
	score += jitter
	scores[FeatureJitter] = jitter

	return ScoredItem{Candidate: c, Score: score, Scores: scores}
}

// channelSet matches channels by id, or by name when the catalog omitted
// the id on either side.
type channelSet map[string]struct{}

func newChannelSet() channelSet {
	return make(channelSet)
}

func (cs channelSet) add(id, name string) {
	if id != "" {
		cs["id:"+id] = struct{}{}
	}
	if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
		cs["name:"+name] = struct{}{}
	}
}

func (cs channelSet) has(item Item) bool {
	if item.ChannelID != "" {
		if _, ok := cs["id:"+item.ChannelID]; ok {
			return true
		}
	}
	if name := strings.ToLower(strings.TrimSpace(item.ChannelName)); name != "" {
		if _, ok := cs["name:"+name]; ok {
			return true
		}
	}
	return false
}

func watchedChannels(src Sources) channelSet {
	cs := newChannelSet()
	for _, w := range src.WatchHistory {
		cs.add(w.ChannelID, w.ChannelName)
	}
	return cs
}

func subscribedChannels(src Sources) channelSet {
	cs := newChannelSet()
	for _, s := range src.Subscriptions {
		cs.add(s.ChannelID, s.Name)
	}
	return cs
}

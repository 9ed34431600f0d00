// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"fmt"
	"time"
)

// Config contains all tunable constants of the recommendation engine.
// Every magic number used by the profile builder, scorers, filter and
// mixers lives here so that it can be overridden from configuration.
type Config struct {
	// Profile controls how history is folded into the keyword vector.
	Profile ProfileConfig `json:"profile" koanf:"profile"`

	// Scoring holds the long-form composite score weights.
	Scoring ScoringConfig `json:"scoring" koanf:"scoring"`

	// Filter holds the soft negative-feedback threshold.
	Filter FilterConfig `json:"filter" koanf:"filter"`

	// Feed controls long-form mixing.
	Feed FeedConfig `json:"feed" koanf:"feed"`

	// Shorts controls the shorts mixer and short scoring.
	Shorts ShortsConfig `json:"shorts" koanf:"shorts"`

	// Sourcing controls query construction and fan-out.
	Sourcing SourcingConfig `json:"sourcing" koanf:"sourcing"`

	// Diversity controls the optional title-similarity reranker.
	Diversity DiversityConfig `json:"diversity" koanf:"diversity"`

	// SuggestionLimit caps GetSuggestedKeywords output.
	SuggestionLimit int `json:"suggestion_limit" koanf:"suggestion_limit"`

	// Seed seeds shuffles and jitter. Zero seeds from the clock so repeated
	// runs with identical input do not produce identical feeds.
	Seed int64 `json:"seed" koanf:"seed"`
}

// ProfileConfig defines the weight schedule of the profile builder.
// Weights decay as base * exp(-index / decay) over most-recent-first history.
type ProfileConfig struct {
	SearchLimit  int     `json:"search_limit" koanf:"search_limit"`
	SearchWeight float64 `json:"search_weight" koanf:"search_weight"`
	SearchDecay  float64 `json:"search_decay" koanf:"search_decay"`

	WatchLimit  int     `json:"watch_limit" koanf:"watch_limit"`
	WatchWeight float64 `json:"watch_weight" koanf:"watch_weight"`
	WatchDecay  float64 `json:"watch_decay" koanf:"watch_decay"`

	// ChannelAffinity multiplies the title weight at the same index for the
	// channel name of a watched item.
	ChannelAffinity float64 `json:"channel_affinity" koanf:"channel_affinity"`

	// SubscriptionWeight is flat, subscriptions do not decay.
	SubscriptionWeight float64 `json:"subscription_weight" koanf:"subscription_weight"`

	// ShortsWatchBoost and ShortsSubscriptionBoost reweight the shorts profile
	// toward short-form watches and subscriptions.
	ShortsWatchBoost        float64 `json:"shorts_watch_boost" koanf:"shorts_watch_boost"`
	ShortsSubscriptionBoost float64 `json:"shorts_subscription_boost" koanf:"shorts_subscription_boost"`
}

// ScoringConfig defines the long-form composite score.
type ScoringConfig struct {
	RelevanceWeight  float64 `json:"relevance_weight" koanf:"relevance_weight"`
	FreshnessWeight  float64 `json:"freshness_weight" koanf:"freshness_weight"`
	PopularityWeight float64 `json:"popularity_weight" koanf:"popularity_weight"`

	// FreshnessDecay is k in exp(-k * daysAgo).
	FreshnessDecay float64 `json:"freshness_decay" koanf:"freshness_decay"`

	ShortDurationSeconds    int     `json:"short_duration_seconds" koanf:"short_duration_seconds"`
	ShortDurationMultiplier float64 `json:"short_duration_multiplier" koanf:"short_duration_multiplier"`
	LongDurationSeconds     int     `json:"long_duration_seconds" koanf:"long_duration_seconds"`
	LongDurationMultiplier  float64 `json:"long_duration_multiplier" koanf:"long_duration_multiplier"`

	// LoyaltyBoost applies when the item's channel appears in watch history.
	LoyaltyBoost float64 `json:"loyalty_boost" koanf:"loyalty_boost"`

	JitterMin float64 `json:"jitter_min" koanf:"jitter_min"`
	JitterMax float64 `json:"jitter_max" koanf:"jitter_max"`
}

// FilterConfig defines the filter pipeline thresholds.
type FilterConfig struct {
	// NegativeThreshold drops candidates whose summed negative keyword
	// weight is strictly greater than this value.
	NegativeThreshold float64 `json:"negative_threshold" koanf:"negative_threshold"`
}

// FeedConfig defines long-form mixing.
type FeedConfig struct {
	Size          int     `json:"size" koanf:"size"`
	TrendingRatio float64 `json:"trending_ratio" koanf:"trending_ratio"`

	// ShortlistFactor sizes the per-pool shortlist (factor * quota) that is
	// shuffled before slicing to the quota.
	ShortlistFactor float64 `json:"shortlist_factor" koanf:"shortlist_factor"`

	// ChannelCap is the maximum number of items per channel in one batch.
	ChannelCap int `json:"channel_cap" koanf:"channel_cap"`

	// ShortsLimit caps the shorts shelf returned with the home feed.
	ShortsLimit int `json:"shorts_limit" koanf:"shorts_limit"`
}

// ShortsConfig defines the shorts mixer and short scoring function.
type ShortsConfig struct {
	BatchSize    int     `json:"batch_size" koanf:"batch_size"`
	PopularRatio float64 `json:"popular_ratio" koanf:"popular_ratio"`

	PopularBonus      float64 `json:"popular_bonus" koanf:"popular_bonus"`
	RelevanceWeight   float64 `json:"relevance_weight" koanf:"relevance_weight"`
	SubscriptionBonus float64 `json:"subscription_bonus" koanf:"subscription_bonus"`
	NegativePenalty   float64 `json:"negative_penalty" koanf:"negative_penalty"`
	Jitter            float64 `json:"jitter" koanf:"jitter"`

	// Cutoff discards candidates scoring below it regardless of quota.
	Cutoff float64 `json:"cutoff" koanf:"cutoff"`
}

// SourcingConfig defines query construction and fan-out.
type SourcingConfig struct {
	HistorySamples      int    `json:"history_samples" koanf:"history_samples"`
	SubscriptionSamples int    `json:"subscription_samples" koanf:"subscription_samples"`
	QueryWords          int    `json:"query_words" koanf:"query_words"`
	RelatedSuffix       string `json:"related_suffix" koanf:"related_suffix"`
	SubscriptionSuffix  string `json:"subscription_suffix" koanf:"subscription_suffix"`

	// ColdStartTopics seed long-form queries when there is no history.
	ColdStartTopics []string `json:"cold_start_topics" koanf:"cold_start_topics"`

	ShortsKeywords   int    `json:"shorts_keywords" koanf:"shorts_keywords"`
	ShortsSuffix     string `json:"shorts_suffix" koanf:"shorts_suffix"`
	ShortsColdStart  string `json:"shorts_cold_start" koanf:"shorts_cold_start"`
	PopularShortsTag string `json:"popular_shorts_tag" koanf:"popular_shorts_tag"`

	MaxConcurrent int           `json:"max_concurrent" koanf:"max_concurrent"`
	QueryTimeout  time.Duration `json:"query_timeout" koanf:"query_timeout"`
}

// DiversityConfig configures the optional MMR title reranker.
type DiversityConfig struct {
	// MMRLambda of 1 disables the reranker.
	MMRLambda float64 `json:"mmr_lambda" koanf:"mmr_lambda"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() *Config {
	return &Config{
		Profile: ProfileConfig{
			SearchLimit:             30,
			SearchWeight:            3.0,
			SearchDecay:             10,
			WatchLimit:              50,
			WatchWeight:             2.0,
			WatchDecay:              20,
			ChannelAffinity:         1.5,
			SubscriptionWeight:      2.5,
			ShortsWatchBoost:        2.0,
			ShortsSubscriptionBoost: 1.5,
		},
		Scoring: ScoringConfig{
			RelevanceWeight:         5.0,
			FreshnessWeight:         2.0,
			PopularityWeight:        1.0,
			FreshnessDecay:          0.02,
			ShortDurationSeconds:    60,
			ShortDurationMultiplier: 0.6,
			LongDurationSeconds:     600,
			LongDurationMultiplier:  1.2,
			LoyaltyBoost:            1.3,
			JitterMin:               0.95,
			JitterMax:               1.05,
		},
		Filter: FilterConfig{
			NegativeThreshold: 2.0,
		},
		Feed: FeedConfig{
			Size:            50,
			TrendingRatio:   0.4,
			ShortlistFactor: 2.0,
			ChannelCap:      2,
			ShortsLimit:     12,
		},
		Shorts: ShortsConfig{
			BatchSize:         20,
			PopularRatio:      0.85,
			PopularBonus:      30,
			RelevanceWeight:   30,
			SubscriptionBonus: 50,
			NegativePenalty:   30,
			Jitter:            10,
			Cutoff:            -50,
		},
		Sourcing: SourcingConfig{
			HistorySamples:      5,
			SubscriptionSamples: 3,
			QueryWords:          4,
			RelatedSuffix:       "related",
			SubscriptionSuffix:  "latest",
			ColdStartTopics:     []string{"music", "gaming", "cooking", "travel vlog", "science"},
			ShortsKeywords:      3,
			ShortsSuffix:        "#shorts",
			ShortsColdStart:     "trending #shorts",
			PopularShortsTag:    "#shorts",
			MaxConcurrent:       8,
			QueryTimeout:        10 * time.Second,
		},
		Diversity: DiversityConfig{
			MMRLambda: 1.0,
		},
		SuggestionLimit: 10,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	p := c.Profile
	if p.SearchLimit < 0 || p.WatchLimit < 0 {
		return fmt.Errorf("profile limits must be non-negative, got search=%d watch=%d", p.SearchLimit, p.WatchLimit)
	}
	if p.SearchDecay <= 0 || p.WatchDecay <= 0 {
		return fmt.Errorf("profile decay constants must be positive, got search=%f watch=%f", p.SearchDecay, p.WatchDecay)
	}
	if p.SearchWeight < 0 || p.WatchWeight < 0 || p.SubscriptionWeight < 0 || p.ChannelAffinity < 0 {
		return fmt.Errorf("profile weights must be non-negative")
	}

	s := c.Scoring
	if s.FreshnessDecay < 0 {
		return fmt.Errorf("scoring.freshness_decay must be non-negative, got %f", s.FreshnessDecay)
	}
	if s.ShortDurationSeconds >= s.LongDurationSeconds {
		return fmt.Errorf("scoring.short_duration_seconds (%d) must be below long_duration_seconds (%d)",
			s.ShortDurationSeconds, s.LongDurationSeconds)
	}
	if s.JitterMin <= 0 || s.JitterMin > s.JitterMax {
		return fmt.Errorf("scoring jitter range must satisfy 0 < min <= max, got [%f, %f]", s.JitterMin, s.JitterMax)
	}

	if c.Filter.NegativeThreshold < 0 {
		return fmt.Errorf("filter.negative_threshold must be non-negative, got %f", c.Filter.NegativeThreshold)
	}

	f := c.Feed
	if f.Size < 1 {
		return fmt.Errorf("feed.size must be positive, got %d", f.Size)
	}
	if f.TrendingRatio < 0 || f.TrendingRatio > 1 {
		return fmt.Errorf("feed.trending_ratio must be in [0, 1], got %f", f.TrendingRatio)
	}
	if f.ShortlistFactor < 1 {
		return fmt.Errorf("feed.shortlist_factor must be at least 1, got %f", f.ShortlistFactor)
	}
	if f.ChannelCap < 1 {
		return fmt.Errorf("feed.channel_cap must be positive, got %d", f.ChannelCap)
	}
	if f.ShortsLimit < 0 {
		return fmt.Errorf("feed.shorts_limit must be non-negative, got %d", f.ShortsLimit)
	}

	sh := c.Shorts
	if sh.BatchSize < 1 {
		return fmt.Errorf("shorts.batch_size must be positive, got %d", sh.BatchSize)
	}
	if sh.PopularRatio < 0 || sh.PopularRatio > 1 {
		return fmt.Errorf("shorts.popular_ratio must be in [0, 1], got %f", sh.PopularRatio)
	}
	if sh.Jitter < 0 {
		return fmt.Errorf("shorts.jitter must be non-negative, got %f", sh.Jitter)
	}

	src := c.Sourcing
	if src.HistorySamples < 1 || src.SubscriptionSamples < 1 || src.QueryWords < 1 || src.ShortsKeywords < 1 {
		return fmt.Errorf("sourcing sample sizes must be positive")
	}
	if len(src.ColdStartTopics) == 0 {
		return fmt.Errorf("sourcing.cold_start_topics must not be empty")
	}
	if src.MaxConcurrent < 1 {
		return fmt.Errorf("sourcing.max_concurrent must be positive, got %d", src.MaxConcurrent)
	}
	if src.QueryTimeout <= 0 {
		return fmt.Errorf("sourcing.query_timeout must be positive, got %v", src.QueryTimeout)
	}

	if c.Diversity.MMRLambda < 0 || c.Diversity.MMRLambda > 1 {
		return fmt.Errorf("diversity.mmr_lambda must be in [0, 1], got %f", c.Diversity.MMRLambda)
	}
	if c.SuggestionLimit < 0 {
		return fmt.Errorf("suggestion_limit must be non-negative, got %d", c.SuggestionLimit)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Sourcing.ColdStartTopics = append([]string(nil), c.Sourcing.ColdStartTopics...)
	return &clone
}

// quotas splits the long-form feed size between the two pools.
func (f FeedConfig) quotas() (trending, personalized int) {
	trending = int(float64(f.Size)*f.TrendingRatio + 0.5)
	if trending > f.Size {
		trending = f.Size
	}
	return trending, f.Size - trending
}

// quotas splits the shorts batch between the popular and personalized pools.
func (s ShortsConfig) quotas() (popular, personalized int) {
	popular = int(float64(s.BatchSize)*s.PopularRatio + 0.5)
	if popular > s.BatchSize {
		popular = s.BatchSize
	}
	return popular, s.BatchSize - popular
}

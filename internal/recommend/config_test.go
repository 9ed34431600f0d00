// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	trending, personalized := cfg.Feed.quotas()
	if trending != 20 || personalized != 30 {
		t.Errorf("feed quotas = (%d, %d), want (20, 30)", trending, personalized)
	}

	popular, personal := cfg.Shorts.quotas()
	if popular != 17 || personal != 3 {
		t.Errorf("shorts quotas = (%d, %d), want (17, 3)", popular, personal)
	}

	if cfg.Filter.NegativeThreshold != 2.0 {
		t.Errorf("NegativeThreshold = %v, want 2.0", cfg.Filter.NegativeThreshold)
	}
	if cfg.Shorts.Cutoff != -50 {
		t.Errorf("Shorts.Cutoff = %v, want -50", cfg.Shorts.Cutoff)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"zero feed size", func(c *Config) { c.Feed.Size = 0 }, true},
		{"trending ratio above one", func(c *Config) { c.Feed.TrendingRatio = 1.5 }, true},
		{"shortlist factor below one", func(c *Config) { c.Feed.ShortlistFactor = 0.5 }, true},
		{"zero channel cap", func(c *Config) { c.Feed.ChannelCap = 0 }, true},
		{"negative threshold", func(c *Config) { c.Filter.NegativeThreshold = -1 }, true},
		{"zero decay", func(c *Config) { c.Profile.WatchDecay = 0 }, true},
		{"inverted jitter", func(c *Config) { c.Scoring.JitterMin, c.Scoring.JitterMax = 1.1, 1.0 }, true},
		{"short above long", func(c *Config) { c.Scoring.ShortDurationSeconds = 900 }, true},
		{"popular ratio negative", func(c *Config) { c.Shorts.PopularRatio = -0.1 }, true},
		{"no cold start topics", func(c *Config) { c.Sourcing.ColdStartTopics = nil }, true},
		{"zero concurrency", func(c *Config) { c.Sourcing.MaxConcurrent = 0 }, true},
		{"zero query timeout", func(c *Config) { c.Sourcing.QueryTimeout = 0 }, true},
		{"mmr lambda above one", func(c *Config) { c.Diversity.MMRLambda = 2 }, true},
		{"all trending", func(c *Config) { c.Feed.TrendingRatio = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Sourcing.ColdStartTopics[0] = "changed"
	clone.Feed.Size = 7

	if cfg.Sourcing.ColdStartTopics[0] == "changed" {
		t.Error("Clone shares ColdStartTopics backing array")
	}
	if cfg.Feed.Size == 7 {
		t.Error("Clone shares Feed config")
	}
}

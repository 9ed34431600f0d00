// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package store

import (
	"errors"
	"fmt"

	"github.com/tomtom215/tubescope/internal/validation"
)

// Config holds store settings.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps everything in memory; nothing survives Close.
	InMemory bool `koanf:"in_memory"`

	MaxSearchHistory int `koanf:"max_search_history" validate:"gte=1,lte=10000"`
	MaxWatchHistory  int `koanf:"max_watch_history" validate:"gte=1,lte=10000"`

	// NegativeDecay multiplies every negative keyword weight on each dislike.
	NegativeDecay float64 `koanf:"negative_decay" validate:"gt=0,lte=1"`

	// NegativePruneBelow drops negative weights that decayed under it.
	NegativePruneBelow float64 `koanf:"negative_prune_below" validate:"gte=0,lt=1"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Path:               "./data/tubescope",
		MaxSearchHistory:   100,
		MaxWatchHistory:    200,
		NegativeDecay:      0.9,
		NegativePruneBelow: 0.05,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Check(c); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	if !c.InMemory && c.Path == "" {
		return errors.New("store config: path is required unless in_memory is set")
	}
	return nil
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/tubescope/internal/catalog"
	"github.com/tomtom215/tubescope/internal/recommend"
	"github.com/tomtom215/tubescope/internal/store"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tubescope/config.yaml",
	"/etc/tubescope/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Catalog:   catalog.DefaultConfig(),
		Store:     store.DefaultConfig(),
		Recommend: *recommend.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: each package's DefaultConfig
//  2. Config File: explicitPath if non-empty, otherwise the first file
//     found by findConfigFile (optional)
//  3. Environment Variables: override any mapped setting
//
// An explicitPath that does not exist is an error; a missing default file
// is not.
func LoadWithKoanf(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := explicitPath
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// CATALOG_BASE_URL -> catalog.base_url
	// RECOMMEND_FEED_SIZE -> recommend.feed.size
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"recommend.sourcing.cold_start_topics",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (defaults or YAML)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Catalog client
	"catalog_base_url":              "catalog.base_url",
	"catalog_timeout":               "catalog.timeout",
	"catalog_region":                "catalog.region",
	"catalog_lang":                  "catalog.lang",
	"catalog_rate_limit_rps":        "catalog.rate_limit_rps",
	"catalog_rate_limit_burst":      "catalog.rate_limit_burst",
	"catalog_max_retries":           "catalog.max_retries",
	"catalog_retry_base_delay":      "catalog.retry_base_delay",
	"catalog_cache_ttl":             "catalog.cache_ttl",
	"catalog_cache_max_entries":     "catalog.cache_max_entries",
	"catalog_breaker_failure_ratio": "catalog.breaker_failure_ratio",
	"catalog_breaker_min_requests":  "catalog.breaker_min_requests",
	"catalog_breaker_timeout":       "catalog.breaker_timeout",
	"catalog_breaker_interval":      "catalog.breaker_interval",

	// History store
	"store_path":                 "store.path",
	"store_in_memory":            "store.in_memory",
	"store_max_search_history":   "store.max_search_history",
	"store_max_watch_history":    "store.max_watch_history",
	"store_negative_decay":       "store.negative_decay",
	"store_negative_prune_below": "store.negative_prune_below",

	// Recommendation engine
	"recommend_seed":                   "recommend.seed",
	"recommend_suggestion_limit":       "recommend.suggestion_limit",
	"recommend_search_weight":          "recommend.profile.search_weight",
	"recommend_watch_weight":           "recommend.profile.watch_weight",
	"recommend_subscription_weight":    "recommend.profile.subscription_weight",
	"recommend_relevance_weight":       "recommend.scoring.relevance_weight",
	"recommend_freshness_weight":       "recommend.scoring.freshness_weight",
	"recommend_popularity_weight":      "recommend.scoring.popularity_weight",
	"recommend_freshness_decay":        "recommend.scoring.freshness_decay",
	"recommend_negative_threshold":     "recommend.filter.negative_threshold",
	"recommend_feed_size":              "recommend.feed.size",
	"recommend_trending_ratio":         "recommend.feed.trending_ratio",
	"recommend_channel_cap":            "recommend.feed.channel_cap",
	"recommend_shorts_limit":           "recommend.feed.shorts_limit",
	"recommend_shorts_batch_size":      "recommend.shorts.batch_size",
	"recommend_shorts_popular_ratio":   "recommend.shorts.popular_ratio",
	"recommend_shorts_cutoff":          "recommend.shorts.cutoff",
	"recommend_cold_start_topics":      "recommend.sourcing.cold_start_topics",
	"recommend_max_concurrent_queries": "recommend.sourcing.max_concurrent",
	"recommend_query_timeout":          "recommend.sourcing.query_timeout",
	"recommend_mmr_lambda":             "recommend.diversity.mmr_lambda",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Metrics
	"metrics_textfile": "metrics.textfile_path",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - CATALOG_BASE_URL -> catalog.base_url
//   - STORE_IN_MEMORY -> store.in_memory
//   - RECOMMEND_COLD_START_TOPICS -> recommend.sourcing.cold_start_topics
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so the environment cannot pollute config.
	return ""
}

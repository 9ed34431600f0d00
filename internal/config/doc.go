// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

/*
Package config loads Tubescope configuration with Koanf v2.

# Configuration Sources

Layers are applied in order, later layers win:
  - Built-in defaults (each package's DefaultConfig)
  - An optional YAML file: the -config flag, CONFIG_PATH, or the first of
    config.yaml, config.yml, /etc/tubescope/config.yaml,
    /etc/tubescope/config.yml that exists
  - Environment variables listed in the mapping table in koanf.go.
    Unknown variables are ignored.

# Sections

	catalog     catalog proxy client (base_url, timeout, rate limits, retries, cache, breaker)
	store       history store (path, in_memory, history caps, negative decay)
	recommend   every recommendation tunable (profile, scoring, feed, shorts, sourcing)
	logging     level, format, caller
	metrics     textfile path for a Prometheus textfile collector

# Environment Variables

A selection; see envMappings for the full table.

  - CATALOG_BASE_URL: catalog proxy URL (default: http://localhost:3000)
  - CATALOG_REGION, CATALOG_LANG: region and UI language sent upstream
  - STORE_PATH: BadgerDB directory (default: ./data/tubescope)
  - STORE_IN_MEMORY: keep history in memory only
  - RECOMMEND_SEED: fixed RNG seed, 0 seeds from the clock
  - RECOMMEND_COLD_START_TOPICS: comma separated topics
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - METRICS_TEXTFILE: write metrics here after each command

# Example YAML

	catalog:
	  base_url: http://localhost:3000
	  region: JP
	  lang: ja
	recommend:
	  feed:
	    size: 40
	  sourcing:
	    cold_start_topics: [music, gaming]
	logging:
	  level: debug
	  format: console
*/
package config

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"fmt"
	"time"

	"github.com/tomtom215/tubescope/internal/validation"
)

// Config holds catalog client settings.
type Config struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`
	Region  string        `koanf:"region"`
	Lang    string        `koanf:"lang"`

	// Outbound rate limiting
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
	MaxRetries     int           `koanf:"max_retries" validate:"gte=0,lte=10"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// Response cache
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries" validate:"gte=0"`

	// Circuit breaker
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"gt=0,lte=1"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:             "http://localhost:3000",
		Timeout:             15 * time.Second,
		Region:              "JP",
		Lang:                "ja",
		RateLimitRPS:        10,
		RateLimitBurst:      20,
		MaxRetries:          3,
		RetryBaseDelay:      time.Second,
		CacheTTL:            5 * time.Minute,
		CacheMaxEntries:     512,
		BreakerFailureRatio: 0.6,
		BreakerMinRequests:  10,
		BreakerTimeout:      2 * time.Minute,
		BreakerInterval:     time.Minute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validation.Check(c); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("catalog: timeout must be positive, got %v", c.Timeout)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("catalog: rate_limit_rps must be non-negative, got %f", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("catalog: rate_limit_burst must be positive when rate limiting, got %d", c.RateLimitBurst)
	}
	return nil
}

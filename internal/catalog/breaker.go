// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tubescope/internal/metrics"
	"github.com/tomtom215/tubescope/internal/recommend"
)

const breakerName = "catalog-api"

// BreakerCatalog wraps a catalog with the circuit breaker pattern so a dead
// or overloaded upstream fails fast instead of stalling every query.
type BreakerCatalog struct {
	next   recommend.Catalog
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

// NewBreakerCatalog creates the breaker:
//   - 3 probe requests in half-open state
//   - counts reset every BreakerInterval while closed
//   - BreakerTimeout before an open breaker half-opens
//   - opens at BreakerFailureRatio with at least BreakerMinRequests requests
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerCatalog(next recommend.Catalog, cfg Config, logger zerolog.Logger) *BreakerCatalog {
	logger = logger.With().Str("component", "catalog-breaker").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		// Missing results and callers giving up say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerCatalog{next: next, cb: cb, name: breakerName, logger: logger}
}

// Search implements recommend.Catalog.
func (b *BreakerCatalog) Search(ctx context.Context, query string, page int) (*recommend.SearchPage, error) {
	return castResult[recommend.SearchPage](b.execute(func() (interface{}, error) {
		return b.next.Search(ctx, query, page)
	}))
}

// Trending implements recommend.Catalog.
func (b *BreakerCatalog) Trending(ctx context.Context) ([]recommend.Item, error) {
	items, err := castResult[[]recommend.Item](b.execute(func() (interface{}, error) {
		items, err := b.next.Trending(ctx)
		if err != nil {
			return nil, err
		}
		return &items, nil
	}))
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// State returns the current breaker state name.
func (b *BreakerCatalog) State() string {
	return stateToString(b.cb.State())
}

// execute runs fn under the breaker and records the outcome.
func (b *BreakerCatalog) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Debug().Err(err).Msg("request rejected")
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

var _ recommend.Catalog = (*BreakerCatalog)(nil)

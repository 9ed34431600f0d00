// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tubescope/internal/catalog"
	"github.com/tomtom215/tubescope/internal/config"
	"github.com/tomtom215/tubescope/internal/recommend"
	"github.com/tomtom215/tubescope/internal/recommend/reranking"
	"github.com/tomtom215/tubescope/internal/store"
)

// Segmenter names accepted by -segmenter.
const (
	segmenterKagome   = "kagome"
	segmenterFallback = "fallback"
)

// app holds the wired components for one command.
type app struct {
	cfg     *config.Config
	catalog recommend.Catalog
	store   *store.Store
	engine  *recommend.Engine
	logger  zerolog.Logger
}

// buildCatalog composes client, breaker and cache. The cache is outermost
// so hits never count against the breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildCatalog(cfg catalog.Config, logger zerolog.Logger) recommend.Catalog {
	client := catalog.NewClient(cfg, logger)
	breaker := catalog.NewBreakerCatalog(client, cfg, logger)
	return catalog.NewCachedCatalog(breaker, cfg)
}

// newSegmenter returns the requested segmenter. A kagome load failure falls
// back to script-boundary segmentation with a warning; nil means fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newSegmenter(name string, logger zerolog.Logger) (recommend.Segmenter, error) {
	switch name {
	case segmenterFallback:
		return nil, nil
	case segmenterKagome:
		seg, err := recommend.NewKagomeSegmenter()
		if err != nil {
			logger.Warn().Err(err).Msg("kagome unavailable, using fallback segmenter")
			return nil, nil
		}
		return seg, nil
	default:
		return nil, fmt.Errorf("unknown segmenter %q (want %s or %s)", name, segmenterKagome, segmenterFallback)
	}
}

// newApp opens the store and builds the engine over cat.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(cfg *config.Config, cat recommend.Catalog, seg recommend.Segmenter, logger zerolog.Logger) (*app, error) {
	st, err := store.Open(cfg.Store, recommend.NewExtractor(seg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, cat, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if seg != nil {
		engine.SetSegmenter(seg)
	}
	if lambda := cfg.Recommend.Diversity.MMRLambda; lambda < 1 {
		engine.RegisterReranker(reranking.NewMMR(lambda))
	}

	return &app{
		cfg:     cfg,
		catalog: cat,
		store:   st,
		engine:  engine,
		logger:  logger,
	}, nil
}

// Close releases the store.
func (a *app) Close() error {
	return a.store.Close()
}

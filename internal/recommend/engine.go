// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tubescope/internal/cache"
	"github.com/tomtom215/tubescope/internal/logging"
	"github.com/tomtom215/tubescope/internal/metrics"
)

// Feed names used in logs and metrics.
const (
	FeedHome   = "home"
	FeedShorts = "shorts"
)

// Engine is the recommendation facade. It holds no per-user state; every
// call builds its profile and candidate pools from the Sources it is given.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	catalog Catalog

	mu        sync.RWMutex
	rng       Random
	extractor *Extractor
	rerankers []Reranker
}

// NewEngine creates an engine. A nil cfg selects DefaultConfig. The
// per-channel cap is always the first reranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog Catalog, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if catalog == nil {
		return nil, ErrNoCatalog
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:    cfg.Clone(),
		logger:    logger.With().Str("component", "recommend").Logger(),
		catalog:   catalog,
		rng:       NewRandom(cfg.Seed),
		extractor: NewExtractor(nil),
		rerankers: []Reranker{NewChannelCap(cfg.Feed.ChannelCap)},
	}, nil
}

// SetRandom replaces the random source.
func (e *Engine) SetRandom(r Random) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng = r
}

// SetSegmenter replaces the word segmenter used by keyword extraction.
func (e *Engine) SetSegmenter(seg Segmenter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extractor = NewExtractor(seg)
}

// RegisterReranker appends a reranker after the channel cap.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Extractor returns the keyword extractor in use.
func (e *Engine) Extractor() *Extractor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.extractor
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// batch captures the collaborators of one call so later Set* calls do not
// affect it midway.
type batch struct {
	cfg       *Config
	rng       Random
	extractor *Extractor
	profiles  *ProfileBuilder
	scorer    Scorer
	sourcer   *Sourcer
	mixer     *Mixer
	rerankers []string
	logger    zerolog.Logger
}

func (e *Engine) newBatch(ctx context.Context) *batch {
	e.mu.RLock()
	rng, extractor := e.rng, e.extractor
	rerankers := make([]Reranker, len(e.rerankers))
	copy(rerankers, e.rerankers)
	e.mu.RUnlock()

	names := make([]string, len(rerankers))
	for i, rr := range rerankers {
		names[i] = rr.Name()
	}

	logger := logging.With(ctx, e.logger)
	cfg := e.config
	return &batch{
		cfg:       cfg,
		rng:       rng,
		extractor: extractor,
		profiles:  NewProfileBuilder(cfg.Profile, extractor),
		scorer:    NewScorer(cfg.Scoring, cfg.Shorts),
		sourcer:   NewSourcer(e.catalog, cfg.Sourcing, cfg.Scoring.ShortDurationSeconds, rng, logger),
		mixer:     NewMixer(cfg.Feed, cfg.Shorts, rng, rerankers...),
		rerankers: names,
		logger:    logger,
	}
}

func asQueries(texts []string, pool Pool, page int) []Query {
	out := make([]Query, len(texts))
	for i, t := range texts {
		out[i] = Query{Text: t, Pool: pool, Page: page}
	}
	return out
}

func asCandidates(items []Item, pool Pool) []Candidate {
	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = Candidate{Item: it, Pool: pool}
	}
	return out
}

// GetRecommendations produces the long-form home feed plus a shorts shelf.
// Catalog failures degrade to fewer candidates; an empty feed is a valid
// result. Only an already-cancelled context returns an error.
func (e *Engine) GetRecommendations(ctx context.Context, src Sources) (*Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	ctx = logging.EnsureRequestID(ctx)
	b := e.newBatch(ctx)

	profile := b.profiles.Build(src)
	queries := b.sourcer.LongFormQueries(src)
	sourced := b.sourcer.Fetch(ctx, FeedHome, asQueries(queries, PoolPersonalized, 1), PoolTrending)

	seen := NewSeenSet(src.Preferences.HiddenVideos...)
	filter := NewFilter(src.Preferences, b.extractor, b.cfg.Filter.NegativeThreshold)
	drops := make(map[string]int)

	raw := append(asCandidates(sourced.Videos[PoolTrending], PoolTrending),
		asCandidates(sourced.Videos[PoolPersonalized], PoolPersonalized)...)
	kept, d := filter.FilterAndDedupe(raw, seen)
	mergeDrops(drops, d)

	watched := watchedChannels(src)
	scored := make([]ScoredItem, len(kept))
	for i, c := range kept {
		scored[i] = b.scorer.Composite(c, profile, watched, b.rng)
	}
	videos, capped := b.mixer.MixLongForm(ctx, scored)

	// Shorts found by the same queries feed the shelf. Trending shorts count
	// as the popular pool.
	rawShorts := append(asCandidates(sourced.Shorts[PoolTrending], PoolPopular),
		asCandidates(sourced.Shorts[PoolPersonalized], PoolPersonalized)...)
	keptShorts, d := filter.FilterAndDedupe(rawShorts, seen)
	mergeDrops(drops, d)

	shortsProfile := b.profiles.BuildShorts(src)
	subscribed := subscribedChannels(src)
	scoredShorts := make([]ScoredItem, len(keptShorts))
	for i, c := range keptShorts {
		scoredShorts[i] = b.scorer.ShortScore(c, shortsProfile, subscribed, b.rng)
	}
	shorts := b.mixer.TopShorts(scoredShorts, b.cfg.Feed.ShortsLimit)

	elapsed := time.Since(start)
	metrics.RecordFilterDrops(drops)
	metrics.RecordBatch(FeedHome, elapsed, len(videos))

	b.logger.Info().
		Int("videos", len(videos)).
		Int("shorts", len(shorts)).
		Int("queries", len(queries)).
		Int("failed_queries", sourced.Failed).
		Int("candidates", len(raw)).
		Int("kept", len(kept)).
		Int("capped", capped).
		Dur("latency", elapsed).
		Msg("home feed generated")

	return &Feed{
		Videos: videos,
		Shorts: shorts,
		Metadata: FeedMetadata{
			RequestID: logging.RequestIDFromContext(ctx),
			Queries:   queries,
			ColdStart: src.IsColdStart(),
			Candidates: map[Pool]int{
				PoolTrending:     len(sourced.Videos[PoolTrending]),
				PoolPersonalized: len(sourced.Videos[PoolPersonalized]),
			},
			Dropped:       drops,
			FailedQueries: sourced.Failed,
			LatencyMS:     elapsed.Milliseconds(),
			GeneratedAt:   start.UTC(),
			RerankersUsed: b.rerankers,
			Capped:        capped,
		},
	}, nil
}

// GetShortsRecommendations produces one shorts batch. seen carries the ids
// the caller has already shown; ids of the returned batch are added to it so
// the next call continues where this one stopped. A nil seen is treated as
// empty and not retained.
func (e *Engine) GetShortsRecommendations(ctx context.Context, src Sources, seen *SeenSet) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	ctx = logging.EnsureRequestID(ctx)
	b := e.newBatch(ctx)
	if seen == nil {
		seen = NewSeenSet()
	}

	profile := b.profiles.BuildShorts(src)
	page := seen.Len()/b.cfg.Shorts.BatchSize + 1

	queries := asQueries(b.sourcer.ShortsQueries(profile), PoolPersonalized, page)
	queries = append(queries, Query{Text: b.cfg.Sourcing.PopularShortsTag, Pool: PoolPopular, Page: page})
	sourced := b.sourcer.Fetch(ctx, FeedShorts, queries, PoolPopular)

	// Filter against a working copy: survivors that do not make the batch
	// stay eligible for the next page.
	working := seen.Clone()
	for _, id := range src.Preferences.HiddenVideos {
		working.Add(id)
	}
	filter := NewFilter(src.Preferences, b.extractor, b.cfg.Filter.NegativeThreshold)

	popularRaw := asCandidates(sourced.Shorts[PoolPopular], PoolPopular)
	popular, drops := filter.FilterAndDedupe(popularRaw, working)
	personalRaw := asCandidates(sourced.Shorts[PoolPersonalized], PoolPersonalized)
	personal, d := filter.FilterAndDedupe(personalRaw, working)
	mergeDrops(drops, d)

	subscribed := subscribedChannels(src)
	score := func(cands []Candidate) []ScoredItem {
		out := make([]ScoredItem, len(cands))
		for i, c := range cands {
			out[i] = b.scorer.ShortScore(c, profile, subscribed, b.rng)
		}
		return out
	}
	shorts := b.mixer.MixShorts(score(popular), score(personal))

	for _, it := range shorts {
		seen.Add(it.ID)
	}

	elapsed := time.Since(start)
	metrics.RecordFilterDrops(drops)
	metrics.RecordBatch(FeedShorts, elapsed, len(shorts))

	b.logger.Info().
		Int("shorts", len(shorts)).
		Int("page", page).
		Int("popular_candidates", len(popular)).
		Int("personalized_candidates", len(personal)).
		Int("failed_queries", sourced.Failed).
		Dur("latency", elapsed).
		Msg("shorts batch generated")

	return shorts, nil
}

// GetSuggestedKeywords returns the strongest inferred interests that are not
// already in current and do not hit an NG keyword.
func (e *Engine) GetSuggestedKeywords(src Sources, current []string) []string {
	e.mu.RLock()
	extractor := e.extractor
	e.mu.RUnlock()

	limit := e.config.SuggestionLimit
	if limit == 0 {
		return nil
	}

	profile := NewProfileBuilder(e.config.Profile, extractor).Build(src)
	have := make(map[string]struct{}, len(current))
	for _, kw := range current {
		have[cache.Fold(kw)] = struct{}{}
	}
	ng := cache.NewKeywordMatcher(src.Preferences.NGKeywords)

	var out []string
	for _, kw := range profile.TopInterests(len(profile.Keywords)) {
		if _, ok := have[kw]; ok {
			continue
		}
		if ng.Contains(kw) {
			continue
		}
		out = append(out, kw)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tubescope/internal/metrics"
)

// bracketNoiseRe matches bracketed title decorations such as 【公式】,
// [MV], (Official Video) or 「...」.
var bracketNoiseRe = regexp.MustCompile(`【[^】]*】|「[^」]*」|『[^』]*』|\[[^\]]*\]|\([^)]*\)|（[^）]*）|〔[^〕]*〕`)

// Query is one catalog search issued for a pool.
type Query struct {
	Text string
	Pool Pool
	Page int
}

// Sourced holds the raw, unfiltered results of one fan-out, split into
// long-form videos and shorts per pool in deterministic query order.
type Sourced struct {
	Videos map[Pool][]Item
	Shorts map[Pool][]Item
	Failed int
}

// Sourcer builds queries from history and fans them out to the catalog.
type Sourcer struct {
	catalog      Catalog
	cfg          SourcingConfig
	shortSeconds int
	rng          Random
	logger       zerolog.Logger
}

// NewSourcer creates a sourcer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSourcer(catalog Catalog, cfg SourcingConfig, shortSeconds int, rng Random, logger zerolog.Logger) *Sourcer {
	return &Sourcer{catalog: catalog, cfg: cfg, shortSeconds: shortSeconds, rng: rng, logger: logger}
}

// StripBracketNoise removes bracketed decorations and collapses spaces.
func StripBracketNoise(title string) string {
	return strings.Join(strings.Fields(bracketNoiseRe.ReplaceAllString(title, " ")), " ")
}

// firstWords returns the first n space-separated words of s.
func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// LongFormQueries derives personalized queries: up to HistorySamples random
// watched titles, else up to SubscriptionSamples random subscribed channel
// names, else the cold-start topics.
func (s *Sourcer) LongFormQueries(src Sources) []string {
	var queries []string
	seen := make(map[string]struct{})
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}

	switch {
	case len(src.WatchHistory) > 0:
		for _, i := range sample(s.rng, len(src.WatchHistory), s.cfg.HistorySamples) {
			base := firstWords(StripBracketNoise(src.WatchHistory[i].Title), s.cfg.QueryWords)
			if base != "" {
				add(base + " " + s.cfg.RelatedSuffix)
			}
		}
	case len(src.Subscriptions) > 0:
		for _, i := range sample(s.rng, len(src.Subscriptions), s.cfg.SubscriptionSamples) {
			if name := strings.TrimSpace(src.Subscriptions[i].Name); name != "" {
				add(name + " " + s.cfg.SubscriptionSuffix)
			}
		}
	}

	if len(queries) == 0 {
		for _, topic := range s.cfg.ColdStartTopics {
			add(topic)
		}
	}
	return queries
}

// ShortsQueries joins the top shorts-profile keywords into one tagged query,
// or returns the cold-start shorts query for an empty profile.
func (s *Sourcer) ShortsQueries(p *Profile) []string {
	top := p.TopInterests(s.cfg.ShortsKeywords)
	if len(top) == 0 {
		return []string{s.cfg.ShortsColdStart}
	}
	return []string{strings.Join(top, " ") + " " + s.cfg.ShortsSuffix}
}

type queryResult struct {
	videos []Item
	shorts []Item
	failed bool
}

// Fetch runs every query and the trending feed concurrently, bounded by
// MaxConcurrent. A failing request contributes nothing and is logged; it
// never fails the batch. Trending results land in trendingPool.
func (s *Sourcer) Fetch(ctx context.Context, feed string, queries []Query, trendingPool Pool) *Sourced {
	results := make([]queryResult, len(queries))
	var trending queryResult

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrent)

	g.Go(func() error {
		trending = s.runTrending(ctx, feed)
		return nil
	})
	for i, q := range queries {
		g.Go(func() error {
			results[i] = s.runSearch(ctx, feed, q)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	out := &Sourced{
		Videos: make(map[Pool][]Item),
		Shorts: make(map[Pool][]Item),
	}
	collect := func(pool Pool, r queryResult) {
		if r.failed {
			out.Failed++
		}
		out.Videos[pool] = append(out.Videos[pool], r.videos...)
		out.Shorts[pool] = append(out.Shorts[pool], r.shorts...)
	}

	collect(trendingPool, trending)
	for i, q := range queries {
		collect(q.Pool, results[i])
	}

	for pool, items := range out.Videos {
		metrics.RecordCandidates(feed, string(pool)+"_videos", len(items))
	}
	for pool, items := range out.Shorts {
		metrics.RecordCandidates(feed, string(pool)+"_shorts", len(items))
	}
	return out
}

func (s *Sourcer) runSearch(ctx context.Context, feed string, q Query) queryResult {
	qctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	page, err := s.catalog.Search(qctx, q.Text, q.Page)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("feed", feed).
			Str("pool", string(q.Pool)).
			Str("query", q.Text).
			Msg("catalog search failed, continuing without it")
		metrics.RecordQueryFailure(feed)
		return queryResult{failed: true}
	}
	if page == nil {
		return queryResult{}
	}

	var r queryResult
	s.split(page.Videos, &r)
	for _, it := range page.Shorts {
		it.IsShort = true
		r.shorts = append(r.shorts, it)
	}
	return r
}

func (s *Sourcer) runTrending(ctx context.Context, feed string) queryResult {
	qctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	items, err := s.catalog.Trending(qctx)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("feed", feed).
			Msg("catalog trending failed, continuing without it")
		metrics.RecordQueryFailure(feed)
		return queryResult{failed: true}
	}

	var r queryResult
	s.split(items, &r)
	return r
}

// split routes items into long-form videos and shorts.
func (s *Sourcer) split(items []Item, r *queryResult) {
	for _, it := range items {
		if looksShort(it, s.shortSeconds) {
			it.IsShort = true
			r.shorts = append(r.shorts, it)
			continue
		}
		r.videos = append(r.videos, it)
	}
}

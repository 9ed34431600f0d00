// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNoCatalog is returned by NewEngine when no catalog is supplied.
var ErrNoCatalog = errors.New("recommend: catalog is required")

// Item is a fully normalized catalog video. The scoring core never sees raw
// catalog shapes; see catalog.Normalize for the field fallback chains.
type Item struct {
	// ID is the catalog-assigned 11 character video identifier.
	ID string `json:"id"`

	Title       string `json:"title"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`

	// DurationISO is an ISO-8601 duration such as PT4M13S. May be empty.
	DurationISO string `json:"duration_iso,omitempty"`

	// DurationText is the display duration such as 4:13. May be empty.
	DurationText string `json:"duration_text,omitempty"`

	// Views is the localized view count text such as "1.2万回視聴".
	Views string `json:"views,omitempty"`

	// UploadedAt is relative time text such as "3 days ago" or "2週間前".
	// The catalog never supplies absolute dates.
	UploadedAt string `json:"uploaded_at,omitempty"`

	Thumbnail string `json:"thumbnail,omitempty"`
	IsShort   bool   `json:"is_short,omitempty"`
}

// Pool identifies which candidate source produced an item.
type Pool string

const (
	// PoolTrending is the non-personalized long-form pool.
	PoolTrending Pool = "trending"
	// PoolPersonalized is produced by profile-derived queries.
	PoolPersonalized Pool = "personalized"
	// PoolPopular is the non-personalized shorts pool.
	PoolPopular Pool = "popular"
)

// Candidate is a raw sourced item tagged with its pool. Keywords and
// Negative are filled in by the filter pipeline.
type Candidate struct {
	Item     Item
	Pool     Pool
	Keywords []string
	Negative float64
}

// ScoredItem pairs a candidate with its score for one ranking pass.
type ScoredItem struct {
	Candidate
	Score float64

	// Scores holds the individual feature values for explanation.
	Scores map[string]float64
}

// WatchEntry is one watch-history record, most recent first.
type WatchEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	IsShort     bool      `json:"is_short,omitempty"`
	WatchedAt   time.Time `json:"watched_at"`
}

// Subscription is a subscribed channel.
type Subscription struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
}

// Preferences is the user's explicit and learned filter state.
type Preferences struct {
	// NGKeywords are hard case-insensitive substring blocks.
	NGKeywords []string `json:"ng_keywords"`

	// BlockedChannels are hard channel id blocks.
	BlockedChannels []string `json:"blocked_channels"`

	// HiddenVideos were marked "not interested".
	HiddenVideos []string `json:"hidden_videos"`

	// NegativeKeywords is the decaying learned-distaste map.
	NegativeKeywords map[string]float64 `json:"negative_keywords"`

	// Keywords are interests the user added explicitly.
	Keywords []string `json:"keywords"`
}

// Sources is an immutable snapshot of everything the engine reads from the
// history/preference store for one batch.
type Sources struct {
	// SearchHistory is ordered most recent first.
	SearchHistory []string `json:"search_history"`

	// WatchHistory is ordered most recent first.
	WatchHistory []WatchEntry `json:"watch_history"`

	Subscriptions []Subscription `json:"subscriptions"`
	Preferences   Preferences    `json:"preferences"`
}

// IsColdStart reports whether there is no history and no subscriptions.
func (s Sources) IsColdStart() bool {
	return len(s.SearchHistory) == 0 && len(s.WatchHistory) == 0 && len(s.Subscriptions) == 0
}

// SearchPage is one page of catalog search results.
type SearchPage struct {
	Videos        []Item `json:"videos"`
	Shorts        []Item `json:"shorts"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// Catalog is the external search/browse collaborator. Implementations own
// retries, caching and rate limiting; the engine calls it concurrently.
type Catalog interface {
	Search(ctx context.Context, query string, page int) (*SearchPage, error)
	Trending(ctx context.Context) ([]Item, error)
}

// Feed is the long-form home feed result.
type Feed struct {
	Videos   []Item       `json:"videos"`
	Shorts   []Item       `json:"shorts"`
	Metadata FeedMetadata `json:"metadata"`
}

// FeedMetadata describes how a batch was produced.
type FeedMetadata struct {
	RequestID     string         `json:"request_id"`
	Queries       []string       `json:"queries"`
	ColdStart     bool           `json:"cold_start"`
	Candidates    map[Pool]int   `json:"candidates"`
	Dropped       map[string]int `json:"dropped"`
	FailedQueries int            `json:"failed_queries"`
	LatencyMS     int64          `json:"latency_ms"`
	GeneratedAt   time.Time      `json:"generated_at"`
	RerankersUsed []string       `json:"rerankers_used,omitempty"`
	Capped        int            `json:"capped"`
}

// Reranker modifies a ranked list for diversity or other objectives.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank receives items sorted by descending score and returns up to k
	// of them, possibly reordered or with some removed.
	Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
}

// SeenSet is the running set of ids already shown, hidden or selected. The
// caller owns it across pagination; it is not safe for concurrent use.
type SeenSet struct {
	ids map[string]struct{}
}

// NewSeenSet creates a set seeded with ids.
func NewSeenSet(ids ...string) *SeenSet {
	s := &SeenSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Empty ids are ignored.
func (s *SeenSet) Add(id string) {
	if id == "" {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Has reports whether id was seen.
func (s *SeenSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids.
func (s *SeenSet) Len() int {
	return len(s.ids)
}

// Clone returns an independent copy.
func (s *SeenSet) Clone() *SeenSet {
	c := &SeenSet{ids: make(map[string]struct{}, len(s.ids))}
	for id := range s.ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// IDs returns the ids in unspecified order.
func (s *SeenSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// looksShort classifies an item as short-form by flag, duration or the
// #shorts title tag.
func looksShort(item Item, shortSeconds int) bool {
	if item.IsShort {
		return true
	}
	if strings.Contains(strings.ToLower(item.Title), "#shorts") {
		return true
	}
	if secs, ok := parseDurationSeconds(item.DurationISO, item.DurationText); ok && secs <= shortSeconds {
		return true
	}
	return false
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// midRandom always returns the middle of every range and never shuffles,
// which makes jitter neutral and output order equal to rank order.
type midRandom struct{}

func (midRandom) Float64() float64                   { return 0.5 }
func (midRandom) Intn(int) int                       { return 0 }
func (midRandom) Shuffle(n int, swap func(i, j int)) {}

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	mu sync.Mutex

	pages       map[string]*SearchPage
	searchErr   map[string]error
	failAll     error
	defaultPage func(query string, page int) *SearchPage
	trending    []Item
	trendingErr error

	searches []string
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		pages:     make(map[string]*SearchPage),
		searchErr: make(map[string]error),
	}
}

func (m *mockCatalog) Search(_ context.Context, query string, page int) (*SearchPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searches = append(m.searches, query)
	if m.failAll != nil {
		return nil, m.failAll
	}
	if err, ok := m.searchErr[query]; ok {
		return nil, err
	}
	if p, ok := m.pages[query]; ok {
		return p, nil
	}
	if m.defaultPage != nil {
		return m.defaultPage(query, page), nil
	}
	return &SearchPage{}, nil
}

func (m *mockCatalog) Trending(context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trending, m.trendingErr
}

func (m *mockCatalog) searchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searches)
}

// makeItem builds an 11 character id item.
func makeItem(prefix string, n int, channel string) Item {
	return Item{
		ID:           fmt.Sprintf("%s%0*d", prefix, 11-len(prefix), n),
		Title:        fmt.Sprintf("%s topic %d", prefix, n),
		ChannelID:    "UC" + channel,
		ChannelName:  channel,
		DurationText: "12:30",
		Views:        "1.2万回視聴",
		UploadedAt:   "3日前",
	}
}

func makeShort(prefix string, n int, channel string) Item {
	it := makeItem(prefix, n, channel)
	it.DurationText = "0:45"
	it.IsShort = true
	return it
}

func scoredItems(items []Item, pool Pool, score float64) []ScoredItem {
	out := make([]ScoredItem, len(items))
	for i, it := range items {
		out[i] = ScoredItem{Candidate: Candidate{Item: it, Pool: pool}, Score: score - float64(i)*0.01}
	}
	return out
}

func countByChannel(items []Item) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.ChannelID]++
	}
	return counts
}

func idSet(items []Item) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it.ID] = struct{}{}
	}
	return set
}

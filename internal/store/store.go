// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tubescope/internal/recommend"
	"github.com/tomtom215/tubescope/internal/validation"
)

// Document keys.
const (
	keySearchHistory = "history:search"
	keyWatchHistory  = "history:watch"
	keySubscriptions = "subscriptions"
	keyPreferences   = "preferences"
)

// Store is the BadgerDB-backed history and preference store. Safe for
// concurrent use.
type Store struct {
	db        *badger.DB
	cfg       Config
	extractor *recommend.Extractor
	logger    zerolog.Logger
	now       func() time.Time

	// mu serializes writes and guards closed. Snapshot takes it shared.
	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store. The extractor derives negative
// keywords from disliked titles; nil selects the fallback segmenter.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg Config, extractor *recommend.Extractor, logger zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if extractor == nil {
		extractor = recommend.NewExtractor(nil)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Badger's own logger is noisy at Info.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logger = logger.With().Str("component", "store").Logger()
	logger.Debug().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("store opened")

	return &Store{
		db:        db,
		cfg:       cfg,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// AddSearch records a search term. Repeats move to the front; the match is
// case-insensitive and keeps the newest spelling.
func (s *Store) AddSearch(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return fmt.Errorf("%w: search term is empty", ErrInvalidInput)
	}
	return mutate(ctx, s, keySearchHistory, func(history *[]string) bool {
		out := make([]string, 0, len(*history)+1)
		out = append(out, term)
		for _, h := range *history {
			if !strings.EqualFold(h, term) {
				out = append(out, h)
			}
		}
		*history = capSlice(out, s.cfg.MaxSearchHistory)
		return true
	})
}

type watchShape struct {
	ID        string `validate:"videoid"`
	Title     string `validate:"required"`
	ChannelID string `validate:"omitempty,channelid"`
}

// AddWatch records a watched item. A zero WatchedAt is set to now.
func (s *Store) AddWatch(ctx context.Context, entry recommend.WatchEntry) error {
	entry.Title = strings.TrimSpace(entry.Title)
	if err := validation.Check(&watchShape{ID: entry.ID, Title: entry.Title, ChannelID: entry.ChannelID}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if entry.WatchedAt.IsZero() {
		entry.WatchedAt = s.now()
	}

	return mutate(ctx, s, keyWatchHistory, func(history *[]recommend.WatchEntry) bool {
		out := make([]recommend.WatchEntry, 0, len(*history)+1)
		out = append(out, entry)
		for _, h := range *history {
			if h.ID != entry.ID {
				out = append(out, h)
			}
		}
		*history = capSlice(out, s.cfg.MaxWatchHistory)
		return true
	})
}

type channelShape struct {
	ChannelID string `validate:"channelid"`
}

// Subscribe adds a channel subscription, or renames an existing one.
func (s *Store) Subscribe(ctx context.Context, sub recommend.Subscription) error {
	if err := validation.Check(&channelShape{ChannelID: sub.ChannelID}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	sub.Name = strings.TrimSpace(sub.Name)

	return mutate(ctx, s, keySubscriptions, func(subs *[]recommend.Subscription) bool {
		for i := range *subs {
			if (*subs)[i].ChannelID == sub.ChannelID {
				if (*subs)[i].Name == sub.Name {
					return false
				}
				(*subs)[i].Name = sub.Name
				return true
			}
		}
		*subs = append(*subs, sub)
		return true
	})
}

// Unsubscribe removes a channel subscription. Unknown channels are a no-op.
func (s *Store) Unsubscribe(ctx context.Context, channelID string) error {
	return mutate(ctx, s, keySubscriptions, func(subs *[]recommend.Subscription) bool {
		for i := range *subs {
			if (*subs)[i].ChannelID == channelID {
				*subs = append((*subs)[:i], (*subs)[i+1:]...)
				return true
			}
		}
		return false
	})
}

// AddNGKeyword adds a hard-block keyword.
func (s *Store) AddNGKeyword(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return fmt.Errorf("%w: keyword is empty", ErrInvalidInput)
	}
	return s.updatePreferences(ctx, func(p *recommend.Preferences) bool {
		var changed bool
		p.NGKeywords, changed = appendUniqueFold(p.NGKeywords, keyword)
		return changed
	})
}

// BlockChannel hard-blocks a channel.
func (s *Store) BlockChannel(ctx context.Context, channelID string) error {
	if err := validation.Check(&channelShape{ChannelID: channelID}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.updatePreferences(ctx, func(p *recommend.Preferences) bool {
		var changed bool
		p.BlockedChannels, changed = appendUnique(p.BlockedChannels, channelID)
		return changed
	})
}

// HideVideo marks a video "not interested".
func (s *Store) HideVideo(ctx context.Context, id string) error {
	if !validation.IsVideoID(id) {
		return fmt.Errorf("%w: %q is not a video id", ErrInvalidInput, id)
	}
	return s.updatePreferences(ctx, func(p *recommend.Preferences) bool {
		var changed bool
		p.HiddenVideos, changed = appendUnique(p.HiddenVideos, id)
		return changed
	})
}

// AddPreferenceKeyword adds an explicit interest.
func (s *Store) AddPreferenceKeyword(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return fmt.Errorf("%w: keyword is empty", ErrInvalidInput)
	}
	return s.updatePreferences(ctx, func(p *recommend.Preferences) bool {
		var changed bool
		p.Keywords, changed = appendUniqueFold(p.Keywords, keyword)
		return changed
	})
}

// RecordDislike learns from a "not interested" signal on item and hides it.
func (s *Store) RecordDislike(ctx context.Context, item recommend.Item) error {
	if !validation.IsVideoID(item.ID) {
		return fmt.Errorf("%w: %q is not a video id", ErrInvalidInput, item.ID)
	}
	keywords := s.extractor.Extract(item.Title)

	return s.updatePreferences(ctx, func(p *recommend.Preferences) bool {
		p.NegativeKeywords = applyDislike(p.NegativeKeywords, keywords, s.cfg.NegativeDecay, s.cfg.NegativePruneBelow)
		p.HiddenVideos, _ = appendUnique(p.HiddenVideos, item.ID)
		return true
	})
}

// applyDislike decays every weight, adds 1.0 per keyword and prunes
// weights below pruneBelow.
func applyDislike(weights map[string]float64, keywords []string, decay, pruneBelow float64) map[string]float64 {
	out := make(map[string]float64, len(weights)+len(keywords))
	for k, w := range weights {
		out[k] = w * decay
	}
	for _, k := range keywords {
		out[k]++
	}
	for k, w := range out {
		if w < pruneBelow {
			delete(out, k)
		}
	}
	return out
}

// Snapshot returns a copy of everything the engine reads. The result
// shares no memory with the store.
func (s *Store) Snapshot(ctx context.Context) (recommend.Sources, error) {
	if err := ctx.Err(); err != nil {
		return recommend.Sources{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return recommend.Sources{}, ErrClosed
	}

	var src recommend.Sources
	err := s.db.View(func(txn *badger.Txn) error {
		if err := readJSON(txn, keySearchHistory, &src.SearchHistory); err != nil {
			return err
		}
		if err := readJSON(txn, keyWatchHistory, &src.WatchHistory); err != nil {
			return err
		}
		if err := readJSON(txn, keySubscriptions, &src.Subscriptions); err != nil {
			return err
		}
		return readJSON(txn, keyPreferences, &src.Preferences)
	})
	if err != nil {
		return recommend.Sources{}, fmt.Errorf("snapshot: %w", err)
	}
	if src.Preferences.NegativeKeywords == nil {
		src.Preferences.NegativeKeywords = map[string]float64{}
	}
	return src, nil
}

func (s *Store) updatePreferences(ctx context.Context, fn func(*recommend.Preferences) bool) error {
	return mutate(ctx, s, keyPreferences, fn)
}

// mutate decodes the document at key, applies fn and writes the result
// back when fn reports a change.
func mutate[T any](ctx context.Context, s *Store, key string, fn func(*T) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var doc T
		if err := readJSON(txn, key, &doc); err != nil {
			return err
		}
		if !fn(&doc) {
			return nil
		}
		data, err := json.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		return txn.SetEntry(badger.NewEntry([]byte(key), data))
	})
	if err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Msg("document updated")
	return nil
}

// readJSON decodes the value at key into v. A missing key leaves v as is.
func readJSON(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		return nil
	})
}

func capSlice[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func appendUnique(list []string, v string) ([]string, bool) {
	for _, x := range list {
		if x == v {
			return list, false
		}
	}
	return append(list, v), true
}

func appendUniqueFold(list []string, v string) ([]string, bool) {
	for _, x := range list {
		if strings.EqualFold(x, v) {
			return list, false
		}
	}
	return append(list, v), true
}

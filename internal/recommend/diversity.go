// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"context"
	"strings"
)

// ChannelCap limits how many items one channel may place in a batch. Items
// past the cap are skipped for the rest of the batch, not deferred.
type ChannelCap struct {
	max int
}

// NewChannelCap creates the cap. Values below 1 are raised to 1.
func NewChannelCap(max int) *ChannelCap {
	if max < 1 {
		max = 1
	}
	return &ChannelCap{max: max}
}

// Name returns the reranker identifier.
func (c *ChannelCap) Name() string {
	return "channel_cap"
}

// Rerank walks items in rank order and keeps at most max per channel.
//
//nolint:gocritic // rangeValCopy: ScoredItem passed by value in range, acceptable for clarity
func (c *ChannelCap) Rerank(_ context.Context, items []ScoredItem, k int) []ScoredItem {
	if k <= 0 || len(items) == 0 {
		return nil
	}

	counts := make(map[string]int)
	out := make([]ScoredItem, 0, min(k, len(items)))
	for _, item := range items {
		if len(out) == k {
			break
		}
		key := channelKey(item.Item)
		if key != "" {
			if counts[key] >= c.max {
				continue
			}
			counts[key]++
		}
		out = append(out, item)
	}
	return out
}

// channelKey identifies a channel by id, or by name when the id is absent.
// Items with neither are never capped.
func channelKey(item Item) string {
	if item.ChannelID != "" {
		return "id:" + item.ChannelID
	}
	if name := strings.ToLower(strings.TrimSpace(item.ChannelName)); name != "" {
		return "name:" + name
	}
	return ""
}

var _ Reranker = (*ChannelCap)(nil)

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

// Package reranking implements optional diversity rerankers for the home feed.
package reranking

import (
	"context"
	"math"

	"github.com/tomtom215/tubescope/internal/recommend"
)

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking over title keywords.
// It iteratively selects items that are both relevant and dissimilar to
// the items already selected:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Scores are min-max normalized over the input first, because composite
// scores are not bounded to [0, 1] the way similarities are.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
}

// NewMMR creates a new MMR reranker. Lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank applies MMR to the ranked list and returns up to k items.
//
//nolint:gocritic // rangeValCopy: ScoredItem passed by value in range, acceptable for clarity
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if len(items) == 0 || k <= 0 {
		return nil
	}

	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	// Pure relevance keeps the incoming order.
	if m.lambda >= 1.0 {
		return items[:k]
	}

	relevance := normalizeScores(items)
	keywordSets := make([]map[string]struct{}, len(items))
	for i := range items {
		keywordSets[i] = toSet(items[i].Keywords)
	}

	selected := make([]recommend.ScoredItem, 0, k)
	selectedIndices := make([]int, 0, k)
	taken := make([]bool, len(items))

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}

		bestIdx := -1
		bestMMR := math.Inf(-1)
		for i := range items {
			if taken[i] {
				continue
			}

			maxSim := 0.0
			for _, j := range selectedIndices {
				if sim := jaccard(keywordSets[i], keywordSets[j]); sim > maxSim {
					maxSim = sim
				}
			}

			score := m.lambda*relevance[i] - (1-m.lambda)*maxSim
			if score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		taken[bestIdx] = true
		selected = append(selected, items[bestIdx])
		selectedIndices = append(selectedIndices, bestIdx)
	}

	return selected
}

// normalizeScores maps scores onto [0, 1]. Equal scores all map to 1.
func normalizeScores(items []recommend.ScoredItem) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range items {
		lo = math.Min(lo, items[i].Score)
		hi = math.Max(hi, items[i].Score)
	}

	out := make([]float64, len(items))
	for i := range items {
		if hi == lo {
			out[i] = 1
			continue
		}
		out[i] = (items[i].Score - lo) / (hi - lo)
	}
	return out
}

func toSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|. Keywords are already folded by the
// extractor, so the comparison is exact.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	intersection := 0
	for kw := range a {
		if _, ok := b[kw]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package reranking

import (
	"context"
	"testing"

	"github.com/tomtom215/tubescope/internal/recommend"
)

func scored(id string, score float64, keywords ...string) recommend.ScoredItem {
	return recommend.ScoredItem{
		Candidate: recommend.Candidate{
			Item:     recommend.Item{ID: id},
			Keywords: keywords,
		},
		Score: score,
	}
}

func TestNewMMR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lambda     float64
		wantLambda float64
	}{
		{"normal value", 0.7, 0.7},
		{"zero value", 0.0, 0.0},
		{"one value", 1.0, 1.0},
		{"negative clamped to zero", -0.5, 0.0},
		{"above one clamped to one", 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mmr := NewMMR(tt.lambda)
			if mmr.lambda != tt.wantLambda {
				t.Errorf("lambda = %f, want %f", mmr.lambda, tt.wantLambda)
			}
		})
	}
}

func TestMMR_Name(t *testing.T) {
	t.Parallel()

	if got := NewMMR(0.7).Name(); got != "mmr" {
		t.Errorf("Name() = %q, want %q", got, "mmr")
	}
}

func TestMMR_Rerank(t *testing.T) {
	t.Parallel()

	items := []recommend.ScoredItem{
		scored("a", 9.0, "cat", "vlog"),
		scored("b", 8.5, "cat", "vlog"),
		scored("c", 8.0, "piano"),
		scored("d", 7.5, "cat"),
		scored("e", 7.0, "cooking"),
		scored("f", 6.5, "piano", "jazz"),
	}

	tests := []struct {
		name    string
		lambda  float64
		k       int
		wantLen int
	}{
		{"pure relevance", 1.0, 3, 3},
		{"balanced", 0.7, 3, 3},
		{"k larger than items", 0.7, 10, 6},
		{"k zero", 0.7, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := NewMMR(tt.lambda).Rerank(context.Background(), items, tt.k)
			if len(result) != tt.wantLen {
				t.Errorf("len(result) = %d, want %d", len(result), tt.wantLen)
			}
		})
	}
}

func TestMMR_Rerank_DiversityEffect(t *testing.T) {
	t.Parallel()

	items := []recommend.ScoredItem{
		scored("a", 10.0, "cat", "vlog"),
		scored("b", 9.5, "cat", "vlog"),
		scored("c", 9.0, "cat", "vlog"),
		scored("d", 5.0, "piano"),
		scored("e", 4.0, "cooking"),
	}

	t.Run("pure relevance keeps rank order", func(t *testing.T) {
		t.Parallel()
		result := NewMMR(1.0).Rerank(context.Background(), items, 3)
		for i, want := range []string{"a", "b", "c"} {
			if result[i].Item.ID != want {
				t.Errorf("result[%d] = %s, want %s", i, result[i].Item.ID, want)
			}
		}
	})

	t.Run("low lambda promotes dissimilar titles", func(t *testing.T) {
		t.Parallel()
		result := NewMMR(0.3).Rerank(context.Background(), items, 3)
		want := []string{"a", "d", "e"}
		for i := range want {
			if result[i].Item.ID != want[i] {
				t.Errorf("result[%d] = %s, want %s", i, result[i].Item.ID, want[i])
			}
		}
	})
}

func TestMMR_Rerank_EmptyInput(t *testing.T) {
	t.Parallel()

	mmr := NewMMR(0.7)
	if got := mmr.Rerank(context.Background(), nil, 5); len(got) != 0 {
		t.Errorf("nil input returned %d items", len(got))
	}
	if got := mmr.Rerank(context.Background(), []recommend.ScoredItem{}, 5); len(got) != 0 {
		t.Errorf("empty input returned %d items", len(got))
	}
}

func TestMMR_Rerank_EqualScores(t *testing.T) {
	t.Parallel()

	items := []recommend.ScoredItem{
		scored("a", 1, "x"),
		scored("b", 1, "x"),
		scored("c", 1, "y"),
	}
	result := NewMMR(0.5).Rerank(context.Background(), items, 2)
	if len(result) != 2 {
		t.Fatalf("len(result) = %d, want 2", len(result))
	}
	if result[0].Item.ID != "a" || result[1].Item.ID != "c" {
		t.Errorf("Rerank() = [%s %s], want [a c]", result[0].Item.ID, result[1].Item.ID)
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a        []string
		b        []string
		expected float64
	}{
		{"identical", []string{"cat", "vlog"}, []string{"cat", "vlog"}, 1.0},
		{"no overlap", []string{"cat"}, []string{"dog"}, 0.0},
		{"partial overlap", []string{"cat", "vlog"}, []string{"cat", "piano"}, 1.0 / 3.0},
		{"both empty", nil, nil, 0.0},
		{"one empty", []string{"cat"}, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := jaccard(toSet(tt.a), toSet(tt.b))
			if result < tt.expected-0.01 || result > tt.expected+0.01 {
				t.Errorf("jaccard(%v, %v) = %f, want %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

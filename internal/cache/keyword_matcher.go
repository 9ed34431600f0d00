// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package cache

import (
	"strings"

	"golang.org/x/text/width"
)

// KeywordMatcher finds any of a fixed set of substrings in a text in
// O(len(text)) regardless of how many patterns it holds. It is built once
// and never mutated, so it needs no locking.
type KeywordMatcher struct {
	root     *matchNode
	patterns []string
}

type matchNode struct {
	children map[rune]*matchNode
	fail     *matchNode
	// out holds indexes into patterns ending at this node, including those
	// inherited through the failure chain.
	out []int
}

// Fold normalizes text the same way patterns are normalized: full-width
// forms are narrowed and letters lower-cased.
func Fold(s string) string {
	return strings.ToLower(width.Fold.String(s))
}

// NewKeywordMatcher builds a matcher for patterns. Blank patterns and
// duplicates after folding are ignored.
func NewKeywordMatcher(patterns []string) *KeywordMatcher {
	m := &KeywordMatcher{root: newMatchNode()}

	seen := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		p = Fold(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		m.insert(len(m.patterns), p)
		m.patterns = append(m.patterns, p)
	}

	m.link()
	return m
}

func newMatchNode() *matchNode {
	return &matchNode{children: make(map[rune]*matchNode)}
}

func (m *KeywordMatcher) insert(index int, pattern string) {
	node := m.root
	for _, r := range pattern {
		next, ok := node.children[r]
		if !ok {
			next = newMatchNode()
			node.children[r] = next
		}
		node = next
	}
	node.out = append(node.out, index)
}

// link computes failure links breadth-first.
func (m *KeywordMatcher) link() {
	queue := make([]*matchNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.fail = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for r, child := range current.children {
			queue = append(queue, child)

			fail := current.fail
			for fail != nil && fail.children[r] == nil {
				fail = fail.fail
			}
			if fail == nil {
				child.fail = m.root
				continue
			}
			child.fail = fail.children[r]
			child.out = append(child.out, child.fail.out...)
		}
	}
}

// step advances the automaton by one rune.
func (m *KeywordMatcher) step(node *matchNode, r rune) *matchNode {
	for node != m.root && node.children[r] == nil {
		node = node.fail
	}
	if next, ok := node.children[r]; ok {
		return next
	}
	return m.root
}

// FirstMatch returns the folded pattern that ends earliest in text.
func (m *KeywordMatcher) FirstMatch(text string) (string, bool) {
	if len(m.patterns) == 0 || text == "" {
		return "", false
	}

	node := m.root
	for _, r := range Fold(text) {
		node = m.step(node, r)
		if len(node.out) > 0 {
			return m.patterns[node.out[0]], true
		}
	}
	return "", false
}

// Contains reports whether any pattern occurs in text.
func (m *KeywordMatcher) Contains(text string) bool {
	_, ok := m.FirstMatch(text)
	return ok
}

// Matches returns every distinct pattern occurring in text, in the order
// their first occurrence ends.
func (m *KeywordMatcher) Matches(text string) []string {
	if len(m.patterns) == 0 || text == "" {
		return nil
	}

	var found []string
	reported := make(map[int]struct{})
	node := m.root
	for _, r := range Fold(text) {
		node = m.step(node, r)
		for _, idx := range node.out {
			if _, ok := reported[idx]; ok {
				continue
			}
			reported[idx] = struct{}{}
			found = append(found, m.patterns[idx])
		}
	}
	return found
}

// Len returns the number of distinct patterns.
func (m *KeywordMatcher) Len() int {
	return len(m.patterns)
}

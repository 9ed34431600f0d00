// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the injectable randomness used for sampling, jitter and
// presentation shuffles. Tests pass a fixed seed to assert exact output.
type Random interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// lockedRand is a *rand.Rand guarded for use from concurrent batches.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random seeded with seed, or from the clock when seed
// is zero.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	//nolint:gosec // presentation randomness, not security sensitive
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}

// uniform returns a value in [lo, hi).
func uniform(r Random, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// sample returns up to n distinct indexes of [0, size) in random order.
func sample(r Random, size, n int) []int {
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	r.Shuffle(size, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	if n < size {
		idx = idx[:n]
	}
	return idx
}

func shuffleItems(r Random, items []Item) {
	r.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
}

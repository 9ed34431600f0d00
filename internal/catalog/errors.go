// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for HTTP 404 responses.
	ErrNotFound = errors.New("catalog: not found")

	// ErrRateLimited is returned when HTTP 429 persists after all retries.
	ErrRateLimited = errors.New("catalog: rate limit exceeded")

	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("catalog: circuit breaker open")
)

// StatusError is an unexpected HTTP status with a bounded body excerpt.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: request failed with status %d: %s", e.Code, e.Body)
}

// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tubescope/internal/metrics"
	"github.com/tomtom215/tubescope/internal/recommend"
)

const (
	// maxErrorBodySize bounds how much of a failed response is kept.
	maxErrorBodySize = 1024

	// maxResponseSize bounds successful response bodies.
	maxResponseSize = 8 << 20

	opSearch   = "search"
	opTrending = "trending"
)

// Client talks to the catalog proxy over HTTP. It rate limits outbound
// requests, retries HTTP 429 with exponential backoff and normalizes every
// item it returns. Safe for concurrent use.
type Client struct {
	baseURL        string
	region         string
	lang           string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	logger         zerolog.Logger
	now            func() time.Time
}

// NewClient creates a catalog client. A zero RateLimitRPS disables the
// outbound limiter.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		region:         cfg.Region,
		lang:           cfg.Lang,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        limiter,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		logger:         logger.With().Str("component", "catalog").Logger(),
		now:            time.Now,
	}
}

// Search implements recommend.Catalog.
func (c *Client) Search(ctx context.Context, query string, page int) (*recommend.SearchPage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))

	body, err := c.get(ctx, opSearch, "/api/search", params)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.CatalogRequestErrors.WithLabelValues(opSearch, "decode").Inc()
		return nil, fmt.Errorf("search %q: failed to decode response: %w", query, err)
	}

	now := c.now()
	videos, droppedV := NormalizeAll(append(resp.Videos, resp.Items...), false, now)
	shorts, droppedS := NormalizeAll(resp.Shorts, true, now)
	if dropped := droppedV + droppedS; dropped > 0 {
		c.logger.Debug().
			Str("query", query).
			Int("dropped", dropped).
			Msg("dropped malformed catalog items")
	}

	return &recommend.SearchPage{
		Videos:        videos,
		Shorts:        shorts,
		NextPageToken: resp.NextPageToken,
	}, nil
}

// Trending implements recommend.Catalog.
func (c *Client) Trending(ctx context.Context) ([]recommend.Item, error) {
	body, err := c.get(ctx, opTrending, "/api/trending", url.Values{})
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}

	raws, err := decodeTrending(body)
	if err != nil {
		metrics.CatalogRequestErrors.WithLabelValues(opTrending, "decode").Inc()
		return nil, fmt.Errorf("trending: failed to decode response: %w", err)
	}

	items, dropped := NormalizeAll(raws, false, c.now())
	if dropped > 0 {
		c.logger.Debug().Int("dropped", dropped).Msg("dropped malformed trending items")
	}
	return items, nil
}

// get performs one logical GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	if c.region != "" {
		params.Set("region", c.region)
	}
	if c.lang != "" {
		params.Set("hl", c.lang)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()

	start := time.Now()
	body, err := c.fetch(ctx, reqURL)
	metrics.RecordCatalogRequest(op, time.Since(start), err)
	return body, err
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{Code: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// doRequestWithRateLimit waits for the outbound limiter, then performs the
// request. HTTP 429 responses are retried with exponential backoff
// (base, 2*base, 4*base, ...) unless the server sends Retry-After. The
// context cancels both the limiter wait and the backoff.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w after %d retries (HTTP 429)", ErrRateLimited, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if d, ok := parseRetryAfter(retryAfter, c.now()); ok {
			delay = d
		}

		c.logger.Warn().
			Dur("retry_delay", delay).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("catalog rate limited (HTTP 429), retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// parseRetryAfter accepts delay-seconds or an HTTP date (RFC 9110).
func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// readBodyForError reads at most maxErrorBodySize bytes for error messages.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

var _ recommend.Catalog = (*Client)(nil)

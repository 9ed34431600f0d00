// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/tubescope/internal/recommend"
	"github.com/tomtom215/tubescope/internal/validation"
)

// itemShape is the minimum a playable item must satisfy.
type itemShape struct {
	ID    string `validate:"videoid"`
	Title string `validate:"required"`
}

// Normalize maps a raw item onto recommend.Item. The fallback chain per
// field, first non-empty wins:
//
//	ID            videoId -> id -> v= / youtu.be / shorts path of url
//	Title         title -> name
//	ChannelID     channelId -> authorId -> author.id
//	ChannelName   channelName -> author(.name) -> channelTitle
//	DurationISO   duration (if ISO-8601) -> lengthIso
//	DurationText  durationText -> lengthText -> lengthSeconds / numeric duration as H:MM:SS
//	Views         viewCountText -> views -> viewCount
//	UploadedAt    publishedText -> uploadedAt -> published (unix seconds, rendered relative)
//	Thumbnail     thumbnail -> widest thumbnails[] entry
//	IsShort       isShort, type "short", a /shorts/ url, or forceShort
//
// The bool result is false when the item fails the shape check; callers
// drop it.
func Normalize(raw *RawItem, forceShort bool, now time.Time) (recommend.Item, bool) {
	id, fromShortsURL := idFromRaw(raw)
	item := recommend.Item{
		ID:           id,
		Title:        strings.TrimSpace(firstNonEmpty(raw.Title, raw.Name)),
		ChannelID:    firstNonEmpty(raw.ChannelID, raw.AuthorID, raw.Author.ID),
		ChannelName:  strings.TrimSpace(firstNonEmpty(raw.ChannelName, raw.Author.Name, raw.ChannelTitle)),
		DurationISO:  durationISO(raw),
		DurationText: durationText(raw),
		Views:        firstNonEmpty(raw.ViewCountText, string(raw.Views), string(raw.ViewCount)),
		UploadedAt:   uploadedAt(raw, now),
		Thumbnail:    thumbnail(raw),
		IsShort:      forceShort || fromShortsURL || raw.IsShort || strings.EqualFold(raw.Type, "short"),
	}

	if err := validation.Check(&itemShape{ID: item.ID, Title: item.Title}); err != nil {
		return recommend.Item{}, false
	}
	return item, true
}

// NormalizeAll normalizes raws in order, dropping invalid items and
// duplicate ids. It returns the number dropped.
func NormalizeAll(raws []RawItem, forceShort bool, now time.Time) ([]recommend.Item, int) {
	out := make([]recommend.Item, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	dropped := 0
	for i := range raws {
		item, ok := Normalize(&raws[i], forceShort, now)
		if !ok {
			dropped++
			continue
		}
		if _, dup := seen[item.ID]; dup {
			dropped++
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out, dropped
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func idFromRaw(raw *RawItem) (id string, shortsURL bool) {
	if id = firstNonEmpty(raw.VideoID, raw.ID); id != "" {
		return id, false
	}
	if raw.URL == "" {
		return "", false
	}

	u, err := url.Parse(raw.URL)
	if err != nil {
		return "", false
	}
	if v := u.Query().Get("v"); v != "" {
		return v, false
	}

	path := strings.Trim(u.Path, "/")
	switch {
	case strings.HasPrefix(path, "shorts/"):
		return strings.TrimPrefix(path, "shorts/"), true
	case strings.HasSuffix(u.Host, "youtu.be") && path != "":
		return path, false
	}
	return "", false
}

func durationISO(raw *RawItem) string {
	if d := strings.TrimSpace(string(raw.Duration)); strings.HasPrefix(strings.ToUpper(d), "P") {
		return d
	}
	return strings.TrimSpace(raw.LengthISO)
}

func durationText(raw *RawItem) string {
	if text := firstNonEmpty(raw.DurationText, raw.LengthText); text != "" {
		return text
	}
	if secs, ok := raw.LengthSeconds.Int(); ok {
		return formatClock(secs)
	}
	if secs, ok := raw.Duration.Int(); ok {
		return formatClock(secs)
	}
	return ""
}

// formatClock renders seconds as M:SS or H:MM:SS.
func formatClock(secs int64) string {
	if secs < 0 {
		return ""
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func uploadedAt(raw *RawItem, now time.Time) string {
	if text := firstNonEmpty(raw.PublishedText, raw.UploadedAt); text != "" {
		return text
	}
	if unix, ok := raw.Published.Int(); ok && unix > 0 {
		return relativeText(now.Sub(time.Unix(unix, 0)))
	}
	return string(raw.Published)
}

// relativeText renders an age in the English relative form the freshness
// parser understands.
func relativeText(age time.Duration) string {
	switch {
	case age < time.Hour:
		return "just now"
	case age < 24*time.Hour:
		return plural(int(age/time.Hour), "hour")
	default:
		return plural(int(age/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func thumbnail(raw *RawItem) string {
	if raw.Thumbnail != "" {
		return raw.Thumbnail
	}
	best := ""
	width := -1
	for _, t := range raw.Thumbnails {
		if t.URL != "" && t.Width > width {
			best, width = t.URL, t.Width
		}
	}
	return best
}

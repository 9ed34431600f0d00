// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package catalog

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// RawItem is the union of the item shapes the catalog proxy may return.
// Only Normalize reads it.
type RawItem struct {
	VideoID string `json:"videoId"`
	ID      string `json:"id"`
	URL     string `json:"url"`

	Title string `json:"title"`
	Name  string `json:"name"`

	ChannelID    string    `json:"channelId"`
	AuthorID     string    `json:"authorId"`
	Author       RawAuthor `json:"author"`
	ChannelName  string    `json:"channelName"`
	ChannelTitle string    `json:"channelTitle"`

	Duration      FlexString `json:"duration"`
	LengthISO     string     `json:"lengthIso"`
	DurationText  string     `json:"durationText"`
	LengthText    string     `json:"lengthText"`
	LengthSeconds FlexString `json:"lengthSeconds"`

	ViewCountText string     `json:"viewCountText"`
	Views         FlexString `json:"views"`
	ViewCount     FlexString `json:"viewCount"`

	PublishedText string     `json:"publishedText"`
	UploadedAt    string     `json:"uploadedAt"`
	Published     FlexString `json:"published"`

	Thumbnail  string         `json:"thumbnail"`
	Thumbnails []RawThumbnail `json:"thumbnails"`

	IsShort bool   `json:"isShort"`
	Type    string `json:"type"`
}

// RawThumbnail is one entry of a thumbnails array.
type RawThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RawAuthor accepts "author" as either a display-name string or an
// {"id", "name"} object.
type RawAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *RawAuthor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		return json.Unmarshal(data, &a.Name)
	default:
		type plain RawAuthor
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*a = RawAuthor(p)
		return nil
	}
}

// FlexString holds a JSON string or number as text. Upstreams disagree on
// whether counts and durations are quoted.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		text := n.String()
		// Exponent form would otherwise reach the view-count parser as "1.2e6".
		if bytes.ContainsAny(data, "eE") {
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return err
			}
			text = strconv.FormatFloat(v, 'f', -1, 64)
		}
		*f = FlexString(text)
		return nil
	}
}

// Int parses the value as an integer.
func (f FlexString) Int() (int64, bool) {
	if f == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return n, true
	}
	if v, err := strconv.ParseFloat(string(f), 64); err == nil {
		return int64(v), true
	}
	return 0, false
}

// searchResponse is the /api/search body. Some upstreams use "items" for
// the video list.
type searchResponse struct {
	Videos        []RawItem `json:"videos"`
	Items         []RawItem `json:"items"`
	Shorts        []RawItem `json:"shorts"`
	NextPageToken string    `json:"nextPageToken"`
}

// trendingResponse is the object form of the /api/trending body. The array
// form is handled in decodeTrending.
type trendingResponse struct {
	Videos []RawItem `json:"videos"`
	Items  []RawItem `json:"items"`
}

func decodeTrending(data []byte) ([]RawItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []RawItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var resp trendingResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return append(resp.Videos, resp.Items...), nil
}

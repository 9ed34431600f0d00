// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"regexp"
	"strconv"
	"strings"
)

// Parsers for the catalog's display strings. None of them fail: callers get
// an ok flag and substitute a neutral default.

var (
	viewCountRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(万|億|千|k|m|b)?`)
	isoDurRe    = regexp.MustCompile(`^p(?:(\d+)d)?(?:t(?:(\d+)h)?(?:(\d+)m)?(?:(\d+(?:\.\d+)?)s)?)?$`)
	enAgoRe     = regexp.MustCompile(`(\d+|an?|one)\s*(second|sec|minute|min|hour|hr|day|week|month|year)s?\b`)
	jaAgoRe     = regexp.MustCompile(`(\d+)\s*(秒|分|時間|日|週間|週|か月|ヶ月|カ月|ヵ月|ケ月|年)`)
)

var viewMultipliers = map[string]float64{
	"":  1,
	"千": 1e3,
	"万": 1e4,
	"億": 1e8,
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
}

// ParseViewCount parses localized view count text such as "1.2万回視聴",
// "3億", "1,234 views" or "1.5K".
func ParseViewCount(text string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return 0, false
	}
	if strings.Contains(t, "no views") || strings.Contains(t, "視聴なし") {
		return 0, true
	}

	t = strings.ReplaceAll(t, ",", "")
	m := viewCountRe.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n * viewMultipliers[m[2]], true
}

// ParseDuration returns a duration in seconds, preferring the ISO-8601 form
// and falling back to H:MM:SS, MM:SS or SS display text.
func ParseDuration(iso, text string) (int, bool) {
	return parseDurationSeconds(iso, text)
}

func parseDurationSeconds(iso, text string) (int, bool) {
	if secs, ok := parseISODuration(iso); ok {
		return secs, true
	}
	return parseClockDuration(text)
}

func parseISODuration(iso string) (int, bool) {
	iso = strings.ToLower(strings.TrimSpace(iso))
	if iso == "" || iso == "p" || iso == "pt" {
		return 0, false
	}
	m := isoDurRe.FindStringSubmatch(iso)
	if m == nil {
		return 0, false
	}

	total := 0.0
	for i, unit := range []float64{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0, false
		}
		total += v * unit
	}
	return int(total), true
}

func parseClockDuration(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return 0, false
		}
		total = total*60 + v
	}
	return total, true
}

// ParseDaysAgo estimates how many days ago relative time text refers to.
// Supported locales are Japanese and English; anything else is unknown.
func ParseDaysAgo(text string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return 0, false
	}
	for _, prefix := range []string{"streamed", "premiered", "配信済み", "公開済み"} {
		t = strings.TrimSpace(strings.TrimPrefix(t, prefix))
	}

	switch {
	case strings.Contains(t, "just now"), strings.Contains(t, "today"),
		strings.Contains(t, "たった今"), strings.Contains(t, "今日"):
		return 0, true
	case strings.Contains(t, "yesterday"), strings.Contains(t, "昨日"):
		return 1, true
	}

	if m := jaAgoRe.FindStringSubmatch(t); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return bucketDays(n, jaUnits[m[2]]), true
	}
	if m := enAgoRe.FindStringSubmatch(t); m != nil {
		n := 1.0
		if m[1] != "a" && m[1] != "an" && m[1] != "one" {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return 0, false
			}
			n = v
		}
		return bucketDays(n, enUnits[m[2]]), true
	}
	return 0, false
}

type timeUnit int

const (
	unitMinute timeUnit = iota
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

var jaUnits = map[string]timeUnit{
	"秒": unitMinute, "分": unitMinute, "時間": unitHour, "日": unitDay,
	"週間": unitWeek, "週": unitWeek,
	"か月": unitMonth, "ヶ月": unitMonth, "カ月": unitMonth, "ヵ月": unitMonth, "ケ月": unitMonth,
	"年": unitYear,
}

var enUnits = map[string]timeUnit{
	"second": unitMinute, "sec": unitMinute, "minute": unitMinute, "min": unitMinute,
	"hour": unitHour, "hr": unitHour, "day": unitDay, "week": unitWeek,
	"month": unitMonth, "year": unitYear,
}

// bucketDays converts n units to days. Seconds and minutes count as today.
func bucketDays(n float64, u timeUnit) float64 {
	switch u {
	case unitHour:
		return n / 24
	case unitDay:
		return n
	case unitWeek:
		return n * 7
	case unitMonth:
		return n * 30
	case unitYear:
		return n * 365
	default:
		return 0
	}
}

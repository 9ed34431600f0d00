// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"testing"
)

func TestParseViewCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"1.2万", 12000, true},
		{"1.2万回視聴", 12000, true},
		{"3億回視聴", 3e8, true},
		{"5千", 5000, true},
		{"1.5K views", 1500, true},
		{"2M views", 2e6, true},
		{"1B", 1e9, true},
		{"1,234 views", 1234, true},
		{"987", 987, true},
		{"No views", 0, true},
		{"視聴なし", 0, true},
		{"", 0, false},
		{"views", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseViewCount(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseViewCount(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !approxEqual(got, tt.want, 1e-6) {
				t.Errorf("ParseViewCount(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		iso    string
		text   string
		want   int
		wantOK bool
	}{
		{"iso minutes seconds", "PT4M13S", "", 253, true},
		{"iso full", "PT1H2M3S", "", 3723, true},
		{"iso days", "P1DT1H", "", 90000, true},
		{"iso preferred over text", "PT30S", "10:00", 30, true},
		{"clock minutes", "", "4:13", 253, true},
		{"clock hours", "", "1:02:03", 3723, true},
		{"bare seconds", "", "45", 45, true},
		{"bad iso falls back", "garbage", "12:00", 720, true},
		{"too many fields", "", "1:2:3:4", 0, false},
		{"nothing", "", "", 0, false},
		{"bare P", "P", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDuration(tt.iso, tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseDuration(%q, %q) = (%d, %v), want (%d, %v)",
					tt.iso, tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseDaysAgo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"3 days ago", 3, true},
		{"2 weeks ago", 14, true},
		{"1 month ago", 30, true},
		{"2 years ago", 730, true},
		{"5 hours ago", 5.0 / 24, true},
		{"an hour ago", 1.0 / 24, true},
		{"10 minutes ago", 0, true},
		{"Streamed 3 days ago", 3, true},
		{"yesterday", 1, true},
		{"3日前", 3, true},
		{"2週間前", 14, true},
		{"1か月前", 30, true},
		{"1ヶ月前", 30, true},
		{"1年前", 365, true},
		{"5時間前", 5.0 / 24, true},
		{"30分前", 0, true},
		{"配信済み 2 日前", 2, true},
		{"昨日", 1, true},
		{"", 0, false},
		{"vor 3 Tagen", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDaysAgo(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseDaysAgo(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("ParseDaysAgo(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

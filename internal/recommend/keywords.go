// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tomtom215/tubescope/internal/cache"
)

// stopWords are dropped after segmentation: Japanese particles, auxiliary
// verbs and demonstratives, plus English function words and generic media
// terms that say nothing about a video's topic.
var stopWords = toSet([]string{
	// Japanese
	"の", "は", "が", "を", "に", "へ", "と", "で", "も", "や", "か", "な", "ね", "よ", "わ",
	"から", "まで", "より", "って", "けど", "だ", "です", "ます", "でした", "ました",
	"た", "て", "し", "する", "した", "して", "します", "ある", "いる", "なる", "れる", "られる",
	"ない", "こと", "もの", "これ", "それ", "あれ", "この", "その", "あの", "さん", "ちゃん",
	"公式", "動画", "本編", "チャンネル",
	// English function words
	"a", "an", "the", "of", "in", "on", "at", "to", "and", "or", "for", "with", "by",
	"is", "are", "was", "it", "my", "i", "you", "me", "we", "vs", "from",
	// Generic media terms
	"official", "video", "videos", "mv", "pv", "ft", "feat", "full", "hd",
	"4k", "lyrics", "lyric", "audio", "ver", "version", "shorts", "short", "channel",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether token is on the fixed stop-word list.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Segmenter splits text into word candidates. Implementations must be safe
// for concurrent use.
type Segmenter interface {
	Segment(text string) []string
}

// Extractor turns free text into a deduplicated set of significant terms.
type Extractor struct {
	segmenter Segmenter
}

// NewExtractor creates an extractor. A nil segmenter selects the script
// boundary fallback.
func NewExtractor(seg Segmenter) *Extractor {
	if seg == nil {
		seg = FallbackSegmenter{}
	}
	return &Extractor{segmenter: seg}
}

// Extract returns the keyword set of text in first-occurrence order.
// Repetition inside text never produces duplicates.
func (e *Extractor) Extract(text string) []string {
	text = strings.TrimSpace(cache.Fold(text))
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, tok := range e.segmenter.Segment(text) {
		tok = strings.TrimFunc(strings.ToLower(tok), isSeparator)
		if !keepToken(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// keepToken applies the low-signal token rules.
func keepToken(tok string) bool {
	if tok == "" || IsStopWord(tok) || isNumeric(tok) {
		return false
	}
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		// A lone kanji is a whole word ("猫"); lone kana and symbols are not.
		return isASCIIAlnum(r) || unicode.Is(unicode.Han, r)
	}
	return true
}

func isASCIIAlnum(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isNumeric(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ',' || r == '.':
		default:
			return false
		}
	}
	return digits > 0
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// FallbackSegmenter splits on punctuation, symbol and space classes and on
// transitions between Han, Hiragana, Katakana and other scripts. It is a
// rough stand-in for morphological analysis when no dictionary is loaded.
type FallbackSegmenter struct{}

type scriptClass int

const (
	scriptOther scriptClass = iota
	scriptHan
	scriptHiragana
	scriptKatakana
)

func classify(r rune) scriptClass {
	switch {
	case unicode.Is(unicode.Han, r), r == '々', r == '〆':
		return scriptHan
	case unicode.Is(unicode.Hiragana, r):
		return scriptHiragana
	case unicode.Is(unicode.Katakana, r):
		return scriptKatakana
	default:
		return scriptOther
	}
}

// Segment implements Segmenter.
func (FallbackSegmenter) Segment(text string) []string {
	var (
		tokens  []string
		current strings.Builder
		class   scriptClass
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		if isSeparator(r) && r != 'ー' {
			flush()
			continue
		}
		c := classify(r)
		if r == 'ー' {
			// The prolonged sound mark continues whatever kana run it follows.
			c = class
		}
		if current.Len() > 0 && c != class {
			flush()
		}
		class = c
		current.WriteRune(r)
	}
	flush()
	return tokens
}

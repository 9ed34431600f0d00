// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package recommend

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// skippedPOS are IPA part-of-speech heads that never carry topic signal.
var skippedPOS = map[string]struct{}{
	"助詞":   {},
	"助動詞":  {},
	"記号":   {},
	"フィラー": {},
}

// KagomeSegmenter segments Japanese and mixed-script text with the kagome
// morphological analyzer and the IPA dictionary.
type KagomeSegmenter struct {
	t *tokenizer.Tokenizer
}

// NewKagomeSegmenter loads the IPA dictionary. Loading takes a noticeable
// moment, so callers create one segmenter per process.
func NewKagomeSegmenter() (*KagomeSegmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to create kagome tokenizer: %w", err)
	}
	return &KagomeSegmenter{t: t}, nil
}

// Segment implements Segmenter. Search mode splits long compounds the way a
// search engine would index them.
func (k *KagomeSegmenter) Segment(text string) []string {
	tokens := k.t.Analyze(text, tokenizer.Search)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		if pos := tok.POS(); len(pos) > 0 {
			if _, skip := skippedPOS[pos[0]]; skip {
				continue
			}
		}
		out = append(out, tok.Surface)
	}
	return out
}

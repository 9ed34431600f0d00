// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tubescope/internal/recommend"
)

// errUsage marks argument errors; run exits 2 for them.
var errUsage = errors.New("usage")

const shortsUsage = "shorts [-seen id,...]"

// command is one CLI verb.
type command struct {
	usage string

	// minArgs and maxArgs bound the positional arguments; maxArgs < 0 is unbounded.
	minArgs, maxArgs int

	// segmenter is set when the command extracts keywords and benefits
	// from the kagome dictionary.
	segmenter bool

	run func(ctx context.Context, a *app, args []string) (interface{}, error)
}

var commands = map[string]command{
	"home":        {usage: "home", segmenter: true, run: runHome},
	"shorts":      {usage: shortsUsage, maxArgs: -1, segmenter: true, run: runShorts},
	"suggest":     {usage: "suggest", segmenter: true, run: runSuggest},
	"search":      {usage: "search <term...>", minArgs: 1, maxArgs: -1, run: runSearch},
	"watch":       {usage: "watch <id> <title> <channelId> <channelName>", minArgs: 4, maxArgs: 4, run: runWatch},
	"subscribe":   {usage: "subscribe <channelId> <name>", minArgs: 2, maxArgs: 2, run: runSubscribe},
	"unsubscribe": {usage: "unsubscribe <channelId>", minArgs: 1, maxArgs: 1, run: runUnsubscribe},
	"interest":    {usage: "interest <keyword>", minArgs: 1, maxArgs: 1, run: runInterest},
	"ng":          {usage: "ng <keyword>", minArgs: 1, maxArgs: 1, run: runNG},
	"block":       {usage: "block <channelId>", minArgs: 1, maxArgs: 1, run: runBlock},
	"hide":        {usage: "hide <id>", minArgs: 1, maxArgs: 1, run: runHide},
	"dislike":     {usage: "dislike <id> <title> <channelName>", minArgs: 3, maxArgs: 3, segmenter: true, run: runDislike},
}

func (c command) checkArgs(args []string) error {
	if len(args) < c.minArgs || (c.maxArgs >= 0 && len(args) > c.maxArgs) {
		return fmt.Errorf("%w: tubescope %s", errUsage, c.usage)
	}
	return nil
}

// ack is printed by write commands.
type ack struct {
	OK      bool   `json:"ok"`
	Command string `json:"command"`
}

// shortsResult carries the seen ids so the caller can request the next page.
type shortsResult struct {
	Shorts []recommend.Item `json:"shorts"`
	Seen   []string         `json:"seen"`
}

type suggestResult struct {
	Keywords []string `json:"keywords"`
}

func runHome(ctx context.Context, a *app, _ []string) (interface{}, error) {
	src, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return a.engine.GetRecommendations(ctx, src)
}

func runShorts(ctx context.Context, a *app, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("shorts", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	seenFlag := fs.String("seen", "", "comma separated ids already shown")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: tubescope %s: %w", errUsage, shortsUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: tubescope %s", errUsage, shortsUsage)
	}

	src, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	seen := recommend.NewSeenSet(splitList(*seenFlag)...)
	shorts, err := a.engine.GetShortsRecommendations(ctx, src, seen)
	if err != nil {
		return nil, err
	}

	ids := seen.IDs()
	sort.Strings(ids)
	return &shortsResult{Shorts: shorts, Seen: ids}, nil
}

func runSuggest(ctx context.Context, a *app, _ []string) (interface{}, error) {
	src, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	keywords := a.engine.GetSuggestedKeywords(src, src.Preferences.Keywords)
	if keywords == nil {
		keywords = []string{}
	}
	return &suggestResult{Keywords: keywords}, nil
}

func runSearch(ctx context.Context, a *app, args []string) (interface{}, error) {
	term := strings.Join(args, " ")
	if err := a.store.AddSearch(ctx, term); err != nil {
		return nil, err
	}
	return a.catalog.Search(ctx, term, 1)
}

func runWatch(ctx context.Context, a *app, args []string) (interface{}, error) {
	err := a.store.AddWatch(ctx, recommend.WatchEntry{
		ID:          args[0],
		Title:       args[1],
		ChannelID:   args[2],
		ChannelName: args[3],
	})
	return done("watch", err)
}

func runSubscribe(ctx context.Context, a *app, args []string) (interface{}, error) {
	return done("subscribe", a.store.Subscribe(ctx, recommend.Subscription{ChannelID: args[0], Name: args[1]}))
}

func runUnsubscribe(ctx context.Context, a *app, args []string) (interface{}, error) {
	return done("unsubscribe", a.store.Unsubscribe(ctx, args[0]))
}

func runInterest(ctx context.Context, a *app, args []string) (interface{}, error) {
	return done("interest", a.store.AddPreferenceKeyword(ctx, args[0]))
}

func runNG(ctx context.Context, a *app, args []string) (interface{}, error) {
	return done("ng", a.store.AddNGKeyword(ctx, args[0]))
}

func runBlock(ctx context.Context, a *app, args []string) (interface{}, error) {
	return done("block", a.store.BlockChannel(ctx, args[0]))
}

func runHide(ctx context.Context, a *app, args []string) (interface{}, error) {
	return done("hide", a.store.HideVideo(ctx, args[0]))
}

func runDislike(ctx context.Context, a *app, args []string) (interface{}, error) {
	return done("dislike", a.store.RecordDislike(ctx, recommend.Item{
		ID:          args[0],
		Title:       args[1],
		ChannelName: args[2],
	}))
}

func done(name string, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return &ack{OK: true, Command: name}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

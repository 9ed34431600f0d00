// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

// Package main is the entry point for the tubescope command.
//
// tubescope builds personalized video feeds on top of a third-party catalog
// proxy. History and preferences live in a local BadgerDB store; every
// recommendation command reads one snapshot of it, fans queries out to the
// catalog and prints the ranked result as JSON on stdout. Logs go to stderr.
//
// # Application Architecture
//
// Components are wired in the following order:
//
//  1. Configuration: defaults, YAML file and environment (Koanf v2)
//  2. Logging: global zerolog logger
//  3. Catalog: HTTP client, circuit breaker, response cache
//  4. Store: BadgerDB history and preference store
//  5. Engine: recommendation engine with the kagome segmenter and optional MMR reranker
//
// # Usage
//
//	tubescope [-config path] [-segmenter kagome|fallback] <command> [args]
//
// Commands:
//
//	home                                        long-form feed plus shorts shelf
//	shorts [-seen id,...]                       one shorts batch
//	suggest                                     suggested interest keywords
//	search <term...>                            record a search and show catalog results
//	watch <id> <title> <channelId> <channelName>
//	subscribe <channelId> <name>
//	unsubscribe <channelId>
//	interest <keyword>                          add an explicit interest
//	ng <keyword>                                hard-block a keyword
//	block <channelId>                           hard-block a channel
//	hide <id>                                   mark a video not interested
//	dislike <id> <title> <channelName>          learn negative keywords and hide
//
// # Example Usage
//
//	export CATALOG_BASE_URL=http://localhost:3000
//	tubescope search "猫 動画"
//	tubescope watch dQw4w9WgXcQ "Never Gonna Give You Up" UCuAXFkgsw1L7xaCfnd5JJOw "Rick Astley"
//	tubescope home | jq '.videos[].title'
//
// # Exit Codes
//
//	0  success
//	1  runtime failure (config, store, catalog)
//	2  usage error
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

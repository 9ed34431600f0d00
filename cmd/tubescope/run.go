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
	"strings"

	"github.com/tomtom215/tubescope/internal/config"
	"github.com/tomtom215/tubescope/internal/logging"
	"github.com/tomtom215/tubescope/internal/metrics"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// run parses args, wires the application and executes one command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tubescope", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	segmenterName := fs.String("segmenter", segmenterKagome, "word segmenter: kagome or fallback")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: tubescope [flags] <command> [args]\n\ncommands:\n")
		for _, name := range commandNames() {
			fmt.Fprintf(stderr, "  %s\n", commands[name].usage)
		}
		fmt.Fprintf(stderr, "\nflags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q (known: %s)\n", name, strings.Join(commandNames(), ", "))
		return exitUsage
	}
	if err := cmd.checkArgs(rest); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := config.LoadWithKoanf(*configPath)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return exitFailure
	}
	logging.Init(cfg.Logging.ToLogging())
	logger := logging.Logger()

	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger = logging.With(ctx, logger).With().Str("command", name).Logger()

	segName := segmenterFallback
	if cmd.segmenter {
		segName = *segmenterName
	}
	seg, err := newSegmenter(segName, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	a, err := newApp(cfg, buildCatalog(cfg.Catalog, logger), seg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize")
		return exitFailure
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing store")
		}
	}()

	code := execute(ctx, a, cmd, rest, stdout, stderr)

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
		}
	}
	return code
}

// execute runs cmd against a wired app and prints its result.
func execute(ctx context.Context, a *app, cmd command, args []string, stdout, stderr io.Writer) int {
	out, err := cmd.run(ctx, a, args)
	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("Command failed")
		return exitFailure
	}
	if err := writeJSON(stdout, out); err != nil {
		a.logger.Error().Err(err).Msg("Failed to write output")
		return exitFailure
	}
	return exitOK
}

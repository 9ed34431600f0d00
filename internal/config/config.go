// Tubescope - Personalized Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubescope

package config

import (
	"os"

	"github.com/tomtom215/tubescope/internal/catalog"
	"github.com/tomtom215/tubescope/internal/logging"
	"github.com/tomtom215/tubescope/internal/recommend"
	"github.com/tomtom215/tubescope/internal/store"
)

// Config holds all application configuration.
type Config struct {
	Catalog   catalog.Config   `koanf:"catalog"`
	Store     store.Config     `koanf:"store"`
	Recommend recommend.Config `koanf:"recommend"`
	Logging   LoggingConfig    `koanf:"logging"`
	Metrics   MetricsConfig    `koanf:"metrics"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ToLogging converts to the logging package configuration. Output goes to
// stderr so stdout stays reserved for command output.
func (l LoggingConfig) ToLogging() logging.Config {
	return logging.Config{
		Level:     l.Level,
		Format:    l.Format,
		Caller:    l.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	// TextfilePath, when set, receives the registry in Prometheus text
	// format after each command. Empty disables the export.
	TextfilePath string `koanf:"textfile_path"`
}

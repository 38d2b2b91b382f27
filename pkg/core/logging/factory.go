// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     logging
// Description: Factory functions and process-wide logger defaults
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	mdwlog "github.com/msto63/taxon/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name, usually the service or package
	Name string

	// Log level (debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "console" (default: json)
	Format string

	// Output destination (default: stderr)
	Output io.Writer
}

var (
	defaultsMu sync.RWMutex
	defaults   = LoggerConfig{Level: "info", Format: "json"}
)

// SetDefaults changes the level, format and output used by New. Empty
// values and a nil writer keep the current setting. Invalid level or format
// strings are rejected.
func SetDefaults(level, format string, output io.Writer) error {
	if level != "" {
		if _, err := mdwlog.ParseLevel(level); err != nil {
			return err
		}
	}
	if format != "" {
		if _, err := mdwlog.ParseFormat(format); err != nil {
			return err
		}
	}

	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if level != "" {
		defaults.Level = level
	}
	if format != "" {
		defaults.Format = format
	}
	if output != nil {
		defaults.Output = output
	}
	return nil
}

// NewLogger creates a new foundation logger from cfg
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mdwlog.LevelInfo
	}
	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatJSON
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})
}

// New creates a named logger using the process defaults
func New(name string) *Logger {
	defaultsMu.RLock()
	cfg := defaults
	defaultsMu.RUnlock()

	cfg.Name = name
	return &Logger{Logger: NewLogger(cfg), name: name}
}

// NewWithConfig creates a named logger from an explicit configuration
func NewWithConfig(cfg LoggerConfig) *Logger {
	return &Logger{Logger: NewLogger(cfg), name: cfg.Name}
}

// Discard returns a logger that writes nothing
func Discard() *Logger {
	return NewWithConfig(LoggerConfig{Name: "discard", Level: "error", Output: io.Discard})
}

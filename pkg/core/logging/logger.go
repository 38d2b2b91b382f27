// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     logging
// Description: Key/value logger over the foundation structured logger
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	mdwlog "github.com/msto63/taxon/foundation/core/log"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) foundation() mdwlog.Level {
	switch l {
	case LevelDebug:
		return mdwlog.LevelDebug
	case LevelWarn:
		return mdwlog.LevelWarn
	case LevelError:
		return mdwlog.LevelError
	default:
		return mdwlog.LevelInfo
	}
}

// Logger wraps the foundation logger with key/value call sites
type Logger struct {
	*mdwlog.Logger
	name string
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	return &Logger{Logger: l.Logger.WithLevel(level.foundation()), name: l.name}
}

// With returns a new logger that adds the key/value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.WithFields(toFields(keysAndValues...)), name: l.name}
}

// WithRequestID returns a new logger tagged with a request id
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.WithRequestID(requestID), name: l.name}
}

// WithOperation returns a new logger tagged with an operation name
func (l *Logger) WithOperation(operation string) *Logger {
	return &Logger{Logger: l.Logger.WithOperation(operation), name: l.name}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields. A trailing key
// without value is dropped, as are non-string keys.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

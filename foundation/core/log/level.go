// File: level.go
// Title: Log Level Definitions
// Description: Defines log levels for filtering log output.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2025-12-14 v0.2.0: Reduced to debug/info/warn/error

package log

import (
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelDebug provides detailed information for debugging purposes
	LevelDebug Level = iota

	// LevelInfo represents general informational messages
	LevelInfo

	// LevelWarn indicates potentially harmful situations
	LevelWarn

	// LevelError represents error conditions that need attention
	LevelError
)

// String returns the string representation of the log level
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

// ShortString returns a short string representation of the log level
func (l Level) ShortString() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	default:
		return "???"
	}
}

// Color returns the ANSI color code for the log level
func (l Level) Color() string {
	switch l {
	case LevelDebug:
		return "\033[36m" // Cyan
	case LevelInfo:
		return "\033[32m" // Green
	case LevelWarn:
		return "\033[33m" // Yellow
	case LevelError:
		return "\033[31m" // Red
	default:
		return "\033[0m"
	}
}

// ShouldLog returns true if this level should be logged given the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	return l >= minLevel
}

// ParseLevel parses a string into a log level
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "dbg", "trace":
		return LevelDebug, nil
	case "info", "inf", "":
		return LevelInfo, nil
	case "warn", "wrn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	default:
		return LevelInfo, &ParseError{Input: level, Type: "level"}
	}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

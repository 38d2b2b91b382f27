// File: format.go
// Title: Log Format Definitions
// Description: Output formats for log entries: JSON for services, plain text
//              and colored console output for the CLI.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with multiple output formats
// - 2025-12-14 v0.2.0: Sorted field output, dropped logfmt

package log

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format represents the output format for log messages
type Format int

const (
	// FormatJSON outputs structured JSON logs
	FormatJSON Format = iota

	// FormatText outputs human-readable text logs
	FormatText

	// FormatConsole outputs colored text logs
	FormatConsole
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a log format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return FormatJSON, &ParseError{Input: format, Type: "format"}
	}
}

// Formatter defines the interface for log formatters
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// JSONFormatter formats log entries as JSON
type JSONFormatter struct {
	TimestampFormat string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339}
}

// Format formats a log entry as one JSON object per line
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+8)

	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}

	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}
	if entry.RequestID != "" {
		data["request_id"] = entry.RequestID
	}
	if entry.Operation != "" {
		data["operation"] = entry.Operation
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}
	if entry.Duration > 0 {
		data["duration_ms"] = float64(entry.Duration.Microseconds()) / 1000
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: "15:04:05"}
}

// Format formats a log entry as a single text line
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var parts []string

	if !f.DisableTimestamp {
		parts = append(parts, entry.Timestamp.Format(f.TimestampFormat))
	}
	parts = append(parts, fmt.Sprintf("[%s]", entry.Level.ShortString()))

	if entry.Logger != "" {
		parts = append(parts, fmt.Sprintf("{%s}", entry.Logger))
	}
	if entry.RequestID != "" {
		parts = append(parts, fmt.Sprintf("(req=%s)", entry.RequestID))
	}

	parts = append(parts, entry.Message)

	if entry.Operation != "" {
		parts = append(parts, "op="+entry.Operation)
	}

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
	}

	if entry.Error != nil {
		parts = append(parts, fmt.Sprintf("error=%q", entry.Error.Error()))
	}
	if entry.Duration > 0 {
		parts = append(parts, fmt.Sprintf("duration=%s", entry.Duration))
	}

	return []byte(strings.Join(parts, " ") + "\n"), nil
}

// ConsoleFormatter wraps TextFormatter output in ANSI colors
type ConsoleFormatter struct {
	DisableColors bool
	*TextFormatter
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{TextFormatter: NewTextFormatter()}
}

// Format formats a log entry for console output
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	data, err := f.TextFormatter.Format(entry)
	if err != nil || f.DisableColors {
		return data, err
	}
	colored := entry.Level.Color() + strings.TrimSuffix(string(data), "\n") + "\033[0m\n"
	return []byte(colored), nil
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatText:
		return NewTextFormatter()
	case FormatConsole:
		return NewConsoleFormatter()
	default:
		return NewJSONFormatter()
	}
}

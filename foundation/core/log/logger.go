// File: logger.go
// Title: Core Logger Implementation
// Description: Implements the Logger type: immutable With* builders, leveled
//              output and structured error logging.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging
// - 2025-12-14 v0.2.0: Shared writer lock, dropped async buffering and audit level

package log

import (
	"io"
	"os"
	"sync"
	"time"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
)

// sink is shared between a logger and all loggers derived from it so that
// concurrent writes to the same output never interleave.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *sink) write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(p)
}

// Logger represents a structured logger with contextual information.
// All With* methods return a new logger; the receiver is never modified.
type Logger struct {
	level     Level
	formatter Formatter
	sink      *sink
	name      string

	contextFields Fields
	requestID     string
	operation     string
}

// Config represents logger configuration
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// New creates a new logger writing JSON at info level to stderr
func New() *Logger {
	return &Logger{
		level:         LevelInfo,
		formatter:     NewJSONFormatter(),
		sink:          &sink{out: os.Stderr},
		contextFields: make(Fields),
	}
}

// NewWithConfig creates a new logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		level:         config.Level,
		formatter:     GetFormatter(config.Format),
		sink:          &sink{out: output},
		name:          config.Name,
		contextFields: make(Fields),
	}
}

// WithLevel sets the minimum log level
func (l *Logger) WithLevel(level Level) *Logger {
	clone := l.clone()
	clone.level = level
	return clone
}

// WithFormat sets the log format
func (l *Logger) WithFormat(format Format) *Logger {
	clone := l.clone()
	clone.formatter = GetFormatter(format)
	return clone
}

// WithOutput sets the output destination
func (l *Logger) WithOutput(output io.Writer) *Logger {
	clone := l.clone()
	clone.sink = &sink{out: output}
	return clone
}

// WithName sets the logger name
func (l *Logger) WithName(name string) *Logger {
	clone := l.clone()
	clone.name = name
	return clone
}

// WithField adds a persistent field to all log entries
func (l *Logger) WithField(key string, value interface{}) *Logger {
	clone := l.clone()
	clone.contextFields[key] = value
	return clone
}

// WithFields adds persistent fields to all log entries
func (l *Logger) WithFields(fields Fields) *Logger {
	clone := l.clone()
	for k, v := range fields {
		clone.contextFields[k] = v
	}
	return clone
}

// WithRequestID sets the request ID context
func (l *Logger) WithRequestID(requestID string) *Logger {
	clone := l.clone()
	clone.requestID = requestID
	return clone
}

// WithOperation sets the operation context
func (l *Logger) WithOperation(operation string) *Logger {
	clone := l.clone()
	clone.operation = operation
	return clone
}

// Debug logs a debug level message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, 0, fields...)
}

// Info logs an info level message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, 0, fields...)
}

// Warn logs a warning level message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, 0, fields...)
}

// Error logs an error level message
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, 0, fields...)
}

// ErrorWithErr logs an error with an error object
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, 0, fields...)
}

// WarnWithErr logs a warning with an error object
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, 0, fields...)
}

// Timed logs an info message carrying the elapsed time since start
func (l *Logger) Timed(message string, start time.Time, fields ...Fields) {
	l.log(LevelInfo, message, nil, time.Since(start), fields...)
}

// LogError logs a structured error with its code, severity and details.
// The level follows the error severity; plain errors log at error level.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}

	mdwErr, ok := mdwerror.As(err)
	if !ok {
		l.log(LevelError, err.Error(), err, 0)
		return
	}

	fields := Fields{
		"error_code":     mdwErr.Code().String(),
		"error_severity": mdwErr.Severity().String(),
	}
	if op := mdwErr.Operation(); op != "" {
		fields["error_operation"] = op
	}
	for k, v := range mdwErr.Details() {
		fields["error_"+k] = v
	}

	level := LevelError
	switch mdwErr.Severity() {
	case mdwerror.SeverityLow:
		level = LevelInfo
	case mdwerror.SeverityMedium:
		level = LevelWarn
	}
	l.log(level, mdwErr.Message(), err, 0, fields)
}

// IsLevelEnabled returns true if the given level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.level)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	return l.level
}

func (l *Logger) log(level Level, message string, err error, elapsed time.Duration, fields ...Fields) {
	if !level.ShouldLog(l.level) {
		return
	}

	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.RequestID = l.requestID
	entry.Operation = l.operation
	entry.Error = err
	entry.Duration = elapsed

	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	for _, fieldSet := range fields {
		for k, v := range fieldSet {
			entry.Fields[k] = v
		}
	}

	if formatted, formatErr := l.formatter.Format(entry); formatErr == nil {
		l.sink.write(formatted)
	}
}

func (l *Logger) clone() *Logger {
	return &Logger{
		level:         l.level,
		formatter:     l.formatter,
		sink:          l.sink,
		name:          l.name,
		requestID:     l.requestID,
		operation:     l.operation,
		contextFields: l.contextFields.Clone(),
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

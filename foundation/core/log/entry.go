// File: entry.go
// Title: Log Entry Structure
// Description: Defines the log entry and the Fields map used for structured
//              key/value context.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive log entry structure
// - 2025-12-14 v0.2.0: Operation context replaces user/correlation ids

package log

import (
	"time"
)

// Entry represents a single log entry
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string

	RequestID string
	Operation string

	Fields Fields
	Error  error

	Duration time.Duration
}

// Fields represents custom key-value pairs for structured logging
type Fields map[string]interface{}

// Field creates a single field for logging
func Field(key string, value interface{}) Fields {
	return Fields{key: value}
}

// Err creates an error field for logging
func Err(err error) Fields {
	return Fields{"error": err}
}

// Merge combines two Fields into a new one; keys in other win
func (f Fields) Merge(other Fields) Fields {
	result := make(Fields, len(f)+len(other))
	for k, v := range f {
		result[k] = v
	}
	for k, v := range other {
		result[k] = v
	}
	return result
}

// Clone creates a copy of the Fields
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	result := make(Fields, len(f))
	for k, v := range f {
		result[k] = v
	}
	return result
}

// NewEntry creates a new log entry with the given level and message
func NewEntry(level Level, message string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    make(Fields),
	}
}

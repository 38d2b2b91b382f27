// File: error.go
// Title: Core Error Implementation
// Description: Implements the structured Error type with codes, severity,
//              details and a captured stack trace. Compatible with the standard
//              errors package (Unwrap, errors.As).
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2025-12-14 v0.2.0: errors.As based lookups, dropped localization fields

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

// MaxStackFrames limits the number of stack frames captured
const MaxStackFrames = 20

// Error represents a structured error with context, codes, and metadata
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time

	details   map[string]interface{}
	operation string
	requestID string

	stackTrace []StackFrame
}

// StackFrame represents a single frame in the stack trace
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message:    message,
		code:       CodeUnknown,
		severity:   SeverityMedium,
		timestamp:  time.Now(),
		details:    make(map[string]interface{}),
		stackTrace: captureStackTrace(2),
	}
}

// Wrap wraps an existing error with additional context.
// Code, severity and details of a wrapped *Error are inherited.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{
		message:    message,
		cause:      err,
		code:       CodeUnknown,
		severity:   SeverityMedium,
		timestamp:  time.Now(),
		details:    make(map[string]interface{}),
		stackTrace: captureStackTrace(2),
	}

	var inner *Error
	if errors.As(err, &inner) {
		wrapped.code = inner.code
		wrapped.severity = inner.severity
		wrapped.operation = inner.operation
		wrapped.requestID = inner.requestID
		for k, v := range inner.details {
			wrapped.details[k] = v
		}
	}

	return wrapped
}

// Error implements the standard error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
	}
	return e.message
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// Message returns the message without the cause chain
func (e *Error) Message() string {
	return e.message
}

// WithCode sets the error code; severity follows the code unless set explicitly
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	if e.severity == SeverityMedium {
		e.severity = GetSeverityFromCode(code)
	}
	return e
}

// WithSeverity sets the error severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// WithDetails adds multiple key-value details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.details[k] = v
	}
	return e
}

// WithOperation sets the operation that caused the error
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithRequestID sets the request ID associated with the error
func (e *Error) WithRequestID(requestID string) *Error {
	e.requestID = requestID
	return e
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Severity returns the error severity
func (e *Error) Severity() Severity {
	return e.severity
}

// Timestamp returns when the error occurred
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Details returns a copy of the error details
func (e *Error) Details() map[string]interface{} {
	result := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		result[k] = v
	}
	return result
}

// Detail returns a single detail value
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.details[key]
	return v, ok
}

// Operation returns the operation that caused the error
func (e *Error) Operation() string {
	return e.operation
}

// RequestID returns the request ID associated with the error
func (e *Error) RequestID() string {
	return e.requestID
}

// StackTrace returns the stack trace
func (e *Error) StackTrace() []StackFrame {
	result := make([]StackFrame, len(e.stackTrace))
	copy(result, e.stackTrace)
	return result
}

// RootCause returns the deepest error of the chain
func (e *Error) RootCause() error {
	var last error = e
	for current := errors.Unwrap(error(e)); current != nil; current = errors.Unwrap(current) {
		last = current
	}
	return last
}

// String returns a detailed multi-line representation of the error
func (e *Error) String() string {
	parts := []string{
		fmt.Sprintf("Error: %s", e.message),
		fmt.Sprintf("Code: %s", e.code),
		fmt.Sprintf("Severity: %s", e.severity),
		fmt.Sprintf("Timestamp: %s", e.timestamp.Format(time.RFC3339)),
	}

	if e.operation != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", e.operation))
	}
	if e.requestID != "" {
		parts = append(parts, fmt.Sprintf("RequestID: %s", e.requestID))
	}

	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		detailStrs := make([]string, 0, len(keys))
		for _, k := range keys {
			detailStrs = append(detailStrs, fmt.Sprintf("%s=%v", k, e.details[k]))
		}
		parts = append(parts, fmt.Sprintf("Details: {%s}", strings.Join(detailStrs, ", ")))
	}

	if e.cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %s", e.cause.Error()))
	}

	return strings.Join(parts, "\n")
}

// MarshalJSON implements json.Marshaler for structured logging
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"message":   e.message,
		"code":      e.code,
		"severity":  e.severity.String(),
		"timestamp": e.timestamp.Format(time.RFC3339),
		"details":   e.details,
	}

	if e.operation != "" {
		data["operation"] = e.operation
	}
	if e.requestID != "" {
		data["request_id"] = e.requestID
	}
	if e.cause != nil {
		data["cause"] = e.cause.Error()
	}
	if len(e.stackTrace) > 0 {
		data["stack_trace"] = e.stackTrace
	}

	return json.Marshal(data)
}

func captureStackTrace(skip int) []StackFrame {
	pcs := make([]uintptr, MaxStackFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	result := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		result = append(result, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return result
}

// As returns the first *Error in the chain of err
func As(err error) (*Error, bool) {
	var mdwErr *Error
	if errors.As(err, &mdwErr) {
		return mdwErr, true
	}
	return nil, false
}

// HasCode checks if the first *Error in the chain has a specific code
func HasCode(err error, code Code) bool {
	if mdwErr, ok := As(err); ok {
		return mdwErr.code == code
	}
	return false
}

// GetCode returns the error code from an error, or CodeUnknown if not a structured error
func GetCode(err error) Code {
	if mdwErr, ok := As(err); ok {
		return mdwErr.code
	}
	return CodeUnknown
}

// GetSeverity returns the error severity, or SeverityMedium if not a structured error
func GetSeverity(err error) Severity {
	if mdwErr, ok := As(err); ok {
		return mdwErr.severity
	}
	return SeverityMedium
}

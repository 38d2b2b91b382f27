// File: interfaces.go
// Title: Core Validation Interfaces and Types
// Description: Defines the Validator interface, the ValidationResult type and
//              the conversion of failed results into structured errors.
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-25 v0.1.0: Initial validation interfaces implementation
// - 2025-12-14 v0.2.0: Field-aware results, ToErrorWithCode

package validation

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
)

// Standard validation error codes
const (
	CodeRequired = "VALIDATION_REQUIRED"
	CodeFormat   = "VALIDATION_FORMAT"
	CodeLength   = "VALIDATION_LENGTH"
	CodeRange    = "VALIDATION_RANGE"
	CodeType     = "VALIDATION_TYPE"
	CodeURL      = "VALIDATION_URL"
	CodeCustom   = "VALIDATION_CUSTOM"
	CodeEnum     = "VALIDATION_ENUM"
)

// Validator defines the interface for all validation functions
type Validator interface {
	Validate(value interface{}) ValidationResult
}

// ValidatorFunc is a function type that implements the Validator interface
type ValidatorFunc func(value interface{}) ValidationResult

// Validate implements the Validator interface for ValidatorFunc
func (f ValidatorFunc) Validate(value interface{}) ValidationResult {
	return f(value)
}

// ValidationResult represents the result of a validation operation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Code     string      `json:"code"`
	Field    string      `json:"field,omitempty"`
	Message  string      `json:"message"`
	Value    interface{} `json:"value,omitempty"`
	Expected interface{} `json:"expected,omitempty"`
}

// NewValidationResult creates a successful validation result
func NewValidationResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// NewValidationError creates a failed validation result with a single error
func NewValidationError(code, message string) ValidationResult {
	return ValidationResult{
		Valid:  false,
		Errors: []ValidationError{{Code: code, Message: message}},
	}
}

// NewValidationErrorWithField creates a validation error for a specific field
func NewValidationErrorWithField(code, field, message string, value interface{}) ValidationResult {
	return ValidationResult{
		Valid: false,
		Errors: []ValidationError{
			{Code: code, Field: field, Message: message, Value: value},
		},
	}
}

// AddError adds an error to an existing validation result
func (r *ValidationResult) AddError(code, message string) *ValidationResult {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Code: code, Message: message})
	return r
}

// AddFieldError adds a field-specific error to the validation result
func (r *ValidationResult) AddFieldError(code, field, message string, value interface{}) *ValidationResult {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Code: code, Field: field, Message: message, Value: value})
	return r
}

// ForField returns a copy of the result with every unnamed error assigned to field
func (r ValidationResult) ForField(field string) ValidationResult {
	if r.Valid {
		return r
	}
	out := ValidationResult{Valid: false, Errors: make([]ValidationError, len(r.Errors))}
	for i, e := range r.Errors {
		if e.Field == "" {
			e.Field = field
			e.Message = field + ": " + e.Message
		}
		out.Errors[i] = e
	}
	return out
}

// FirstError returns the first validation error, or nil if validation passed
func (r ValidationResult) FirstError() *ValidationError {
	if len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// ErrorMessages returns all error messages
func (r ValidationResult) ErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = err.Message
	}
	return messages
}

// Fields returns the names of all failing fields in order of appearance
func (r ValidationResult) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range r.Errors {
		if err.Field != "" && !seen[err.Field] {
			seen[err.Field] = true
			fields = append(fields, err.Field)
		}
	}
	return fields
}

// HasError checks if the result contains a specific error code
func (r ValidationResult) HasError(code string) bool {
	for _, err := range r.Errors {
		if err.Code == code {
			return true
		}
	}
	return false
}

// ToError converts the validation result to a structured error with
// CodeValidationFailed. Returns nil if validation passed.
func (r ValidationResult) ToError() error {
	return r.ToErrorWithCode(mdwerror.CodeValidationFailed)
}

// ToErrorWithCode converts a failed result into a structured error carrying
// code. The message joins every error message; fields are kept as details.
func (r ValidationResult) ToErrorWithCode(code mdwerror.Code) error {
	if r.Valid {
		return nil
	}
	if len(r.Errors) == 0 {
		return mdwerror.New("validation failed").WithCode(code)
	}

	err := mdwerror.New(strings.Join(r.ErrorMessages(), "; ")).
		WithCode(code).
		WithDetail("validation_code", r.Errors[0].Code)

	if fields := r.Fields(); len(fields) > 0 {
		err = err.WithDetail("fields", fields)
	}
	if len(r.Errors) > 1 {
		err = err.WithDetail("total_errors", len(r.Errors))
	}
	return err
}

// String returns a human-readable representation of the validation result
func (r ValidationResult) String() string {
	if r.Valid {
		return "ValidationResult{valid: true}"
	}
	return fmt.Sprintf("ValidationResult{valid: false, errors: %d, messages: [%s]}",
		len(r.Errors), strings.Join(r.ErrorMessages(), "; "))
}

// Combine merges multiple validation results into a single result
func Combine(results ...ValidationResult) ValidationResult {
	combined := NewValidationResult()
	for _, result := range results {
		if !result.Valid {
			combined.Valid = false
			combined.Errors = append(combined.Errors, result.Errors...)
		}
	}
	return combined
}

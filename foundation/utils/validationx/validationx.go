// File: validationx.go
// Title: Concrete Validators
// Description: Ready-made validators built on core/validation: presence,
//              length, numeric ranges, enumerations and service endpoints.
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive validation utilities
// - 2025-12-14 v0.2.0: Endpoint validator, trimmed to the validators in use

package validationx

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/msto63/taxon/foundation/core/validation"
)

// Required validates that a value is not nil, empty or whitespace only
var Required validation.ValidatorFunc = func(value interface{}) validation.ValidationResult {
	if validation.IsBlank(value) {
		return validation.NewValidationError(validation.CodeRequired, "value is required")
	}
	return validation.NewValidationResult()
}

// Optional creates a validator that only runs if the value is not blank
func Optional(validator validation.Validator) validation.ValidatorFunc {
	return func(value interface{}) validation.ValidationResult {
		if validation.IsBlank(value) {
			return validation.NewValidationResult()
		}
		return validator.Validate(value)
	}
}

// MaxLength validates maximum string length in runes
func MaxLength(max int) validation.ValidatorFunc {
	return func(value interface{}) validation.ValidationResult {
		str, ok := value.(string)
		if !ok {
			return validation.NewValidationError(validation.CodeType, "value must be a string")
		}
		if utf8.RuneCountInString(str) > max {
			return validation.NewValidationError(validation.CodeLength,
				fmt.Sprintf("must be at most %d characters", max))
		}
		return validation.NewValidationResult()
	}
}

// Min validates that a numeric value is at least min
func Min(min float64) validation.ValidatorFunc {
	return func(value interface{}) validation.ValidationResult {
		num, err := validation.ConvertToFloat64(value)
		if err != nil {
			return validation.NewValidationError(validation.CodeType, "value must be numeric")
		}
		if num < min {
			return validation.NewValidationError(validation.CodeRange,
				fmt.Sprintf("must be at least %s, got %s", formatNumber(min), formatNumber(num)))
		}
		return validation.NewValidationResult()
	}
}

// Range validates that a numeric value lies within [min, max]
func Range(min, max float64) validation.ValidatorFunc {
	return func(value interface{}) validation.ValidationResult {
		num, err := validation.ConvertToFloat64(value)
		if err != nil {
			return validation.NewValidationError(validation.CodeType, "value must be numeric")
		}
		if num < min || num > max {
			return validation.NewValidationError(validation.CodeRange,
				fmt.Sprintf("must be between %s and %s, got %s", formatNumber(min), formatNumber(max), formatNumber(num)))
		}
		return validation.NewValidationResult()
	}
}

// In validates that the value's text form is one of allowed
func In(allowed ...string) validation.ValidatorFunc {
	return func(value interface{}) validation.ValidationResult {
		s := fmt.Sprint(value)
		for _, a := range allowed {
			if s == a {
				return validation.NewValidationResult()
			}
		}
		return validation.NewValidationError(validation.CodeEnum,
			fmt.Sprintf("must be one of [%s], got %q", strings.Join(allowed, ", "), s))
	}
}

// Endpoint validates a service address: either host:port or an absolute
// http(s) or ws(s) URL with a host.
var Endpoint validation.ValidatorFunc = func(value interface{}) validation.ValidationResult {
	s, ok := value.(string)
	if !ok {
		return validation.NewValidationError(validation.CodeType, "value must be a string")
	}
	if IsValidEndpoint(s) {
		return validation.NewValidationResult()
	}
	return validation.NewValidationError(validation.CodeURL,
		fmt.Sprintf("must be host:port or an http(s)/ws(s) URL, got %q", s))
}

// Custom wraps a predicate returning (ok, message)
func Custom(fn func(interface{}) (bool, string)) validation.ValidatorFunc {
	return func(value interface{}) validation.ValidationResult {
		if ok, msg := fn(value); !ok {
			return validation.NewValidationError(validation.CodeCustom, msg)
		}
		return validation.NewValidationResult()
	}
}

// IsValidEndpoint reports whether s is host:port or an http(s)/ws(s) URL
func IsValidEndpoint(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return false
		}
		switch u.Scheme {
		case "http", "https", "ws", "wss":
			return true
		}
		return false
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return false
	}
	if strings.HasPrefix(host, "unix") {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n < 65536
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

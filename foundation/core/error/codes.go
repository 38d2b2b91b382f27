// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error classification
//              across the taxon client, its transports and the reference service.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-12-14 v0.2.0: Reduced to the codes used by the remote data client

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Authentication and authorization
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeInvalidToken Code = "INVALID_TOKEN"
	CodeExpiredToken Code = "EXPIRED_TOKEN"

	// Service and network
	CodeConnectionFailed     Code = "CONNECTION_FAILED"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError         Code = "NETWORK_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeQuotaExceeded        Code = "QUOTA_EXCEEDED"
	CodeDataCorruption       Code = "DATA_CORRUPTION"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeRequiredField    Code = "REQUIRED_FIELD"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
	CodeValueOutOfRange  Code = "VALUE_OUT_OF_RANGE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	return c.Category() != "generic" || c == CodeUnknown || c == CodeInternal ||
		c == CodeNotFound || c == CodeInvalidInput || c == CodeTimeout
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeUnauthorized, CodeForbidden, CodeInvalidToken, CodeExpiredToken:
		return "authentication"
	case CodeConnectionFailed, CodeServiceUnavailable, CodeNetworkError, CodeServiceTimeout,
		CodeExternalServiceError, CodeQuotaExceeded, CodeDataCorruption:
		return "service"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeRequiredField, CodeInvalidFormat, CodeValueOutOfRange:
		return "validation"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeUnauthorized, CodeInvalidToken, CodeExpiredToken:
		return 401
	case CodeForbidden:
		return 403
	case CodeInvalidInput, CodeValidationFailed, CodeRequiredField, CodeInvalidFormat, CodeValueOutOfRange:
		return 400
	case CodeQuotaExceeded:
		return 429
	case CodeTimeout, CodeServiceTimeout:
		return 408
	case CodeServiceUnavailable, CodeConnectionFailed:
		return 503
	default:
		return 500
	}
}

// CodeFromHTTPStatus is the inverse of HTTPStatus for the statuses a remote
// endpoint is expected to return
func CodeFromHTTPStatus(status int) Code {
	switch status {
	case 400:
		return CodeInvalidInput
	case 401:
		return CodeUnauthorized
	case 403:
		return CodeForbidden
	case 404:
		return CodeNotFound
	case 408:
		return CodeServiceTimeout
	case 429:
		return CodeQuotaExceeded
	case 502, 503, 504:
		return CodeServiceUnavailable
	default:
		return CodeExternalServiceError
	}
}

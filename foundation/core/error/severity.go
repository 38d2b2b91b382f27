// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels used to pick log levels and alerting
//              behaviour for structured errors.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2025-12-14 v0.2.0: Severity mapping for the reduced code set

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a caller mistake such as bad input or an unknown reference
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure that a caller can usually recover from
	SeverityMedium

	// SeverityHigh indicates a failure of a dependency such as an unreachable service
	SeverityHigh

	// SeverityCritical indicates corrupted data or a complete outage
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeDataCorruption:
		return SeverityCritical
	case CodeConnectionFailed, CodeServiceUnavailable, CodeUnauthorized, CodeForbidden,
		CodeInvalidToken, CodeExpiredToken:
		return SeverityHigh
	case CodeNetworkError, CodeServiceTimeout, CodeExternalServiceError, CodeQuotaExceeded,
		CodeTimeout:
		return SeverityMedium
	case CodeInvalidInput, CodeNotFound, CodeValidationFailed, CodeRequiredField,
		CodeInvalidFormat, CodeValueOutOfRange, CodeInvalidConfig, CodeMissingConfig:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// File: common.go
// Title: Validation Framework Utilities
// Description: Value inspection helpers shared by concrete validators.
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-25 v0.1.0: Initial validation framework utilities
// - 2025-12-14 v0.2.0: IsBlank, wider numeric conversion

package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// IsNilOrEmpty checks if a value is nil or empty for its kind
func IsNilOrEmpty(value interface{}) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// IsBlank is IsNilOrEmpty that also treats whitespace-only strings as empty
func IsBlank(value interface{}) bool {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	if rv := reflect.ValueOf(value); rv.IsValid() && rv.Kind() == reflect.String {
		return strings.TrimSpace(rv.String()) == ""
	}
	return IsNilOrEmpty(value)
}

// ConvertToFloat64 converts numeric values and numeric strings to float64
func ConvertToFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, fmt.Errorf("cannot convert %T to float64", value)
}

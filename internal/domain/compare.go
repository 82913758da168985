package domain

import (
	"reflect"
	"strconv"
)

// CompareValues compares two attribute values for equality.
// Handles type coercion for common cases including string-to-primitive
// conversion, since adapters deliver mixed JSON and string payloads.
func CompareValues(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return av == formatValue(b)
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return formatValue(av) == formatValue(b)
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return formatValue(av) == formatValue(b)
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return formatValue(av) == formatValue(b)
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return formatValue(av) == formatValue(b)
	}

	// Complex types (slices, maps) and anything else
	return reflect.DeepEqual(a, b)
}

// AttrsEqual compares two attribute maps key by key
func AttrsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !CompareValues(av, bv) {
			return false
		}
	}
	return true
}

// formatValue converts a value to its string representation for comparison
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

package devtool

import (
	"fmt"
	"strings"
)

// IsTruthy converts a human boolean string to a bool. Accepted true
// values are y, yes, t, true, on, and 1; false values are n, no, f,
// false, off, and 0. Matching is case-insensitive; anything else is
// an error.
func IsTruthy(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid truth value %q", val)
	}
}

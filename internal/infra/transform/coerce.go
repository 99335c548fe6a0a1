package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// Recipients applies the recipient rule: a comma-separated string is split
// and trimmed, an array passes through with its elements stringified.
// Anything else yields nil.
func Recipients(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return nil
	}
}

// DateTime applies the date-time rule: an object with a dateTime key passes
// through; a bare string is wrapped as {dateTime, timeZone}. Applying it to
// an already-coerced value is a no-op.
func DateTime(value any, timeZone string) map[string]any {
	if timeZone == "" {
		timeZone = "UTC"
	}
	switch v := value.(type) {
	case map[string]any:
		if _, ok := v["dateTime"]; ok {
			return v
		}
		return nil
	case string:
		return map[string]any{"dateTime": v, "timeZone": timeZone}
	default:
		return nil
	}
}

// Integer coerces numbers and numeric strings to int.
func Integer(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

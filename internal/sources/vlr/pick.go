package vlr

import (
	"strconv"
	"strings"
)

// The structured endpoint's schema drifts: the same field shows up under
// different key names across deployments. Each pick helper evaluates a fixed
// ordered list of candidate keys and returns the first usable value, so a
// renamed upstream key degrades a single field instead of the whole match.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// pickString returns the first candidate key holding a non-empty string
// (numbers are formatted through).
func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// pickNumber returns the first candidate key parseable as a number. Strings
// holding numbers count: upstreams serialize counts both ways.
func pickNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// pickSlice returns the first candidate key holding a non-empty list.
func pickSlice(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if l, ok := m[k].([]any); ok && len(l) > 0 {
			return l
		}
	}
	return nil
}

// pickStrings flattens a picked list to its string elements.
func pickStrings(m map[string]any, keys ...string) []string {
	var out []string
	for _, item := range pickSlice(m, keys...) {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

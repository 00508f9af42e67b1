package answerkey

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coercion helpers for the weakly typed config bag. Values arrive from
// encoding/json (float64, string, bool, []any, map[string]any) or from
// hand-built Go maps (int, []string, []int). Every helper is total: a value
// of the wrong shape reports ok=false instead of failing.

// asInt converts whole numbers and digit strings to int.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case int32:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case float32:
		return asInt(float64(t))
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// asString converts strings, numbers and booleans to their text form.
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// asList converts slices and JSON-array-looking strings to []any.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	case string:
		return parseJSONArray(t)
	}
	return nil, false
}

// parseJSONArray decodes s when it looks like a JSON array.
func parseJSONArray(s string) ([]any, bool) {
	if !looksLikeJSONArray(s) {
		return nil, false
	}
	var out []any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &out); err != nil {
		return nil, false
	}
	return out, true
}

func looksLikeJSONArray(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// asInts converts a scalar or a list of whole numbers to []int. Elements
// that are not whole numbers are skipped.
func asInts(v any) ([]int, bool) {
	if n, ok := asInt(v); ok {
		return []int{n}, true
	}
	list, ok := asList(v)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(list))
	for _, e := range list {
		if n, ok := asInt(e); ok {
			out = append(out, n)
		}
	}
	return out, true
}

// asStrings converts a scalar or a list of scalars to []string. Empty
// strings are dropped.
func asStrings(v any) []string {
	if list, ok := asList(v); ok {
		out := make([]string, 0, len(list))
		for _, e := range list {
			if s := itemText(e); strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s, ok := asString(v); ok && strings.TrimSpace(s) != "" {
		return []string{s}
	}
	return nil
}

// itemTextKeys are the object fields that carry display text in authored
// choice, token and tile lists.
var itemTextKeys = []string{"text", "label", "value", "word", "char", "letter", "token"}

// itemText returns the display text of a list element: a scalar or an
// object carrying one of itemTextKeys.
func itemText(v any) string {
	if s, ok := asString(v); ok {
		return s
	}
	if m, ok := v.(map[string]any); ok {
		for _, k := range itemTextKeys {
			if s, ok := asString(m[k]); ok {
				return s
			}
		}
	}
	return ""
}

// asTexts converts a list of scalars or objects to display texts,
// preserving positions (unreadable elements become "").
func asTexts(v any) ([]string, bool) {
	list, ok := asList(v)
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = itemText(e)
	}
	return out, true
}

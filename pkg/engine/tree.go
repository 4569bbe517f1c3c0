package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Helpers for walking an already-decoded JSON tree (map[string]any / []any).

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asArray treats JSON null as an empty array.
func asArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case nil:
		return nil, true
	case []any:
		return a, true
	default:
		return nil, false
	}
}

func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	return s, ok
}

func optString(obj map[string]any, key string) string {
	s, _ := stringField(obj, key)
	return s
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func boolValue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}

func nestedString(obj map[string]any, keys ...string) string {
	cur := obj
	for i, k := range keys {
		if i == len(keys)-1 {
			return optString(cur, k)
		}
		next, ok := asObject(cur[k])
		if !ok {
			return ""
		}
		cur = next
	}
	return ""
}

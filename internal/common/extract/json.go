// Package extract recovers the JSON object a model embeds in free text and
// reads its fields with explicit defaults.
package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "rein-coach/internal/common/errors"
)

// JSONObject isolates the span from the first '{' to the last '}' and decodes it.
// The heuristic assumes a single top-level object, which every stage prompt asks for.
func JSONObject(text string) (map[string]interface{}, error) {
	start := strings.Index(text, "{")
	if start == -1 {
		return nil, apperrors.NewExtractionError("no '{' found in response")
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return nil, apperrors.NewExtractionError("no '}' found after first '{'")
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}

// String returns m[key] when it is a JSON string, def otherwise.
func String(m map[string]interface{}, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

// Float returns m[key] when it is a JSON number, def otherwise.
func Float(m map[string]interface{}, key string, def float64) float64 {
	if f, ok := m[key].(float64); ok {
		return f
	}
	return def
}

// Int returns m[key] truncated to an int when it is a JSON number, def otherwise.
func Int(m map[string]interface{}, key string, def int) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return def
}

// StringSlice returns the string elements of m[key]. Non-string elements are skipped.
// The result is never nil.
func StringSlice(m map[string]interface{}, key string) []string {
	out := []string{}
	items, ok := m[key].([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IntSlice returns the numeric elements of m[key] as ints. The result is never nil.
func IntSlice(m map[string]interface{}, key string) []int {
	out := []int{}
	items, ok := m[key].([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if f, ok := item.(float64); ok {
			out = append(out, int(f))
		}
	}
	return out
}

// StringMap returns the string-valued entries of the object at m[key]. Never nil.
func StringMap(m map[string]interface{}, key string) map[string]string {
	out := map[string]string{}
	obj, ok := m[key].(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Map returns the object at m[key], or an empty map.
func Map(m map[string]interface{}, key string) map[string]interface{} {
	if obj, ok := m[key].(map[string]interface{}); ok {
		return obj
	}
	return map[string]interface{}{}
}

// MapSlice returns the object elements of the array at m[key]. Never nil.
func MapSlice(m map[string]interface{}, key string) []map[string]interface{} {
	out := []map[string]interface{}{}
	items, ok := m[key].([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Text renders m[key] for a prompt. Strings, numbers of any Go kind and
// string lists ([]string or []interface{}) are accepted; a missing, null,
// blank or empty value renders as placeholder.
func Text(m map[string]interface{}, key, placeholder string) string {
	switch v := m[key].(type) {
	case nil:
		return placeholder
	case string:
		if strings.TrimSpace(v) == "" {
			return placeholder
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case json.Number:
		return v.String()
	case []string:
		if len(v) == 0 {
			return placeholder
		}
		return strings.Join(v, ", ")
	case []interface{}:
		if len(v) == 0 {
			return placeholder
		}
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}
		return strings.Join(items, ", ")
	default:
		return fmt.Sprint(v)
	}
}

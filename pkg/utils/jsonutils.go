package utils

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// GetFirstMapValue returns the value with the lowest key, so that picking
// "the first" term of a price list product is deterministic
func GetFirstMapValue(m map[string]interface{}) (interface{}, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("map is empty")
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return m[keys[0]], nil
}

// GetString returns m[key] if it is a string, otherwise ""
func GetString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// GetMap returns m[key] if it is an object, otherwise nil
func GetMap(m map[string]interface{}, key string) map[string]interface{} {
	if nested, ok := m[key].(map[string]interface{}); ok {
		return nested
	}
	return nil
}

// ParseJSON parses a JSON string into a map
func ParseJSON(jsonStr string) (map[string]interface{}, error) {
	var result map[string]interface{}
	err := json.Unmarshal([]byte(jsonStr), &result)
	if err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return result, nil
}

// FormatJSON formats a value as JSON with indentation
func FormatJSON(data interface{}) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(bytes), nil
}

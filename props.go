package osm2poi

import (
	"math"
	"strconv"
	"strings"
)

// Feature properties come from parsed GeoJSON, so numeric values may arrive
// as float64, int or numeric strings depending on who produced the file.
// These helpers normalize the access.

func propString(properties map[string]interface{}, key string) string {
	if value, ok := properties[key].(string); ok {
		return value
	}
	return ""
}

func propFloat(properties map[string]interface{}, key string) (float64, bool) {
	switch value := properties[key].(type) {
	case float64:
		if math.IsNaN(value) {
			return 0, false
		}
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func propInt(properties map[string]interface{}, key string) (int, bool) {
	value, ok := propFloat(properties, key)
	if !ok {
		return 0, false
	}
	return int(math.Floor(value)), true
}

// isBlank mirrors the "no usable value" test used when deciding whether a
// weighing method is workable
func isBlank(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return math.IsNaN(v)
	}
	return false
}

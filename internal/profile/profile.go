// Package profile builds the optional user profile forwarded to the agent
// as variables.profile, and the canned quick-start prompts.
package profile

import (
	"strconv"
	"strings"
)

// Build turns raw user-entered fields into the profile map sent to the
// agent. Height and weight accept free text like "175 cm". Fields that are
// blank or fail to parse are left out entirely; the map never holds nils.
// The result replaces any previously saved profile wholesale.
func Build(raw map[string]string) map[string]any {
	prof := make(map[string]any, 6)
	if v, ok := numFromString(raw["age"]); ok {
		prof["age"] = v
	}
	if v := strings.TrimSpace(raw["sex"]); v != "" {
		prof["sex"] = v
	}
	if v, ok := numFromString(raw["height"]); ok {
		prof["height_cm"] = v
	}
	if v, ok := numFromString(raw["weight"]); ok {
		prof["weight_kg"] = v
	}
	if v := strings.TrimSpace(raw["activity"]); v != "" {
		prof["activity"] = v
	}
	if v := strings.TrimSpace(raw["goal"]); v != "" {
		prof["goal"] = v
	}
	return prof
}

// numFromString pulls the numeric substring out of a free-text field, so
// "175 cm" parses as 175.
func numFromString(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func intValue(profile map[string]any, key string, def int) int {
	switch v := profile[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func stringValue(profile map[string]any, key, def string) string {
	if v, ok := profile[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

package config

import (
	"fmt"
)

// Safe type assertion helpers for dynamic component configuration.
// Every accessor returns its default instead of panicking on a missing
// key or a type mismatch.

// GetString extracts a string value from a config map.
func GetString(cfg map[string]any, key string, defaultVal string) string {
	if val, ok := cfg[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// GetInt extracts an integer value from a config map. JSON numbers
// arrive as float64, so numeric types are converted.
func GetInt(cfg map[string]any, key string, defaultVal int) int {
	if val, ok := cfg[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case int32:
			return int(v)
		case float64:
			return int(v)
		case float32:
			return int(v)
		}
	}
	return defaultVal
}

// GetBool extracts a boolean value from a config map.
func GetBool(cfg map[string]any, key string, defaultVal bool) bool {
	if val, ok := cfg[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultVal
}

// GetStringSlice extracts a string slice from a config map. A []any
// holding only strings is converted; mixed slices fall back to the
// default.
func GetStringSlice(cfg map[string]any, key string, defaultVal []string) []string {
	val, ok := cfg[key]
	if !ok {
		return defaultVal
	}

	if slice, ok := val.([]string); ok {
		return slice
	}
	if interfaceSlice, ok := val.([]any); ok {
		result := make([]string, 0, len(interfaceSlice))
		for _, item := range interfaceSlice {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		if len(result) == len(interfaceSlice) {
			return result
		}
	}
	return defaultVal
}

// GetComponentConfig extracts the configuration section for a named
// component instance from a raw config map.
func GetComponentConfig(cfg map[string]any, name string) (map[string]any, error) {
	val, ok := cfg["components"]
	if !ok {
		return nil, fmt.Errorf("components section not found")
	}

	components, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("components section invalid type: expected map[string]any, got %T", val)
	}

	compCfg, ok := components[name]
	if !ok {
		return nil, fmt.Errorf("component %s not found", name)
	}

	result, ok := compCfg.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("component %s config invalid type: expected map[string]any, got %T", name, compCfg)
	}

	return result, nil
}

// descend walks all but the last key of a nested path and returns the
// leaf value. ok is false if any intermediate key is missing or not a map.
func descend(cfg map[string]any, keys []string) (any, bool) {
	if len(keys) == 0 {
		return nil, false
	}

	current := cfg
	for _, key := range keys[:len(keys)-1] {
		nested, ok := current[key].(map[string]any)
		if !ok {
			return nil, false
		}
		current = nested
	}

	val, ok := current[keys[len(keys)-1]]
	return val, ok
}

// GetNestedString extracts a string at a nested key path.
func GetNestedString(cfg map[string]any, keys []string, defaultVal string) string {
	val, ok := descend(cfg, keys)
	if !ok {
		return defaultVal
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultVal
}

// GetNestedInt extracts an integer at a nested key path.
func GetNestedInt(cfg map[string]any, keys []string, defaultVal int) int {
	val, ok := descend(cfg, keys)
	if !ok {
		return defaultVal
	}
	key := keys[len(keys)-1]
	return GetInt(map[string]any{key: val}, key, defaultVal)
}

// GetNestedBool extracts a boolean at a nested key path.
func GetNestedBool(cfg map[string]any, keys []string, defaultVal bool) bool {
	val, ok := descend(cfg, keys)
	if !ok {
		return defaultVal
	}
	if boolVal, ok := val.(bool); ok {
		return boolVal
	}
	return defaultVal
}

// HasKey checks whether a key exists in the config map.
func HasKey(cfg map[string]any, key string) bool {
	_, ok := cfg[key]
	return ok
}

// HasNestedKey checks whether a nested key path exists in the config map.
func HasNestedKey(cfg map[string]any, keys []string) bool {
	_, ok := descend(cfg, keys)
	return ok
}

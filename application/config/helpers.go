// Package config provides typed access to parsed vessel class configuration.
//
// Documents parsed from YAML hold int for integers, float64 for reals,
// []any for lists and map[string]any for nested mappings. The getters
// accept any numeric form where a number is expected.
package config

import (
	"fmt"

	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/errors"
)

// Config is a parsed class configuration document.
type Config = entities.ClassConfig

// GetString extracts a string from config, returning (value, found).
func GetString(config Config, key string) (string, bool) {
	v, ok := config[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt extracts an int from config, handling int, int64, uint64 and float64.
func GetInt(config Config, key string) (int, bool) {
	v, ok := config[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// GetFloat extracts a float64 from config, handling float64, int and int64.
func GetFloat(config Config, key string) (float64, bool) {
	v, ok := config[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// GetBool extracts a bool from config, returning (value, found).
func GetBool(config Config, key string) (bool, bool) {
	v, ok := config[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetStringSlice extracts a []string from config, returning (value, found).
func GetStringSlice(config Config, key string) ([]string, bool) {
	v, ok := config[key]
	if !ok {
		return nil, false
	}
	// Lists are decoded as []interface{}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}
	return result, true
}

// GetVector extracts a 3-vector written as a list of three numbers,
// for example "pos: [0, 0, -4]".
func GetVector(config Config, key string) (entities.Vector3, bool) {
	v, ok := config[key]
	if !ok {
		return entities.Vector3{}, false
	}
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 3 {
		return entities.Vector3{}, false
	}
	var out entities.Vector3
	for i, item := range arr {
		f, ok := toFloat(item)
		if !ok {
			return entities.Vector3{}, false
		}
		out[i] = f
	}
	return out, true
}

// GetThrusterGroup extracts a thruster group type written by name,
// for example "group: hover".
func GetThrusterGroup(config Config, key string) (entities.ThrusterGroupType, bool) {
	s, ok := GetString(config, key)
	if !ok {
		return 0, false
	}
	t, err := entities.ParseThrusterGroupType(s)
	if err != nil {
		return 0, false
	}
	return t, true
}

// GetSection extracts a nested mapping as its own Config.
func GetSection(config Config, key string) (Config, bool) {
	v, ok := config[key]
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]any:
		return Config(m), true
	case Config:
		return m, true
	default:
		return nil, false
	}
}

// MustGetString extracts a required string from config or returns error.
func MustGetString(config Config, key string) (string, error) {
	s, ok := GetString(config, key)
	if !ok {
		return "", &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required string field '%s' is missing or not a string", key),
		}
	}
	return s, nil
}

// MustGetInt extracts a required int from config or returns error.
func MustGetInt(config Config, key string) (int, error) {
	i, ok := GetInt(config, key)
	if !ok {
		return 0, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required int field '%s' is missing or not a number", key),
		}
	}
	return i, nil
}

// MustGetFloat extracts a required float64 from config or returns error.
func MustGetFloat(config Config, key string) (float64, error) {
	f, ok := GetFloat(config, key)
	if !ok {
		return 0, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required float field '%s' is missing or not a number", key),
		}
	}
	return f, nil
}

// MustGetBool extracts a required bool from config or returns error.
func MustGetBool(config Config, key string) (bool, error) {
	b, ok := GetBool(config, key)
	if !ok {
		return false, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required bool field '%s' is missing or not a boolean", key),
		}
	}
	return b, nil
}

// MustGetVector extracts a required 3-vector from config or returns error.
func MustGetVector(config Config, key string) (entities.Vector3, error) {
	v, ok := GetVector(config, key)
	if !ok {
		return entities.Vector3{}, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required vector field '%s' is missing or not a list of 3 numbers", key),
		}
	}
	return v, nil
}

// GetStringDefault extracts a string from config or returns the default value.
func GetStringDefault(config Config, key, defaultValue string) string {
	s, ok := GetString(config, key)
	if !ok {
		return defaultValue
	}
	return s
}

// GetIntDefault extracts an int from config or returns the default value.
func GetIntDefault(config Config, key string, defaultValue int) int {
	i, ok := GetInt(config, key)
	if !ok {
		return defaultValue
	}
	return i
}

// GetFloatDefault extracts a float64 from config or returns the default value.
func GetFloatDefault(config Config, key string, defaultValue float64) float64 {
	f, ok := GetFloat(config, key)
	if !ok {
		return defaultValue
	}
	return f
}

// GetBoolDefault extracts a bool from config or returns the default value.
func GetBoolDefault(config Config, key string, defaultValue bool) bool {
	b, ok := GetBool(config, key)
	if !ok {
		return defaultValue
	}
	return b
}

// GetVectorDefault extracts a 3-vector from config or returns the default value.
func GetVectorDefault(config Config, key string, defaultValue entities.Vector3) entities.Vector3 {
	v, ok := GetVector(config, key)
	if !ok {
		return defaultValue
	}
	return v
}

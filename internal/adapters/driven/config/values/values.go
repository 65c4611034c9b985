// Package values coerces the loosely typed values held by config stores.
//
// TOML decodes integers as int64 and arrays as []any, while values set from
// Go code keep their native types. Both shapes are accepted everywhere.
package values

import "time"

// Lookup fetches a raw value by dot key.
type Lookup func(key string) (any, bool)

// Getters supplies the typed accessors of driven.ConfigStore on top of a
// Lookup. Stores embed it.
type Getters struct {
	lookup Lookup
}

// NewGetters wraps lookup.
func NewGetters(lookup Lookup) Getters {
	return Getters{lookup: lookup}
}

func (g Getters) raw(key string) any {
	if g.lookup == nil {
		return nil
	}
	v, _ := g.lookup(key)
	return v
}

// GetString returns "" for missing or non-string values.
func (g Getters) GetString(key string) string { return String(g.raw(key)) }

// GetInt truncates floats and returns 0 for anything else.
func (g Getters) GetInt(key string) int { return Int(g.raw(key)) }

// GetFloat widens integers.
func (g Getters) GetFloat(key string) float64 { return Float(g.raw(key)) }

// GetBool returns false for missing or non-bool values.
func (g Getters) GetBool(key string) bool { return Bool(g.raw(key)) }

// GetStringSlice drops non-string elements.
func (g Getters) GetStringSlice(key string) []string { return Strings(g.raw(key)) }

// GetDuration accepts a time.Duration or a string such as "30s".
func (g Getters) GetDuration(key string) time.Duration { return Duration(g.raw(key)) }

func String(v any) string {
	s, _ := v.(string)
	return s
}

func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

func Strings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func Duration(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		parsed, err := time.ParseDuration(d)
		if err == nil {
			return parsed
		}
	}
	return 0
}

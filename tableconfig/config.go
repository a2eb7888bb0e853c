// Package tableconfig holds the schema-less table configuration bag, the
// sticky-field contract and the merge applied when a preset is selected.
package tableconfig

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Config is a flat mapping from option name to value. Values are booleans,
// enum strings, numbers, hex colors or small structured lists. Absent options
// are unset; callers supply their own default.
type Config map[string]any

var ErrNotObject = errors.New("configuration must be a JSON object")

// Parse decodes a JSON object into a Config.
func Parse(data []byte) (Config, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Config(m), nil
}

// Clone returns a deep copy of c. Nested maps and slices are copied so the
// result shares no mutable state with c.
func Clone(c Config) Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Config:
		return map[string]any(Clone(val))
	case map[string]any:
		return map[string]any(Clone(Config(val)))
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i := range val {
			out[i] = val[i]
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b hold the same options with deeply equal
// values. Numbers compare by value regardless of their Go kind.
func Equal(a, b Config) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !valuesEqual(va, vb) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	a, b = cloneValue(a), cloneValue(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		return ok && Equal(Config(va), Config(vb))
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valuesEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Package content reads loosely typed CMS payloads. Any field may be absent,
// bare, or wrapped in a {"value": ...} envelope; absence is never an error.
package content

import (
	"fmt"
	"strconv"
	"strings"
)

// Payload is one CMS section as stored by the editor.
type Payload = map[string]any

// Lookup walks a dot separated path ("hero.cta.label", "logos.0") and
// reports whether a non-empty value was found.
func Lookup(payload any, path string) (any, bool) {
	cur := unwrap(payload)
	if path != "" {
		for _, seg := range strings.Split(path, ".") {
			next, ok := step(cur, seg)
			if !ok {
				// envelopes are already unwrapped, so an explicit "value" is a no-op
				if seg != "value" || cur == nil {
					return nil, false
				}
				next = cur
			}
			cur = unwrap(next)
		}
	}
	if isEmpty(cur) {
		return nil, false
	}
	return cur, true
}

// Resolve returns the first non-empty value among prop, the payload value at
// path (envelope or bare) and def.
func Resolve(payload any, path string, prop, def any) any {
	if !isEmpty(prop) {
		return prop
	}
	if v, ok := Lookup(payload, path); ok {
		return v
	}
	return def
}

func String(payload any, path, prop, def string) string {
	if strings.TrimSpace(prop) != "" {
		return prop
	}
	v, ok := Lookup(payload, path)
	if !ok {
		return def
	}
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case map[string]any, []any:
		return def
	default:
		return fmt.Sprint(x)
	}
}

// Strings returns the string members of a list field, or def when the field
// is absent or holds no strings.
func Strings(payload any, path string, def []string) []string {
	v, ok := Lookup(payload, path)
	if !ok {
		return def
	}
	var out []string
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, it := range list {
			if s, ok := unwrap(it).(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Items returns the object members of a list field with envelopes removed.
func Items(payload any, path string) []map[string]any {
	v, ok := Lookup(payload, path)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, it := range list {
		if m, ok := Unwrap(it).(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Unwrap removes {value} envelopes at every depth.
func Unwrap(v any) any {
	v = unwrap(v)
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, it := range x {
			out[k] = Unwrap(it)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = Unwrap(it)
		}
		return out
	default:
		return v
	}
}

func unwrap(v any) any {
	for {
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		inner, ok := m["value"]
		if !ok {
			return v
		}
		v = inner
	}
}

func step(cur any, seg string) (any, bool) {
	switch x := cur.(type) {
	case map[string]any:
		v, ok := x[seg]
		return v, ok
	case map[string]string:
		v, ok := x[seg]
		return v, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(x) {
			return nil, false
		}
		return x[i], true
	}
	return nil, false
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

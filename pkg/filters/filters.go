// Package filters defines the contract shared by all content filters, the
// named values ("assigns") a filter is constructed with, and the registry that
// resolves filter identifiers to implementations.
package filters

import "strconv"

// Params are per-invocation options passed to Run.
type Params map[string]any

// Filter transforms text content, e.g. Markdown into HTML.
type Filter interface {
	Run(content string, params Params) (string, error)
}

// Factory builds a filter instance for one filtering operation.
type Factory func(assigns Assigns) Filter

// UnimplementedFilter can be embedded by filters that do not provide Run yet.
type UnimplementedFilter struct{}

// Run always fails with ErrNotImplemented.
func (UnimplementedFilter) Run(string, Params) (string, error) {
	return "", ErrNotImplemented
}

// String returns the named param as a string, or def when it is absent.
func (p Params) String(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// Bool returns the named param as a bool, or def when it is absent.
// The strings "true" and "false" are accepted as well.
func (p Params) Bool(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		switch v {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return def
}

// Int returns the named param as an int, or def when it is absent or not a
// number.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

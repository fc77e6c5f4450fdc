// Package orm holds what the host-query adapters (sqlq, gormq) share: the fetch
// option keys they understand and the errors they return for bad options.
package orm

import (
	"errors"
	"strings"
)

// Fetch option keys. Unknown keys are ignored by every adapter.
const (
	OptWithRelated = "withRelated"
	OptColumns     = "columns"
)

var (
	// ErrUnknownRelation is returned when withRelated names a relation the model does not declare.
	ErrUnknownRelation = errors.New("unknown relation")
	// ErrUnknownColumn is returned when columns names a column the model does not declare.
	ErrUnknownColumn = errors.New("unknown column")
)

// StringList reads a fetch option that may be a comma separated string,
// a []string or a []any of strings. Blank entries are dropped.
func StringList(v any) []string {
	var parts []string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(t, ",")
	case []string:
		for _, s := range t {
			parts = append(parts, strings.Split(s, ",")...)
		}
	case []any:
		for _, s := range t {
			if str, ok := s.(string); ok {
				parts = append(parts, strings.Split(str, ",")...)
			}
		}
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

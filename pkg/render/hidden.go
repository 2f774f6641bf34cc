package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted with a rendered stage form, such as
// a CSRF token.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken builds a hidden field carrying token under name (for example
// "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// NormalizeHiddenFields drops unnamed fields, keeps the last value for
// duplicate names, and sorts by name so output is deterministic.
func NormalizeHiddenFields(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	out := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

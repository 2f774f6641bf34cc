package setup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/widget"
)

// Recap summarises the values submitted for a stage. It returns a single
// bullet list with one text item per form spec that received a value, in
// component order, or an empty slice when nothing was submitted. Secret
// values, including secret properties of objects, are masked.
func Recap(stage Stage, data FormData) []widget.Widget {
	var items []widget.Widget
	widget.Walk(stage.Components, func(w widget.Widget) bool {
		if w.Kind() != widget.KindFormSpec || w.ID == "" {
			return true
		}
		value, ok := data[w.ID]
		if !ok || value == nil {
			return true
		}
		title := w.ID
		if w.FormSpec != nil {
			if t := strings.TrimSpace(w.FormSpec.Title); t != "" {
				title = t
			}
			value = formspec.Redact(*w.FormSpec, value)
		}
		items = append(items, widget.Text(title+": "+recapValue(value), ""))
		return true
	})
	if len(items) == 0 {
		return []widget.Widget{}
	}
	return []widget.Widget{widget.List(widget.ListTypeBullet, items...)}
}

func recapValue(value any) string {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+": "+recapValue(typed[key]))
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, recapValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(typed)
	}
}

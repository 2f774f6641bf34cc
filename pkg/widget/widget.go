package widget

import "github.com/goliatone/go-quicksetup/pkg/formspec"

// List styles accepted by list_of_widgets descriptors.
const (
	ListTypeBullet  = "bullet"
	ListTypeOrdered = "ordered"
	ListTypeCheck   = "check"
)

// Widget is a single descriptor. Only the properties relevant to its kind
// are expected to be set; the rest stay zero.
type Widget struct {
	Type     string             `json:"widget_type" yaml:"widget_type"`
	Text     string             `json:"text,omitempty" yaml:"text,omitempty"`
	Tooltip  string             `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	ListType string             `json:"list_type,omitempty" yaml:"list_type,omitempty"`
	Items    []Widget           `json:"items,omitempty" yaml:"items,omitempty"`
	Title    string             `json:"title,omitempty" yaml:"title,omitempty"`
	ID       string             `json:"id,omitempty" yaml:"id,omitempty"`
	FormSpec *formspec.FormSpec `json:"form_spec,omitempty" yaml:"form_spec,omitempty"`
}

// Kind parses the descriptor's type tag.
func (w Widget) Kind() Kind {
	return ParseKind(w.Type)
}

// Text builds a text widget.
func Text(text, tooltip string) Widget {
	return Widget{Type: TagText, Text: text, Tooltip: tooltip}
}

// NoteText builds a note text widget.
func NoteText(text string) Widget {
	return Widget{Type: TagNoteText, Text: text}
}

// List builds a list_of_widgets widget. An empty listType defaults to bullet.
func List(listType string, items ...Widget) Widget {
	if listType == "" {
		listType = ListTypeBullet
	}
	return Widget{Type: TagListOfWidgets, ListType: listType, Items: items}
}

// Collapsible builds a collapsible section holding items.
func Collapsible(title string, items ...Widget) Widget {
	return Widget{Type: TagCollapsible, Title: title, Items: items}
}

// FormSpecWrapper builds a form_spec widget binding spec to id.
func FormSpecWrapper(id string, spec formspec.FormSpec) Widget {
	return Widget{Type: TagFormSpec, ID: id, FormSpec: &spec}
}

// Walk visits widgets depth first, parents before children. Returning false
// from fn skips the children of that widget.
func Walk(widgets []Widget, fn func(w Widget) bool) {
	if fn == nil {
		return
	}
	for _, w := range widgets {
		if !fn(w) {
			continue
		}
		if len(w.Items) > 0 {
			Walk(w.Items, fn)
		}
	}
}

// Package widgets resolves widget type tags to the renderer identity that
// draws them. The table is closed and fixed at initialisation: every input
// resolves to some identity, unknown tags fall back to RendererNone.
package widgets

import "github.com/goliatone/go-quicksetup/pkg/widget"

// RendererID names the component a host substitutes for a widget. Renderer
// packages register their implementations under these identities.
type RendererID string

// Built-in renderer identities.
const (
	RendererNone        RendererID = "none-widget"
	RendererText        RendererID = "text-widget"
	RendererNoteText    RendererID = "note-text-widget"
	RendererList        RendererID = "list-widget"
	RendererFormSpec    RendererID = "form-spec-widget"
	RendererCollapsible RendererID = "collapsible-widget"
)

func (id RendererID) String() string {
	return string(id)
}

// Entry pairs a wire tag with the identity it resolves to.
type Entry struct {
	Tag      string
	Renderer RendererID
}

// Resolve returns the renderer identity registered for tag, or RendererNone
// when the tag is not recognised.
func Resolve(tag string) RendererID {
	return ResolveKind(widget.ParseKind(tag))
}

// ResolveKind maps an already parsed kind to its renderer identity.
func ResolveKind(kind widget.Kind) RendererID {
	switch kind {
	case widget.KindText:
		return RendererText
	case widget.KindNoteText:
		return RendererNoteText
	case widget.KindListOfWidgets:
		return RendererList
	case widget.KindFormSpec:
		return RendererFormSpec
	case widget.KindCollapsible:
		return RendererCollapsible
	case widget.KindNone:
		return RendererNone
	default:
		return RendererNone
	}
}

// ResolveWidget resolves the descriptor's type tag.
func ResolveWidget(w widget.Widget) RendererID {
	return ResolveKind(w.Kind())
}

// Identities lists every renderer identity, the None fallback last.
func Identities() []RendererID {
	return []RendererID{
		RendererText,
		RendererNoteText,
		RendererList,
		RendererFormSpec,
		RendererCollapsible,
		RendererNone,
	}
}

// Table returns the known tag mapping in declaration order. The fallback is
// not listed since it has no tag of its own.
func Table() []Entry {
	kinds := widget.Kinds()
	out := make([]Entry, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, Entry{Tag: kind.Tag(), Renderer: ResolveKind(kind)})
	}
	return out
}

package widget

// Kind is the closed set of widget kinds understood by the renderers. Raw type
// tags are parsed into a Kind at the boundary; every tag that is not one of
// the known values becomes KindNone.
type Kind int

const (
	KindNone Kind = iota
	KindText
	KindNoteText
	KindListOfWidgets
	KindFormSpec
	KindCollapsible
)

// Wire tags used in widget documents.
const (
	TagNone          = "none"
	TagText          = "text"
	TagNoteText      = "note_text"
	TagListOfWidgets = "list_of_widgets"
	TagFormSpec      = "form_spec"
	TagCollapsible   = "collapsible"
)

// ParseKind maps a raw type tag to its Kind. Matching is exact and case
// sensitive; anything else, the empty string included, yields KindNone.
func ParseKind(tag string) Kind {
	switch tag {
	case TagText:
		return KindText
	case TagNoteText:
		return KindNoteText
	case TagListOfWidgets:
		return KindListOfWidgets
	case TagFormSpec:
		return KindFormSpec
	case TagCollapsible:
		return KindCollapsible
	default:
		return KindNone
	}
}

// Tag returns the wire tag for the kind.
func (k Kind) Tag() string {
	switch k {
	case KindText:
		return TagText
	case KindNoteText:
		return TagNoteText
	case KindListOfWidgets:
		return TagListOfWidgets
	case KindFormSpec:
		return TagFormSpec
	case KindCollapsible:
		return TagCollapsible
	default:
		return TagNone
	}
}

func (k Kind) String() string {
	return k.Tag()
}

// Known reports whether the kind is one of the recognised widget kinds.
func (k Kind) Known() bool {
	return k != KindNone && k.Tag() != TagNone
}

// Kinds lists the recognised kinds in declaration order, excluding KindNone.
func Kinds() []Kind {
	return []Kind{KindText, KindNoteText, KindListOfWidgets, KindFormSpec, KindCollapsible}
}

package components

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/widget"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

const templatePrefix = "templates/widgets/"

// Theme partial keys understood by the default components.
const (
	PartialText        = "widgets.text"
	PartialNoteText    = "widgets.note_text"
	PartialList        = "widgets.list_of_widgets"
	PartialFormSpec    = "widgets.form_spec"
	PartialCollapsible = "widgets.collapsible"
)

// DefaultPartials maps theme partial keys to the built-in templates.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialText:        templatePrefix + "text.tmpl",
		PartialNoteText:    templatePrefix + "note_text.tmpl",
		PartialList:        templatePrefix + "list.tmpl",
		PartialFormSpec:    templatePrefix + "form_spec.tmpl",
		PartialCollapsible: templatePrefix + "collapsible.tmpl",
	}
}

// NewDefaultRegistry returns a registry holding a component for every
// renderer identity.
func NewDefaultRegistry() *Registry {
	registry := New()
	partials := DefaultPartials()

	registry.MustRegister(widgets.RendererText, Descriptor{
		Renderer: templateComponent(PartialText, partials[PartialText], textPayload),
	})
	registry.MustRegister(widgets.RendererNoteText, Descriptor{
		Renderer: templateComponent(PartialNoteText, partials[PartialNoteText], textPayload),
	})
	registry.MustRegister(widgets.RendererList, Descriptor{
		Renderer: templateComponent(PartialList, partials[PartialList], listPayload),
	})
	registry.MustRegister(widgets.RendererFormSpec, Descriptor{
		Renderer: templateComponent(PartialFormSpec, partials[PartialFormSpec], formSpecPayload),
	})
	registry.MustRegister(widgets.RendererCollapsible, Descriptor{
		Renderer: templateComponent(PartialCollapsible, partials[PartialCollapsible], collapsiblePayload),
	})
	registry.MustRegister(widgets.RendererNone, Descriptor{
		Renderer: noneRenderer,
	})

	return registry
}

type payloadFunc func(w widget.Widget, data ComponentData) (map[string]any, error)

func templateComponent(partialKey, templateName string, payload payloadFunc) Renderer {
	return func(buf *bytes.Buffer, w widget.Widget, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		resolved := data.Theme.Partial(partialKey, templateName)

		values, err := payload(w, data)
		if err != nil {
			return err
		}
		rendered, err := data.Template.RenderTemplate(resolved, values)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func textPayload(w widget.Widget, data ComponentData) (map[string]any, error) {
	return map[string]any{
		"path":    data.Path,
		"text":    SanitizeText(w.Text),
		"tooltip": strings.TrimSpace(w.Tooltip),
	}, nil
}

func listPayload(w widget.Widget, data ComponentData) (map[string]any, error) {
	items, err := renderChildren(w, data)
	if err != nil {
		return nil, err
	}
	listType := strings.TrimSpace(w.ListType)
	switch listType {
	case widget.ListTypeOrdered, widget.ListTypeCheck:
	default:
		listType = widget.ListTypeBullet
	}
	return map[string]any{
		"path":      data.Path,
		"list_type": listType,
		"items":     items,
	}, nil
}

func collapsiblePayload(w widget.Widget, data ComponentData) (map[string]any, error) {
	items, err := renderChildren(w, data)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":      CollapsibleID(data.StageID, data.Path),
		"title":   strings.TrimSpace(w.Title),
		"content": strings.Join(items, ""),
	}, nil
}

func formSpecPayload(w widget.Widget, data ComponentData) (map[string]any, error) {
	var spec formspec.FormSpec
	if w.FormSpec != nil {
		spec = *w.FormSpec
	}

	value, hasValue := data.Values[w.ID]
	if !hasValue {
		value = spec.Default
	}

	kind := formspec.InputKind(spec)
	options := make([]map[string]any, 0)
	for _, option := range formspec.Options(spec) {
		options = append(options, map[string]any{
			"value":    option,
			"selected": optionSelected(value, option),
		})
	}

	var messages []string
	for _, msg := range data.Errors.For(w.ID) {
		text := msg.Message
		if len(msg.Location) > 0 {
			text = strings.Join(msg.Location, ".") + ": " + text
		}
		messages = append(messages, text)
	}

	title := strings.TrimSpace(spec.Title)
	if title == "" {
		title = w.ID
	}

	scalar := scalarValue(value)
	if kind == formspec.InputSecret {
		scalar = ""
	}

	var fields string
	if kind == formspec.InputObject {
		rendered, err := renderProperties(w.ID, spec, value, data)
		if err != nil {
			return nil, err
		}
		fields = rendered
	}

	return map[string]any{
		"id":         w.ID,
		"control_id": controlID(w.ID),
		"title":      title,
		"help":       strings.TrimSpace(spec.Help),
		"required":   spec.Required,
		"input_kind": kind,
		"input_type": inputType(kind),
		"value":      scalar,
		"checked":    value == true,
		"options":    options,
		"errors":     messages,
		"fields":     fields,
	}, nil
}

// renderProperties draws one nested form spec control per object property.
// Nested controls are named "<id>.<property>".
func renderProperties(id string, spec formspec.FormSpec, value any, data ComponentData) (string, error) {
	current, _ := value.(map[string]any)
	renderField := templateComponent(PartialFormSpec, DefaultPartials()[PartialFormSpec], formSpecPayload)

	var buf bytes.Buffer
	for _, prop := range formspec.Properties(spec) {
		childID := id + "." + prop.Name
		childData := data
		childData.Errors = nil
		childData.Values = nil
		if v, ok := current[prop.Name]; ok {
			childData.Values = map[string]any{childID: v}
		}
		if err := renderField(&buf, widget.FormSpecWrapper(childID, prop.Spec), childData); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// noneRenderer emits an empty placeholder so unknown widgets stay silent.
func noneRenderer(buf *bytes.Buffer, w widget.Widget, data ComponentData) error {
	buf.WriteString(`<div class="qs-widget qs-widget--none" data-widget-type="`)
	buf.WriteString(html.EscapeString(w.Type))
	buf.WriteString(`" data-widget-path="`)
	buf.WriteString(html.EscapeString(data.Path))
	buf.WriteString(`" hidden></div>`)
	return nil
}

func renderChildren(w widget.Widget, data ComponentData) ([]string, error) {
	if len(w.Items) == 0 || data.RenderChildren == nil {
		return []string{}, nil
	}
	return data.RenderChildren(w.Items)
}

// CollapsibleID derives a stable DOM id for a collapsible section from its
// position in the stage.
func CollapsibleID(stageID int, path string) string {
	name := fmt.Sprintf("quicksetup/stage/%d/%s", stageID, path)
	return "qs-collapsible-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func controlID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	return "qs-" + trimmed
}

func inputType(kind string) string {
	switch kind {
	case formspec.InputSecret:
		return "password"
	case formspec.InputNumber, formspec.InputInteger:
		return "number"
	default:
		return "text"
	}
}

func scalarValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

func optionSelected(value any, option string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case []any:
		for _, item := range v {
			if fmt.Sprint(item) == option {
				return true
			}
		}
		return false
	case []string:
		for _, item := range v {
			if item == option {
				return true
			}
		}
		return false
	default:
		return fmt.Sprint(v) == option
	}
}

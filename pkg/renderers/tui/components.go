package tui

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/widget"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

// Component draws a single widget in the terminal.
type Component func(ctx context.Context, s *Session, w widget.Widget) error

func defaultComponents() map[widgets.RendererID]Component {
	return map[widgets.RendererID]Component{
		widgets.RendererText:        textComponent,
		widgets.RendererNoteText:    noteTextComponent,
		widgets.RendererList:        listComponent,
		widgets.RendererFormSpec:    formSpecComponent,
		widgets.RendererCollapsible: collapsibleComponent,
		widgets.RendererNone:        noneComponent,
	}
}

var (
	plainPolicy     *bluemonday.Policy
	plainPolicyOnce sync.Once
)

// plainText strips markup so widget text prints cleanly.
func plainText(raw string) string {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(raw)))
}

func textComponent(ctx context.Context, s *Session, w widget.Widget) error {
	text := plainText(w.Text)
	if tooltip := plainText(w.Tooltip); tooltip != "" {
		text += " (" + tooltip + ")"
	}
	return s.Print(ctx, s.Styles().Text.Render(text))
}

func noteTextComponent(ctx context.Context, s *Session, w widget.Widget) error {
	return s.Print(ctx, s.Styles().Note.Render(plainText(w.Text)))
}

func listComponent(ctx context.Context, s *Session, w widget.Widget) error {
	for idx, item := range w.Items {
		if err := s.Nested(listMarker(w.ListType, idx)).render(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func listMarker(listType string, idx int) string {
	switch listType {
	case widget.ListTypeOrdered:
		return strconv.Itoa(idx+1) + "."
	case widget.ListTypeCheck:
		return "[ ]"
	default:
		return "-"
	}
}

// collapsibleComponent asks before expanding. Sections holding fields with
// reported errors default to expanded.
func collapsibleComponent(ctx context.Context, s *Session, w widget.Widget) error {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		title = "details"
	}
	expand, err := s.Driver().Confirm(ctx, ConfirmConfig{
		Message: s.Styles().Section.Render("Show " + title + "?"),
		Default: hasReportedErrors(s, w.Items),
	})
	if err != nil {
		return err
	}
	if !expand {
		return nil
	}
	return s.Nested("").RenderChildren(ctx, w.Items)
}

func hasReportedErrors(s *Session, items []widget.Widget) bool {
	found := false
	widget.Walk(items, func(w widget.Widget) bool {
		if w.Kind() == widget.KindFormSpec && len(s.State().ErrorsFor(w.ID)) > 0 {
			found = true
		}
		return !found
	})
	return found
}

func noneComponent(context.Context, *Session, widget.Widget) error {
	return nil
}

func formSpecComponent(ctx context.Context, s *Session, w widget.Widget) error {
	if strings.TrimSpace(w.ID) == "" {
		return ErrMissingFormSpecID
	}
	var spec formspec.FormSpec
	if w.FormSpec != nil {
		spec = *w.FormSpec
	}

	for _, msg := range s.State().ErrorsFor(w.ID) {
		if err := s.Print(ctx, s.Styles().Error.Render(msg)); err != nil {
			return err
		}
	}

	current, had := s.State().Value(w.ID)
	if !had {
		current = spec.Default
	}
	value, err := s.ask(ctx, w.ID, spec, current)
	if err != nil {
		return err
	}
	if value == nil && !had {
		return nil
	}
	s.State().Set(w.ID, value)
	return nil
}

// ask prompts until the answer passes formspec validation, giving up after
// the renderer's attempt limit. A schema that cannot compile fails at once
// since no answer could ever pass it.
func (s *Session) ask(ctx context.Context, id string, spec formspec.FormSpec, current any) (any, error) {
	if err := formspec.CheckSchema(spec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, id, err)
	}
	for attempt := 1; ; attempt++ {
		value, err := s.askOnce(ctx, id, spec, current)
		if err != nil {
			return nil, err
		}
		messages := formspec.Validate(spec, value)
		if len(messages) == 0 {
			return value, nil
		}
		for _, msg := range messages {
			text := msg.Message
			if len(msg.Location) > 0 {
				text = strings.Join(msg.Location, ".") + ": " + text
			}
			if err := s.Print(ctx, s.Styles().Error.Render(fmt.Sprintf("Invalid %s: %s", id, text))); err != nil {
				return nil, err
			}
		}
		if limit := s.renderer.maxAttempts; limit > 0 && attempt >= limit {
			return nil, fmt.Errorf("%w: %s after %d attempts", ErrTooManyAttempts, id, attempt)
		}
	}
}

func (s *Session) askOnce(ctx context.Context, id string, spec formspec.FormSpec, current any) (any, error) {
	label := strings.TrimSpace(spec.Title)
	if label == "" {
		label = id
	}
	help := strings.TrimSpace(spec.Help)
	driver := s.Driver()

	switch formspec.InputKind(spec) {
	case formspec.InputBoolean:
		def, _ := current.(bool)
		return driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: help})

	case formspec.InputEnum:
		values := formspec.EnumValues(spec)
		options := formspec.Options(spec)
		defaultIdx := -1
		if current != nil {
			defaultIdx = slices.Index(options, fmt.Sprint(current))
		}
		idx, err := driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: defaultIdx, Help: help})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(values) {
			return nil, nil
		}
		return values[idx], nil

	case formspec.InputMultiEnum:
		values := formspec.EnumValues(spec)
		options := formspec.Options(spec)
		var defaults []int
		if selected, ok := current.([]any); ok {
			for _, item := range selected {
				if idx := slices.Index(options, fmt.Sprint(item)); idx >= 0 {
					defaults = append(defaults, idx)
				}
			}
		}
		indices, err := driver.MultiSelect(ctx, SelectConfig{Message: label, Options: options, Defaults: defaults, Help: help})
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(values) {
				out = append(out, values[idx])
			}
		}
		return out, nil

	case formspec.InputObject:
		if err := s.Print(ctx, s.Styles().Section.Render(label)); err != nil {
			return nil, err
		}
		existing, _ := current.(map[string]any)
		nested := s.Nested("")
		out := make(map[string]any)
		for _, prop := range formspec.Properties(spec) {
			propCurrent, ok := existing[prop.Name]
			if !ok {
				propCurrent = prop.Spec.Default
			}
			value, err := nested.ask(ctx, id+"."+prop.Name, prop.Spec, propCurrent)
			if err != nil {
				return nil, err
			}
			if value != nil {
				out[prop.Name] = value
			}
		}
		if len(out) == 0 && !spec.Required {
			return nil, nil
		}
		return out, nil

	case formspec.InputSecret:
		raw, err := driver.Password(ctx, InputConfig{Message: label, Help: help})
		if err != nil {
			return nil, err
		}
		return emptyAsNil(raw), nil

	case formspec.InputInteger:
		raw, err := driver.Input(ctx, InputConfig{Message: label, Default: defaultString(current), Help: help})
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil, nil
		}
		if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return parsed, nil
		}
		// Unparseable input is handed to validation, which reports the type.
		return trimmed, nil

	case formspec.InputNumber:
		raw, err := driver.Input(ctx, InputConfig{Message: label, Default: defaultString(current), Help: help})
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil, nil
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return parsed, nil
		}
		return trimmed, nil

	default:
		raw, err := driver.Input(ctx, InputConfig{Message: label, Default: defaultString(current), Help: help})
		if err != nil {
			return nil, err
		}
		return emptyAsNil(raw), nil
	}
}

func emptyAsNil(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return raw
}

func defaultString(value any) string {
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

package vanilla

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-quicksetup/pkg/formspec"
	"github.com/goliatone/go-quicksetup/pkg/render"
	"github.com/goliatone/go-quicksetup/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-quicksetup/pkg/setup"
	"github.com/goliatone/go-quicksetup/pkg/widget"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

func sampleStage() setup.Stage {
	return setup.Stage{
		StageID:   1,
		Title:     "Prepare & connect",
		SubTitle:  "Create a monitoring user",
		ButtonTxt: "Next",
		Components: []widget.Widget{
			widget.Text("Hello <b>World</b><script>alert(1)</script>", "Tip"),
			{Type: "bogus_type", Text: "ignored"},
			widget.List(widget.ListTypeOrdered, widget.Text("first", ""), widget.Text("second", "")),
			widget.Collapsible("Advanced", widget.NoteText("Careful")),
			widget.FormSpecWrapper("account", formspec.FormSpec{
				Title:    "Account",
				Required: true,
				Schema:   map[string]any{"type": "string"},
			}),
		},
	}
}

func mustRender(t *testing.T, stage setup.Stage, opts render.RenderOptions, options ...Option) string {
	t.Helper()
	renderer, err := New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), stage, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func TestRenderer_RendersEveryWidgetKind(t *testing.T) {
	output := mustRender(t, sampleStage(), render.RenderOptions{Values: setup.FormData{"account": "prod"}})

	assertContains(t, output,
		`<form class="qs-stage" id="qs-stage-1" method="post" action="" data-stage-id="1">`,
		`<h2 class="qs-stage__title">Prepare &amp; connect</h2>`,
		`<p class="qs-stage__subtitle">Create a monitoring user</p>`,
		`<p class="qs-widget qs-widget--text" data-widget-path="0" title="Tip">Hello <b>World</b></p>`,
		`<div class="qs-widget qs-widget--none" data-widget-type="bogus_type" data-widget-path="1" hidden></div>`,
		`<ol class="qs-widget qs-widget--list qs-list--ordered" data-widget-path="2">`,
		`<li class="qs-list__item"><p class="qs-widget qs-widget--text" data-widget-path="2.0">first</p>`,
		`<li class="qs-list__item"><p class="qs-widget qs-widget--text" data-widget-path="2.1">second</p>`,
		`<details class="qs-widget qs-widget--collapsible" id="`+components.CollapsibleID(1, "3")+`">`,
		`<summary class="qs-collapsible__title">Advanced</summary>`,
		`<p class="qs-widget qs-widget--note" data-widget-path="3.0" role="note">Careful</p>`,
		`<input type="text" id="qs-account" name="account" value="prod" required>`,
		`<button type="submit" class="qs-stage__next">Next</button>`,
	)
	if strings.Contains(output, "alert(1)") || strings.Contains(output, "ignored") {
		t.Fatalf("unsafe or unknown widget content leaked:\n%s", output)
	}
}

func TestRenderer_FormSpecErrorsAndStageErrors(t *testing.T) {
	stage := sampleStage()
	errs := &setup.StageErrors{
		FormSpecErrors: map[string][]formspec.ValidationMessage{
			"account": {{Location: []string{}, Message: "Invalid string", InvalidValue: 5}},
		},
		StageErrors: []string{"this is a general error"},
	}

	output := mustRender(t, stage, render.RenderOptions{Errors: errs})
	assertContains(t, output,
		`qs-widget--invalid`,
		`aria-invalid="true"`,
		`<p class="qs-form-spec__error" role="alert">Invalid string</p>`,
		`<li>this is a general error</li>`,
	)
}

func TestRenderer_FormSpecInputKinds(t *testing.T) {
	stage := setup.Stage{
		StageID: 2,
		Components: []widget.Widget{
			widget.FormSpecWrapper("enabled", formspec.FormSpec{Title: "Enabled", Schema: map[string]any{"type": "boolean"}}),
			widget.FormSpecWrapper("region", formspec.FormSpec{
				Title:   "Region",
				Default: "us-east-1",
				Schema:  map[string]any{"type": "string", "enum": []any{"eu-central-1", "us-east-1"}},
			}),
			widget.FormSpecWrapper("services", formspec.FormSpec{
				Title: "Services",
				Schema: map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "enum": []any{"ec2", "s3"}},
				},
			}),
			widget.FormSpecWrapper("secret", formspec.FormSpec{Schema: map[string]any{"type": "string", "format": "password"}}),
		},
	}

	output := mustRender(t, stage, render.RenderOptions{Values: setup.FormData{
		"enabled":  true,
		"services": []any{"s3"},
		"secret":   "hunter2",
	}})

	assertContains(t, output,
		`<input type="checkbox" id="qs-enabled" name="enabled" value="true" checked> Enabled</label>`,
		`<option value="us-east-1" selected>us-east-1</option>`,
		`<option value="eu-central-1">eu-central-1</option>`,
		`<label><input type="checkbox" name="services" value="s3" checked> s3</label>`,
		`<label><input type="checkbox" name="services" value="ec2"> ec2</label>`,
		`<input type="password" id="qs-secret" name="secret" value="">`,
		`<label class="qs-form-spec__label" for="qs-secret">secret</label>`,
	)
	if strings.Contains(output, "hunter2") {
		t.Fatalf("secret value must not be echoed:\n%s", output)
	}
}

func TestRenderer_ThemeAndHiddenFields(t *testing.T) {
	theme := &render.ThemeConfig{
		Theme:   "acme",
		CSSVars: map[string]string{"--brand": "#123456", "--accent": "#fff"},
		AssetURL: func(key string) string {
			if key == "stylesheet" {
				return "/assets/acme.css"
			}
			return ""
		},
	}

	output := mustRender(t, setup.Stage{StageID: 4, Title: "Themed"}, render.RenderOptions{
		Theme:  theme,
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	}, WithFormAction("/setup/stages"))

	assertContains(t, output,
		`<link rel="stylesheet" href="/assets/acme.css">`,
		`action="/setup/stages"`,
		`style="--accent: #fff; --brand: #123456"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="stage_id" value="4">`,
	)
	if strings.Contains(output, "<button") {
		t.Fatalf("stage without button text should not render a button")
	}
}

func TestRenderer_ThemePartialOverrides(t *testing.T) {
	recorder := &recordingTemplates{}
	renderer, err := New(WithTemplateRenderer(recorder))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	theme := &render.ThemeConfig{Partials: map[string]string{
		components.PartialText: "themes/acme/text.tmpl",
		PartialStage:           "themes/acme/stage.tmpl",
	}}
	stage := setup.Stage{Components: []widget.Widget{widget.Text("a", ""), widget.NoteText("b")}}
	if _, err := renderer.Render(context.Background(), stage, render.RenderOptions{Theme: theme}); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{"themes/acme/text.tmpl", "templates/widgets/note_text.tmpl", "themes/acme/stage.tmpl"}
	if strings.Join(recorder.names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected templates %v", recorder.names)
	}
}

func TestRenderer_CustomComponentOverride(t *testing.T) {
	registry := components.NewDefaultRegistry()
	registry.MustRegister(widgets.RendererNone, components.Descriptor{
		Renderer: func(buf *bytes.Buffer, w widget.Widget, _ components.ComponentData) error {
			buf.WriteString(`<em>unsupported ` + w.Type + `</em>`)
			return nil
		},
		Stylesheets: []string{"/assets/unsupported.css"},
	})

	output := mustRender(t, setup.Stage{Components: []widget.Widget{{Type: "Text"}}}, render.RenderOptions{}, WithComponentRegistry(registry))
	assertContains(t, output,
		`<em>unsupported Text</em>`,
		`<link rel="stylesheet" href="/assets/unsupported.css">`,
	)
}

func TestRenderer_MissingFallbackErrors(t *testing.T) {
	registry := components.New()
	renderer, err := New(WithComponentRegistry(registry))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = renderer.Render(context.Background(), setup.Stage{Components: []widget.Widget{widget.Text("x", "")}}, render.RenderOptions{})
	if err == nil {
		t.Fatalf("expected error when no component and no fallback exist")
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %q %q", renderer.Name(), renderer.ContentType())
	}
	if got := len(renderer.Components().IDs()); got != len(widgets.Identities()) {
		t.Fatalf("default registry should cover every identity, got %d", got)
	}
}

type recordingTemplates struct {
	names []string
}

func (r *recordingTemplates) RenderTemplate(name string, _ any, _ ...io.Writer) (string, error) {
	r.names = append(r.names, name)
	return "", nil
}

func (r *recordingTemplates) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (r *recordingTemplates) GlobalContext(any) error {
	return nil
}

func TestRenderer_ObjectFormSpecRendersProperties(t *testing.T) {
	stage := setup.Stage{
		StageID: 1,
		Components: []widget.Widget{
			widget.FormSpecWrapper("formspec_unique_id", formspec.FormSpec{
				Title:    "Bundle",
				Required: true,
				Schema: map[string]any{
					"type":     "object",
					"required": []any{"bundle_id"},
					"properties": map[string]any{
						"bundle_id": map[string]any{"type": "string", "title": "Bundle ID"},
					},
				},
			}),
		},
	}

	output := mustRender(t, stage, render.RenderOptions{Values: setup.FormData{
		"formspec_unique_id": map[string]any{"bundle_id": "aws-prod"},
	}})
	assertContains(t, output,
		`<fieldset class="qs-form-spec__object" id="qs-formspec_unique_id">`,
		`<legend class="qs-form-spec__label">Bundle</legend>`,
		`<label class="qs-form-spec__label" for="qs-formspec_unique_id.bundle_id">Bundle ID</label>`,
		`<input type="text" id="qs-formspec_unique_id.bundle_id" name="formspec_unique_id.bundle_id" value="aws-prod" required>`,
	)
}

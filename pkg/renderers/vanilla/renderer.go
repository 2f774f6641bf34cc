package vanilla

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-quicksetup/pkg/render"
	rendertemplate "github.com/goliatone/go-quicksetup/pkg/render/template"
	"github.com/goliatone/go-quicksetup/pkg/render/template/gotemplate"
	"github.com/goliatone/go-quicksetup/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-quicksetup/pkg/setup"
	"github.com/goliatone/go-quicksetup/pkg/widget"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

// Name is the identifier the renderer registers under.
const Name = "vanilla"

// PartialStage is the theme partial key for the stage wrapper template.
const PartialStage = "stage"

const stageTemplate = "templates/stage.tmpl"

// DefaultPartials lists every theme partial key the renderer understands with
// its built-in template, for use as theme fallbacks.
func DefaultPartials() map[string]string {
	partials := components.DefaultPartials()
	partials[PartialStage] = stageTemplate
	return partials
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	action           string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithFormAction sets the action attribute of the stage form.
func WithFormAction(action string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
	}
}

// Renderer renders stages to HTML. Each widget is resolved to a renderer
// identity and drawn by the component registered for it.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	action     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	registry := cfg.components
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{templates: renderer, components: registry, action: cfg.action}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Components exposes the component registry so callers can override
// individual widgets.
func (r *Renderer) Components() *components.Registry {
	return r.components
}

type renderState struct {
	stageID int
	opts    render.RenderOptions
	used    map[widgets.RendererID]struct{}
}

// Render draws the stage with its components.
func (r *Renderer) Render(ctx context.Context, stage setup.Stage, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := &renderState{
		stageID: stage.StageID,
		opts:    opts,
		used:    make(map[widgets.RendererID]struct{}),
	}
	fragments, err := r.renderWidgets(stage.Components, "", state)
	if err != nil {
		return nil, err
	}

	var stageErrors []string
	if opts.Errors != nil {
		stageErrors = opts.Errors.StageErrors
	}

	hidden := make([]map[string]any, 0, len(opts.Hidden))
	for _, field := range render.NormalizeHiddenFields(opts.Hidden) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	result, err := r.templates.RenderTemplate(opts.Theme.Partial(PartialStage, stageTemplate), map[string]any{
		"stage": map[string]any{
			"stage_id":   stage.StageID,
			"title":      stage.Title,
			"sub_title":  stage.SubTitle,
			"button_txt": stage.ButtonTxt,
		},
		"action":       r.action,
		"components":   strings.Join(fragments, ""),
		"stage_errors": stageErrors,
		"hidden":       hidden,
		"stylesheets":  r.stylesheets(state, opts.Theme),
		"css_vars":     cssVarStyle(opts.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderWidgets(items []widget.Widget, parent string, state *renderState) ([]string, error) {
	out := make([]string, 0, len(items))
	for idx, item := range items {
		path := strconv.Itoa(idx)
		if parent != "" {
			path = parent + "." + path
		}
		fragment, err := r.renderWidget(item, path, state)
		if err != nil {
			return nil, err
		}
		out = append(out, fragment)
	}
	return out, nil
}

func (r *Renderer) renderWidget(item widget.Widget, path string, state *renderState) (string, error) {
	id := widgets.ResolveWidget(item)
	descriptor, ok := r.components.Component(id)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: no component for %q and no fallback registered", id)
	}
	state.used[descriptor.ID] = struct{}{}

	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, item, components.ComponentData{
		Template: r.templates,
		RenderChildren: func(children []widget.Widget) ([]string, error) {
			return r.renderWidgets(children, path, state)
		},
		Values:  state.opts.Values,
		Errors:  state.opts.Errors,
		Theme:   state.opts.Theme,
		StageID: state.stageID,
		Path:    path,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: widget %s (%s): %w", path, id, err)
	}
	return buf.String(), nil
}

func (r *Renderer) stylesheets(state *renderState, theme *render.ThemeConfig) []string {
	ids := make([]widgets.RendererID, 0, len(state.used))
	for id := range state.used {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := r.components.Stylesheets(ids)
	if theme != nil && theme.AssetURL != nil {
		if href := theme.AssetURL("stylesheet"); href != "" {
			out = append(out, href)
		}
	}
	return out
}

func cssVarStyle(theme *render.ThemeConfig) string {
	if theme == nil || len(theme.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(theme.CSSVars))
	for name := range theme.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+theme.CSSVars[name])
	}
	return strings.Join(parts, "; ")
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-quicksetup/pkg/render"
	"github.com/goliatone/go-quicksetup/pkg/renderers/tui"
	"github.com/goliatone/go-quicksetup/pkg/renderers/vanilla"
	"github.com/goliatone/go-quicksetup/pkg/setup"
	"github.com/goliatone/go-quicksetup/pkg/widget"
)

const (
	defaultRendererName = vanilla.Name
	tracerName          = "github.com/goliatone/go-quicksetup/pkg/orchestrator"
)

// DocumentLoader loads quick setup documents from a source.
type DocumentLoader interface {
	Load(ctx context.Context, src setup.Source) (setup.QuickSetup, error)
}

// SaveFunc persists a completed quick setup and returns the URL the client
// should be redirected to.
type SaveFunc func(ctx context.Context, doc setup.QuickSetup, stages []setup.IncomingStage) (string, error)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader DocumentLoader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks replaces the partials used when a theme leaves a key
// undefined.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer overrides the tracer obtained from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithValidators registers general validators for stageID. A zero stageID
// applies the validators to every stage.
func WithValidators(stageID int, validators ...setup.StageValidator) Option {
	return func(o *Orchestrator) {
		if len(validators) == 0 {
			return
		}
		if o.validators == nil {
			o.validators = make(map[int][]setup.StageValidator)
		}
		o.validators[stageID] = append(o.validators[stageID], validators...)
	}
}

// WithSaveAction configures how completed quick setups are persisted.
func WithSaveAction(save SaveFunc) Option {
	return func(o *Orchestrator) {
		o.save = save
	}
}

// Orchestrator coordinates loading a quick setup, selecting a stage, resolving
// the theme and rendering, plus validating submitted stages. It applies
// sensible defaults (vanilla and tui renderers) while remaining open to
// dependency injection.
type Orchestrator struct {
	loader          DocumentLoader
	registry        *render.Registry
	defaultRenderer string
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	logger          *zap.Logger
	tracer          trace.Tracer
	validators      map[int][]setup.StageValidator
	save            SaveFunc
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to work with a quick setup stage.
type Request struct {
	// Source identifies where the quick setup document lives. Optional when
	// Document is supplied.
	Source setup.Source

	// Document allows callers to bypass the loader.
	Document *setup.QuickSetup

	// StageID selects the stage to render; zero selects the first stage.
	StageID int

	// Renderer names the renderer to use, falling back to the default.
	Renderer string

	// RenderOptions carries prefilled values, errors, and hidden fields.
	RenderOptions render.RenderOptions

	ThemeName    string
	ThemeVariant string
}

// SetupOverview is the payload returned when a client opens a quick setup.
type SetupOverview struct {
	QuickSetupID        string                `json:"quick_setup_id"`
	Title               string                `json:"title"`
	ButtonCompleteLabel string                `json:"button_complete_label,omitempty"`
	Overviews           []setup.StageOverview `json:"overviews"`
	Stage               setup.Stage           `json:"stage"`
}

// StageResponse answers a submitted stage. Valid submissions carry the next
// stage; rejected ones keep the submitted stage id, report errors, and leave
// ButtonTxt nil.
type StageResponse struct {
	StageID    int                `json:"stage_id"`
	Components []widget.Widget    `json:"components,omitempty"`
	Errors     *setup.StageErrors `json:"errors"`
	StageRecap []widget.Widget    `json:"stage_recap"`
	ButtonTxt  *string            `json:"button_txt"`
	Complete   bool               `json:"complete,omitempty"`
}

// Valid reports whether the submitted stage passed validation.
func (r StageResponse) Valid() bool {
	return r.Errors == nil
}

// CompleteResponse answers a completed quick setup.
type CompleteResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// Generate loads the quick setup, picks the requested stage, resolves the
// theme, and renders the stage with the named renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (out []byte, err error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	ctx, span := o.tracer.Start(ctx, "quicksetup.generate")
	defer func() { endSpan(span, err) }()

	if err := o.ready(ctx); err != nil {
		return nil, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	stage, err := doc.Stage(req.StageID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	span.SetAttributes(
		attribute.String("quicksetup.id", doc.ID),
		attribute.Int("quicksetup.stage_id", stage.StageID),
		attribute.String("quicksetup.renderer", renderer.Name()),
	)
	o.logger.Debug("rendering stage",
		zap.String("quick_setup", doc.ID),
		zap.Int("stage_id", stage.StageID),
		zap.String("renderer", renderer.Name()),
		zap.Int("components", len(stage.Components)),
	)

	output, err := renderer.Render(ctx, stage, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Overview returns the stage overview together with the first stage.
func (o *Orchestrator) Overview(ctx context.Context, req Request) (SetupOverview, error) {
	if ctx == nil {
		return SetupOverview{}, errors.New("orchestrator: context is required")
	}
	if err := o.ready(ctx); err != nil {
		return SetupOverview{}, err
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return SetupOverview{}, err
	}
	first, err := doc.Stage(0)
	if err != nil {
		return SetupOverview{}, fmt.Errorf("orchestrator: %w", err)
	}
	return SetupOverview{
		QuickSetupID:        doc.ID,
		Title:               doc.Title,
		ButtonCompleteLabel: doc.ButtonCompleteLabel,
		Overviews:           doc.Overview(),
		Stage:               first,
	}, nil
}

// Validate checks a submitted stage. A rejected submission is not an error:
// it is reported through StageResponse.Errors.
func (o *Orchestrator) Validate(ctx context.Context, req Request, incoming setup.IncomingStage) (resp StageResponse, err error) {
	if ctx == nil {
		return StageResponse{}, errors.New("orchestrator: context is required")
	}
	ctx, span := o.tracer.Start(ctx, "quicksetup.validate")
	defer func() { endSpan(span, err) }()

	if err := o.ready(ctx); err != nil {
		return StageResponse{}, err
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return StageResponse{}, err
	}
	stage, err := submittedStage(doc, incoming.StageID)
	if err != nil {
		return StageResponse{}, err
	}

	span.SetAttributes(
		attribute.String("quicksetup.id", doc.ID),
		attribute.Int("quicksetup.stage_id", stage.StageID),
	)

	if errs := setup.ValidateStage(stage, incoming.FormData, o.validatorsFor(stage.StageID)...); errs != nil {
		span.SetAttributes(attribute.Bool("quicksetup.valid", false))
		o.logger.Info("stage rejected",
			zap.String("quick_setup", doc.ID),
			zap.Int("stage_id", stage.StageID),
			zap.Int("formspec_errors", len(errs.FormSpecErrors)),
			zap.Int("stage_errors", len(errs.StageErrors)),
		)
		return StageResponse{
			StageID:    stage.StageID,
			Errors:     errs,
			StageRecap: []widget.Widget{},
		}, nil
	}
	span.SetAttributes(attribute.Bool("quicksetup.valid", true))

	recap := setup.Recap(stage, incoming.FormData)
	next, ok := doc.Next(stage.StageID)
	if !ok {
		label := doc.ButtonCompleteLabel
		return StageResponse{
			StageID:    stage.StageID,
			StageRecap: recap,
			ButtonTxt:  &label,
			Complete:   true,
		}, nil
	}

	o.logger.Debug("stage accepted",
		zap.String("quick_setup", doc.ID),
		zap.Int("stage_id", stage.StageID),
		zap.Int("next_stage_id", next.StageID),
	)
	button := next.ButtonTxt
	return StageResponse{
		StageID:    next.StageID,
		Components: next.Components,
		StageRecap: recap,
		ButtonTxt:  &button,
	}, nil
}

// Complete validates every submitted stage and hands them to the save
// action. The first rejected stage is returned as a *StageRejectedError.
func (o *Orchestrator) Complete(ctx context.Context, req Request, stages []setup.IncomingStage) (resp CompleteResponse, err error) {
	if ctx == nil {
		return CompleteResponse{}, errors.New("orchestrator: context is required")
	}
	ctx, span := o.tracer.Start(ctx, "quicksetup.complete")
	defer func() { endSpan(span, err) }()

	if err := o.ready(ctx); err != nil {
		return CompleteResponse{}, err
	}
	if o.save == nil {
		return CompleteResponse{}, ErrNoSaveAction
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return CompleteResponse{}, err
	}

	for _, incoming := range stages {
		stage, err := submittedStage(doc, incoming.StageID)
		if err != nil {
			return CompleteResponse{}, err
		}
		if errs := setup.ValidateStage(stage, incoming.FormData, o.validatorsFor(stage.StageID)...); errs != nil {
			return CompleteResponse{}, &StageRejectedError{StageID: stage.StageID, Errors: errs}
		}
	}

	redirect, err := o.save(ctx, doc, stages)
	if err != nil {
		return CompleteResponse{}, fmt.Errorf("orchestrator: save quick setup: %w", err)
	}
	o.logger.Info("quick setup completed",
		zap.String("quick_setup", doc.ID),
		zap.Int("stages", len(stages)),
	)
	return CompleteResponse{RedirectURL: redirect}, nil
}

// SubmittedStage returns the stage a submission with stageID targets. Unlike
// rendering, a submission must name its stage, so zero is unknown.
func (o *Orchestrator) SubmittedStage(ctx context.Context, req Request, stageID int) (setup.Stage, error) {
	if ctx == nil {
		return setup.Stage{}, errors.New("orchestrator: context is required")
	}
	if err := o.ready(ctx); err != nil {
		return setup.Stage{}, err
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return setup.Stage{}, err
	}
	return submittedStage(doc, stageID)
}

func submittedStage(doc setup.QuickSetup, stageID int) (setup.Stage, error) {
	if stageID == 0 {
		return setup.Stage{}, fmt.Errorf("orchestrator: %w", &setup.UnknownStageError{StageID: stageID})
	}
	stage, err := doc.Stage(stageID)
	if err != nil {
		return setup.Stage{}, fmt.Errorf("orchestrator: %w", err)
	}
	return stage, nil
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (setup.QuickSetup, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return setup.QuickSetup{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return setup.QuickSetup{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	renderer, err := o.registry.Select(name, o.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*render.ThemeConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return render.ThemeConfigFromSelection(selection, o.themeFallbacks), nil
}

func (o *Orchestrator) validatorsFor(stageID int) []setup.StageValidator {
	if len(o.validators) == 0 {
		return nil
	}
	out := append([]setup.StageValidator(nil), o.validators[0]...)
	if stageID != 0 {
		out = append(out, o.validators[stageID]...)
	}
	return out
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = setup.NewLoader()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		html, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(html)

		terminal, err := tui.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: tui renderer: %w", err)
			return
		}
		o.registry.MustRegister(terminal)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func defaultThemeFallbacks() map[string]string {
	return vanilla.DefaultPartials()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

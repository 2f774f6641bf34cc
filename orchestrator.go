package quicksetup

import (
	"context"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-quicksetup/pkg/orchestrator"
	"github.com/goliatone/go-quicksetup/pkg/render"
	"github.com/goliatone/go-quicksetup/pkg/setup"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request for callers using the root package.
type Request = orchestrator.Request

// StageResponse aliases the answer to a submitted stage.
type StageResponse = orchestrator.StageResponse

// RendererID aliases widgets.RendererID.
type RendererID = widgets.RendererID

// Resolve maps a widget type tag to the identity of the renderer that draws
// it. Unknown tags resolve to the none renderer.
func Resolve(tag string) RendererID {
	return widgets.Resolve(tag)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the quick setup from source and renders the requested
// stage (zero for the first) with the named renderer. It is the simplest
// entry point for callers that just want HTML output.
func GenerateHTML(ctx context.Context, source setup.Source, stageID int, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		StageID:  stageID,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromDocument renders a stage of an already loaded quick setup.
func GenerateHTMLFromDocument(ctx context.Context, doc setup.QuickSetup, stageID int, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: &doc,
		StageID:  stageID,
		Renderer: rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

// WithLogger forwards a zap logger to the orchestrator.
func WithLogger(logger *zap.Logger) orchestrator.Option {
	return orchestrator.WithLogger(logger)
}

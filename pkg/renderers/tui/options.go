package tui

import (
	"io"

	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

// OutputFormat controls how the collected stage is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the incoming stage payload as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithOutput directs messages printed by the default survey driver.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		r.out = out
	}
}

// WithStyles replaces the lipgloss styles used for printed messages.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// WithComponent registers or replaces the component drawn for id.
func WithComponent(id widgets.RendererID, component Component) Option {
	return func(r *Renderer) {
		if id == "" || component == nil {
			return
		}
		if r.components == nil {
			r.components = defaultComponents()
		}
		r.components[id] = component
	}
}

// DefaultMaxAttempts bounds how often a form spec is re-prompted after a
// failed validation.
const DefaultMaxAttempts = 5

// WithMaxAttempts sets how many answers a form spec may reject before the
// render fails with ErrTooManyAttempts. Zero or less means no limit.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		r.maxAttempts = n
	}
}

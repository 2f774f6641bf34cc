package render

import "github.com/goliatone/go-quicksetup/pkg/setup"

// RenderOptions carry per-request data renderers use without touching the
// stage definition.
type RenderOptions struct {
	// Values prefills form spec widgets, keyed by form spec id.
	Values setup.FormData
	// Errors surfaces validation feedback from a previous submission.
	Errors *setup.StageErrors
	// Theme holds resolved partial overrides, tokens, and asset URLs.
	Theme *ThemeConfig
	// Hidden lists extra hidden inputs for HTML forms.
	Hidden []HiddenField
	// OnUpdate receives the update notification interactive components emit
	// whenever a value changes.
	OnUpdate func(setup.Update)
}

// Emit forwards update to OnUpdate when one is configured.
func (o RenderOptions) Emit(update setup.Update) {
	if o.OnUpdate != nil {
		o.OnUpdate(update)
	}
}

package components

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-quicksetup/pkg/render"
	rendertemplate "github.com/goliatone/go-quicksetup/pkg/render/template"
	"github.com/goliatone/go-quicksetup/pkg/setup"
	"github.com/goliatone/go-quicksetup/pkg/widget"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

// Renderer writes the HTML for a single widget into buf.
type Renderer func(buf *bytes.Buffer, w widget.Widget, data ComponentData) error

// ComponentData carries helpers and per-request state for component
// renderers.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// RenderChildren renders nested widgets through the host, returning one
	// fragment per item.
	RenderChildren func(items []widget.Widget) ([]string, error)
	Values         setup.FormData
	Errors         *setup.StageErrors
	Theme          *render.ThemeConfig
	// StageID and Path locate the widget inside the stage; Path is the dotted
	// index path of the widget in the component tree.
	StageID int
	Path    string
}

// Descriptor bundles a renderer with the stylesheets it depends on.
type Descriptor struct {
	ID          widgets.RendererID
	Renderer    Renderer
	Stylesheets []string
}

// Registry maps renderer identities to component descriptors.
type Registry struct {
	mu         sync.RWMutex
	components map[widgets.RendererID]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[widgets.RendererID]Descriptor),
	}
}

// Clone returns a copy that can be mutated independently.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for id, descriptor := range r.components {
		cloned.components[id] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates descriptor with id, replacing any previous entry.
func (r *Registry) Register(id widgets.RendererID, descriptor Descriptor) error {
	if id == "" {
		return fmt.Errorf("components: renderer id is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.ID = id
	r.components[id] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(id widgets.RendererID, descriptor Descriptor) {
	if err := r.Register(id, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches the descriptor registered for id.
func (r *Registry) Descriptor(id widgets.RendererID) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[id]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Component returns the descriptor for id, falling back to the component
// registered for widgets.RendererNone. ok is false only when neither exists.
func (r *Registry) Component(id widgets.RendererID) (Descriptor, bool) {
	if descriptor, ok := r.Descriptor(id); ok {
		return descriptor, true
	}
	return r.Descriptor(widgets.RendererNone)
}

// IDs returns the registered identities, sorted.
func (r *Registry) IDs() []widgets.RendererID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]widgets.RendererID, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Stylesheets collects the unique stylesheets of the given components in
// first-seen order.
func (r *Registry) Stylesheets(ids []widgets.RendererID) []string {
	if len(ids) == 0 {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	seen := make(map[string]struct{})
	for _, id := range ids {
		for _, href := range r.components[id].Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seen[href]; exists {
				continue
			}
			seen[href] = struct{}{}
			out = append(out, href)
		}
	}
	return out
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		ID:          src.ID,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
	}
}

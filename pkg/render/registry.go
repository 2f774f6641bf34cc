package render

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrRendererNotFound is wrapped when a named renderer is not registered.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrNoRenderers is returned by Select on an empty registry.
	ErrNoRenderers = errors.New("render: no renderers registered")
)

// Registry holds the renderers a host can draw stages with, keyed by Name().
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds renderer under its name. A second renderer with the same
// name is rejected.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.renderers[name]; dup {
		return fmt.Errorf("render: duplicate renderer %q", name)
	}
	r.renderers[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for init-time wiring; it panics on failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.renderers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

func (r *Registry) MustGet(name string) Renderer {
	renderer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return renderer
}

// Select picks the renderer for a request. An explicit name must be
// registered. Without one, fallback is used when registered, else the
// renderer registered first.
func (r *Registry) Select(name, fallback string) (Renderer, error) {
	if name != "" {
		return r.Get(name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[fallback]; ok && fallback != "" {
		return renderer, nil
	}
	if len(r.order) == 0 {
		return nil, ErrNoRenderers
	}
	return r.renderers[r.order[0]], nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := slices.Clone(r.order)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[name]
	return ok
}

package render

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formkit/pkg/component"
)

// PageRenderer turns a page into output of a given content type.
type PageRenderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page *component.Page) (Result, error)
}

var _ PageRenderer = (*Renderer)(nil)

// Registry stores page renderers by name.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]PageRenderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]PageRenderer),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer PageRenderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer PageRenderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (PageRenderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

// DefaultRegistry returns a registry holding the two built-in renderers:
// "markup" keeps component id attributes, "html" strips them.
func DefaultRegistry(options ...Option) *Registry {
	registry := NewRegistry()
	registry.MustRegister(New(append(append([]Option(nil), options...), WithName("markup"), WithStripComponentIDs(false))...))
	registry.MustRegister(New(append(append([]Option(nil), options...), WithName("html"), WithStripComponentIDs(true))...))
	return registry
}

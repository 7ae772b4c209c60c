package pagedef

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/choice"
	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// Factory builds the component for a definition node. Children are attached
// by the builder when the result is a container.
type Factory func(scope *Scope, def Component) (component.Component, error)

// Registry maps component types to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the container, checkgroup and radio
// factories.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(TypeContainer, newContainer)
	registry.MustRegister(TypeCheckGroup, newCheckGroup)
	registry.MustRegister(TypeRadio, newRadio)
	return registry
}

// Register adds a factory. Type names are case-insensitive; duplicates are
// rejected.
func (r *Registry) Register(typ string, factory Factory) error {
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return fmt.Errorf("pagedef: factory type is required")
	}
	if factory == nil {
		return fmt.Errorf("pagedef: factory for %q is nil", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("pagedef: factory %q already registered", key)
	}
	r.factories[key] = factory
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(typ string, factory Factory) {
	if err := r.Register(typ, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory for typ.
func (r *Registry) Lookup(typ string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(typ))]
	return factory, ok
}

// Types lists the registered types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for typ := range r.factories {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

func newContainer(_ *Scope, def Component) (component.Component, error) {
	return component.NewContainer(def.ID), nil
}

func newCheckGroup(scope *Scope, def Component) (component.Component, error) {
	values, renderer, options, err := scope.choiceSetup(def)
	if err != nil {
		return nil, err
	}
	group := choice.NewCheckGroup(def.ID, values, options...)
	group.SetChoiceRenderer(renderer)
	configureChoice(group.SetInputAttributes, group.SetLabelAttributes, def)
	if len(def.Selected) > 0 {
		group.SetSelected(def.Selected...)
	}
	return group, nil
}

func newRadio(scope *Scope, def Component) (component.Component, error) {
	values, renderer, options, err := scope.choiceSetup(def)
	if err != nil {
		return nil, err
	}
	radio := choice.NewRadioChoice(def.ID, values, options...)
	radio.SetChoiceRenderer(renderer)
	configureChoice(radio.SetInputAttributes, radio.SetLabelAttributes, def)
	switch len(def.Selected) {
	case 0:
	case 1:
		radio.SetSelected(def.Selected[0])
	default:
		return nil, fmt.Errorf("radio %q selects %d values", def.ID, len(def.Selected))
	}
	return radio, nil
}

func configureChoice(setInput, setLabel func(choice.AttributesFunc[string]), def Component) {
	if pattern := strings.TrimSpace(def.InputClass); pattern != "" {
		setInput(classPattern(def.ID, pattern))
	}
	if pattern := strings.TrimSpace(def.LabelClass); pattern != "" {
		setLabel(classPattern(def.ID, pattern))
	}
}

// classPattern expands {index}, {value} and {id} in a class attribute
// pattern such as "input{index}".
func classPattern(id, pattern string) choice.AttributesFunc[string] {
	return func(index int, value string) markup.Attributes {
		replacer := strings.NewReplacer(
			"{index}", fmt.Sprint(index),
			"{value}", value,
			"{id}", id,
		)
		return markup.Attrs("class", replacer.Replace(pattern))
	}
}

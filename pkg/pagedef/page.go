package pagedef

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/choice"
	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Page is a built definition. Values may be changed between renders; rules
// read them on every evaluation.
type Page struct {
	*component.Page

	Definition Definition
	Values     map[string]any
	Extras     map[string]any

	byPath map[string]component.Component
	order  []string
}

// Component returns the component built for a definition path.
func (p *Page) Component(path string) (component.Component, bool) {
	c, ok := p.byPath[path]
	return c, ok
}

// Paths lists the built component paths in definition order.
func (p *Page) Paths() []string {
	return append([]string(nil), p.order...)
}

// VisibilityContext returns the data rules are evaluated against: the page
// values, plus the current selection of every choice component under its
// path unless a value with that key exists.
func (p *Page) VisibilityContext() visibility.Context {
	values := cloneValues(p.Values)
	for _, selectable := range p.Selectables() {
		if _, exists := values[selectable.Path()]; exists {
			continue
		}
		selected := selectable.SelectedValues()
		items := make([]any, len(selected))
		for i, value := range selected {
			items[i] = value
		}
		values[selectable.Path()] = items
	}
	return visibility.Context{Values: values, Extras: p.Extras}
}

// Selectable is a string choice component built from a definition.
type Selectable struct {
	component.Component

	Multiple bool
	choices  func() []string
	selected func() []string
	update   func([]string) error
}

// Choices returns the available values.
func (s Selectable) Choices() []string { return s.choices() }

// SelectedValues returns the selected values.
func (s Selectable) SelectedValues() []string { return s.selected() }

// Select replaces the selection with values, which must be choices.
func (s Selectable) Select(values []string) error { return s.update(values) }

// Selectables returns the choice components in definition order.
func (p *Page) Selectables() []Selectable {
	var out []Selectable
	for _, path := range p.order {
		switch c := p.byPath[path].(type) {
		case *choice.CheckGroup[string]:
			out = append(out, Selectable{
				Component: c,
				Multiple:  true,
				choices:   c.Choices,
				selected:  c.Selected,
				update:    func(values []string) error { return selectValues(c.Choices(), values, c.SetSelected) },
			})
		case *choice.RadioChoice[string]:
			out = append(out, Selectable{
				Component: c,
				choices:   c.Choices,
				selected: func() []string {
					if value, ok := c.Selected(); ok {
						return []string{value}
					}
					return nil
				},
				update: func(values []string) error {
					if len(values) == 0 {
						c.ClearSelection()
						return nil
					}
					return selectValues(c.Choices(), values[:1], func(v ...string) { c.SetSelected(v[0]) })
				},
			})
		}
	}
	return out
}

func selectValues(choices, values []string, set func(...string)) error {
	known := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		known[c] = struct{}{}
	}
	for _, value := range values {
		if _, ok := known[value]; !ok {
			return fmt.Errorf("%w %q", choice.ErrUnknownChoice, value)
		}
	}
	set(values...)
	return nil
}

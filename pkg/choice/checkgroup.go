package choice

import "github.com/goliatone/go-formkit/pkg/component"

// CheckGroup renders a list of choices as checkboxes; any subset can be
// selected.
type CheckGroup[T comparable] struct {
	*core[T]
}

var _ component.BodyRenderer = (*CheckGroup[string])(nil)
var _ component.TagHandler = (*CheckGroup[string])(nil)

// NewCheckGroup builds a checkbox group over choices.
func NewCheckGroup[T comparable](id string, choices []T, options ...Option) *CheckGroup[T] {
	return &CheckGroup[T]{core: newCore(id, "checkbox", choices, options)}
}

// SetSelected replaces the selection. Values that are not choices never
// render as checked.
func (g *CheckGroup[T]) SetSelected(values ...T) {
	g.selected = append([]T(nil), values...)
}

// Selected returns the current selection.
func (g *CheckGroup[T]) Selected() []T {
	return append([]T(nil), g.selected...)
}

// ConvertInput maps submitted values back to choices.
func (g *CheckGroup[T]) ConvertInput(values []string) ([]T, error) {
	out := make([]T, 0, len(values))
	for _, value := range values {
		choice, err := g.choiceForID(value)
		if err != nil {
			return nil, err
		}
		out = append(out, choice)
	}
	return out, nil
}

// UpdateFromInput converts submitted values and stores them as the selection.
func (g *CheckGroup[T]) UpdateFromInput(values []string) error {
	selected, err := g.ConvertInput(values)
	if err != nil {
		return err
	}
	g.selected = selected
	return nil
}

// ProcessInput implements form.InputProcessor. No values clears the selection.
func (g *CheckGroup[T]) ProcessInput(values []string) error {
	return g.UpdateFromInput(values)
}

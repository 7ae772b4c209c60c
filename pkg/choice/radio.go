package choice

import "github.com/goliatone/go-formkit/pkg/component"

// RadioChoice renders a list of choices as radio buttons; at most one is
// selected.
type RadioChoice[T comparable] struct {
	*core[T]
}

var _ component.BodyRenderer = (*RadioChoice[string])(nil)

// NewRadioChoice builds a radio group over choices.
func NewRadioChoice[T comparable](id string, choices []T, options ...Option) *RadioChoice[T] {
	return &RadioChoice[T]{core: newCore(id, "radio", choices, options)}
}

// SetSelected selects value.
func (r *RadioChoice[T]) SetSelected(value T) {
	r.selected = []T{value}
}

// ClearSelection removes the selection.
func (r *RadioChoice[T]) ClearSelection() {
	r.selected = nil
}

// Selected returns the selected value and whether one is set.
func (r *RadioChoice[T]) Selected() (T, bool) {
	if len(r.selected) == 0 {
		var zero T
		return zero, false
	}
	return r.selected[0], true
}

// UpdateFromInput selects the choice matching the submitted value. An empty
// value clears the selection.
func (r *RadioChoice[T]) UpdateFromInput(value string) error {
	if value == "" {
		r.selected = nil
		return nil
	}
	choice, err := r.choiceForID(value)
	if err != nil {
		return err
	}
	r.selected = []T{choice}
	return nil
}

// ProcessInput implements form.InputProcessor. Only the first value counts.
func (r *RadioChoice[T]) ProcessInput(values []string) error {
	if len(values) == 0 {
		return r.UpdateFromInput("")
	}
	return r.UpdateFromInput(values[0])
}

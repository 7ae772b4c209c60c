package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/pagedef"
)

// SelectChoices asks for the selection of every choice component that is
// visible and enabled in its hierarchy, in definition order. Check groups use
// a multi-select, radios a single select.
func SelectChoices(ctx context.Context, driver Driver, page *pagedef.Page) error {
	for _, selectable := range page.Selectables() {
		if !selectable.IsVisibleInHierarchy() || !selectable.IsEnabledInHierarchy() {
			continue
		}
		options := selectable.Choices()
		if len(options) == 0 {
			continue
		}
		cfg := SelectConfig{
			Message:  selectable.Path(),
			Options:  options,
			Defaults: indicesOf(options, selectable.SelectedValues()),
		}

		var picked []string
		if selectable.Multiple {
			indices, err := driver.MultiSelect(ctx, cfg)
			if err != nil {
				return err
			}
			for _, idx := range indices {
				if idx < 0 || idx >= len(options) {
					return fmt.Errorf("%w: %s: index %d out of range", ErrInvalidIndex, selectable.Path(), idx)
				}
				picked = append(picked, options[idx])
			}
		} else {
			idx, err := driver.Select(ctx, cfg)
			if err != nil {
				return err
			}
			if idx >= len(options) {
				return fmt.Errorf("%w: %s: index %d out of range", ErrInvalidIndex, selectable.Path(), idx)
			}
			if idx >= 0 {
				picked = []string{options[idx]}
			}
		}

		if err := selectable.Select(picked); err != nil {
			return fmt.Errorf("prompt: %s: %w", selectable.Path(), err)
		}
		if err := driver.Info(ctx, fmt.Sprintf("%s: %d selected", selectable.Path(), len(picked))); err != nil {
			return err
		}
	}
	return nil
}

// Package form applies submitted request values to the input components of a
// page.
package form

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formkit/pkg/component"
)

// InputProcessor is implemented by components that accept submitted values.
// values holds every value posted under the component's input name and is
// nil when nothing was posted, which is how browsers report an empty
// checkbox group.
type InputProcessor interface {
	component.Component
	ProcessInput(values []string) error
}

// Errors holds conversion failures keyed by component path, plus form-level
// messages.
type Errors struct {
	Fields map[string][]string
	Form   []string
}

// Empty reports whether no error was recorded.
func (e Errors) Empty() bool {
	return len(e.Fields) == 0 && len(e.Form) == 0
}

// Paths returns the failing component paths, sorted.
func (e Errors) Paths() []string {
	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Err joins every message into one error, or returns nil.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	var errs []error
	for _, message := range e.Form {
		errs = append(errs, errors.New(message))
	}
	for _, path := range e.Paths() {
		for _, message := range e.Fields[path] {
			errs = append(errs, errors.New(path+": "+message))
		}
	}
	return errors.Join(errs...)
}

// Add records a message against path; an empty path is form-level.
func (e *Errors) Add(path, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		e.Form = MergeMessages(e.Form, message)
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[path] = MergeMessages(e.Fields[path], message)
}

// MergeMessages concatenates message slices, trimming whitespace and dropping
// duplicates while preserving order.
func MergeMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	out := make([]string, 0, len(combined))
	seen := make(map[string]struct{}, len(combined))
	for _, message := range combined {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Apply hands submitted values to every input component that is visible and
// enabled in its hierarchy. Invisible or disabled components keep their
// state, since the browser never posted them. Values are looked up by each
// component's input name.
func Apply(page *component.Page, values url.Values) Errors {
	var result Errors
	if page == nil {
		result.Add("", "page is nil")
		return result
	}
	page.Root().Walk(func(c component.Component) bool {
		if !c.DetermineVisibility() {
			return false
		}
		processor, ok := c.(InputProcessor)
		if !ok || !c.IsEnabledInHierarchy() {
			return true
		}
		if err := processor.ProcessInput(values[c.InputName()]); err != nil {
			result.Add(c.Path(), err.Error())
		}
		return true
	})
	return result
}

package markup

import (
	"errors"
	"fmt"
	"strings"

	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
)

// Loader renders page templates and parses the result into fragments, so page
// markup can live in template files instead of string literals.
type Loader struct {
	templates rendertemplate.TemplateRenderer
	options   []Option
}

// NewLoader wraps a template renderer. Parse options apply to every loaded
// fragment.
func NewLoader(templates rendertemplate.TemplateRenderer, options ...Option) *Loader {
	return &Loader{templates: templates, options: options}
}

// Load renders the named template with data and parses the output.
func (l *Loader) Load(name string, data any) (*Fragment, error) {
	if l == nil || l.templates == nil {
		return nil, errors.New("markup: loader has no template renderer")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("markup: template name is required")
	}
	rendered, err := l.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("markup: render template %q: %w", name, err)
	}
	fragment, err := Parse(rendered, l.options...)
	if err != nil {
		return nil, fmt.Errorf("markup: parse template %q: %w", name, err)
	}
	return fragment, nil
}

// LoadString renders inline template content and parses the output.
func (l *Loader) LoadString(content string, data any) (*Fragment, error) {
	if l == nil || l.templates == nil {
		return nil, errors.New("markup: loader has no template renderer")
	}
	rendered, err := l.templates.RenderString(content, data)
	if err != nil {
		return nil, fmt.Errorf("markup: render template string: %w", err)
	}
	return Parse(rendered, l.options...)
}

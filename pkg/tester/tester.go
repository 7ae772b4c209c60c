// Package tester renders pages in tests and asserts on the produced markup.
package tester

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/render"
)

// Option configures a Tester.
type Option func(*Tester)

// WithRenderOptions passes options to the underlying renderer.
func WithRenderOptions(options ...render.Option) Option {
	return func(t *Tester) {
		t.renderOptions = append(t.renderOptions, options...)
	}
}

// WithNamespace sets the id attribute namespace used for the generated
// wrapper page of StartComponentInPage.
func WithNamespace(namespace string) Option {
	return func(t *Tester) {
		if trimmed := strings.TrimSpace(namespace); trimmed != "" {
			t.namespace = trimmed
		}
	}
}

// Tester holds the last rendered page and exposes assertions against it.
type Tester struct {
	t             testing.TB
	ctx           context.Context
	namespace     string
	renderOptions []render.Option
	renderer      *render.Renderer

	lastPage        *component.Page
	lastResult      render.Result
	componentInPage component.Component
}

// New returns a Tester bound to t.
func New(t testing.TB, options ...Option) *Tester {
	t.Helper()
	tt := &Tester{
		t:         t,
		ctx:       context.Background(),
		namespace: markup.DefaultNamespace,
	}
	for _, opt := range options {
		if opt != nil {
			opt(tt)
		}
	}
	tt.renderer = render.New(tt.renderOptions...)
	return tt
}

// StartPage renders page and keeps the result for later assertions. A render
// error fails the test.
func (tt *Tester) StartPage(page *component.Page) render.Result {
	tt.t.Helper()
	tt.componentInPage = nil
	result, err := tt.renderer.Render(tt.ctx, page)
	if err != nil {
		tt.t.Fatalf("start page: %v", err)
	}
	tt.lastPage = page
	tt.lastResult = result
	return result
}

// StartComponentInPage mounts c on a generated page containing only its tag
// and renders it. LastResponse then returns the component's own markup.
func (tt *Tester) StartComponentInPage(c component.Component) render.Result {
	tt.t.Helper()
	if c == nil {
		tt.t.Fatalf("start component in page: component is nil")
	}
	page, err := component.NewPageFromString(componentPageMarkup(tt.namespace, c.ID()), markup.WithNamespace(tt.namespace))
	if err != nil {
		tt.t.Fatalf("start component in page: %v", err)
	}
	if err := page.Add(c); err != nil {
		tt.t.Fatalf("start component in page: %v", err)
	}
	result := tt.StartPage(page)
	tt.componentInPage = c
	return result
}

// LastPage returns the page rendered last.
func (tt *Tester) LastPage() *component.Page {
	return tt.lastPage
}

// LastResult returns the full render result.
func (tt *Tester) LastResult() render.Result {
	return tt.lastResult
}

// LastResponse returns the last rendered markup: the component's own markup
// after StartComponentInPage, the whole page otherwise.
func (tt *Tester) LastResponse() string {
	if tt.componentInPage != nil {
		if fragment, ok := tt.lastResult.Fragment(tt.componentInPage.Path()); ok {
			return fragment
		}
		return ""
	}
	return tt.lastResult.Markup
}

// AssertContains fails unless the last response contains expected.
func (tt *Tester) AssertContains(expected string) {
	tt.t.Helper()
	if response := tt.LastResponse(); !strings.Contains(response, expected) {
		tt.t.Fatalf("expected response to contain %q, got:\n%s", expected, response)
	}
}

// AssertNotContains fails when the last response contains unexpected.
func (tt *Tester) AssertNotContains(unexpected string) {
	tt.t.Helper()
	if response := tt.LastResponse(); strings.Contains(response, unexpected) {
		tt.t.Fatalf("expected response not to contain %q, got:\n%s", unexpected, response)
	}
}

// AssertResultPage fails unless the last response equals expected.
func (tt *Tester) AssertResultPage(expected string) {
	tt.t.Helper()
	if diff := cmp.Diff(expected, tt.LastResponse()); diff != "" {
		tt.t.Fatalf("result page mismatch (-want +got):\n%s", diff)
	}
}

// AssertRendered fails unless the component at path was rendered.
func (tt *Tester) AssertRendered(path string) {
	tt.t.Helper()
	if _, ok := tt.lastResult.Fragments[path]; !ok {
		tt.t.Fatalf("expected component %q to be rendered", path)
	}
}

// AssertInvisible fails when the component at path was rendered.
func (tt *Tester) AssertInvisible(path string) {
	tt.t.Helper()
	if _, ok := tt.lastResult.Fragments[path]; ok {
		tt.t.Fatalf("expected component %q not to be rendered", path)
	}
}

func componentPageMarkup(namespace, id string) string {
	return fmt.Sprintf(`<html><head></head><body><span %s="%s"></span></body></html>`,
		markup.IDAttribute(namespace), markup.EscapeAttribute(id))
}

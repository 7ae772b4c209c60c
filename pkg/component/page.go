package component

import (
	"errors"

	"github.com/goliatone/go-formkit/pkg/markup"
)

// Page is the root of a component tree paired with its markup template.
type Page struct {
	root     *Container
	markup   *markup.Fragment
	sequence int
}

// NewPage builds a page around a parsed markup fragment.
func NewPage(fragment *markup.Fragment) *Page {
	page := &Page{markup: fragment}
	page.root = NewContainer("")
	page.root.page = page
	return page
}

// NewPageFromString parses src and builds a page around it.
func NewPageFromString(src string, options ...markup.Option) (*Page, error) {
	fragment, err := markup.Parse(src, options...)
	if err != nil {
		return nil, err
	}
	return NewPage(fragment), nil
}

// Markup returns the page template.
func (p *Page) Markup() *markup.Fragment { return p.markup }

// SetMarkup swaps the page template.
func (p *Page) SetMarkup(fragment *markup.Fragment) { p.markup = fragment }

// Root returns the container that holds the top-level components.
func (p *Page) Root() *Container { return p.root }

// Add attaches top-level components.
func (p *Page) Add(children ...Component) error {
	return p.root.Add(children...)
}

// MustAdd is Add that panics on error.
func (p *Page) MustAdd(children ...Component) *Page {
	p.root.MustAdd(children...)
	return p
}

// Get returns a top-level component by id.
func (p *Page) Get(id string) (Component, bool) {
	return p.root.Get(id)
}

// Lookup resolves a `:`-separated page-relative path.
func (p *Page) Lookup(path string) (Component, bool) {
	return p.root.Lookup(path)
}

// Validate checks that the page has markup to render.
func (p *Page) Validate() error {
	if p == nil {
		return errors.New("component: page is nil")
	}
	if p.markup == nil {
		return errors.New("component: page has no markup")
	}
	return nil
}

func (p *Page) nextSequence() int {
	p.sequence++
	return p.sequence
}

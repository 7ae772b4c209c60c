package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/markup"
)

var (
	// ErrComponentNotFound is returned when a component tag has no matching
	// component in the tree.
	ErrComponentNotFound = errors.New("render: component not found")
	// ErrComponentNotRendered is returned when visible components in the tree
	// have no tag in the markup.
	ErrComponentNotRendered = errors.New("render: component not rendered")
	// ErrNestedComponentTag is returned for a component tag nested inside a
	// component that cannot own children.
	ErrNestedComponentTag = errors.New("render: component tag inside a non-container")
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	name     string
	logger   *zap.Logger
	stripIDs bool
	tolerant bool
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithName overrides the name reported to a Registry.
func WithName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithStripComponentIDs removes the component id attribute from output tags.
func WithStripComponentIDs(strip bool) Option {
	return func(cfg *config) {
		cfg.stripIDs = strip
	}
}

// WithTolerant disables the check for components missing from the markup.
func WithTolerant(tolerant bool) Option {
	return func(cfg *config) {
		cfg.tolerant = tolerant
	}
}

// Renderer binds a page's component tree to its markup and writes HTML.
type Renderer struct {
	cfg config
}

// New builds a Renderer.
func New(options ...Option) *Renderer {
	cfg := config{name: "markup", logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Renderer{cfg: cfg}
}

// Name identifies the renderer.
func (r *Renderer) Name() string {
	return r.cfg.name
}

// ContentType reports the media type of the rendered output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Span is the byte range a component occupies in the rendered markup.
type Span struct {
	Start int
	End   int
}

// Result holds the rendered page and the span of every rendered component
// keyed by component path.
type Result struct {
	Markup    string
	Fragments map[string]Span
}

// Fragment returns the markup rendered for the component at path.
func (r Result) Fragment(path string) (string, bool) {
	span, ok := r.Fragments[path]
	if !ok {
		return "", false
	}
	return r.Markup[span.Start:span.End], true
}

// Render renders the page markup against its component tree.
func (r *Renderer) Render(ctx context.Context, page *component.Page) (Result, error) {
	if err := page.Validate(); err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}

	p := &pass{
		ctx:      ctx,
		cfg:      r.cfg,
		idAttr:   page.Markup().IDAttribute(),
		spans:    make(map[string]Span),
		rendered: make(map[component.Component]struct{}),
	}
	if err := p.renderNodes(page.Root(), page.Markup().Nodes); err != nil {
		return Result{}, err
	}
	if !r.cfg.tolerant {
		if err := p.checkRendered(page.Root()); err != nil {
			return Result{}, err
		}
	}

	r.cfg.logger.Debug("page rendered",
		zap.Int("bytes", p.buf.Len()),
		zap.Int("components", len(p.spans)))

	return Result{Markup: p.buf.String(), Fragments: p.spans}, nil
}

type pass struct {
	ctx      context.Context
	cfg      config
	idAttr   string
	buf      strings.Builder
	spans    map[string]Span
	rendered map[component.Component]struct{}
}

func (p *pass) renderNodes(parent *component.Container, nodes []markup.Node) error {
	for _, node := range nodes {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		if node.IsText() {
			p.buf.WriteString(node.Text)
			continue
		}
		if err := p.renderComponent(parent, node.Component); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) renderComponent(parent *component.Container, node *markup.ComponentNode) error {
	if parent == nil {
		return fmt.Errorf("%w: %q", ErrNestedComponentTag, node.ID)
	}
	child, ok := parent.Get(node.ID)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrComponentNotFound, node.ID, describe(parent))
	}
	p.rendered[child] = struct{}{}

	if !child.DetermineVisibility() {
		p.cfg.logger.Debug("skipping invisible component", zap.String("path", child.Path()))
		return nil
	}

	tag := node.Tag.Clone()
	if handler, ok := child.(component.TagHandler); ok {
		handler.OnComponentTag(tag)
	}
	if p.cfg.stripIDs {
		tag.Remove(p.idAttr)
	}

	start := p.buf.Len()
	body, hasBody := child.(component.BodyRenderer)
	if tag.SelfClosing && !hasBody && len(node.Body) == 0 {
		p.buf.WriteString(tag.Open())
		p.spans[child.Path()] = Span{Start: start, End: p.buf.Len()}
		return nil
	}

	tag.SelfClosing = false
	p.buf.WriteString(tag.Open())
	switch {
	case hasBody:
		if err := body.RenderBody(&p.buf); err != nil {
			return fmt.Errorf("render: component %q: %w", child.Path(), err)
		}
	default:
		container, _ := component.AsContainer(child)
		if err := p.renderNodes(container, node.Body); err != nil {
			return err
		}
	}
	p.buf.WriteString(tag.Close())
	p.spans[child.Path()] = Span{Start: start, End: p.buf.Len()}
	return nil
}

func (p *pass) checkRendered(root *component.Container) error {
	var missing []string
	root.Walk(func(c component.Component) bool {
		if !c.DetermineVisibility() {
			return false
		}
		if _, ok := p.rendered[c]; !ok {
			missing = append(missing, c.Path())
			return false
		}
		return true
	})
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrComponentNotRendered, strings.Join(missing, ", "))
}

func describe(c *component.Container) string {
	if path := c.Path(); path != "" {
		return fmt.Sprintf("%q", path)
	}
	return "page"
}

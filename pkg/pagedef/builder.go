package pagedef

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/choice"
	"github.com/goliatone/go-formkit/pkg/choice/openapichoices"
	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/visibility"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
)

// ErrUnknownType is returned for a component type with no registered factory.
var ErrUnknownType = errors.New("pagedef: unknown component type")

// Option configures a Builder.
type Option func(*Builder)

// WithRegistry replaces the default factory registry.
func WithRegistry(registry *Registry) Option {
	return func(b *Builder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithEvaluator replaces the rule evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(b *Builder) {
		if evaluator != nil {
			b.evaluator = evaluator
		}
	}
}

// WithLogger sets the logger used to report rule failures.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLoader renders `template` definitions through a markup loader.
func WithLoader(loader *markup.Loader) Option {
	return func(b *Builder) {
		b.loader = loader
	}
}

// WithMarkupOptions passes parse options for inline markup.
func WithMarkupOptions(options ...markup.Option) Option {
	return func(b *Builder) {
		b.markupOptions = append(b.markupOptions, options...)
	}
}

// WithDocuments reads choicesFrom documents from fsys instead of the working
// directory.
func WithDocuments(fsys fs.FS) Option {
	return func(b *Builder) {
		b.documents = fsys
	}
}

// WithDefaultLabelPosition sets the position used when a component sets none.
func WithDefaultLabelPosition(position choice.LabelPosition) Option {
	return func(b *Builder) {
		b.labelPosition = position
	}
}

// WithChoiceOptions appends options applied to every choice component, such
// as theme classes or a translator.
func WithChoiceOptions(options ...choice.Option) Option {
	return func(b *Builder) {
		b.choiceOptions = append(b.choiceOptions, options...)
	}
}

// WithExtras exposes caller data to rules under `extras.`.
func WithExtras(extras map[string]any) Option {
	return func(b *Builder) {
		b.extras = extras
	}
}

// Builder turns definitions into pages.
type Builder struct {
	registry      *Registry
	evaluator     visibility.Evaluator
	logger        *zap.Logger
	loader        *markup.Loader
	markupOptions []markup.Option
	documents     fs.FS
	labelPosition choice.LabelPosition
	choiceOptions []choice.Option
	extras        map[string]any
}

// NewBuilder returns a Builder using the default registry and the expr
// evaluator.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		registry:  DefaultRegistry(),
		evaluator: expr.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build parses the definition markup and builds its component tree.
func (b *Builder) Build(ctx context.Context, def Definition) (*Page, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("pagedef: %w", err)
	}
	fragment, err := b.fragment(def)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Page:       component.NewPage(fragment),
		Definition: def,
		Values:     cloneValues(def.Values),
		Extras:     b.extras,
		byPath:     make(map[string]component.Component),
	}
	scope := &Scope{ctx: ctx, builder: b, page: page, sources: make(map[string]*openapichoices.Source)}
	if err := scope.build(page.Root(), def.Components, ""); err != nil {
		return nil, err
	}
	b.logger.Debug("page built",
		zap.String("title", def.Title),
		zap.Int("components", len(page.order)))
	return page, nil
}

func (b *Builder) fragment(def Definition) (*markup.Fragment, error) {
	if name := strings.TrimSpace(def.Template); name != "" {
		if b.loader == nil {
			return nil, fmt.Errorf("pagedef: template %q needs a markup loader", name)
		}
		fragment, err := b.loader.Load(name, map[string]any{
			"title":  def.Title,
			"values": def.Values,
		})
		if err != nil {
			return nil, fmt.Errorf("pagedef: %w", err)
		}
		return fragment, nil
	}
	fragment, err := markup.Parse(def.Markup, b.markupOptions...)
	if err != nil {
		return nil, fmt.Errorf("pagedef: %w", err)
	}
	return fragment, nil
}

// Scope is the state of one Build call handed to factories.
type Scope struct {
	ctx     context.Context
	builder *Builder
	page    *Page
	sources map[string]*openapichoices.Source
}

// Context returns the build context.
func (s *Scope) Context() context.Context { return s.ctx }

// Page returns the page being built.
func (s *Scope) Page() *Page { return s.page }

func (s *Scope) build(parent *component.Container, defs []Component, parentPath string) error {
	for _, def := range defs {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		path := def.ID
		if parentPath != "" {
			path = parentPath + component.PathSeparator + def.ID
		}
		factory, ok := s.builder.registry.Lookup(def.Type)
		if !ok {
			return fmt.Errorf("%w %q for %q", ErrUnknownType, def.Type, path)
		}
		built, err := factory(s, def)
		if err != nil {
			return fmt.Errorf("pagedef: build %q: %w", path, err)
		}
		if err := parent.Add(built); err != nil {
			return fmt.Errorf("pagedef: %w", err)
		}
		if err := s.applyState(built, def, path); err != nil {
			return err
		}
		s.page.byPath[path] = built
		s.page.order = append(s.page.order, path)

		if len(def.Children) == 0 {
			continue
		}
		container, ok := component.AsContainer(built)
		if !ok {
			return fmt.Errorf("pagedef: %q of type %q cannot have children", path, def.Type)
		}
		if err := s.build(container, def.Children, path); err != nil {
			return err
		}
	}
	return nil
}

// stateful is satisfied by every component embedding *component.Base.
type stateful interface {
	SetMarkupID(string)
	SetVisible(bool)
	SetVisibleFunc(func() bool)
	SetVisibilityAllowed(bool)
	SetVisibilityAllowedFunc(func() bool)
	SetEnabled(bool)
	SetEnabledFunc(func() bool)
}

func (s *Scope) applyState(c component.Component, def Component, path string) error {
	target, ok := c.(stateful)
	if !ok {
		return nil
	}
	if id := strings.TrimSpace(def.MarkupID); id != "" {
		target.SetMarkupID(id)
	}
	if def.Visible != nil {
		target.SetVisible(*def.Visible)
	}
	if def.VisibilityAllowed != nil {
		target.SetVisibilityAllowed(*def.VisibilityAllowed)
	}
	if def.Enabled != nil {
		target.SetEnabled(*def.Enabled)
	}

	rules := []struct {
		rule  string
		apply func(func() bool)
	}{
		{def.VisibleWhen, target.SetVisibleFunc},
		{def.VisibilityAllowedWhen, target.SetVisibilityAllowedFunc},
		{def.EnabledWhen, target.SetEnabledFunc},
	}
	for _, r := range rules {
		rule := strings.TrimSpace(r.rule)
		if rule == "" {
			continue
		}
		if _, ok := s.builder.evaluator.(*expr.Evaluator); ok {
			if _, err := expr.Compile(rule); err != nil {
				return fmt.Errorf("pagedef: rule for %q: %w", path, err)
			}
		}
		r.apply(visibility.Bind(s.builder.evaluator, path, rule, s.page.VisibilityContext, s.reportRuleError(path, rule)))
	}
	return nil
}

func (s *Scope) reportRuleError(path, rule string) func(error) {
	logger := s.builder.logger
	return func(err error) {
		logger.Warn("rule evaluation failed",
			zap.String("path", path),
			zap.String("rule", rule),
			zap.Error(err))
	}
}

// choiceSetup resolves the choice values, display renderer and options of a
// choice definition.
func (s *Scope) choiceSetup(def Component) ([]string, choice.Renderer[string], []choice.Option, error) {
	options := append([]choice.Option(nil), s.builder.choiceOptions...)
	position := s.builder.labelPosition
	if raw := strings.TrimSpace(def.LabelPosition); raw != "" {
		parsed, err := choice.ParseLabelPosition(raw)
		if err != nil {
			return nil, nil, nil, err
		}
		position = parsed
	}
	options = append(options, choice.WithLabelPosition(position))

	mode, err := parseLabelMode(def.LabelMode)
	if err != nil {
		return nil, nil, nil, err
	}
	options = append(options, choice.WithLabelMode(mode))
	if def.Prefix != "" {
		options = append(options, choice.WithPrefix(def.Prefix))
	}
	if def.Suffix != "" {
		options = append(options, choice.WithSuffix(def.Suffix))
	}

	var renderer choice.Renderer[string] = choice.IndexRenderer[string]{}
	if def.ChoicesFrom == nil {
		return append([]string(nil), def.Choices...), renderer, options, nil
	}

	enum, err := s.enum(*def.ChoicesFrom)
	if err != nil {
		return nil, nil, nil, err
	}
	values := make([]string, len(enum))
	labels := make(map[string]string, len(enum))
	for i, c := range enum {
		values[i] = c.Value
		labels[c.Value] = c.Display()
	}
	if def.ChoicesFrom.UseLabels {
		renderer = choice.FuncRenderer[string]{
			Display: func(value string) string { return labels[value] },
		}
	}
	return values, renderer, options, nil
}

func (s *Scope) enum(from ChoicesFrom) ([]openapichoices.Choice, error) {
	doc := strings.TrimSpace(from.Document)
	if doc == "" {
		return nil, errors.New("choicesFrom.document is required")
	}
	source, ok := s.sources[doc]
	if !ok {
		data, err := s.readDocument(doc)
		if err != nil {
			return nil, err
		}
		source, err = openapichoices.Load(s.ctx, data)
		if err != nil {
			return nil, err
		}
		s.sources[doc] = source
	}
	return source.Choices(from.Operation, from.Property)
}

func (s *Scope) readDocument(path string) ([]byte, error) {
	if s.builder.documents != nil {
		return fs.ReadFile(s.builder.documents, path)
	}
	return os.ReadFile(path)
}

func parseLabelMode(raw string) (choice.LabelMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "escaped":
		return choice.LabelsEscaped, nil
	case "sanitized", "html":
		return choice.LabelsSanitized, nil
	case "markdown":
		return choice.LabelsMarkdown, nil
	default:
		return choice.LabelsEscaped, fmt.Errorf("unknown label mode %q", raw)
	}
}

func cloneValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}

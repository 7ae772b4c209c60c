// Package formkit wires configuration, page definitions and renderers so a
// page can be rendered from a definition file in one call.
package formkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/choice"
	"github.com/goliatone/go-formkit/pkg/config"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/pagedef"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
)

// Definition aliases pagedef.Definition for callers of the root package.
type Definition = pagedef.Definition

// Result aliases render.Result.
type Result = render.Result

// Option configures the helpers in this package.
type Option func(*settings)

type settings struct {
	cfg       config.Config
	configDir string
	baseDir   string
	renderer  string
	logger    *zap.Logger
	extra     []pagedef.Option
}

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithConfigDir resolves a relative theme manifest path against dir.
func WithConfigDir(dir string) Option {
	return func(s *settings) { s.configDir = dir }
}

// WithBaseDir sets the directory templates and OpenAPI documents are read
// from.
func WithBaseDir(dir string) Option {
	return func(s *settings) { s.baseDir = dir }
}

// WithRenderer selects a renderer registered in render.DefaultRegistry. The
// default follows Config.StripComponentIDs.
func WithRenderer(name string) Option {
	return func(s *settings) { s.renderer = strings.TrimSpace(name) }
}

// WithLogger sets the logger handed to builders and renderers.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithBuilderOptions appends options applied after the configured ones.
func WithBuilderOptions(options ...pagedef.Option) Option {
	return func(s *settings) { s.extra = append(s.extra, options...) }
}

func newSettings(options []Option) settings {
	s := settings{cfg: config.Default(), baseDir: "."}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// NewBuilder returns a page builder configured from the options: markup
// namespace, default label position, a template loader and document source
// rooted at the base dir, and theme classes when a manifest is configured.
func NewBuilder(options ...Option) (*pagedef.Builder, error) {
	s := newSettings(options)

	engine, err := gotemplate.New(gotemplate.WithBaseDir(s.baseDir))
	if err != nil {
		return nil, fmt.Errorf("formkit: %w", err)
	}
	builderOptions := []pagedef.Option{
		pagedef.WithLogger(s.logger),
		pagedef.WithMarkupOptions(s.cfg.MarkupOptions()...),
		pagedef.WithLoader(markup.NewLoader(engine, s.cfg.MarkupOptions()...)),
		pagedef.WithDocuments(os.DirFS(s.baseDir)),
		pagedef.WithDefaultLabelPosition(s.cfg.DefaultLabelPosition),
	}

	classes, err := themeClasses(s)
	if err != nil {
		return nil, err
	}
	if !classes.IsZero() {
		builderOptions = append(builderOptions, pagedef.WithChoiceOptions(choice.WithThemeClasses(classes)))
	}
	return pagedef.NewBuilder(append(builderOptions, s.extra...)...), nil
}

func themeClasses(s settings) (choice.ThemeClasses, error) {
	path := strings.TrimSpace(s.cfg.Theme.Manifest)
	if path == "" {
		return choice.ThemeClasses{}, nil
	}
	if !filepath.IsAbs(path) && s.configDir != "" {
		path = filepath.Join(s.configDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return choice.ThemeClasses{}, fmt.Errorf("formkit: read theme manifest: %w", err)
	}
	manifest, err := choice.ParseManifest(data)
	if err != nil {
		return choice.ThemeClasses{}, err
	}
	name := s.cfg.Theme.Name
	if name == "" {
		name = manifest.Name
	}
	return choice.ResolveThemeClasses(choice.NewStaticSelector(manifest), name, s.cfg.Theme.Variant)
}

// Renderer returns the page renderer selected by the options.
func Renderer(options ...Option) (render.PageRenderer, error) {
	s := newSettings(options)
	return renderer(s)
}

func renderer(s settings) (render.PageRenderer, error) {
	name := s.renderer
	if name == "" {
		name = "markup"
		if s.cfg.StripComponentIDs {
			name = "html"
		}
	}
	return render.DefaultRegistry(s.cfg.RenderOptions(s.logger)...).Get(name)
}

// RenderDefinition builds def and renders the resulting page.
func RenderDefinition(ctx context.Context, def Definition, options ...Option) (Result, error) {
	s := newSettings(options)
	builder, err := NewBuilder(options...)
	if err != nil {
		return Result{}, err
	}
	page, err := builder.Build(ctx, def)
	if err != nil {
		return Result{}, err
	}
	r, err := renderer(s)
	if err != nil {
		return Result{}, err
	}
	return r.Render(ctx, page.Page)
}

// RenderFile loads a definition file and renders it. Templates and documents
// are resolved next to the file unless WithBaseDir is given.
func RenderFile(ctx context.Context, path string, options ...Option) (Result, error) {
	def, err := pagedef.LoadFile(path)
	if err != nil {
		return Result{}, err
	}
	options = append([]Option{WithBaseDir(filepath.Dir(path))}, options...)
	return RenderDefinition(ctx, def, options...)
}

package render

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/choice"
	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func mustPage(t *testing.T, src string) *component.Page {
	t.Helper()
	page, err := component.NewPageFromString(src)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return page
}

func TestRenderMatchesGolden(t *testing.T) {
	page := mustPage(t, "<html><body><form wicket:id=\"form\"><fieldset wicket:id=\"colors\" class=\"colors\"></fieldset><br/></form></body></html>\n")
	formContainer := component.NewContainer("form")
	colors := choice.NewCheckGroup("colors", []string{"red", "blue"}, choice.WithLabelPosition(choice.WrapAfter))
	colors.SetSelected("blue")
	page.MustAdd(formContainer)
	formContainer.MustAdd(colors)

	result, err := New(WithStripComponentIDs(true)).Render(testsupport.Context(), page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "colors.golden"), result.Markup)

	fragment, ok := result.Fragment("form:colors")
	if !ok {
		t.Fatalf("expected fragment for form:colors")
	}
	if !strings.HasPrefix(fragment, `<fieldset class="colors">`) || !strings.HasSuffix(fragment, "</fieldset>") {
		t.Fatalf("unexpected fragment %q", fragment)
	}
	if _, ok := result.Fragment("form"); !ok {
		t.Fatalf("expected fragment for container")
	}
}

func TestRenderKeepsPlainMarkupAndIDs(t *testing.T) {
	page := mustPage(t, `<!DOCTYPE html><p class='x'>hi <b>there</b></p><span wicket:id='leaf' data-a="1"/>`)
	page.MustAdd(component.NewBase("leaf"))

	result, err := New().Render(context.Background(), page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<!DOCTYPE html><p class='x'>hi <b>there</b></p><span wicket:id="leaf" data-a="1"/>`
	if result.Markup != want {
		t.Fatalf("unexpected markup:\nwant %s\ngot  %s", want, result.Markup)
	}
}

func TestRenderSkipsInvisibleSubtree(t *testing.T) {
	page := mustPage(t, `<div wicket:id="box"><i wicket:id="inner">x</i></div><b>after</b>`)
	box := component.NewContainer("box")
	box.SetVisibilityAllowed(false)
	page.MustAdd(box)
	box.MustAdd(component.NewBase("inner"))

	result, err := New().Render(context.Background(), page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Markup != "<b>after</b>" {
		t.Fatalf("unexpected markup %q", result.Markup)
	}
	if _, ok := result.Fragments["box"]; ok {
		t.Fatalf("invisible component must not have a fragment")
	}
}

func TestRenderErrors(t *testing.T) {
	t.Run("unknown component", func(t *testing.T) {
		page := mustPage(t, `<div wicket:id="ghost"></div>`)
		if _, err := New().Render(context.Background(), page); !errors.Is(err, ErrComponentNotFound) {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("component missing from markup", func(t *testing.T) {
		page := mustPage(t, `<p></p>`)
		page.MustAdd(component.NewBase("orphan"))
		_, err := New().Render(context.Background(), page)
		if !errors.Is(err, ErrComponentNotRendered) || !strings.Contains(err.Error(), "orphan") {
			t.Fatalf("expected not rendered error, got %v", err)
		}
		if _, err := New(WithTolerant(true)).Render(context.Background(), page); err != nil {
			t.Fatalf("tolerant render: %v", err)
		}
	})

	t.Run("invisible component missing from markup", func(t *testing.T) {
		page := mustPage(t, `<p></p>`)
		hidden := component.NewBase("hidden")
		hidden.SetVisible(false)
		page.MustAdd(hidden)
		if _, err := New().Render(context.Background(), page); err != nil {
			t.Fatalf("invisible components need no markup: %v", err)
		}
	})

	t.Run("nested tag in leaf", func(t *testing.T) {
		page := mustPage(t, `<div wicket:id="leaf"><span wicket:id="child"></span></div>`)
		page.MustAdd(component.NewBase("leaf"))
		if _, err := New().Render(context.Background(), page); !errors.Is(err, ErrNestedComponentTag) {
			t.Fatalf("expected nested tag error, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		page := mustPage(t, `<p>x</p>`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := New().Render(ctx, page); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancellation, got %v", err)
		}
	})

	t.Run("missing markup", func(t *testing.T) {
		if _, err := New().Render(context.Background(), component.NewPage(nil)); err == nil {
			t.Fatalf("expected error for page without markup")
		}
	})
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()
	if got := registry.List(); len(got) != 2 || got[0] != "html" || got[1] != "markup" {
		t.Fatalf("unexpected renderers %v", got)
	}
	if err := registry.Register(New()); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := registry.Get("pdf"); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}

	html, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get html: %v", err)
	}
	page := mustPage(t, `<em wicket:id="x">y</em>`)
	page.MustAdd(component.NewBase("x"))
	result, err := html.Render(context.Background(), page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Markup != "<em>y</em>" {
		t.Fatalf("expected stripped id, got %q", result.Markup)
	}
	if html.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", html.ContentType())
	}
}

func TestDefaultRegistryMarkupKeepsIDs(t *testing.T) {
	registry := DefaultRegistry(WithStripComponentIDs(true), WithName("custom"))
	if got := registry.List(); len(got) != 2 || got[0] != "html" || got[1] != "markup" {
		t.Fatalf("unexpected renderers %v", got)
	}

	tests := []struct {
		name string
		want string
	}{
		{name: "markup", want: `<div wicket:id="c"></div>`},
		{name: "html", want: `<div></div>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			renderer, err := registry.Get(tc.name)
			if err != nil {
				t.Fatalf("get %s: %v", tc.name, err)
			}
			page := mustPage(t, `<div wicket:id="c"></div>`)
			page.MustAdd(component.NewBase("c"))
			result, err := renderer.Render(context.Background(), page)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if result.Markup != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, result.Markup)
			}
		})
	}
}

package component

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formkit/pkg/markup"
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	page, err := NewPageFromString(`<div wicket:id="container"><span wicket:id="leaf"></span></div>`)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return page
}

func TestPathAndInputName(t *testing.T) {
	page := newTestPage(t)
	container := NewContainer("container")
	leaf := NewBase("leaf")
	page.MustAdd(container)
	container.MustAdd(leaf)

	if got := container.Path(); got != "container" {
		t.Fatalf("unexpected container path %q", got)
	}
	if got := leaf.Path(); got != "container:leaf" {
		t.Fatalf("unexpected leaf path %q", got)
	}
	if got := leaf.InputName(); got != "container:leaf" {
		t.Fatalf("unexpected input name %q", got)
	}

	found, ok := page.Lookup("container:leaf")
	if !ok || found != Component(leaf) {
		t.Fatalf("lookup did not resolve leaf")
	}
}

func TestMarkupIDUsesPageSequence(t *testing.T) {
	page := newTestPage(t)
	first := NewBase("testid")
	second := NewBase("other")
	page.MustAdd(first, second)

	if got := first.MarkupID(); got != "testid1" {
		t.Fatalf("expected testid1, got %q", got)
	}
	if got := first.MarkupID(); got != "testid1" {
		t.Fatalf("markup id must be stable, got %q", got)
	}
	if got := second.MarkupID(); got != "other2" {
		t.Fatalf("expected other2, got %q", got)
	}
}

func TestMarkupIDHexAndPinned(t *testing.T) {
	page := newTestPage(t)
	for i := 0; i < 9; i++ {
		page.MustAdd(NewBase(string(rune('a' + i))))
	}
	for i := 0; i < 9; i++ {
		c, _ := page.Get(string(rune('a' + i)))
		c.MarkupID()
	}
	tenth := NewBase("j")
	page.MustAdd(tenth)
	if got := tenth.MarkupID(); got != "ja" {
		t.Fatalf("expected hex sequence suffix, got %q", got)
	}

	pinned := NewBase("pinned")
	pinned.SetMarkupID("fixed")
	page.MustAdd(pinned)
	if got := pinned.MarkupID(); got != "fixed" {
		t.Fatalf("expected pinned id, got %q", got)
	}

	detached := NewBase("loose")
	if got := detached.MarkupID(); got != "loose" {
		t.Fatalf("detached component should use its id, got %q", got)
	}
}

func TestVisibilityCascade(t *testing.T) {
	page := newTestPage(t)
	container := NewContainer("container")
	leaf := NewBase("leaf")
	page.MustAdd(container)
	container.MustAdd(leaf)

	if !leaf.IsVisibleInHierarchy() {
		t.Fatalf("leaf should be visible by default")
	}

	container.SetVisibilityAllowed(false)
	if leaf.IsVisibleInHierarchy() {
		t.Fatalf("leaf should inherit the container visibility gate")
	}
	if !leaf.DetermineVisibility() {
		t.Fatalf("leaf's own visibility is unaffected by its parent")
	}

	container.SetVisibilityAllowed(true)
	show := false
	leaf.SetVisibleFunc(func() bool { return show })
	if leaf.IsVisible() {
		t.Fatalf("visible func should hide the leaf")
	}
	show = true
	if !leaf.IsVisible() {
		t.Fatalf("visible func should be evaluated on every call")
	}
}

func TestEnabledCascade(t *testing.T) {
	page := newTestPage(t)
	container := NewContainer("container")
	leaf := NewBase("leaf")
	page.MustAdd(container)
	container.MustAdd(leaf)

	container.SetEnabled(false)
	if !leaf.IsEnabled() {
		t.Fatalf("leaf's own flag should stay enabled")
	}
	if leaf.IsEnabledInHierarchy() {
		t.Fatalf("leaf should be disabled through its container")
	}

	container.SetEnabledFunc(func() bool { return true })
	if !leaf.IsEnabledInHierarchy() {
		t.Fatalf("enabled func should override the flag")
	}
}

func TestAddRejectsInvalidChildren(t *testing.T) {
	container := NewContainer("c")
	if err := container.Add(NewBase("a")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := container.Add(NewBase("a")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if err := container.Add(NewBase("  ")); !errors.Is(err, ErrInvalidComponent) {
		t.Fatalf("expected invalid component error, got %v", err)
	}

	other := NewContainer("other")
	child, _ := container.Get("a")
	if err := other.Add(child); !errors.Is(err, ErrAlreadyAttached) {
		t.Fatalf("expected already attached error, got %v", err)
	}

	removed, ok := container.Remove("a")
	if !ok || removed.Parent() != nil {
		t.Fatalf("remove should detach the child")
	}
	if err := other.Add(removed); err != nil {
		t.Fatalf("re-add after remove: %v", err)
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	page := NewPage(markup.MustParse(`<p></p>`))
	outer := NewContainer("outer")
	inner := NewContainer("inner")
	leaf := NewBase("leaf")
	page.MustAdd(outer)
	outer.MustAdd(inner)
	inner.MustAdd(leaf)

	var visited []string
	page.Root().Walk(func(c Component) bool {
		visited = append(visited, c.Path())
		return c.ID() != "inner"
	})
	if len(visited) != 2 || visited[0] != "outer" || visited[1] != "outer:inner" {
		t.Fatalf("unexpected walk order %v", visited)
	}
}

func TestVisibilityAllowedFunc(t *testing.T) {
	leaf := NewBase("leaf")
	allowed := false
	leaf.SetVisibilityAllowedFunc(func() bool { return allowed })
	if leaf.DetermineVisibility() {
		t.Fatalf("gate func should hide the component")
	}
	allowed = true
	if !leaf.DetermineVisibility() {
		t.Fatalf("gate func should be evaluated on every call")
	}
	leaf.SetVisibilityAllowed(false)
	if leaf.IsVisibilityAllowed() {
		t.Fatalf("SetVisibilityAllowed should replace the func")
	}
}

func TestAddRejectsCycles(t *testing.T) {
	outer := NewContainer("outer")
	inner := NewContainer("inner")
	outer.MustAdd(inner)

	if err := outer.Add(outer); !errors.Is(err, ErrInvalidComponent) {
		t.Fatalf("expected self add to fail, got %v", err)
	}
	if outer.Parent() != nil {
		t.Fatalf("self add must not attach the container")
	}

	if err := inner.Add(outer); !errors.Is(err, ErrInvalidComponent) {
		t.Fatalf("expected ancestor add to fail, got %v", err)
	}
	if got := inner.Path(); got != "outer:inner" {
		t.Fatalf("unexpected path after rejected add %q", got)
	}
}

func TestAddIsAllOrNothing(t *testing.T) {
	container := NewContainer("c")
	container.MustAdd(NewBase("taken"))

	first := NewBase("first")
	if err := container.Add(first, NewBase("taken")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if first.Parent() != nil || len(container.Children()) != 1 {
		t.Fatalf("failed add must leave the tree unchanged")
	}

	if err := container.Add(NewBase("twin"), NewBase("twin")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id within one call to fail, got %v", err)
	}
	if _, ok := container.Get("twin"); ok {
		t.Fatalf("no child of a failed call should be attached")
	}
}

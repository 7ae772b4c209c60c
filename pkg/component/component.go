package component

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/markup"
)

// PathSeparator joins component ids into page-relative paths.
const PathSeparator = ":"

// Component is a node of the page tree. Implementations embed *Base, which
// provides every method of this interface.
type Component interface {
	ID() string
	Parent() *Container
	Path() string
	InputName() string
	MarkupID() string
	IsVisible() bool
	IsVisibilityAllowed() bool
	DetermineVisibility() bool
	IsVisibleInHierarchy() bool
	IsEnabled() bool
	IsEnabledInHierarchy() bool

	base() *Base
}

// TagHandler lets a component adjust its own tag before it is written.
type TagHandler interface {
	OnComponentTag(tag *markup.Tag)
}

// BodyRenderer replaces the template body of a component tag with generated
// markup.
type BodyRenderer interface {
	RenderBody(buf *strings.Builder) error
}

// Base carries identity, hierarchy and the visibility/enabled state shared by
// every component.
type Base struct {
	id       string
	parent   *Container
	markupID string

	visible               bool
	visibleFunc           func() bool
	visibilityAllowed     bool
	visibilityAllowedFunc func() bool
	enabled               bool
	enabledFunc           func() bool
}

// NewBase returns a visible, enabled Base with the given id.
func NewBase(id string) *Base {
	return &Base{
		id:                strings.TrimSpace(id),
		visible:           true,
		visibilityAllowed: true,
		enabled:           true,
	}
}

func (b *Base) base() *Base { return b }

// ID returns the component id, unique among its siblings.
func (b *Base) ID() string { return b.id }

// Parent returns the owning container, or nil when detached.
func (b *Base) Parent() *Container { return b.parent }

// Path joins the ids from the page root down to this component.
func (b *Base) Path() string {
	ids := []string{b.id}
	for c := b.parent; c != nil; c = c.parent {
		if c.parent == nil && c.page != nil {
			break
		}
		ids = append(ids, c.id)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return strings.Join(ids, PathSeparator)
}

// InputName is the name posted by form controls of this component.
func (b *Base) InputName() string {
	return b.Path()
}

// SetMarkupID pins the DOM id instead of generating one.
func (b *Base) SetMarkupID(id string) {
	b.markupID = strings.TrimSpace(id)
}

// MarkupID returns the DOM id. Unless pinned, it is generated on first use as
// the component id followed by the page sequence in hex; detached components
// fall back to their plain id without caching it.
func (b *Base) MarkupID() string {
	if b.markupID != "" {
		return b.markupID
	}
	page := b.page()
	if page == nil {
		return b.id
	}
	b.markupID = b.id + strconv.FormatInt(int64(page.nextSequence()), 16)
	return b.markupID
}

// SetVisible sets the visibility flag.
func (b *Base) SetVisible(visible bool) {
	b.visible = visible
	b.visibleFunc = nil
}

// SetVisibleFunc makes visibility computed on every render.
func (b *Base) SetVisibleFunc(fn func() bool) {
	b.visibleFunc = fn
}

// IsVisible reports the component's own visibility.
func (b *Base) IsVisible() bool {
	if b.visibleFunc != nil {
		return b.visibleFunc()
	}
	return b.visible
}

// SetVisibilityAllowed sets the authorization-style visibility gate.
func (b *Base) SetVisibilityAllowed(allowed bool) {
	b.visibilityAllowed = allowed
	b.visibilityAllowedFunc = nil
}

// SetVisibilityAllowedFunc makes the visibility gate computed on every render.
func (b *Base) SetVisibilityAllowedFunc(fn func() bool) {
	b.visibilityAllowedFunc = fn
}

// IsVisibilityAllowed reports the visibility gate.
func (b *Base) IsVisibilityAllowed() bool {
	if b.visibilityAllowedFunc != nil {
		return b.visibilityAllowedFunc()
	}
	return b.visibilityAllowed
}

// DetermineVisibility reports whether the component renders at all, given that
// its parent renders.
func (b *Base) DetermineVisibility() bool {
	return b.IsVisible() && b.IsVisibilityAllowed()
}

// IsVisibleInHierarchy reports whether this component and every ancestor
// render.
func (b *Base) IsVisibleInHierarchy() bool {
	if !b.DetermineVisibility() {
		return false
	}
	for c := b.parent; c != nil; c = c.parent {
		if !c.DetermineVisibility() {
			return false
		}
	}
	return true
}

// SetEnabled sets the enabled flag.
func (b *Base) SetEnabled(enabled bool) {
	b.enabled = enabled
	b.enabledFunc = nil
}

// SetEnabledFunc makes the enabled state computed on every render.
func (b *Base) SetEnabledFunc(fn func() bool) {
	b.enabledFunc = fn
}

// IsEnabled reports the component's own enabled state.
func (b *Base) IsEnabled() bool {
	if b.enabledFunc != nil {
		return b.enabledFunc()
	}
	return b.enabled
}

// IsEnabledInHierarchy is false when this component or any ancestor is
// disabled.
func (b *Base) IsEnabledInHierarchy() bool {
	if !b.IsEnabled() {
		return false
	}
	for c := b.parent; c != nil; c = c.parent {
		if !c.IsEnabled() {
			return false
		}
	}
	return true
}

func (b *Base) page() *Page {
	root := b.parent
	if root == nil {
		return nil
	}
	for root.parent != nil {
		root = root.parent
	}
	return root.page
}

package component

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateID is returned when a sibling with the same id exists.
	ErrDuplicateID = errors.New("component: duplicate id")
	// ErrAlreadyAttached is returned when the child already has a parent.
	ErrAlreadyAttached = errors.New("component: component already has a parent")
	// ErrInvalidComponent is returned for nil children or empty ids.
	ErrInvalidComponent = errors.New("component: invalid component")
)

// Container is a component that owns child components. Its template body is
// rendered with the children bound to the nested component tags.
type Container struct {
	*Base

	page     *Page
	children []Component
	index    map[string]Component
}

// NewContainer returns an empty container.
func NewContainer(id string) *Container {
	return &Container{
		Base:  NewBase(id),
		index: make(map[string]Component),
	}
}

// Add attaches children in order. Ids must be unique among siblings. Every
// child is checked before any is attached, so a failing call leaves the tree
// unchanged.
func (c *Container) Add(children ...Component) error {
	pending := make(map[string]struct{}, len(children))
	for _, child := range children {
		if child == nil || child.base() == nil {
			return fmt.Errorf("%w: nil child added to %q", ErrInvalidComponent, c.Path())
		}
		b := child.base()
		if b.id == "" {
			return fmt.Errorf("%w: child of %q has an empty id", ErrInvalidComponent, c.Path())
		}
		if c.isSelfOrAncestor(b) {
			return fmt.Errorf("%w: %q cannot be added to itself or a descendant", ErrInvalidComponent, b.id)
		}
		if b.parent != nil {
			return fmt.Errorf("%w: %q", ErrAlreadyAttached, b.Path())
		}
		if _, exists := c.index[b.id]; exists {
			return fmt.Errorf("%w %q in %q", ErrDuplicateID, b.id, c.Path())
		}
		if _, exists := pending[b.id]; exists {
			return fmt.Errorf("%w %q in %q", ErrDuplicateID, b.id, c.Path())
		}
		pending[b.id] = struct{}{}
	}
	for _, child := range children {
		b := child.base()
		b.parent = c
		c.index[b.id] = child
		c.children = append(c.children, child)
	}
	return nil
}

func (c *Container) isSelfOrAncestor(b *Base) bool {
	for current := c; current != nil; current = current.parent {
		if current.Base == b {
			return true
		}
	}
	return false
}

// MustAdd is Add for wiring code where a failure is a programming error.
func (c *Container) MustAdd(children ...Component) *Container {
	if err := c.Add(children...); err != nil {
		panic(err)
	}
	return c
}

// Remove detaches the child with the given id.
func (c *Container) Remove(id string) (Component, bool) {
	child, ok := c.index[id]
	if !ok {
		return nil, false
	}
	delete(c.index, id)
	for i, candidate := range c.children {
		if candidate == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			break
		}
	}
	child.base().parent = nil
	return child, true
}

// Get returns the direct child with the given id.
func (c *Container) Get(id string) (Component, bool) {
	child, ok := c.index[id]
	return child, ok
}

// Lookup resolves a `:`-separated path relative to this container.
func (c *Container) Lookup(path string) (Component, bool) {
	current := c
	segments := strings.Split(strings.Trim(path, PathSeparator), PathSeparator)
	for i, segment := range segments {
		child, ok := current.Get(segment)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return child, true
		}
		next, ok := AsContainer(child)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Children returns the direct children in insertion order.
func (c *Container) Children() []Component {
	return append([]Component(nil), c.children...)
}

// Walk visits every descendant depth-first. Returning false from fn skips the
// subtree below that component.
func (c *Container) Walk(fn func(Component) bool) {
	for _, child := range c.children {
		if !fn(child) {
			continue
		}
		if nested, ok := AsContainer(child); ok {
			nested.Walk(fn)
		}
	}
}

// Parented is implemented by components that own children.
type Parented interface {
	Component
	AsContainer() *Container
}

// AsContainer returns the receiver; types embedding *Container inherit it.
func (c *Container) AsContainer() *Container { return c }

// AsContainer returns the container behind a component, if it has one.
func AsContainer(component Component) (*Container, bool) {
	if parented, ok := component.(Parented); ok {
		if container := parented.AsContainer(); container != nil {
			return container, true
		}
	}
	return nil, false
}

package markup

import "strings"

// Tag is an HTML start tag that carries a component id.
type Tag struct {
	Name        string
	Attrs       Attributes
	SelfClosing bool
}

// Clone returns a copy that can be mutated without touching the parsed
// fragment.
func (t *Tag) Clone() *Tag {
	if t == nil {
		return nil
	}
	return &Tag{
		Name:        t.Name,
		Attrs:       t.Attrs.Clone(),
		SelfClosing: t.SelfClosing,
	}
}

// Get returns an attribute value.
func (t *Tag) Get(key string) (string, bool) {
	return t.Attrs.Get(key)
}

// Put sets an attribute, keeping its original position when present.
func (t *Tag) Put(key, value string) {
	t.Attrs = t.Attrs.Put(key, value)
}

// Remove drops an attribute.
func (t *Tag) Remove(key string) {
	t.Attrs = t.Attrs.Remove(key)
}

// Open renders the start tag. Self-closing tags render as `<name .../>`.
func (t *Tag) Open() string {
	var builder strings.Builder
	builder.WriteByte('<')
	builder.WriteString(t.Name)
	t.Attrs.WriteTo(&builder)
	if t.SelfClosing {
		builder.WriteByte('/')
	}
	builder.WriteByte('>')
	return builder.String()
}

// Close renders the matching end tag.
func (t *Tag) Close() string {
	return "</" + t.Name + ">"
}

package markup

import (
	"strings"
)

// Attr is a single tag attribute.
type Attr struct {
	Key   string
	Value string
}

// Attributes is an ordered attribute list. Order is preserved on output so
// rendered tags stay stable across runs.
type Attributes []Attr

// Attrs builds Attributes from alternating key/value pairs. A trailing key
// without a value is rendered with an empty value.
func Attrs(pairs ...string) Attributes {
	out := make(Attributes, 0, (len(pairs)+1)/2)
	for i := 0; i < len(pairs); i += 2 {
		key := strings.TrimSpace(pairs[i])
		if key == "" {
			continue
		}
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		out = out.Put(key, value)
	}
	return out
}

// ParseValueMap parses the `key=value[,key=value]` shorthand into Attributes.
// Entries without '=' become empty-valued attributes; blank entries are
// skipped.
func ParseValueMap(raw string) Attributes {
	var out Attributes
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out = out.Put(key, strings.TrimSpace(value))
	}
	return out
}

// Get returns the value stored for key.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Put replaces the value for key in place or appends a new attribute.
func (a Attributes) Put(key, value string) Attributes {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Key: key, Value: value})
}

// Remove drops every attribute named key.
func (a Attributes) Remove(key string) Attributes {
	out := a[:0]
	for _, attr := range a {
		if attr.Key == key {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// Merge copies every attribute of other into a, overriding existing keys.
func (a Attributes) Merge(other Attributes) Attributes {
	for _, attr := range other {
		a = a.Put(attr.Key, attr.Value)
	}
	return a
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}

// String renders the list as ` key="value"` pairs.
func (a Attributes) String() string {
	var builder strings.Builder
	a.WriteTo(&builder)
	return builder.String()
}

// WriteTo appends the rendered attribute list to builder.
func (a Attributes) WriteTo(builder *strings.Builder) {
	for _, attr := range a {
		builder.WriteByte(' ')
		builder.WriteString(attr.Key)
		builder.WriteString(`="`)
		builder.WriteString(EscapeAttribute(attr.Value))
		builder.WriteByte('"')
	}
}

var attributeEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// EscapeAttribute escapes a value for use inside a double-quoted attribute.
func EscapeAttribute(value string) string {
	return attributeEscaper.Replace(value)
}

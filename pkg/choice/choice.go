package choice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/markup"
)

// ErrUnknownChoice is returned when submitted input matches no choice.
var ErrUnknownChoice = errors.New("choice: unknown choice value")

// Option configures the settings shared by every choice component.
type Option func(*settings)

type settings struct {
	prefix        string
	suffix        string
	labelPosition LabelPosition
	labelMode     LabelMode
	translator    Translator
	locale        string
	theme         ThemeClasses
}

// WithPrefix sets a literal string written before every choice.
func WithPrefix(prefix string) Option {
	return func(s *settings) { s.prefix = prefix }
}

// WithSuffix sets a literal string written after every choice.
func WithSuffix(suffix string) Option {
	return func(s *settings) { s.suffix = suffix }
}

// WithLabelPosition places labels relative to their inputs.
func WithLabelPosition(position LabelPosition) Option {
	return func(s *settings) { s.labelPosition = position }
}

// WithLabelMode selects how display values are written.
func WithLabelMode(mode LabelMode) Option {
	return func(s *settings) { s.labelMode = mode }
}

// WithTranslator localizes display values, using each display value as the
// translation key.
func WithTranslator(translator Translator, locale string) Option {
	return func(s *settings) {
		s.translator = translator
		s.locale = strings.TrimSpace(locale)
	}
}

// WithThemeClasses applies default input and label classes.
func WithThemeClasses(classes ThemeClasses) Option {
	return func(s *settings) { s.theme = classes }
}

// AttributesFunc returns extra attributes for the choice at index.
type AttributesFunc[T any] func(index int, choice T) markup.Attributes

// DecorationFunc returns the prefix or suffix for the choice at index.
type DecorationFunc[T any] func(index int, choice T) string

// core renders a list of choices as input/label pairs. CheckGroup and
// RadioChoice embed it and only differ in input type and selection rules.
type core[T comparable] struct {
	*component.Base
	settings

	inputType   string
	choices     []T
	choicesFunc func() []T
	renderer    Renderer[T]
	selected    []T

	prefixFunc   DecorationFunc[T]
	suffixFunc   DecorationFunc[T]
	inputAttrs   AttributesFunc[T]
	labelAttrs   AttributesFunc[T]
	disabledFunc func(index int, choice T) bool
}

func newCore[T comparable](id, inputType string, choices []T, options []Option) *core[T] {
	c := &core[T]{
		Base:      component.NewBase(id),
		inputType: inputType,
		choices:   append([]T(nil), choices...),
		renderer:  IndexRenderer[T]{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&c.settings)
		}
	}
	return c
}

// Choices returns the current choice list.
func (c *core[T]) Choices() []T {
	if c.choicesFunc != nil {
		return c.choicesFunc()
	}
	return append([]T(nil), c.choices...)
}

// SetChoices replaces the choice list.
func (c *core[T]) SetChoices(choices []T) {
	c.choices = append([]T(nil), choices...)
	c.choicesFunc = nil
}

// SetChoicesFunc makes the choice list computed on every render.
func (c *core[T]) SetChoicesFunc(fn func() []T) {
	c.choicesFunc = fn
}

// SetChoiceRenderer replaces the default index renderer.
func (c *core[T]) SetChoiceRenderer(renderer Renderer[T]) {
	if renderer == nil {
		renderer = IndexRenderer[T]{}
	}
	c.renderer = renderer
}

// ChoiceRenderer returns the active renderer.
func (c *core[T]) ChoiceRenderer() Renderer[T] { return c.renderer }

// SetPrefix sets the literal prefix and drops any prefix func.
func (c *core[T]) SetPrefix(prefix string) {
	c.prefix = prefix
	c.prefixFunc = nil
}

// SetSuffix sets the literal suffix and drops any suffix func.
func (c *core[T]) SetSuffix(suffix string) {
	c.suffix = suffix
	c.suffixFunc = nil
}

// SetPrefixFunc computes the prefix per choice.
func (c *core[T]) SetPrefixFunc(fn DecorationFunc[T]) { c.prefixFunc = fn }

// SetSuffixFunc computes the suffix per choice.
func (c *core[T]) SetSuffixFunc(fn DecorationFunc[T]) { c.suffixFunc = fn }

// Prefix returns the prefix written before the choice at index.
func (c *core[T]) Prefix(index int, choice T) string {
	if c.prefixFunc != nil {
		return c.prefixFunc(index, choice)
	}
	return c.prefix
}

// Suffix returns the suffix written after the choice at index.
func (c *core[T]) Suffix(index int, choice T) string {
	if c.suffixFunc != nil {
		return c.suffixFunc(index, choice)
	}
	return c.suffix
}

// SetLabelPosition places labels relative to their inputs.
func (c *core[T]) SetLabelPosition(position LabelPosition) { c.labelPosition = position }

// LabelPosition returns the label placement.
func (c *core[T]) LabelPosition() LabelPosition { return c.labelPosition }

// SetLabelMode selects how display values are written.
func (c *core[T]) SetLabelMode(mode LabelMode) { c.labelMode = mode }

// SetThemeClasses applies default input and label classes.
func (c *core[T]) SetThemeClasses(classes ThemeClasses) { c.theme = classes }

// SetInputAttributes adds attributes to every generated input.
func (c *core[T]) SetInputAttributes(fn AttributesFunc[T]) { c.inputAttrs = fn }

// SetLabelAttributes adds attributes to every generated label.
func (c *core[T]) SetLabelAttributes(fn AttributesFunc[T]) { c.labelAttrs = fn }

// SetDisabledFunc disables individual choices.
func (c *core[T]) SetDisabledFunc(fn func(index int, choice T) bool) { c.disabledFunc = fn }

// InputID returns the DOM id of the input generated for idValue.
func (c *core[T]) InputID(idValue string) string {
	return c.MarkupID() + "-" + c.InputName() + "_" + idValue
}

// OnComponentTag strips form-control attributes from the wrapper tag; they
// belong on the generated inputs.
func (c *core[T]) OnComponentTag(tag *markup.Tag) {
	tag.Remove("disabled")
	tag.Remove("name")
}

// RenderBody writes one input/label pair per choice followed by a newline.
func (c *core[T]) RenderBody(buf *strings.Builder) error {
	if c.renderer == nil {
		return errors.New("choice: renderer is nil")
	}
	enabled := c.IsEnabledInHierarchy()
	for index, choice := range c.Choices() {
		c.writeChoice(buf, index, choice, enabled)
	}
	buf.WriteByte('\n')
	return nil
}

func (c *core[T]) writeChoice(buf *strings.Builder, index int, choice T, enabled bool) {
	idValue := c.renderer.IDValue(choice, index)
	inputID := c.InputID(idValue)
	display := formatLabel(c.labelMode, translate(c.translator, c.locale, c.renderer.DisplayValue(choice)))
	labelAttrs := c.attributes(c.theme.Label, c.labelAttrs, index, choice)

	buf.WriteString(c.Prefix(index, choice))

	switch c.labelPosition {
	case WrapBefore, WrapAfter:
		buf.WriteString("<label")
		labelAttrs.WriteTo(buf)
		buf.WriteByte('>')
		if c.labelPosition == WrapBefore {
			buf.WriteString(display)
			buf.WriteByte(' ')
		}
	case Before:
		writeLabel(buf, inputID, labelAttrs, display)
	}

	buf.WriteString(`<input name="`)
	buf.WriteString(markup.EscapeAttribute(c.InputName()))
	buf.WriteString(`" type="`)
	buf.WriteString(c.inputType)
	buf.WriteByte('"')
	if c.isSelected(choice) {
		buf.WriteString(` checked="checked"`)
	}
	if !enabled || (c.disabledFunc != nil && c.disabledFunc(index, choice)) {
		buf.WriteString(` disabled="disabled"`)
	}
	buf.WriteString(` value="`)
	buf.WriteString(markup.EscapeAttribute(idValue))
	buf.WriteString(`" id="`)
	buf.WriteString(markup.EscapeAttribute(inputID))
	buf.WriteByte('"')
	c.attributes(c.theme.Input, c.inputAttrs, index, choice).WriteTo(buf)
	buf.WriteString("/>")

	switch c.labelPosition {
	case WrapBefore:
		buf.WriteString("</label>")
	case WrapAfter:
		buf.WriteByte(' ')
		buf.WriteString(display)
		buf.WriteString("</label>")
	case Before:
	default:
		writeLabel(buf, inputID, labelAttrs, display)
	}

	buf.WriteString(c.Suffix(index, choice))
}

func (c *core[T]) attributes(themeClass string, fn AttributesFunc[T], index int, choice T) markup.Attributes {
	var attrs markup.Attributes
	if class := strings.TrimSpace(themeClass); class != "" {
		attrs = attrs.Put("class", class)
	}
	if fn != nil {
		attrs = attrs.Merge(fn(index, choice))
	}
	return attrs
}

func (c *core[T]) isSelected(choice T) bool {
	for _, selected := range c.selected {
		if selected == choice {
			return true
		}
	}
	return false
}

// choiceForID maps a submitted value back to its choice.
func (c *core[T]) choiceForID(value string) (T, error) {
	for index, choice := range c.Choices() {
		if c.renderer.IDValue(choice, index) == value {
			return choice, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w %q for %q", ErrUnknownChoice, value, c.InputName())
}

func writeLabel(buf *strings.Builder, inputID string, attrs markup.Attributes, display string) {
	buf.WriteString(`<label for="`)
	buf.WriteString(markup.EscapeAttribute(inputID))
	buf.WriteByte('"')
	attrs.WriteTo(buf)
	buf.WriteByte('>')
	buf.WriteString(display)
	buf.WriteString("</label>")
}

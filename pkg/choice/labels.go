package choice

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// LabelMode controls how display values are written into label markup.
type LabelMode int

const (
	// LabelsEscaped HTML-escapes display values. It is the default.
	LabelsEscaped LabelMode = iota
	// LabelsSanitized keeps safe inline markup in display values.
	LabelsSanitized
	// LabelsMarkdown renders display values as inline Markdown, then sanitizes.
	LabelsMarkdown
)

// Translator resolves localized display values.
type Translator interface {
	Translate(locale, key string) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string) (string, error) {
	return fn(locale, key)
}

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
	markdown        = goldmark.New()
)

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		labelPolicy = policy
	})
	return labelPolicy
}

func formatLabel(mode LabelMode, display string) string {
	switch mode {
	case LabelsSanitized:
		return strings.TrimSpace(labelSanitizer().Sanitize(display))
	case LabelsMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(display), &buf); err != nil {
			return html.EscapeString(display)
		}
		return strings.TrimSpace(labelSanitizer().Sanitize(unwrapParagraph(buf.String())))
	default:
		return html.EscapeString(display)
	}
}

// unwrapParagraph drops the <p> goldmark puts around single-line input so the
// label stays inline.
func unwrapParagraph(rendered string) string {
	trimmed := strings.TrimSpace(rendered)
	if !strings.HasPrefix(trimmed, "<p>") || !strings.HasSuffix(trimmed, "</p>") {
		return trimmed
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "<p>"), "</p>")
	if strings.Contains(inner, "<p>") {
		return trimmed
	}
	return inner
}

func translate(t Translator, locale, key string) string {
	if t == nil || strings.TrimSpace(key) == "" {
		return key
	}
	result, err := t.Translate(locale, key)
	if err != nil || strings.TrimSpace(result) == "" {
		return key
	}
	return result
}

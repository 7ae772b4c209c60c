package choice

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formkit/pkg/tester"
)

func TestFormatLabel(t *testing.T) {
	cases := []struct {
		name    string
		mode    LabelMode
		display string
		want    string
	}{
		{name: "escaped", mode: LabelsEscaped, display: `<b>Bold</b> & co`, want: `&lt;b&gt;Bold&lt;/b&gt; &amp; co`},
		{name: "sanitized", mode: LabelsSanitized, display: `<em class="hint">Hi</em><script>alert(1)</script>`, want: `<em class="hint">Hi</em>`},
		{name: "markdown", mode: LabelsMarkdown, display: `**Pro** plan`, want: `<strong>Pro</strong> plan`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatLabel(tc.mode, tc.display); got != tc.want {
				t.Fatalf("formatLabel(%q) = %q, want %q", tc.display, got, tc.want)
			}
		})
	}
}

func TestUnwrapParagraphKeepsMultipleParagraphs(t *testing.T) {
	in := "<p>a</p>\n<p>b</p>"
	if got := unwrapParagraph(in); got != in {
		t.Fatalf("expected multi paragraph markup unchanged, got %q", got)
	}
}

func TestTranslatorLocalizesLabels(t *testing.T) {
	catalog := map[string]string{"yes": "oui", "no": "non"}
	translator := TranslatorFunc(func(locale, key string) (string, error) {
		if locale != "fr" {
			return "", errors.New("unsupported locale")
		}
		value, ok := catalog[key]
		if !ok {
			return "", errors.New("missing key")
		}
		return value, nil
	})

	group := NewCheckGroup("answer", []string{"yes", "no", "maybe"}, WithTranslator(translator, " fr "))

	tt := tester.New(t)
	tt.StartComponentInPage(group)
	tt.AssertContains(`<label for="answer1-answer_0">oui</label>`)
	tt.AssertContains(`<label for="answer1-answer_1">non</label>`)
	tt.AssertContains(`<label for="answer1-answer_2">maybe</label>`)
}

func TestTranslateFallsBackToKey(t *testing.T) {
	if got := translate(nil, "en", "key"); got != "key" {
		t.Fatalf("nil translator should return the key, got %q", got)
	}
	blank := TranslatorFunc(func(string, string) (string, error) { return "  ", nil })
	if got := translate(blank, "en", "key"); got != "key" {
		t.Fatalf("blank translation should return the key, got %q", got)
	}
}

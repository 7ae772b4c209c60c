package form_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/choice"
	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/form"
)

func buildPage(t *testing.T) (*component.Page, *choice.CheckGroup[string], *choice.RadioChoice[string], *choice.CheckGroup[string]) {
	t.Helper()
	page, err := component.NewPageFromString(`<form wicket:id="form">` +
		`<div wicket:id="tags"></div><div wicket:id="size"></div>` +
		`<div wicket:id="locked"></div></form>`)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	formContainer := component.NewContainer("form")
	tags := choice.NewCheckGroup("tags", []string{"go", "rust", "zig"})
	size := choice.NewRadioChoice("size", []string{"S", "M"})
	locked := choice.NewCheckGroup("locked", []string{"a"})
	locked.SetSelected("a")
	locked.SetEnabled(false)

	page.MustAdd(formContainer)
	formContainer.MustAdd(tags, size, locked)
	return page, tags, size, locked
}

func TestApplyUpdatesSelections(t *testing.T) {
	page, tags, size, locked := buildPage(t)

	errs := form.Apply(page, url.Values{
		"form:tags":   {"0", "2"},
		"form:size":   {"1"},
		"form:locked": {},
	})
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs.Err())
	}
	if diff := cmp.Diff([]string{"go", "zig"}, tags.Selected()); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if got, ok := size.Selected(); !ok || got != "M" {
		t.Fatalf("expected size M, got %q", got)
	}
	if diff := cmp.Diff([]string{"a"}, locked.Selected()); diff != "" {
		t.Fatalf("disabled component must keep its selection (-want +got):\n%s", diff)
	}
}

func TestApplyCollectsErrorsByPath(t *testing.T) {
	page, tags, _, _ := buildPage(t)
	tags.SetSelected("rust")

	errs := form.Apply(page, url.Values{"form:tags": {"9"}, "form:size": {"x"}})
	if diff := cmp.Diff([]string{"form:size", "form:tags"}, errs.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rust"}, tags.Selected()); diff != "" {
		t.Fatalf("failed conversion must keep the selection (-want +got):\n%s", diff)
	}
	if err := errs.Err(); err == nil || !strings.Contains(err.Error(), "form:tags: choice: unknown choice value") {
		t.Fatalf("unexpected joined error %v", err)
	}
}

func TestApplySkipsInvisibleComponents(t *testing.T) {
	page, tags, _, _ := buildPage(t)
	tags.SetSelected("rust")
	tags.SetVisible(false)

	if errs := form.Apply(page, url.Values{}); !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs.Err())
	}
	if diff := cmp.Diff([]string{"rust"}, tags.Selected()); diff != "" {
		t.Fatalf("invisible component must keep its selection (-want +got):\n%s", diff)
	}
}

func TestErrorsMergeMessages(t *testing.T) {
	var errs form.Errors
	errs.Add("", " broken ")
	errs.Add("", "broken")
	errs.Add("a", "")
	errs.Add("a", "bad")

	if diff := cmp.Diff([]string{"broken"}, errs.Form); diff != "" {
		t.Fatalf("form messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]string{"a": {"bad"}}, errs.Fields); diff != "" {
		t.Fatalf("field messages mismatch (-want +got):\n%s", diff)
	}
	if got := form.MergeMessages(nil, " ", ""); got != nil {
		t.Fatalf("expected nil for blank messages, got %v", got)
	}
}

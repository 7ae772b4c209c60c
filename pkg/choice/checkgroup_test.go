package choice

import (
	"errors"
	"strconv"
	"testing"

	"github.com/goliatone/go-formkit/pkg/component"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/tester"
)

const prefixPageMarkup = "<html><body>" +
	"<div wicket:id='checkWithoutPrefix'></div>" +
	"<div wicket:id='checkWithFixedPrefix'></div>" +
	"<div wicket:id='checkWithDynamicPrefix'></div>" +
	"<div wicket:id='container'><div wicket:id='disabled'></div></div>" +
	"</body></html>"

func newPrefixPage(t *testing.T, show1, show2, show3, show4 bool) *component.Page {
	t.Helper()

	page, err := component.NewPageFromString(prefixPageMarkup)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	choices := []string{"a", "b", "c"}

	withoutPrefix := NewCheckGroup("checkWithoutPrefix", choices)
	withoutPrefix.SetVisibleFunc(func() bool { return show1 })

	fixedPrefix := NewCheckGroup("checkWithFixedPrefix", choices, WithPrefix("pre"), WithSuffix("suf"))
	fixedPrefix.SetVisibleFunc(func() bool { return show2 })

	dynamicPrefix := NewCheckGroup("checkWithDynamicPrefix", choices)
	dynamicPrefix.SetVisibleFunc(func() bool { return show3 })
	dynamicPrefix.SetPrefixFunc(func(index int, choice string) string {
		return "pre" + strconv.Itoa(index) + choice
	})
	dynamicPrefix.SetSuffixFunc(func(index int, choice string) string {
		return "suf" + strconv.Itoa(index) + choice
	})

	container := component.NewContainer("container")
	container.SetVisibilityAllowed(show4)
	container.SetEnabled(false)

	page.MustAdd(withoutPrefix, fixedPrefix, dynamicPrefix, container)
	container.MustAdd(NewCheckGroup("disabled", choices))
	return page
}

func TestCheckGroupWithoutPrefix(t *testing.T) {
	tt := tester.New(t)
	tt.StartPage(newPrefixPage(t, true, false, false, false))
	tt.AssertContains(`<div wicket:id="checkWithoutPrefix"><input name="checkWithoutPrefix"`)
	tt.AssertNotContains(`checkWithFixedPrefix`)
	tt.AssertNotContains(`disabled="disabled"`)
}

func TestCheckGroupFixedPrefix(t *testing.T) {
	tt := tester.New(t)
	tt.StartPage(newPrefixPage(t, false, true, false, false))
	tt.AssertContains(`<div wicket:id="checkWithFixedPrefix">pre<input name="checkWithFixedPrefix"`)
	tt.AssertContains(`</label>sufpre<input name="checkWithFixedPrefix"`)
	tt.AssertContains("</label>suf\n</div>")
}

func TestCheckGroupDynamicPrefix(t *testing.T) {
	tt := tester.New(t)
	tt.StartPage(newPrefixPage(t, false, false, true, false))
	tt.AssertContains(`<div wicket:id="checkWithDynamicPrefix">pre0a<input name="checkWithDynamicPrefix"`)
	tt.AssertContains(`</label>suf0apre1b<input name="checkWithDynamicPrefix"`)
	tt.AssertContains("</label>suf2c\n</div>")
}

func TestCheckGroupDisabledInHierarchy(t *testing.T) {
	tt := tester.New(t)
	tt.StartPage(newPrefixPage(t, false, false, false, true))
	tt.AssertContains(`disabled="disabled"`)
	tt.AssertContains(`<input name="container:disabled" type="checkbox" disabled="disabled" value="0"`)
}

func newLabelledGroup(position LabelPosition) *CheckGroup[int] {
	group := NewCheckGroup("testid", []int{1}, WithLabelPosition(position))
	group.SetInputAttributes(func(index int, _ int) markup.Attributes {
		return markup.Attrs("class", "input"+strconv.Itoa(index))
	})
	group.SetLabelAttributes(func(index int, _ int) markup.Attributes {
		return markup.Attrs("class", "label"+strconv.Itoa(index))
	})
	return group
}

func TestCheckGroupLabelPositions(t *testing.T) {
	cases := []struct {
		name     string
		position LabelPosition
		want     string
	}{
		{
			name:     "default after",
			position: After,
			want:     "<span wicket:id=\"testid\"><input name=\"testid\" type=\"checkbox\" value=\"0\" id=\"testid1-testid_0\" class=\"input0\"/><label for=\"testid1-testid_0\" class=\"label0\">1</label>\n</span>",
		},
		{
			name:     "before",
			position: Before,
			want:     "<span wicket:id=\"testid\"><label for=\"testid1-testid_0\" class=\"label0\">1</label><input name=\"testid\" type=\"checkbox\" value=\"0\" id=\"testid1-testid_0\" class=\"input0\"/>\n</span>",
		},
		{
			name:     "wrap before",
			position: WrapBefore,
			want:     "<span wicket:id=\"testid\"><label class=\"label0\">1 <input name=\"testid\" type=\"checkbox\" value=\"0\" id=\"testid1-testid_0\" class=\"input0\"/></label>\n</span>",
		},
		{
			name:     "wrap after",
			position: WrapAfter,
			want:     "<span wicket:id=\"testid\"><label class=\"label0\"><input name=\"testid\" type=\"checkbox\" value=\"0\" id=\"testid1-testid_0\" class=\"input0\"/> 1</label>\n</span>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tt := tester.New(t)
			tt.StartComponentInPage(newLabelledGroup(tc.position))
			tt.AssertResultPage(tc.want)
		})
	}
}

func TestCheckGroupDefaultLabelPositionIsAfter(t *testing.T) {
	group := NewCheckGroup("testid", []int{1})
	if group.LabelPosition() != After {
		t.Fatalf("expected default label position after, got %s", group.LabelPosition())
	}
}

func TestCheckGroupSelectionRendersChecked(t *testing.T) {
	group := NewCheckGroup("flags", []string{"x", "y", "z"})
	group.SetSelected("y", "z")

	tt := tester.New(t)
	tt.StartComponentInPage(group)
	tt.AssertContains(`<input name="flags" type="checkbox" value="0" id="flags1-flags_0"/>`)
	tt.AssertContains(`<input name="flags" type="checkbox" checked="checked" value="1" id="flags1-flags_1"/>`)
	tt.AssertContains(`<input name="flags" type="checkbox" checked="checked" value="2" id="flags1-flags_2"/>`)
}

func TestCheckGroupConvertInput(t *testing.T) {
	group := NewCheckGroup("flags", []string{"x", "y", "z"})

	if err := group.UpdateFromInput([]string{"2", "0"}); err != nil {
		t.Fatalf("update from input: %v", err)
	}
	selected := group.Selected()
	if len(selected) != 2 || selected[0] != "z" || selected[1] != "x" {
		t.Fatalf("unexpected selection %v", selected)
	}

	if _, err := group.ConvertInput([]string{"7"}); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected unknown choice error, got %v", err)
	}
	if got := group.Selected(); len(got) != 2 {
		t.Fatalf("failed conversion must not change the selection, got %v", got)
	}
}

func TestCheckGroupChoiceRendererAndDisabledFunc(t *testing.T) {
	type plan struct {
		Code string
		Name string
	}
	group := NewCheckGroup("plans", []plan{{"free", "Free"}, {"pro", "Pro & Team"}})
	group.SetChoiceRenderer(FuncRenderer[plan]{
		Display: func(p plan) string { return p.Name },
		ID:      func(p plan, _ int) string { return p.Code },
	})
	group.SetDisabledFunc(func(_ int, p plan) bool { return p.Code == "pro" })

	tt := tester.New(t)
	tt.StartComponentInPage(group)
	tt.AssertContains(`<input name="plans" type="checkbox" value="free" id="plans1-plans_free"/><label for="plans1-plans_free">Free</label>`)
	tt.AssertContains(`<input name="plans" type="checkbox" disabled="disabled" value="pro" id="plans1-plans_pro"/><label for="plans1-plans_pro">Pro &amp; Team</label>`)

	if err := group.UpdateFromInput([]string{"pro"}); err != nil {
		t.Fatalf("update from input: %v", err)
	}
	if got := group.Selected(); len(got) != 1 || got[0].Code != "pro" {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestCheckGroupChoicesFunc(t *testing.T) {
	items := []string{"one"}
	group := NewCheckGroup[string]("dyn", nil)
	group.SetChoicesFunc(func() []string { return items })

	tt := tester.New(t)
	tt.StartComponentInPage(group)
	tt.AssertContains(`<label for="dyn1-dyn_0">one</label>`)
	tt.AssertNotContains(`dyn_1`)

	items = append(items, "two")
	if got := group.Choices(); len(got) != 2 {
		t.Fatalf("choices func should be evaluated on each call, got %v", got)
	}
}

func TestCheckGroupStripsWrapperFormAttributes(t *testing.T) {
	page, err := component.NewPageFromString(`<div wicket:id="opts" name="legacy" disabled="disabled" class="box"></div>`)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	page.MustAdd(NewCheckGroup("opts", []string{"a"}))

	tt := tester.New(t)
	tt.StartPage(page)
	tt.AssertContains(`<div wicket:id="opts" class="box"><input name="opts"`)
}

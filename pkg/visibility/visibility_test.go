package visibility

import (
	"errors"
	"testing"
)

func TestBindReevaluatesContext(t *testing.T) {
	values := map[string]any{"on": false}
	eval := EvaluatorFunc(func(_, rule string, ctx Context) (bool, error) {
		on, _ := ctx.Values[rule].(bool)
		return on, nil
	})
	hook := Bind(eval, "a", "on", func() Context { return Context{Values: values} }, nil)
	if hook() {
		t.Fatalf("expected false")
	}
	values["on"] = true
	if !hook() {
		t.Fatalf("expected hook to see updated values")
	}
}

func TestBindReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	var reported error
	hook := Bind(EvaluatorFunc(func(string, string, Context) (bool, error) { return true, boom }), "a", "x", nil, func(err error) { reported = err })
	if hook() {
		t.Fatalf("errors must read as false")
	}
	if !errors.Is(reported, boom) {
		t.Fatalf("expected error to be reported, got %v", reported)
	}
}

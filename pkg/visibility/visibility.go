// Package visibility decides component visibility and enabled state from
// rule strings evaluated against page values.
package visibility

// Evaluator reports whether rule holds for the component at componentPath.
type Evaluator interface {
	Eval(componentPath, rule string, ctx Context) (bool, error)
}

// Context carries the data rules are evaluated against. Values usually come
// from the page definition; Extras holds caller data such as roles or flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(componentPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(componentPath, rule string, ctx Context) (bool, error) {
	return fn(componentPath, rule, ctx)
}

// Bind turns a rule into a func usable as a visibility or enabled hook. ctx
// is called on every evaluation so rules see current values. Evaluation
// errors are passed to onError, when set, and read as false.
func Bind(evaluator Evaluator, componentPath, rule string, ctx func() Context, onError func(error)) func() bool {
	return func() bool {
		var current Context
		if ctx != nil {
			current = ctx()
		}
		ok, err := evaluator.Eval(componentPath, rule, current)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return false
		}
		return ok
	}
}

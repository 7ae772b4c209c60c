// Package expr implements visibility.Evaluator with a small expression
// language.
//
// Supported syntax:
//   - identifiers with dot paths, read from Context.Values, or from
//     Context.Extras with the `extras.` prefix
//   - string ('a' or "a"), number, true/false and null literals
//   - comparisons == != < <= > >=, and `x in list`
//   - boolean composition with ! && || and parentheses
//
// A rule that is blank evaluates to true.
package expr

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Evaluator compiles rules once and caches the result.
type Evaluator struct {
	cache sync.Map // rule string -> *Program
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// New returns an Evaluator with an empty cache.
func New() *Evaluator { return &Evaluator{} }

// Eval compiles (or reuses) rule and evaluates it against ctx.
func (e *Evaluator) Eval(componentPath, rule string, ctx visibility.Context) (bool, error) {
	key := strings.TrimSpace(rule)
	if cached, ok := e.cache.Load(key); ok {
		return cached.(*Program).Eval(ctx)
	}
	program, err := Compile(key)
	if err != nil {
		if componentPath != "" {
			return false, fmt.Errorf("%s: %w", componentPath, err)
		}
		return false, err
	}
	e.cache.Store(key, program)
	return program.Eval(ctx)
}

// Program is a compiled rule.
type Program struct {
	source string
	root   node
}

// Compile parses rule into a Program.
func Compile(rule string) (*Program, error) {
	source := strings.TrimSpace(rule)
	if source == "" {
		return &Program{}, nil
	}
	tokens, err := scan(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != kindEOF {
		return nil, fmt.Errorf("visibility/expr: unexpected %q in %q", tok.text, source)
	}
	return &Program{source: source, root: root}, nil
}

// String returns the rule source.
func (p *Program) String() string { return p.source }

// Eval evaluates the program; a blank rule is true.
func (p *Program) Eval(ctx visibility.Context) (bool, error) {
	if p.root == nil {
		return true, nil
	}
	value, err := p.root.eval(ctx)
	if err != nil {
		return false, err
	}
	return truthy(value), nil
}

type kind int

const (
	kindEOF kind = iota
	kindIdent
	kindString
	kindNumber
	kindBool
	kindNull
	kindOp
	kindLParen
	kindRParen
	kindLBracket
	kindRBracket
	kindComma
)

type token struct {
	kind kind
	text string
}

func scan(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case strings.IndexByte("()[],", ch) >= 0:
			tokens = append(tokens, token{kind: punctuation[ch], text: string(ch)})
			i++
		case ch == '"' || ch == '\'':
			end := i + 1
			for end < len(src) && src[end] != ch {
				if src[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(src) {
				return nil, fmt.Errorf("visibility/expr: unterminated string in %q", src)
			}
			body := src[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
			}
			text, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string %s: %w", src[i:end+1], err)
			}
			tokens = append(tokens, token{kind: kindString, text: text})
			i = end + 1
		case strings.IndexByte("=!<>&|", ch) >= 0:
			op := src[i : i+1]
			if i+1 < len(src) && isTwoCharOp(src[i:i+2]) {
				op = src[i : i+2]
			}
			switch op {
			case "=", "&", "|":
				return nil, fmt.Errorf("visibility/expr: unexpected %q; use %q", op, op+op)
			}
			tokens = append(tokens, token{kind: kindOp, text: op})
			i += len(op)
		default:
			end := i
			for end < len(src) && isWordByte(src[end]) {
				end++
			}
			if end == i {
				return nil, fmt.Errorf("visibility/expr: unexpected character %q in %q", ch, src)
			}
			tokens = append(tokens, word(src[i:end]))
			i = end
		}
	}
	return append(tokens, token{kind: kindEOF}), nil
}

var punctuation = map[byte]kind{
	'(': kindLParen, ')': kindRParen, '[': kindLBracket, ']': kindRBracket, ',': kindComma,
}

func isTwoCharOp(s string) bool {
	switch s {
	case "==", "!=", "<=", ">=", "&&", "||":
		return true
	}
	return false
}

// isWordByte accepts ':' so component paths such as box:plan are single
// identifiers.
func isWordByte(ch byte) bool {
	return ch == '.' || ch == ':' || ch == '_' || ch == '-' || ch == '+' ||
		(ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func word(text string) token {
	switch strings.ToLower(text) {
	case "true", "false":
		return token{kind: kindBool, text: strings.ToLower(text)}
	case "null", "nil":
		return token{kind: kindNull, text: "null"}
	case "in":
		return token{kind: kindOp, text: "in"}
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return token{kind: kindNumber, text: text}
	}
	return token{kind: kindIdent, text: text}
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != kindEOF {
		p.pos++
	}
	return tok
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.kind != kindOp {
		return "", false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.acceptOp("||"); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = logical{op: "||", left: left, right: right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.acceptOp("&&"); !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = logical{op: "&&", left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	if _, ok := p.acceptOp("!"); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return not{inner: inner}, nil
	}
	return p.comparison()
}

func (p *parser) comparison() (node, error) {
	left, err := p.operand()
	if err != nil {
		return nil, err
	}
	op, ok := p.acceptOp("==", "!=", "<", "<=", ">", ">=", "in")
	if !ok {
		return left, nil
	}
	right, err := p.operand()
	if err != nil {
		return nil, err
	}
	return compare{op: op, left: left, right: right}, nil
}

func (p *parser) operand() (node, error) {
	tok := p.next()
	switch tok.kind {
	case kindLParen:
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.next().kind != kindRParen {
			return nil, fmt.Errorf("visibility/expr: missing closing ')'")
		}
		return inner, nil
	case kindLBracket:
		var items list
		for p.peek().kind != kindRBracket {
			item, err := p.operand()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.peek().kind == kindComma {
				p.next()
			}
		}
		p.next()
		return items, nil
	case kindIdent:
		return ident(tok.text), nil
	case kindString:
		return constant{value: tok.text}, nil
	case kindNumber:
		f, _ := strconv.ParseFloat(tok.text, 64)
		return constant{value: f}, nil
	case kindBool:
		return constant{value: tok.text == "true"}, nil
	case kindNull:
		return constant{}, nil
	case kindEOF:
		return nil, fmt.Errorf("visibility/expr: unexpected end of expression")
	default:
		return nil, fmt.Errorf("visibility/expr: unexpected %q", tok.text)
	}
}

type node interface {
	eval(ctx visibility.Context) (any, error)
}

type constant struct{ value any }

func (c constant) eval(visibility.Context) (any, error) { return c.value, nil }

type ident string

func (id ident) eval(ctx visibility.Context) (any, error) {
	path := string(id)
	if rest, ok := strings.CutPrefix(path, "extras."); ok {
		value, _ := lookup(ctx.Extras, rest)
		return value, nil
	}
	value, _ := lookup(ctx.Values, path)
	return value, nil
}

type list []node

func (l list) eval(ctx visibility.Context) (any, error) {
	out := make([]any, 0, len(l))
	for _, item := range l {
		value, err := item.eval(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

type not struct{ inner node }

func (n not) eval(ctx visibility.Context) (any, error) {
	value, err := n.inner.eval(ctx)
	if err != nil {
		return nil, err
	}
	return !truthy(value), nil
}

type logical struct {
	op          string
	left, right node
}

func (n logical) eval(ctx visibility.Context) (any, error) {
	left, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	if n.op == "||" && truthy(left) {
		return true, nil
	}
	if n.op == "&&" && !truthy(left) {
		return false, nil
	}
	right, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}
	return truthy(right), nil
}

type compare struct {
	op          string
	left, right node
}

func (n compare) eval(ctx visibility.Context) (any, error) {
	left, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "==":
		return equal(left, right), nil
	case "!=":
		return !equal(left, right), nil
	case "in":
		for _, item := range items(right) {
			if equal(left, item) {
				return true, nil
			}
		}
		return false, nil
	}
	l, lok := number(left)
	r, rok := number(right)
	if !lok || !rok {
		return nil, fmt.Errorf("visibility/expr: %q needs numbers, got %v and %v", n.op, left, right)
	}
	switch n.op {
	case "<":
		return l < r, nil
	case "<=":
		return l <= r, nil
	case ">":
		return l > r, nil
	default:
		return l >= r, nil
	}
}

// equal compares loosely: booleans coerce the other side (a missing value is
// false), nil otherwise only equals nil, numbers coerce numeric strings and
// everything else compares as strings.
func equal(a, b any) bool {
	if ab, ok := a.(bool); ok {
		return ab == truthyString(b)
	}
	if bb, ok := b.(bool); ok {
		return bb == truthyString(a)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, ok := number(a); ok {
		if bn, ok := number(b); ok {
			return an == bn
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func truthyString(v any) bool {
	if s, ok := v.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return truthy(v)
}

func truthy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	case []string:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	}
	if f, ok := number(v); ok {
		return f != 0
	}
	return true
}

func number(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	}
	return 0, false
}

func items(v any) []any {
	switch typed := v.(type) {
	case []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i, s := range typed {
			out[i] = s
		}
		return out
	case string:
		return []any{typed}
	}
	return nil
}

// lookup resolves an exact key first, so flat keys like "cta.label" work,
// then walks nested maps segment by segment.
func lookup(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

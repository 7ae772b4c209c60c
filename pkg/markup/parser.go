package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// DefaultNamespace is the attribute namespace used to mark component tags.
const DefaultNamespace = "wicket"

// Node is one entry of a parsed fragment: either raw markup copied verbatim
// from the source, or a component tag with its body.
type Node struct {
	Text      string
	Component *ComponentNode
}

// IsText reports whether the node holds raw markup.
func (n Node) IsText() bool {
	return n.Component == nil
}

// ComponentNode is a tag bound to a component id.
type ComponentNode struct {
	ID   string
	Tag  *Tag
	Body []Node
}

// Fragment is a parsed markup template.
type Fragment struct {
	Namespace string
	Nodes     []Node
}

// IDAttribute returns the attribute that identifies component tags.
func (f *Fragment) IDAttribute() string {
	return IDAttribute(f.Namespace)
}

// ComponentIDs lists the component ids at the top level of the fragment, in
// document order.
func (f *Fragment) ComponentIDs() []string {
	var ids []string
	for _, node := range f.Nodes {
		if node.Component != nil {
			ids = append(ids, node.Component.ID)
		}
	}
	return ids
}

// IDAttribute returns `ns:id`, falling back to the default namespace.
func IDAttribute(namespace string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return namespace + ":id"
}

// Option configures parsing.
type Option func(*parseConfig)

type parseConfig struct {
	namespace string
}

// WithNamespace changes the namespace of the component id attribute.
func WithNamespace(namespace string) Option {
	return func(cfg *parseConfig) {
		if trimmed := strings.TrimSpace(namespace); trimmed != "" {
			cfg.namespace = trimmed
		}
	}
}

var (
	// ErrUnclosedComponent is returned when a component tag never closes.
	ErrUnclosedComponent = errors.New("markup: unclosed component tag")
	// ErrUnexpectedEndTag is returned when an end tag closes a component with
	// the wrong tag name.
	ErrUnexpectedEndTag = errors.New("markup: unexpected end tag")
	// ErrEmptyComponentID is returned for an id attribute with no value.
	ErrEmptyComponentID = errors.New("markup: empty component id")
)

type frame struct {
	node  *ComponentNode
	depth int
}

// Parse tokenises src and groups component tags with their bodies. Markup
// outside component tags is kept byte-for-byte.
func Parse(src string, options ...Option) (*Fragment, error) {
	cfg := parseConfig{namespace: DefaultNamespace}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	idAttr := IDAttribute(cfg.namespace)

	fragment := &Fragment{Namespace: cfg.namespace}
	var stack []*frame

	appendNode := func(node Node) {
		target := &fragment.Nodes
		if len(stack) > 0 {
			target = &stack[len(stack)-1].node.Body
		}
		if node.IsText() {
			if n := len(*target); n > 0 && (*target)[n-1].IsText() {
				(*target)[n-1].Text += node.Text
				return
			}
		}
		*target = append(*target, node)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("markup: tokenize: %w", err)
			}
			break
		}
		raw := string(tokenizer.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			id, isComponent := componentID(token, idAttr)
			if !isComponent {
				appendNode(Node{Text: raw})
				if tt == html.StartTagToken && !isVoidElement(token.Data) && len(stack) > 0 {
					stack[len(stack)-1].depth++
				}
				continue
			}
			if id == "" {
				return nil, fmt.Errorf("%w on <%s>", ErrEmptyComponentID, token.Data)
			}
			node := &ComponentNode{
				ID: id,
				Tag: &Tag{
					Name:        token.Data,
					Attrs:       convertAttributes(token.Attr),
					SelfClosing: tt == html.SelfClosingTagToken || isVoidElement(token.Data),
				},
			}
			if node.Tag.SelfClosing {
				appendNode(Node{Component: node})
				continue
			}
			stack = append(stack, &frame{node: node})

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if len(stack) == 0 {
				appendNode(Node{Text: raw})
				continue
			}
			top := stack[len(stack)-1]
			if top.depth > 0 {
				top.depth--
				appendNode(Node{Text: raw})
				continue
			}
			if string(name) != top.node.Tag.Name {
				return nil, fmt.Errorf("%w </%s> closing component %q (<%s>)", ErrUnexpectedEndTag, name, top.node.ID, top.node.Tag.Name)
			}
			stack = stack[:len(stack)-1]
			appendNode(Node{Component: top.node})

		default:
			appendNode(Node{Text: raw})
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, fmt.Errorf("%w %q (<%s>)", ErrUnclosedComponent, top.node.ID, top.node.Tag.Name)
	}
	return fragment, nil
}

// MustParse is Parse for literal markup known to be valid; it panics on error.
func MustParse(src string, options ...Option) *Fragment {
	fragment, err := Parse(src, options...)
	if err != nil {
		panic(err)
	}
	return fragment
}

func componentID(token html.Token, idAttr string) (string, bool) {
	for _, attr := range token.Attr {
		key := attr.Key
		if attr.Namespace != "" {
			key = attr.Namespace + ":" + attr.Key
		}
		if key == idAttr {
			return strings.TrimSpace(attr.Val), true
		}
	}
	return "", false
}

func convertAttributes(attrs []html.Attribute) Attributes {
	out := make(Attributes, 0, len(attrs))
	for _, attr := range attrs {
		key := attr.Key
		if attr.Namespace != "" {
			key = attr.Namespace + ":" + attr.Key
		}
		out = append(out, Attr{Key: key, Value: attr.Val})
	}
	return out
}

func isVoidElement(name string) bool {
	switch name {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	default:
		return false
	}
}

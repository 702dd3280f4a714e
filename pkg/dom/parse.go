package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a complete HTML document.
func ParseDocument(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return convert(doc), nil
}

// Parse parses an HTML fragment in a <body> context and returns the nodes
// wrapped in a fragment.
func Parse(markup string) (*Node, error) {
	children, err := parseFragmentIn(markup, nil)
	if err != nil {
		return nil, err
	}
	frag := NewFragment()
	for _, c := range children {
		c.Parent = frag
		frag.Children = append(frag.Children, c)
	}
	return frag, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level templates.
func MustParse(markup string) *Node {
	n, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return n
}

func parseFragmentIn(markup string, context *Node) ([]*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	if context.IsElement() {
		ctx.Data = context.Tag
		ctx.DataAtom = atom.Lookup([]byte(context.Tag))
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, convert(n))
	}
	return out, nil
}

// convert copies an x/net/html tree into a dom tree.
func convert(h *html.Node) *Node {
	n := &Node{}
	switch h.Type {
	case html.ElementNode:
		n.Type = ElementNode
		n.Tag = h.Data
		for _, a := range h.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.Attrs = append(n.Attrs, Attr{Name: name, Value: a.Val})
		}
	case html.TextNode:
		n.Type = TextNode
		n.Data = h.Data
	case html.CommentNode:
		n.Type = CommentNode
		n.Data = h.Data
	case html.DocumentNode:
		n.Type = DocumentNode
	case html.DoctypeNode:
		n.Type = DoctypeNode
		n.Data = h.Data
	default:
		n.Type = FragmentNode
	}

	for c := h.FirstChild; c != nil; c = c.NextSibling {
		child := convert(c)
		child.Parent = n
		n.Children = append(n.Children, child)
	}
	return n
}

package dom

import "strings"

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota + 1 // <div>, <input>, etc.
	TextNode                         // Plain text
	CommentNode                      // <!-- -->
	FragmentNode                     // Detached grouping, no markup of its own
	DocumentNode                     // Root of a parsed document
	DoctypeNode                      // <!DOCTYPE html>
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case FragmentNode:
		return "Fragment"
	case DocumentNode:
		return "Document"
	case DoctypeNode:
		return "Doctype"
	default:
		return "Unknown"
	}
}

// Attr is a single attribute. Order is preserved.
type Attr struct {
	Name  string
	Value string
}

// Node is a live view node.
type Node struct {
	Type NodeType

	// Tag is the lower-case element name for ElementNode.
	Tag string

	// Data is the content of TextNode, CommentNode and DoctypeNode.
	Data string

	Attrs []Attr

	Parent   *Node
	Children []*Node

	// value is the form value of input-like elements.
	value    string
	valueSet bool

	listeners map[string][]Listener
}

// NewElement creates an element node.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), Attrs: attrs}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Data: text}
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return &Node{Type: FragmentNode}
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// ChildNodes returns a copy of the children, safe to iterate while the tree
// is being mutated.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.Children))
	copy(out, n.Children)
	return out
}

// AppendChild appends child, detaching it from its previous parent first.
// Appending a fragment moves the fragment's children instead.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	if child.Type == FragmentNode {
		for child.FirstChild() != nil {
			n.AppendChild(child.FirstChild())
		}
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n. It is a no-op if child is not a child
// of n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// RemoveChildren detaches every child.
func (n *Node) RemoveChildren() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds an attribute.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr removes an attribute.
func (n *Node) RemoveAttr(name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var sb strings.Builder
	var walk func(*Node)
	walk = func(c *Node) {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
		for _, gc := range c.Children {
			walk(gc)
		}
	}
	walk(n)
	return sb.String()
}

// SetTextContent replaces the content of n with text. For text and comment
// nodes the data is replaced; for containers every child is replaced by a
// single text node (or none, for the empty string).
func (n *Node) SetTextContent(text string) {
	switch n.Type {
	case TextNode, CommentNode:
		n.Data = text
		return
	}
	n.RemoveChildren()
	if text != "" {
		n.AppendChild(NewText(text))
	}
}

// SetInnerHTML replaces the children of n with the parsed markup.
// Parsing follows the HTML5 fragment algorithm with n as the context element.
func (n *Node) SetInnerHTML(markup string) error {
	children, err := parseFragmentIn(markup, n)
	if err != nil {
		return err
	}
	n.RemoveChildren()
	for _, c := range children {
		n.AppendChild(c)
	}
	return nil
}

// Value returns the form value. Until SetValue is called the value
// attribute is used.
func (n *Node) Value() string {
	if n.valueSet {
		return n.value
	}
	v, _ := n.Attr("value")
	return v
}

// SetValue sets the form value.
func (n *Node) SetValue(v string) {
	n.value = v
	n.valueSet = true
}

// HasValue reports whether SetValue has been called.
func (n *Node) HasValue() bool {
	return n.valueSet
}

// Path returns the child indices leading from root to n, or nil if n is not
// inside root.
func (n *Node) Path(root *Node) []int {
	path := []int{}
	for cur := n; cur != root; cur = cur.Parent {
		if cur == nil || cur.Parent == nil {
			return nil
		}
		idx := -1
		for i, c := range cur.Parent.Children {
			if c == cur {
				idx = i
				break
			}
		}
		path = append(path, idx)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// At follows a child-index path from n.
func (n *Node) At(path []int) (*Node, bool) {
	cur := n
	for _, idx := range path {
		if idx < 0 || idx >= len(cur.Children) {
			return nil, false
		}
		cur = cur.Children[idx]
	}
	return cur, true
}

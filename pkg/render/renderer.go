package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bamboo-dev/bamboo/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Pretty output adds whitespace text nodes, so it must not be fed back
	// to anything that addresses nodes by path.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// StripDirectives drops attributes whose names start with one of
	// DirectivePrefixes.
	StripDirectives bool

	// DirectivePrefixes lists the attribute prefixes removed by
	// StripDirectives. Defaults to "b-", "@" and ":".
	DirectivePrefixes []string
}

// Renderer writes dom trees as HTML.
type Renderer struct {
	config RendererConfig

	// Per-render hooks keyed by tag, run around an element's end tag.
	beforeClose map[string]func(io.Writer) error
	afterClose  map[string]func()
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if len(config.DirectivePrefixes) == 0 {
		config.DirectivePrefixes = []string{"b-", "@", ":"}
	}
	return &Renderer{config: config}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(node *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *dom.Node) error {
	return r.renderNode(w, node, 0)
}

// RenderChildren renders the children of node without node's own tags,
// the equivalent of reading innerHTML.
func (r *Renderer) RenderChildren(w io.Writer, node *dom.Node) error {
	if node == nil {
		return nil
	}
	for _, c := range node.Children {
		if err := r.renderNode(w, c, 0); err != nil {
			return err
		}
	}
	return nil
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, node *dom.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Type {
	case dom.ElementNode:
		return r.renderElement(w, node, depth)
	case dom.TextNode:
		return r.renderText(w, node)
	case dom.CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", node.Data)
		return err
	case dom.DoctypeNode:
		_, err := fmt.Fprintf(w, "<!DOCTYPE %s>", node.Data)
		return err
	case dom.FragmentNode, dom.DocumentNode:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown node type: %d", node.Type)
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *dom.Node, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if isVoidElement(tag) {
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	switch {
	case tag == "textarea" && node.HasValue():
		if _, err := io.WriteString(w, escapeHTML(node.Value())); err != nil {
			return err
		}
	case isRawTextElement(tag):
		if _, err := io.WriteString(w, node.TextContent()); err != nil {
			return err
		}
	default:
		hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
		if r.config.Pretty && hasBlockChildren {
			w.Write([]byte{'\n'})
		}

		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}

		if r.config.Pretty && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	if hook, ok := r.beforeClose[tag]; ok {
		delete(r.beforeClose, tag)
		if err := hook(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
	if hook, ok := r.afterClose[tag]; ok {
		delete(r.afterClose, tag)
		hook()
	}
	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *dom.Node) error {
	_, err := io.WriteString(w, escapeHTML(node.Data))
	return err
}

// renderAttributes renders attributes in document order. The live form
// value of an input replaces its value attribute.
func (r *Renderer) renderAttributes(w io.Writer, node *dom.Node) error {
	liveValue := node.HasValue() && node.Tag != "textarea"

	for _, a := range node.Attrs {
		if r.config.StripDirectives && r.isDirective(a.Name) {
			continue
		}
		if liveValue && a.Name == "value" {
			continue
		}

		if isBooleanAttr(a.Name) && (a.Value == "" || strings.EqualFold(a.Value, a.Name)) {
			if _, err := fmt.Fprintf(w, " %s", a.Name); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}

	if liveValue {
		if _, err := fmt.Fprintf(w, ` value="%s"`, escapeAttr(node.Value())); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) isDirective(name string) bool {
	for _, p := range r.config.DirectivePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

// String renders node with a default renderer, returning "" on error.
// Convenient for logging and tests.
func String(node *dom.Node) string {
	s, _ := NewRenderer(RendererConfig{}).RenderToString(node)
	return s
}

// InnerHTML renders the children of node with a default renderer.
func InnerHTML(node *dom.Node) string {
	var buf bytes.Buffer
	_ = NewRenderer(RendererConfig{}).RenderChildren(&buf, node)
	return buf.String()
}

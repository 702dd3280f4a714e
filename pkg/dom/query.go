package dom

import "strings"

// Find returns the first node in document order below root (root included)
// matching a simple selector: "#id", ".class" or "tag".
func Find(root *Node, selector string) *Node {
	selector = strings.TrimSpace(selector)
	if root == nil || selector == "" {
		return nil
	}
	var found *Node
	walk(root, func(n *Node) bool {
		if matches(n, selector) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node below root matching selector.
func FindAll(root *Node, selector string) []*Node {
	selector = strings.TrimSpace(selector)
	var out []*Node
	if root == nil || selector == "" {
		return out
	}
	walk(root, func(n *Node) bool {
		if matches(n, selector) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Walk visits root and its descendants depth-first in document order until
// fn returns false.
func Walk(root *Node, fn func(*Node) bool) {
	if root != nil {
		walk(root, fn)
	}
}

// walk visits nodes depth-first; fn returns false to stop.
func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func matches(n *Node, selector string) bool {
	if !n.IsElement() {
		return false
	}
	switch selector[0] {
	case '#':
		id, ok := n.Attr("id")
		return ok && id == selector[1:]
	case '.':
		class, _ := n.Attr("class")
		for _, c := range strings.Fields(class) {
			if c == selector[1:] {
				return true
			}
		}
		return false
	default:
		return n.Tag == strings.ToLower(selector)
	}
}

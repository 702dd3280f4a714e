package compile

import "github.com/bamboo-dev/bamboo/pkg/dom"

// stubBind is the default BindHandler. It only records that a bind
// attribute was seen.
func stubBind(c *Compiler, node *dom.Node, _ Instance, expression, attr string) {
	c.logger.Debug("bind not handled", "attr", attr, "expression", expression, "tag", node.Tag)
}

// BindAttr is a BindHandler that keeps the attribute attr of node equal to
// the value of expression. Install it with WithBindHandler.
func BindAttr(c *Compiler, node *dom.Node, vm Instance, expression, attr string) {
	c.watch(node, vm, expression, func(n *dom.Node, value any) {
		n.SetAttr(attr, Stringify(value))
	})
	c.observer.BindingCreated("bind")
}

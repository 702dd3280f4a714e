package compile

import "github.com/bamboo-dev/bamboo/pkg/dom"

func textDirective(c *Compiler, node *dom.Node, vm Instance, expression string) {
	c.Update(node, vm, expression, "text")
}

func htmlDirective(c *Compiler, node *dom.Node, vm Instance, expression string) {
	c.Update(node, vm, expression, "html")
}

// modelDirective binds the form value to expression and writes every input
// event back into the instance. The write goes through the instance's
// setter, so every other binding of expression re-renders.
func modelDirective(c *Compiler, node *dom.Node, vm Instance, expression string) {
	c.Update(node, vm, expression, "model")

	node.AddEventListener("input", func(e *dom.Event) {
		vm.Set(expression, e.Target.Value())
	})
}

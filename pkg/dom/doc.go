// Package dom provides the live view tree that Bamboo binds data to.
//
// Unlike a virtual DOM, a dom.Node tree is mutated in place: updaters replace
// text, markup and form values directly on the nodes the compiler found.
// Trees are usually built by parsing HTML with Parse or ParseDocument, which
// use golang.org/x/net/html, but can also be assembled by hand:
//
//	p := dom.NewElement("p")
//	p.AppendChild(dom.NewText("{{name}}"))
//
// Nodes carry event listeners. Dispatch delivers an event to the target and
// then to each ancestor until a listener calls StopPropagation.
package dom

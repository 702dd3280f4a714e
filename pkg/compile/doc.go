// Package compile implements the binding compiler.
//
// The compiler walks a dom tree once. Every directive attribute, event
// attribute, bind attribute and {{ interpolation }} it finds is turned into
// at most one reactive.Watcher plus an initial render, so that later writes to
// the instance's data update the view synchronously.
//
// # Attribute grammar
//
//	b-<name>="<key>"       directive, dispatched through the registry
//	@<event>="<method>"    event listener (also b-on:<event>)
//	:<attr>="<key>"        bind, delegated to the BindHandler (also b-bind:<attr>)
//
// The "b-" prefix is configurable with WithPrefix.
//
// # Built-in directives
//
// text and html replace the node's text or markup. model assigns the form
// value and writes every input event back into the instance, closing the
// two-way loop.
//
// Unknown directives, unknown methods and text without an interpolation are
// skipped silently; compiling never fails.
package compile

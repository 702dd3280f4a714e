// Package bamboo binds plain data to a view tree and keeps the two in sync.
//
// Usage:
//
//	doc, _ := dom.ParseDocument(strings.NewReader(page))
//	vm, err := bamboo.New(bamboo.Options{
//	    Selector: "#app",
//	    Document: doc,
//	    Data:     map[string]any{"message": "hello"},
//	    Methods: map[string]bamboo.Method{
//	        "shout": func(vm *bamboo.Instance, e *dom.Event) {
//	            vm.Set("message", "HELLO")
//	        },
//	    },
//	})
//
// Markup reads data with {{ key }} interpolations and b-text, b-html and
// b-model directives, and calls methods with @event or b-on:event.
// Every write through Instance.Set or Instance.Data().Set re-renders exactly
// the nodes bound to that key, synchronously.
package bamboo

import (
	"log/slog"

	"github.com/bamboo-dev/bamboo/pkg/compile"
	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/telemetry"
)

// Method is a handler bound to an instance.
type Method func(vm *Instance, e *dom.Event)

// Options configures a new Instance.
type Options struct {
	// El is the host node. It takes precedence over Selector.
	El *dom.Node

	// Selector finds the host inside Document: "#id", ".class" or "tag".
	Selector string

	// Document is searched for Selector.
	Document *dom.Node

	// Data is the initial state. It is copied, never modified.
	Data map[string]any

	// Created runs once after the view is compiled.
	Created func(vm *Instance)

	// Methods are reachable from @event and b-on:event attributes.
	Methods map[string]Method

	// Directives adds or replaces directives by name (without prefix).
	Directives map[string]compile.Directive

	// Bind handles :attr and b-bind:attr. Nil keeps the logging stub;
	// compile.BindAttr gives one-way attribute binding.
	Bind compile.BindHandler

	// Prefix is the directive prefix (default "b-").
	Prefix string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Telemetry records bindings and writes when non-nil.
	Telemetry *telemetry.Recorder

	// Dedupe makes dependencies ignore a subscriber that is already
	// registered.
	Dedupe bool
}

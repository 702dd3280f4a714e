// Package reactive provides the reactivity engine for Bamboo.
//
// Data is held in typed cells. Each Cell owns exactly one Dep, the list of
// subscribers interested in that cell. Reading a cell while a subscriber is
// being evaluated registers that subscriber with the cell's Dep; writing a
// different value notifies every registered subscriber synchronously.
//
// # Core Types
//
// Map is the reactive replacement for a plain map[string]any:
//
//	data := reactive.Observe(map[string]any{"name": "a"})
//	data.Get("name")       // Read (registers the active subscriber)
//	data.Set("name", "b")  // Write (notifies subscribers)
//
// Watcher binds one key of a Source to a callback:
//
//	reactive.NewWatcher(data, "name", func(src reactive.Source, v any) {
//	    fmt.Println("name is now", v)
//	})
//
// # Tracking
//
// The subscriber being evaluated lives on a per-goroutine stack. Track pushes
// a frame, runs a function and pops it again, so nested evaluations register
// with the innermost subscriber only.
//
// # Thread Safety
//
// Cells and Deps are safe for concurrent use and never hold a lock while
// calling subscribers. Notification itself is synchronous: Set returns only
// after every subscriber has run.
package reactive

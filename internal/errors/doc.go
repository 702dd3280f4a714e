// Package errors provides coded, actionable errors for Bamboo.
//
// The reactive core never fails: unknown directives and missing keys are
// skipped. Errors only arise at the edges (mounting, loading templates and
// data, configuration) and are reported as *BambooError values.
//
// # Error Categories
//
//   - mount: host resolution and instance lifecycle
//   - source: template and data loading
//   - config: configuration files, environment and flags
//   - live: the live preview protocol
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail(`selector "#app" matched nothing`).
//	    WithSuggestion("Check the id of the host element")
//
//	fmt.Println(err.Format())
//
// Use errors.Is with Code to test for a specific code:
//
//	if errors.IsCode(err, "E001") { ... }
package errors

// Package render serializes live dom trees to HTML.
//
// The renderer writes the current state of a tree, including form values
// set by model bindings, so the output reflects what a user would see:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(host)
//
// Fragments and documents render their children only. Text is escaped;
// the contents of <script> and <style> are written verbatim.
//
// # Directive attributes
//
// By default directive, event and bind attributes are kept in the output so
// a rendered template can be compiled again. Set StripDirectives to drop
// them from production output.
//
// # Pages
//
// RenderPage writes a whole document with extra styles before </head> and
// scripts before </body>. StreamingRenderer does the same against an
// http.ResponseWriter and flushes once the head is out.
package render

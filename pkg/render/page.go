package render

import (
	"fmt"
	"io"

	"github.com/bamboo-dev/bamboo/pkg/dom"
)

// PageData describes a parsed document served with extra tags.
type PageData struct {
	// Document is the tree to render, normally from dom.ParseDocument.
	Document *dom.Node

	// Styles contains inline CSS blocks written before </head>.
	Styles []string

	// Scripts are written before </body>.
	Scripts []ScriptTag
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Type   string // type attribute
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Module bool   // type="module"
	Inline string // inline script content
}

// RenderPage renders page.Document with the page's styles and scripts
// injected. Tags whose anchor element is missing are written at the end.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	return r.renderPage(w, page, nil)
}

// renderPage calls afterHead, if set, once </head> has been written.
func (r *Renderer) renderPage(w io.Writer, page PageData, afterHead func()) error {
	var headDone, bodyDone bool

	pr := &Renderer{
		config: r.config,
		beforeClose: map[string]func(io.Writer) error{
			"head": func(w io.Writer) error {
				headDone = true
				return r.renderStyles(w, page.Styles)
			},
			"body": func(w io.Writer) error {
				bodyDone = true
				return r.renderScripts(w, page.Scripts)
			},
		},
	}
	if afterHead != nil {
		pr.afterClose = map[string]func(){"head": afterHead}
	}

	if err := pr.RenderToWriter(w, page.Document); err != nil {
		return err
	}
	if !headDone {
		if err := r.renderStyles(w, page.Styles); err != nil {
			return err
		}
	}
	if !bodyDone {
		if err := r.renderScripts(w, page.Scripts); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderStyles(w io.Writer, styles []string) error {
	for _, css := range styles {
		if _, err := fmt.Fprintf(w, "<style>%s</style>", css); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderScripts(w io.Writer, scripts []ScriptTag) error {
	for _, s := range scripts {
		if err := r.renderScriptTag(w, s); err != nil {
			return err
		}
	}
	return nil
}

// renderScriptTag renders a script element.
func (r *Renderer) renderScriptTag(w io.Writer, script ScriptTag) error {
	if _, err := w.Write([]byte("<script")); err != nil {
		return err
	}

	if script.Src != "" {
		if _, err := fmt.Fprintf(w, ` src="%s"`, escapeAttr(script.Src)); err != nil {
			return err
		}
	}

	if script.Module {
		if _, err := w.Write([]byte(` type="module"`)); err != nil {
			return err
		}
	} else if script.Type != "" {
		if _, err := fmt.Fprintf(w, ` type="%s"`, escapeAttr(script.Type)); err != nil {
			return err
		}
	}

	if script.Defer {
		if _, err := w.Write([]byte(" defer")); err != nil {
			return err
		}
	}

	if script.Async {
		if _, err := w.Write([]byte(" async")); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte(">")); err != nil {
		return err
	}

	if script.Inline != "" {
		if _, err := io.WriteString(w, script.Inline); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte("</script>"))
	return err
}

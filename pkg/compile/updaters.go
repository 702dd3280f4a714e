package compile

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/reactive"
)

// TextUpdater replaces the text content of node.
func TextUpdater(node *dom.Node, value any) {
	node.SetTextContent(Stringify(value))
}

// HTMLUpdater replaces the markup content of node, logging to
// slog.Default(). Compilers register NewHTMLUpdater with their own logger.
func HTMLUpdater(node *dom.Node, value any) {
	NewHTMLUpdater(slog.Default())(node, value)
}

// NewHTMLUpdater returns an updater that replaces the markup content of a
// node. Markup that cannot be parsed leaves the node unchanged.
func NewHTMLUpdater(logger *slog.Logger) Updater {
	return func(node *dom.Node, value any) {
		if err := node.SetInnerHTML(Stringify(value)); err != nil {
			logger.Debug("html updater: parse failed", "tag", node.Tag, "error", err)
			return
		}
		logger.Debug("html replaced", "tag", node.Tag, "nodes", len(node.Children))
	}
}

// ModelUpdater assigns the form value of node.
func ModelUpdater(node *dom.Node, value any) {
	node.SetValue(Stringify(value))
}

// Stringify converts a data value to the text a view shows for it.
// nil renders as the empty string; maps and slices render as JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case *reactive.Map, map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bamboo-dev/bamboo/pkg/render"
)

// clientScript forwards DOM events to /ws and applies render replies.
// __EVENTS__ is replaced by the JSON list of event types to forward.
const clientScript = `
(function () {
  var events = __EVENTS__;
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  function pathOf(node) {
    var path = [];
    while (node && node.parentNode) {
      path.unshift(Array.prototype.indexOf.call(node.parentNode.childNodes, node));
      node = node.parentNode;
    }
    return path;
  }
  function nodeAt(path) {
    var node = document;
    for (var i = 0; i < path.length && node; i++) node = node.childNodes[path[i]];
    return node;
  }
  events.forEach(function (type) {
    document.addEventListener(type, function (e) {
      if (ws.readyState !== 1) return;
      if (type === "submit") e.preventDefault();
      var msg = {type: "event", path: pathOf(e.target), event: type};
      if (e.target && "value" in e.target) msg.value = String(e.target.value);
      ws.send(JSON.stringify(msg));
    }, true);
  });
  ws.onmessage = function (m) {
    var msg = JSON.parse(m.data);
    if (msg.type === "render") {
      var host = nodeAt(msg.path || []);
      if (!host) return;
      var active = document.activeElement, value = null, sel = null;
      if (msg.focus && active && "value" in active) {
        value = active.value;
        try { sel = [active.selectionStart, active.selectionEnd]; } catch (_) {}
      }
      host.innerHTML = msg.html;
      if (msg.focus) {
        var el = nodeAt(msg.focus);
        if (el && el.focus) {
          if (value !== null && "value" in el) el.value = value;
          el.focus();
          if (sel && sel[0] !== null && el.setSelectionRange) {
            try { el.setSelectionRange(sel[0], sel[1]); } catch (_) {}
          }
        }
      }
    } else if (msg.type === "error") {
      console.warn("bamboo:", msg.code, msg.message);
    }
  };
})();
`

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.pageData()
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.NewStreamingRenderer(w, render.RendererConfig{}).RenderPage(page); err != nil {
		s.logger.Warn("page write failed", "error", err)
	}
}

// Page renders the document with the preview client before </body>.
func (s *Server) Page() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.pageData()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := s.renderer.RenderPage(&b, page); err != nil {
		return "", err
	}
	return b.String(), nil
}

// pageData must be called with s.mu held.
func (s *Server) pageData() (render.PageData, error) {
	list, err := json.Marshal(s.eventTypes())
	if err != nil {
		return render.PageData{}, err
	}
	script := strings.Replace(clientScript, "__EVENTS__", string(list), 1)
	return render.PageData{
		Document: s.doc,
		Scripts:  []render.ScriptTag{{Inline: script}},
	}, nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, err := json.Marshal(s.vm.Data())
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("state encode failed", "error", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

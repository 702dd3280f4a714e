package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/bamboo-dev/bamboo"
	berrors "github.com/bamboo-dev/bamboo/internal/errors"
	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/telemetry"
)

const testPage = `<!DOCTYPE html><html><head></head><body><div id="app"><input b-model="name"><p>{{name}}</p><button @click="reset">x</button></div></body></html>`

type fixture struct {
	vm  *bamboo.Instance
	doc *dom.Node
	srv *Server
	reg *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc, err := dom.ParseDocument(strings.NewReader(testPage))
	if err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	rec := telemetry.NewRecorder(telemetry.WithRegistry(reg))

	vm, err := bamboo.New(bamboo.Options{
		Selector:  "#app",
		Document:  doc,
		Data:      map[string]any{"name": "ada"},
		Telemetry: rec,
		Methods: map[string]bamboo.Method{
			"reset": func(vm *bamboo.Instance, e *dom.Event) {
				vm.Set("name", "")
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	srv, err := New(vm, doc, &ServerConfig{Gatherer: reg, Telemetry: rec})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{vm: vm, doc: doc, srv: srv, reg: reg}
}

func (f *fixture) path(t *testing.T, selector string) []int {
	t.Helper()
	n := dom.Find(f.doc, selector)
	if n == nil {
		t.Fatalf("no node matches %q", selector)
	}
	return n.Path(f.doc)
}

func TestNewRequiresMountedInstance(t *testing.T) {
	vm, err := bamboo.New(bamboo.Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(vm, dom.NewElement("div"), nil)
	if !berrors.IsCode(err, "E001") {
		t.Errorf("expected E001, got %v", err)
	}

	host := dom.NewElement("div")
	if err := vm.Mount(host); err != nil {
		t.Fatal(err)
	}
	_, err = New(vm, dom.NewElement("div"), nil)
	if !berrors.IsCode(err, "E001") {
		t.Errorf("expected E001 for foreign host, got %v", err)
	}
}

func TestDispatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.srv.Dispatch(ctx, Message{Type: "event", Path: f.path(t, "input"), Event: "input", Value: "bob"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if f.vm.Get("name") != "bob" {
		t.Errorf("expected name bob, got %v", f.vm.Get("name"))
	}
	html, err := f.srv.HostHTML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<p>bob</p>") {
		t.Errorf("expected rendered bob, got %s", html)
	}

	err = f.srv.Dispatch(ctx, Message{Type: "event", Path: f.path(t, "button"), Event: "click"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if f.vm.Get("name") != "" {
		t.Errorf("expected reset name, got %v", f.vm.Get("name"))
	}
}

func TestDispatchErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []Message{
		{Type: "event", Path: []int{9, 9}, Event: "click"},
		{Type: "event", Path: []int{-1}, Event: "click"},
		{Type: "event", Path: f.path(t, "input")},
	}
	for _, m := range tests {
		if err := f.srv.Dispatch(ctx, m); !berrors.IsCode(err, "E007") {
			t.Errorf("Dispatch(%+v): expected E007, got %v", m, err)
		}
	}
}

func TestPage(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(page, "<p>ada</p>") {
		t.Errorf("expected rendered data in page: %s", page)
	}
	if !strings.Contains(page, `var events = ["click","input"];`) {
		t.Errorf("expected event list in client script: %s", page)
	}
	if strings.Index(page, "new WebSocket") > strings.Index(page, "</body>") {
		t.Error("expected client script before </body>")
	}
}

func TestState(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv)
	defer ts.Close()

	f.vm.Set("name", "grace")

	resp, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var state map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state["name"] != "grace" {
		t.Errorf("expected grace, got %v", state)
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) Reply {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var r Reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("read: %v", err)
	}
	return r
}

func TestWebSocketRoundTrip(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv)
	defer ts.Close()

	a := dial(t, ts)
	b := dial(t, ts)

	for _, conn := range []*websocket.Conn{a, b} {
		r := readReply(t, conn)
		if r.Type != "render" || !strings.Contains(r.HTML, "<p>ada</p>") {
			t.Fatalf("unexpected initial reply %+v", r)
		}
		if len(r.Path) != 3 {
			t.Errorf("expected host path of length 3, got %v", r.Path)
		}
	}

	msg := Message{Type: "event", Path: f.path(t, "input"), Event: "input", Value: "bob"}
	if err := a.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
	ra, rb := readReply(t, a), readReply(t, b)
	for _, r := range []Reply{ra, rb} {
		if r.Type != "render" || !strings.Contains(r.HTML, "<p>bob</p>") {
			t.Errorf("unexpected broadcast %+v", r)
		}
	}
	// Only the sender is told to focus the input again.
	if fmt.Sprint(ra.Focus) != fmt.Sprint(msg.Path) {
		t.Errorf("expected sender focus %v, got %v", msg.Path, ra.Focus)
	}
	if rb.Focus != nil {
		t.Errorf("expected no focus for other clients, got %v", rb.Focus)
	}

	if err := a.WriteJSON(Message{Type: "event", Path: []int{7}, Event: "click"}); err != nil {
		t.Fatal(err)
	}
	if r := readReply(t, a); r.Type != "error" || r.Code != "E007" {
		t.Errorf("expected E007 error reply, got %+v", r)
	}

	if err := a.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if r := readReply(t, a); r.Type != "error" {
		t.Errorf("expected error reply for malformed message, got %+v", r)
	}
}

func TestMetricsRoute(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv)
	defer ts.Close()

	if err := f.srv.Dispatch(context.Background(), Message{Type: "event", Path: f.path(t, "button"), Event: "click"}); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`bamboo_dispatch_total{event="click",status="success"} 1`,
		`bamboo_bindings_total{kind="text"} 1`,
		`bamboo_event_listeners_total{event="click"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}

// seriesByEvent returns the number of series per event label in family.
func seriesByEvent(t *testing.T, reg *prometheus.Registry, family string) map[string]int {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]int{}
	for _, mf := range mfs {
		if mf.GetName() != family {
			continue
		}
		for _, m := range mf.GetMetric() {
			out[eventLabel(m)]++
		}
	}
	return out
}

func eventLabel(m *dto.Metric) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == "event" {
			return l.GetValue()
		}
	}
	return ""
}

func TestDispatchMetricLabelsBounded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		// Unknown path and made-up event name.
		f.srv.Dispatch(ctx, Message{Type: "event", Path: []int{9, 9}, Event: fmt.Sprintf("evil%d", i)})
		// Valid path, event nobody listens for.
		if err := f.srv.Dispatch(ctx, Message{Type: "event", Path: f.path(t, "button"), Event: fmt.Sprintf("made-up%d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.srv.Dispatch(ctx, Message{Type: "event", Path: f.path(t, "button"), Event: "click"}); err != nil {
		t.Fatal(err)
	}

	for _, family := range []string{"bamboo_dispatch_total", "bamboo_dispatch_duration_seconds"} {
		got := seriesByEvent(t, f.reg, family)
		if len(got) != 2 || got["other"] == 0 || got["click"] == 0 {
			t.Errorf("%s: expected only other and click labels, got %v", family, got)
		}
	}

	// other carries a success and an E007 series, click a success series.
	if n := len(seriesByEventStatus(t, f.reg)); n != 3 {
		t.Errorf("expected 3 dispatch_total series, got %d", n)
	}
}

func seriesByEventStatus(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, mf := range mfs {
		if mf.GetName() != "bamboo_dispatch_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var status string
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" {
					status = l.GetValue()
				}
			}
			out = append(out, eventLabel(m)+"/"+status)
		}
	}
	return out
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		origin, host string
		want         bool
	}{
		{"", "example.com", true},
		{"http://example.com", "example.com", true},
		{"http://evil.com", "example.com", false},
		{"http://example.com:8080", "example.com", false},
		{"://bad", "example.com", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := SameOriginCheck(r); got != tt.want {
			t.Errorf("SameOriginCheck(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	f := newFixture(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/state")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

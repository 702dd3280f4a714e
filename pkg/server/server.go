package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bamboo-dev/bamboo"
	berrors "github.com/bamboo-dev/bamboo/internal/errors"
	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/render"
	"github.com/bamboo-dev/bamboo/pkg/telemetry"
)

// Server serves one mounted instance to any number of browsers.
type Server struct {
	vm       *bamboo.Instance
	doc      *dom.Node
	hostPath []int
	config   *ServerConfig

	// known holds the event types with listeners at startup. Only these
	// appear as metric labels.
	known map[string]bool

	upgrader websocket.Upgrader
	router   chi.Router
	renderer *render.Renderer
	logger   *slog.Logger

	// mu serializes event dispatch and rendering.
	mu sync.Mutex

	clientsMu sync.Mutex
	clients   map[*client]struct{}

	httpServer *http.Server
}

// New creates a server for vm, which must be mounted on a node inside doc.
func New(vm *bamboo.Instance, doc *dom.Node, config *ServerConfig) (*Server, error) {
	config = config.withDefaults()

	host := vm.Host()
	if host == nil {
		return nil, berrors.New("E001").WithDetail("instance is not mounted")
	}
	hostPath := host.Path(doc)
	if hostPath == nil {
		return nil, berrors.New("E001").WithDetail("host is not inside the document")
	}

	s := &Server{
		vm:       vm,
		doc:      doc,
		hostPath: hostPath,
		config:   config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   config.Logger.With("component", "server"),
		clients:  make(map[*client]struct{}),
	}
	s.known = make(map[string]bool)
	for _, t := range s.eventTypes() {
		s.known[t] = true
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/state", s.handleState)
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Dispatch delivers a browser event to the node at m.Path. input and change
// events set the node's form value first. An unknown path is an E007 error.
//
// Metrics label the event with its type only when the document listens
// for it; failed and unknown events are recorded as "other".
func (s *Server) Dispatch(ctx context.Context, m Message) (err error) {
	start := time.Now()
	label := otherEvent
	_, span := telemetry.Start(ctx, "live.dispatch",
		telemetry.KeyEvent.String(m.Event),
		telemetry.KeyPath.String(fmt.Sprint(m.Path)))
	defer func() {
		telemetry.End(span, err)
		s.config.Telemetry.ObserveDispatch(label, time.Since(start), err)
	}()

	if m.Event == "" {
		return berrors.New("E007").WithDetail("missing event type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.doc.At(m.Path)
	if !ok {
		return berrors.New("E007").WithDetailf("path %v", m.Path)
	}

	if s.known[m.Event] {
		label = m.Event
	}

	switch m.Event {
	case "input", "change":
		node.SetValue(m.Value)
	}
	node.Dispatch(&dom.Event{Type: m.Event, Value: m.Value})
	return nil
}

// otherEvent is the metric label for events outside the known set.
const otherEvent = "other"

// HostHTML renders the host's current inner markup.
func (s *Server) HostHTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	if err := s.renderer.RenderChildren(&b, s.vm.Host()); err != nil {
		return "", err
	}
	return b.String(), nil
}

// eventTypes lists every event type with a listener in the document.
func (s *Server) eventTypes() []string {
	seen := map[string]bool{}
	dom.Walk(s.doc, func(n *dom.Node) bool {
		for _, t := range n.EventTypes() {
			seen[t] = true
		}
		return true
	})
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every WebSocket and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.clientsMu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	return nil
}

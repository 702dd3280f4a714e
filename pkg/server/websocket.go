package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	berrors "github.com/bamboo-dev/bamboo/internal/errors"
)

const writeWait = 10 * time.Second

// client is one connected browser.
type client struct {
	conn *websocket.Conn

	// gorilla connections allow one concurrent writer.
	writeMu sync.Mutex
}

func (c *client) send(r Reply) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(r)
}

func (c *client) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.conn.Close()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
	s.logger.Info("client connected", "remote", r.RemoteAddr)

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c)
		s.clientsMu.Unlock()
		conn.Close()
		s.logger.Info("client disconnected", "remote", r.RemoteAddr)
	}()

	if err := s.sendRender(c); err != nil {
		s.logger.Error("initial render failed", "error", err)
		return
	}

	s.readLoop(r.Context(), c)
}

// readLoop handles messages from c until the connection closes.
func (s *Server) readLoop(ctx context.Context, c *client) {
	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			if !isDecodeError(err) {
				return
			}
			c.send(Reply{Type: "error", Code: "E007", Message: "malformed message"})
			continue
		}

		if m.Type != "event" {
			s.logger.Warn("unknown message type", "type", m.Type)
			continue
		}

		if err := s.Dispatch(ctx, m); err != nil {
			s.logger.Debug("dispatch failed", "error", err)
			reply := Reply{Type: "error", Message: err.Error()}
			var be *berrors.BambooError
			if errors.As(err, &be) {
				reply.Code = be.Code
			}
			if err := c.send(reply); err != nil {
				return
			}
			continue
		}

		s.broadcast(c, m.Path)
	}
}

func (s *Server) sendRender(c *client) error {
	html, err := s.HostHTML()
	if err != nil {
		return err
	}
	return c.send(Reply{Type: "render", Path: s.hostPath, HTML: html})
}

// broadcast pushes the current host markup to every client. The reply to
// sender carries focus so the element being edited survives the swap.
func (s *Server) broadcast(sender *client, focus []int) {
	html, err := s.HostHTML()
	if err != nil {
		s.logger.Error("render failed", "error", err)
		return
	}
	reply := Reply{Type: "render", Path: s.hostPath, HTML: html}

	s.clientsMu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		r := reply
		if c == sender {
			r.Focus = focus
		}
		if err := c.send(r); err != nil {
			s.logger.Error("write error", "error", err)
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

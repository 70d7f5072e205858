// Package server streams session snapshots over WebSocket and applies the
// commands clients send back.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"robot-maze-server/config"
	"robot-maze-server/instance"
	"robot-maze-server/logging"
	"robot-maze-server/metrics"
)

// Option configures an InstanceServer.
type Option func(*InstanceServer)

func WithLogger(l *slog.Logger) Option {
	return func(s *InstanceServer) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *InstanceServer) { s.metrics = m }
}

// WithCheckOrigin replaces the origin check of the upgrader. All origins are
// accepted by default.
func WithCheckOrigin(f func(*http.Request) bool) Option {
	return func(s *InstanceServer) { s.upgrader.CheckOrigin = f }
}

// InstanceServer upgrades /ws requests and binds each connection to a
// session of the manager.
type InstanceServer struct {
	upgrader websocket.Upgrader
	manager  *instance.Manager
	store    instance.LayoutStore
	metrics  *metrics.Metrics
	logger   *slog.Logger

	clientsMu sync.RWMutex
	clients   map[*WebSocketClient]struct{}
}

// NewInstanceServer creates a server. st may be nil, which disables the load
// and save commands.
func NewInstanceServer(m *instance.Manager, st instance.LayoutStore, opts ...Option) *InstanceServer {
	s := &InstanceServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		manager: m,
		store:   st,
		clients: make(map[*WebSocketClient]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

// ServeHTTP handles /ws?session=<id>. Without a session parameter a new
// session is created after the upgrade and deleted when the connection
// closes.
func (s *InstanceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var is *instance.InstanceState
	id := r.URL.Query().Get("session")
	if id != "" {
		// Joining an existing session; it outlives the connection.
		var err error
		is, err = s.manager.GetString(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	} else if s.manager.Full() {
		http.Error(w, instance.ErrTooManySessions.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	owned := is == nil
	if owned {
		if is, err = s.manager.Create(); err != nil {
			// Lost the last slot to another request after the check above.
			s.rejectConn(conn, websocket.CloseTryAgainLater, err)
			return
		}
	}

	updates, cancel, err := s.manager.Subscribe(is.ID)
	if err != nil {
		s.logger.Warn("subscribe failed", "session", is.ID.String(), "err", err)
		if owned {
			_ = s.manager.Delete(is.ID)
		}
		s.rejectConn(conn, websocket.ClosePolicyViolation, err)
		return
	}

	client := newWebSocketClient(conn, is, updates, cancel, owned)
	// The first two frames are always the assignment and the full state.
	client.enqueue(MsgSessionAssigned, sessionAssigned{SessionID: client.sessionID()})
	client.enqueue(MsgState, is.Snapshot())
	s.registerClient(client)

	go client.WritePump(s)
	go client.ReadPump(s)
}

// rejectConn closes a freshly upgraded connection with code and err as the
// reason.
func (s *InstanceServer) rejectConn(conn *websocket.Conn, code int, err error) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, err.Error()),
		time.Now().Add(config.WriteWait))
	conn.Close()
}

// Count is the number of open connections.
func (s *InstanceServer) Count() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Close sends a going-away frame to every client and closes the
// connections. The read pumps then unregister them.
func (s *InstanceServer) Close() {
	s.clientsMu.RLock()
	clients := make([]*WebSocketClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	// WriteControl may run alongside the write pumps.
	deadline := time.Now().Add(config.WriteWait)
	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		c.conn.Close()
	}
}

func (s *InstanceServer) registerClient(c *WebSocketClient) {
	s.clientsMu.Lock()
	s.clients[c] = struct{}{} // Tracked for Count and Close
	n := len(s.clients)
	s.clientsMu.Unlock()

	s.metrics.ConnOpened()
	s.logger.Info("client connected", "session", c.sessionID(), "remote", c.conn.RemoteAddr().String(), "clients", n)
}

func (s *InstanceServer) unregisterClient(c *WebSocketClient) {
	s.clientsMu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	n := len(s.clients)
	s.clientsMu.Unlock()
	if !ok {
		return
	}

	c.cancel()
	if c.owned {
		// The session was created for this connection and goes with it.
		// It may already be gone if it was deleted through the API.
		if err := s.manager.Delete(c.state.ID); err != nil && !errors.Is(err, instance.ErrSessionNotFound) {
			s.logger.Warn("delete session failed", "session", c.sessionID(), "err", err)
		}
	}
	s.metrics.ConnClosed()
	s.logger.Info("client disconnected", "session", c.sessionID(), "owned", c.owned, "clients", n)
}

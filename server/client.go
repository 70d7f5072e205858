package server

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"robot-maze-server/config"
	"robot-maze-server/instance"
)

// sendBuffer is the number of queued outgoing messages per client.
const sendBuffer = 256

// WebSocketClient is a single connection bound to one session.
type WebSocketClient struct {
	conn    *websocket.Conn          // The raw WebSocket connection
	send    chan []byte              // Replies queued for the write pump
	state   *instance.InstanceState  // Session the client drives
	updates <-chan instance.Snapshot // Per-tick snapshots from the manager
	cancel  func()                   // Ends the snapshot subscription
	owned   bool                     // Session was created for this connection
	done    chan struct{}            // Closed when the read pump exits
}

func newWebSocketClient(conn *websocket.Conn, is *instance.InstanceState, updates <-chan instance.Snapshot, cancel func(), owned bool) *WebSocketClient {
	return &WebSocketClient{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		state:   is,
		updates: updates,
		cancel:  cancel,
		owned:   owned,
		done:    make(chan struct{}),
	}
}

func (c *WebSocketClient) sessionID() string {
	return c.state.ID.String()
}

// enqueue queues msg for the write pump. It reports false when the buffer is
// full and the message was dropped.
func (c *WebSocketClient) enqueue(msgType string, data any) bool {
	b, err := json.Marshal(serverMessage{Type: msgType, Data: data})
	if err != nil {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// ReadPump reads client messages until the connection fails, then
// unregisters the client and signals the write pump.
func (c *WebSocketClient) ReadPump(s *InstanceServer) {
	defer func() {
		s.unregisterClient(c) // Drops the subscription and any owned session
		close(c.done)         // Stops the write pump
		c.conn.Close()
	}()

	// Oversized frames fail the read and end the connection.
	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait)) // Extend on every pong
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			// A normal close or going-away is the client leaving.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("unexpected websocket close", "session", c.sessionID(), "err", err)
			} else {
				s.logger.Debug("websocket read ended", "session", c.sessionID(), "err", err)
			}
			return
		}
		s.handleClientMessage(c, message)
	}
}

// WritePump is the only writer on the connection. It forwards queued
// messages and session snapshots and sends periodic pings.
func (c *WebSocketClient) WritePump(s *InstanceServer) {
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close() // Unblocks the read pump if the write side failed first
	}()

	// Every frame gets a fresh write deadline.
	write := func(msgType int, data []byte) error {
		c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
		return c.conn.WriteMessage(msgType, data)
	}

	for {
		select {
		case message := <-c.send:
			// Command results, errors and explicit snapshot replies.
			if err := write(websocket.TextMessage, message); err != nil {
				s.logger.Debug("websocket write failed", "session", c.sessionID(), "err", err)
				return
			}

		case snap, ok := <-c.updates:
			if !ok {
				// The manager closed the channel: the session was deleted.
				_ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			b, err := json.Marshal(serverMessage{Type: MsgState, Data: snap})
			if err != nil {
				s.logger.Error("marshal snapshot", "session", c.sessionID(), "err", err)
				continue
			}
			if err := write(websocket.TextMessage, b); err != nil {
				s.logger.Debug("websocket write failed", "session", c.sessionID(), "err", err)
				return
			}

		case <-ticker.C:
			// Heartbeat; the pong extends the read deadline.
			if err := write(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("websocket ping failed", "session", c.sessionID(), "err", err)
				return
			}

		case <-c.done:
			// Read side is gone. Say goodbye and stop.
			_ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

package server

import (
	"context"
	"encoding/json"
	"time"

	"robot-maze-server/instance"
)

// Message types sent to clients.
const (
	MsgSessionAssigned = "session_assigned"
	MsgState           = "state"
	MsgResult          = "result"
	MsgError           = "error"
)

// Message types accepted from clients.
const (
	MsgCommand  = "command"
	MsgSnapshot = "snapshot"
)

const commandTimeout = 10 * time.Second

// clientMessage is the envelope of every message from the client.
type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type serverMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type sessionAssigned struct {
	SessionID string `json:"session_id"`
}

type errorData struct {
	Message string `json:"message"`
	Command string `json:"command,omitempty"`
}

// handleClientMessage processes one incoming JSON message.
func (s *InstanceServer) handleClientMessage(c *WebSocketClient, message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		s.logger.Debug("bad client message", "session", c.sessionID(), "err", err)
		c.enqueue(MsgError, errorData{Message: "invalid message"})
		return
	}

	switch msg.Type {
	case MsgCommand:
		var cmd instance.Command
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			c.enqueue(MsgError, errorData{Message: "invalid command"})
			return
		}
		s.processCommand(c, cmd)
	case MsgSnapshot:
		c.enqueue(MsgState, c.state.Snapshot())
	default:
		s.logger.Debug("unknown message type", "session", c.sessionID(), "type", msg.Type)
		c.enqueue(MsgError, errorData{Message: "unknown message type " + msg.Type})
	}
}

// processCommand applies cmd to the client's session and replies with the
// result and the resulting state.
func (s *InstanceServer) processCommand(c *WebSocketClient, cmd instance.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := c.state.Apply(ctx, cmd, s.store)
	if err != nil {
		s.logger.Debug("command rejected", "session", c.sessionID(), "type", cmd.Type, "err", err)
		c.enqueue(MsgError, errorData{Message: err.Error(), Command: cmd.Type})
		return
	}
	if !c.enqueue(MsgResult, res) {
		s.logger.Warn("client send buffer full", "session", c.sessionID())
	}
	c.enqueue(MsgState, c.state.Snapshot())
}

package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	heartbeatInterval = 30 * time.Second
	heartbeatSlack    = 15 * time.Second
	writeWait         = 10 * time.Second
	readWait          = 75 * time.Second
	maxFrameSize      = 4096
	outboxSize        = 256
)

// Connection is one client socket. UserID and SessionID stay zero until the
// client identifies or resumes.
type Connection struct {
	UserID    int64
	SessionID string

	ws      *websocket.Conn
	outbox  chan []byte
	manager *Manager

	seq      atomic.Int64
	lastBeat atomic.Int64 // unix millis of the client's last heartbeat

	closeOnce sync.Once
	closed    chan struct{}
}

func newConnection(ws *websocket.Conn, manager *Manager) *Connection {
	c := &Connection{
		ws:      ws,
		outbox:  make(chan []byte, outboxSize),
		manager: manager,
		closed:  make(chan struct{}),
	}
	c.lastBeat.Store(time.Now().UnixMilli())
	return c
}

// SendPayload queues a payload for delivery. A slow consumer whose outbox is
// full loses the payload rather than blocking the dispatcher; the client
// recovers missed events through resume.
func (c *Connection) SendPayload(p GatewayPayload) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Error("gateway payload marshal failed", "user_id", c.UserID, "error", err)
		return
	}
	select {
	case c.outbox <- data:
	default:
		slog.Warn("gateway outbox full, dropping payload", "user_id", c.UserID)
	}
}

// SendEvent queues a dispatch event, stamping it with this connection's next
// sequence number.
func (c *Connection) SendEvent(name string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("gateway event marshal failed", "event", name, "error", err)
		return
	}
	seq := c.seq.Add(1)
	c.SendPayload(GatewayPayload{
		Op:       OpDispatch,
		Data:     raw,
		Sequence: &seq,
		Event:    &name,
	})
}

// Close tears down the socket. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.ws.Close()
	})
}

func (c *Connection) readLoop() {
	defer func() {
		c.manager.unregister(c)
		c.Close()
	}()

	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("gateway read failed", "user_id", c.UserID, "error", err)
			}
			return
		}
		c.dispatch(frame)
	}
}

func (c *Connection) writeLoop() {
	beat := time.NewTicker(heartbeatInterval)
	defer func() {
		beat.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.outbox:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-beat.C:
			last := time.UnixMilli(c.lastBeat.Load())
			if time.Since(last) > heartbeatInterval+heartbeatSlack {
				slog.Warn("gateway heartbeat timeout", "user_id", c.UserID)
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.SendPayload(GatewayPayload{Op: OpHeartbeat})

		case <-c.closed:
			return
		}
	}
}

// dispatch routes one inbound client payload. Unknown opcodes are ignored so
// newer clients do not kill older servers.
func (c *Connection) dispatch(frame []byte) {
	var payload GatewayPayload
	if err := json.Unmarshal(frame, &payload); err != nil {
		slog.Error("gateway invalid payload", "user_id", c.UserID, "error", err)
		return
	}

	switch payload.Op {
	case OpHeartbeat:
		c.lastBeat.Store(time.Now().UnixMilli())
		c.SendPayload(GatewayPayload{Op: OpHeartbeatAck})
	case OpIdentify:
		c.manager.handleIdentify(c, payload.Data)
	case OpResume:
		c.manager.handleResume(c, payload.Data)
	case OpPresenceUpdate:
		c.manager.handlePresenceUpdate(c, payload.Data)
	}
}

// marshalRaw marshals a statically-known payload type that cannot fail.
func marshalRaw(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("gateway: marshalRaw: " + err.Error())
	}
	return data
}

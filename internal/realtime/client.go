package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"goals-service/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outgoing message buffer per connection
	sendBufferSize = 256
)

var ErrClientDisconnected = errors.New("client disconnected")

// Conn is the subset of *websocket.Conn the client uses, an interface so
// tests can swap in a fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one live connection. It starts unauthenticated; the hub fills
// in the session on a successful handshake. Each client runs one read and
// one write goroutine for the lifetime of the connection.
type Client struct {
	id   string
	hub  *Hub
	conn Conn
	send chan []byte

	// session is nil until the handshake succeeds. Written only from the
	// connection's read goroutine, before the client is registered.
	session *models.User

	ctx    context.Context
	cancel context.CancelFunc

	closed int32

	// sendMu serializes enqueueing against closing the send channel; a
	// send committed after close would panic.
	sendMu     sync.RWMutex
	sendClosed int32
}

func newClient(hub *Hub, conn Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:     uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

// UserID returns the authenticated user's ID, or 0 before the handshake.
func (c *Client) UserID() uint {
	if c.session == nil {
		return 0
	}
	return c.session.ID
}

func (c *Client) authenticated() bool {
	return c.session != nil
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client closed and cancels its context. Idempotent.
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
	}
}

func (c *Client) closeSendChannel() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if atomic.CompareAndSwapInt32(&c.sendClosed, 0, 1) {
		close(c.send)
	}
}

// Send enqueues an encoded frame without blocking. A full buffer means the
// peer is too slow to keep up; the client is dropped rather than stalling
// the sender. Safe to call concurrently with teardown.
func (c *Client) Send(data []byte) error {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	if c.isClosed() || atomic.LoadInt32(&c.sendClosed) == 1 {
		return ErrClientDisconnected
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientDisconnected
	default:
		slog.Warn("Send buffer full, dropping client", "clientID", c.id, "userID", c.UserID())
		c.close()
		return ErrClientDisconnected
	}
}

// push encodes and enqueues a frame, logging encode failures.
func (c *Client) push(t MessageType, payload interface{}) {
	data, err := encodeMessage(t, payload)
	if err != nil {
		slog.Error("Failed to encode message", "type", t, "error", err)
		return
	}
	if err := c.Send(data); err != nil {
		slog.Debug("Push failed", "clientID", c.id, "type", t, "error", err)
	}
}

func (c *Client) pushError(message string) {
	c.push(MessageTypeError, ErrorPayload{Message: message})
}

// readPump reads inbound frames and routes them through the hub. It owns
// connection teardown: when it returns, the session is unregistered and the
// underlying connection closed, whatever caused the exit.
func (c *Client) readPump() {
	defer func() {
		c.close()
		c.hub.disconnect(c)
		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "clientID", c.id, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		// Pongs arrive on the ping cadence, well inside the presence TTL.
		c.hub.refreshPresence(c)
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "userID", c.UserID(), "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "clientID", c.id, "userID", c.UserID(), "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			slog.Debug("Invalid frame", "clientID", c.id, "error", err)
			c.pushError("Invalid message format")
			continue
		}

		c.hub.route(c, msg)
	}
}

// writePump drains the send channel onto the connection and keeps the peer
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Send channel closed: pending frames are already drained,
				// say goodbye and tear the connection down so readPump
				// unblocks.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				c.close()
				c.conn.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("Error writing message", "clientID", c.id, "error", err)
				c.close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "clientID", c.id, "error", err)
				c.close()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

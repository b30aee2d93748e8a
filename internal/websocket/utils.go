package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	readWait   = 5 * time.Minute
	maxMessage = 4096
)

// Conn serializes writes to a WebSocket connection. gorilla/websocket
// allows one concurrent writer, and the stream has two: the reader loop
// and the countdown ticker.
type Conn struct {
	raw *websocket.Conn
	mu  sync.Mutex
}

// NewConn wraps raw and sets the read limits.
func NewConn(raw *websocket.Conn) *Conn {
	raw.SetReadLimit(maxMessage)
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(readWait))
	})
	return &Conn{raw: raw}
}

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func (c *Conn) WriteTyped(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.raw.SetWriteDeadline(time.Now().Add(writeWait))
	return c.raw.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func (c *Conn) WriteError(code, errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Code:  code,
		Error: errMsg,
	})
}

// ReadJSON reads and decodes a message into the provided structure.
// It sets a read deadline.
func (c *Conn) ReadJSON(v any) error {
	_ = c.raw.SetReadDeadline(time.Now().Add(readWait))
	return c.raw.ReadJSON(v)
}

// Close sends a normal close frame and closes the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	_ = c.raw.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.mu.Unlock()
	return c.raw.Close()
}

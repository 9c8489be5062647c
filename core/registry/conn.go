package registry

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is an abstract bidirectional channel for one sub-channel of a session.
// Operations on a closed connection fail fast with ErrConnClosed rather than
// blocking. Implementations must allow concurrent senders.
type Conn interface {
	// SendText writes a text message.
	SendText(ctx context.Context, text string) error
	// SendBytes writes a binary message.
	SendBytes(ctx context.Context, data []byte) error
	// ReceiveText waits up to timeout for a text message, or indefinitely
	// when timeout is zero. A timeout is not an error: it returns "" and a
	// nil error, so callers can treat "no text supplied" as an ordinary
	// branch.
	ReceiveText(ctx context.Context, timeout time.Duration) (string, error)
	// ReceiveBytes blocks until a binary message arrives, the context is
	// canceled, or the connection closes.
	ReceiveBytes(ctx context.Context) ([]byte, error)
	// Close tears down the underlying transport. Safe to call multiple times.
	Close() error
}

const writeWait = 10 * time.Second

// WSConn adapts a gorilla WebSocket connection to the Conn interface.
// A single read pump goroutine demultiplexes text and binary frames into
// buffered channels so that text and binary receives can be raced
// independently. Writes are serialized with a mutex because gorilla permits
// at most one concurrent writer.
type WSConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex

	text   chan string
	binary chan []byte
	done   chan struct{} // closed when the read pump exits
	closed chan struct{} // closed by Close

	closeOnce sync.Once
}

// NewWSConn wraps an upgraded WebSocket connection and starts its read pump.
func NewWSConn(ws *websocket.Conn) *WSConn {
	c := &WSConn{
		ws:     ws,
		text:   make(chan string, 8),
		binary: make(chan []byte, 8),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go c.readPump()
	return c
}

func (c *WSConn) readPump() {
	defer close(c.done)
	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		switch msgType {
		case websocket.TextMessage:
			select {
			case c.text <- string(data):
			default:
				// Slow consumer: drop rather than stall the pump. Supplementary
				// text is best-effort within its turn window.
			}
		case websocket.BinaryMessage:
			select {
			case c.binary <- data:
			case <-c.closed:
				return
			}
		}
	}
}

func (c *WSConn) SendText(ctx context.Context, text string) error {
	return c.write(ctx, websocket.TextMessage, []byte(text))
}

func (c *WSConn) SendBytes(ctx context.Context, data []byte) error {
	return c.write(ctx, websocket.BinaryMessage, data)
}

func (c *WSConn) write(ctx context.Context, msgType int, data []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(msgType, data); err != nil {
		return ErrConnClosed
	}
	return nil
}

func (c *WSConn) ReceiveText(ctx context.Context, timeout time.Duration) (string, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case text := <-c.text:
		return text, nil
	case <-expired:
		return "", nil
	case <-c.done:
		return "", ErrConnClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *WSConn) ReceiveBytes(ctx context.Context) ([]byte, error) {
	select {
	case data := <-c.binary:
		return data, nil
	case <-c.done:
		return nil, ErrConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the underlying WebSocket. The read pump observes the close and
// unblocks any pending receives with ErrConnClosed.
func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.ws.Close()
	})
	return err
}

// CloseWithReason sends a close frame with the given code and reason before
// tearing the connection down, so clients can distinguish rejections such as
// a duplicate session from ordinary disconnects.
func (c *WSConn) CloseWithReason(code int, reason string) error {
	c.writeMu.Lock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	c.writeMu.Unlock()
	return c.Close()
}

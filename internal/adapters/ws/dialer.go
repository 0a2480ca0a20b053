// Package ws implements the status channel ports on top of gorilla/websocket.
package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bft-labs/coopwatch/internal/ports"
)

// Dialer opens status channels with a gorilla websocket.Dialer.
type Dialer struct {
	dialer *websocket.Dialer
	header http.Header
}

// NewDialer returns a Dialer. A zero handshakeTimeout leaves the handshake
// bounded only by the caller's context.
func NewDialer(handshakeTimeout time.Duration) *Dialer {
	d := *websocket.DefaultDialer
	d.HandshakeTimeout = handshakeTimeout
	return &Dialer{dialer: &d}
}

// SetHeader sets a header sent with the upgrade request, e.g. Origin.
func (d *Dialer) SetHeader(key, value string) {
	if d.header == nil {
		d.header = http.Header{}
	}
	d.header.Set(key, value)
}

// Dial implements ports.Dialer.
func (d *Dialer) Dial(ctx context.Context, url string) (ports.StatusConn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, d.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Conn{conn: conn}, nil
}

// Conn is an open status channel.
type Conn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps an established websocket connection.
func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

// ReadMessage returns the next text or binary message as a string.
func (c *Conn) ReadMessage() (string, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText sends msg as a single text message.
func (c *Conn) WriteText(msg string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

// Close closes the underlying connection. It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

var (
	_ ports.Dialer     = (*Dialer)(nil)
	_ ports.StatusConn = (*Conn)(nil)
)

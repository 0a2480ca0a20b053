package ports

import "context"

// Dialer opens a status channel to the given ws:// or wss:// URL.
type Dialer interface {
	// Dial blocks until the channel is open or the attempt fails.
	Dial(ctx context.Context, url string) (StatusConn, error)
}

// StatusConn is an open, message-oriented status channel.
// ReadMessage and WriteText may be called from different goroutines, but
// each must have at most one caller at a time.
type StatusConn interface {
	// ReadMessage blocks for the next inbound message and returns its
	// payload as text. Any error means the channel is finished.
	ReadMessage() (string, error)

	// WriteText sends one text message.
	WriteText(msg string) error

	// Close tears the channel down and unblocks a pending ReadMessage.
	Close() error
}

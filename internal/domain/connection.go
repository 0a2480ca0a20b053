package domain

// ConnectionState is the phase of the status channel.
type ConnectionState int

const (
	ConnConnecting ConnectionState = iota
	ConnOpen
	ConnClosed
)

func (s ConnectionState) String() string {
	switch s {
	case ConnConnecting:
		return "connecting"
	case ConnOpen:
		return "open"
	case ConnClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether the channel may move from s to next.
// A closed channel only leaves Closed when the client reconnects.
func (s ConnectionState) CanTransition(next ConnectionState, reconnect bool) bool {
	switch s {
	case ConnConnecting:
		return next == ConnOpen || next == ConnClosed
	case ConnOpen:
		return next == ConnClosed
	case ConnClosed:
		return reconnect && next == ConnConnecting
	}
	return false
}

package coopwatch

import (
	"time"

	"github.com/bft-labs/coopwatch/internal/domain"
	"github.com/bft-labs/coopwatch/pkg/status"
)

// State is the lifecycle state of a Watcher.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// ConnectionState is the phase of the status channel.
type ConnectionState = domain.ConnectionState

const (
	ConnConnecting = domain.ConnConnecting
	ConnOpen       = domain.ConnOpen
	ConnClosed     = domain.ConnClosed
)

// StateChangeEvent reports a Watcher lifecycle change.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// ConnectionEvent reports a status channel phase change.
type ConnectionEvent struct {
	Previous ConnectionState
	Current  ConnectionState
	Reason   string
}

// StatusEvent reports an accepted status frame. Changed is false when the
// frame repeated the current record.
type StatusEvent struct {
	Record  status.Record
	Changed bool
}

// FrameRejectedEvent reports a payload that carried no status.
type FrameRejectedEvent struct {
	Payload string
}

// CommandEvent reports the outcome of an asynchronous Dispatch.
type CommandEvent struct {
	Control    string
	StatusCode int
	Err        error
	Duration   time.Duration
}

// EventHandler receives Watcher events. Connection and status events are
// delivered on the connection goroutine; handlers must not block.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnConnectionChange(event ConnectionEvent)
	OnStatus(event StatusEvent)
	OnFrameRejected(event FrameRejectedEvent)
	OnCommand(event CommandEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)     {}
func (BaseEventHandler) OnConnectionChange(ConnectionEvent) {}
func (BaseEventHandler) OnStatus(StatusEvent)               {}
func (BaseEventHandler) OnFrameRejected(FrameRejectedEvent) {}
func (BaseEventHandler) OnCommand(CommandEvent)             {}

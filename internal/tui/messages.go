package tui

import (
	"github.com/bft-labs/coopwatch/internal/domain"
	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/view"
)

// DisplayMsg carries a committed display snapshot.
type DisplayMsg struct {
	Display view.Display
}

// ConnMsg reports a status channel phase change.
type ConnMsg struct {
	State domain.ConnectionState
}

// ControlsMsg replaces the control table, e.g. after a config reload.
type ControlsMsg struct {
	Controls []command.Control
}

// CommandMsg reports how the controller answered a door command.
type CommandMsg struct {
	Control    string
	StatusCode int
	Err        error
}

// dispatchedMsg reports the outcome of a control key press.
type dispatchedMsg struct {
	name string
	err  error
}

// copiedMsg reports the outcome of a clipboard copy.
type copiedMsg struct {
	err error
}

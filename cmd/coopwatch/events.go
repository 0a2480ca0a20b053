package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/coopwatch/internal/tui"
	"github.com/bft-labs/coopwatch/pkg/coopwatch"
	"github.com/bft-labs/coopwatch/pkg/log"
)

// programEvents forwards watcher events to the interactive screen.
type programEvents struct {
	coopwatch.BaseEventHandler

	program *tea.Program
}

func (e *programEvents) send(msg tea.Msg) {
	if e.program != nil {
		e.program.Send(msg)
	}
}

func (e *programEvents) OnConnectionChange(event coopwatch.ConnectionEvent) {
	e.send(tui.ConnMsg{State: event.Current})
}

func (e *programEvents) OnCommand(event coopwatch.CommandEvent) {
	e.send(tui.CommandMsg{Control: event.Control, StatusCode: event.StatusCode, Err: event.Err})
}

// plainEvents logs what the line output does not show.
type plainEvents struct {
	coopwatch.BaseEventHandler

	logger log.Logger
	closed chan struct{}
	once   sync.Once
}

func (e *plainEvents) OnConnectionChange(event coopwatch.ConnectionEvent) {
	e.logger.Debug("connection",
		log.String("from", event.Previous.String()),
		log.String("to", event.Current.String()),
		log.String("reason", event.Reason))
	if event.Current == coopwatch.ConnClosed {
		e.once.Do(func() { close(e.closed) })
	}
}

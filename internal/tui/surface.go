package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/coopwatch/pkg/view"
)

// Sender is the part of *tea.Program the surface needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Surface is a view.Surface that forwards each committed display to a
// running bubbletea program.
type Surface struct {
	*view.Board

	mu     sync.Mutex
	sender Sender
}

// NewSurface returns a surface with no program attached. Commits made
// before SetSender only update the board.
func NewSurface() *Surface {
	return &Surface{Board: view.NewBoard()}
}

// SetSender attaches the program that receives DisplayMsg.
func (s *Surface) SetSender(sender Sender) {
	s.mu.Lock()
	s.sender = sender
	s.mu.Unlock()
}

// Commit implements view.Committer.
func (s *Surface) Commit() {
	s.mu.Lock()
	sender := s.sender
	s.mu.Unlock()
	if sender != nil {
		sender.Send(DisplayMsg{Display: s.Snapshot()})
	}
}

var (
	_ view.Surface   = (*Surface)(nil)
	_ view.Committer = (*Surface)(nil)
)

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/coopwatch/pkg/command"
)

// KeyMap defines the fixed keyboard shortcuts. Control keys are built from
// the configured controls by controlBindings.
type KeyMap struct {
	Quit key.Binding
	Copy key.Binding
	Help key.Binding

	controls []controlBinding
}

type controlBinding struct {
	name    string
	binding key.Binding
}

// DefaultKeyMap returns the fixed bindings with no controls.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy status"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// WithControls returns a copy of k with one binding per control, keyed by
// the first letter of its name. Controls whose letter is already taken get
// no key.
func (k KeyMap) WithControls(controls []command.Control) KeyMap {
	taken := map[string]bool{"q": true, "y": true, "?": true}
	k.controls = nil
	for _, c := range controls {
		if c.Name == "" {
			continue
		}
		letter := string([]rune(c.Name)[0])
		if taken[letter] {
			continue
		}
		taken[letter] = true
		k.controls = append(k.controls, controlBinding{
			name: c.Name,
			binding: key.NewBinding(
				key.WithKeys(letter),
				key.WithHelp(letter, c.Name),
			),
		})
	}
	return k
}

// Control returns the control name bound to msg, if any.
func (k KeyMap) Control(msg tea.KeyMsg) (string, bool) {
	for _, cb := range k.controls {
		if key.Matches(msg, cb.binding) {
			return cb.name, true
		}
	}
	return "", false
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(k.controls)+2)
	for _, cb := range k.controls {
		out = append(out, cb.binding)
	}
	return append(out, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	controls := make([]key.Binding, 0, len(k.controls))
	for _, cb := range k.controls {
		controls = append(controls, cb.binding)
	}
	return [][]key.Binding{controls, {k.Copy, k.Help, k.Quit}}
}

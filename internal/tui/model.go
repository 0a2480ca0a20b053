package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/coopwatch/internal/domain"
	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/view"
)

// DispatchFunc starts the named control and returns without waiting for
// the controller to answer.
type DispatchFunc func(name string) error

// Options configures a Model.
type Options struct {
	Origin   string
	Controls []command.Control
	Dispatch DispatchFunc

	// CopyText writes to the clipboard. Defaults to clipboard.WriteAll.
	CopyText func(string) error
}

// Model is the door status screen.
type Model struct {
	origin   string
	dispatch DispatchFunc
	copyText func(string) error

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	conn    domain.ConnectionState
	display view.Display
	notice  string
	failed  bool
	width   int
}

// New returns a model waiting for its first connection event.
func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = connWaitStyle

	copyText := opts.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	return Model{
		origin:   opts.Origin,
		dispatch: opts.Dispatch,
		copyText: copyText,
		keys:     DefaultKeyMap().WithControls(opts.Controls),
		help:     help.New(),
		spinner:  s,
		conn:     domain.ConnConnecting,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case DisplayMsg:
		m.display = msg.Display
		return m, nil

	case ConnMsg:
		m.conn = msg.State
		if msg.State == domain.ConnConnecting {
			return m, m.spinner.Tick
		}
		return m, nil

	case ControlsMsg:
		m.keys = m.keys.WithControls(msg.Controls)
		return m, nil

	case dispatchedMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf("%s failed: %v", msg.name, msg.err), true)
		} else {
			m.setNotice("requested "+msg.name, false)
		}
		return m, nil

	case CommandMsg:
		if msg.Err != nil {
			m.setNotice(fmt.Sprintf("%s failed: %v", msg.Control, msg.Err), true)
		} else {
			m.setNotice(fmt.Sprintf("%s sent (%d)", msg.Control, msg.StatusCode), false)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setNotice("copy failed: "+msg.err.Error(), true)
		} else {
			m.setNotice("status copied to clipboard", false)
		}
		return m, nil

	case spinner.TickMsg:
		if m.conn != domain.ConnConnecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd(m.display.Text)
	}

	if name, ok := m.keys.Control(msg); ok {
		return m, m.dispatchCmd(name)
	}
	return m, nil
}

func (m Model) dispatchCmd(name string) tea.Cmd {
	dispatch := m.dispatch
	return func() tea.Msg {
		if dispatch == nil {
			return dispatchedMsg{name: name, err: domain.ErrUnknownControl}
		}
		return dispatchedMsg{name: name, err: dispatch(name)}
	}
}

func (m Model) copyCmd(text string) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return copiedMsg{err: copyText(text)}
	}
}

func (m *Model) setNotice(text string, failed bool) {
	m.notice = text
	m.failed = failed
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("coopwatch"),
		originStyle.Render(m.origin),
		m.connView(),
	))
	b.WriteString("\n")

	b.WriteString(m.statusView())
	b.WriteString("\n")

	if m.notice != "" {
		style := statusLineStyle
		if m.failed {
			style = style.Foreground(errorColor)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) connView() string {
	switch m.conn {
	case domain.ConnOpen:
		return connOpenStyle.Render("● connected")
	case domain.ConnClosed:
		return connClosedStyle.Render("○ disconnected")
	default:
		return m.spinner.View() + connWaitStyle.Render(" connecting")
	}
}

func (m Model) statusView() string {
	d := m.display
	if len(d.Indicators) == 0 {
		text := d.Text
		if text == "" {
			text = "waiting for the status channel"
		}
		return placeholderStyle.Render(text)
	}

	badges := make([]string, 0, len(d.Indicators))
	for _, class := range d.Indicators {
		badges = append(badges, classStyle(class).Render(strings.ToUpper(class)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		textStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, badges...)),
		statusLineStyle.Render(d.Text),
	)
}

// Program wires a model and surface into a bubbletea program on the
// alternate screen.
func Program(m Model, surface *Surface, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(m, opts...)
	surface.SetSender(p)
	return p
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/coopwatch/pkg/status"
	"github.com/bft-labs/coopwatch/pkg/view"
)

var (
	openColor    = lipgloss.Color("#10B981")
	closedColor  = lipgloss.Color("#3B82F6")
	movingColor  = lipgloss.Color("#F59E0B")
	mutedColor   = lipgloss.Color("#6B7280")
	errorColor   = lipgloss.Color("#EF4444")
	primaryColor = lipgloss.Color("#7C3AED")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(primaryColor).Padding(0, 1)
	originStyle = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 2).MarginRight(1)
	limitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#111827")).Background(lipgloss.Color("#E5E7EB")).Padding(0, 1).MarginRight(1)

	textStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Padding(1, 1, 0, 1)
	placeholderStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true).Padding(1, 1, 0, 1)

	connOpenStyle   = lipgloss.NewStyle().Foreground(openColor)
	connClosedStyle = lipgloss.NewStyle().Foreground(errorColor)
	connWaitStyle   = lipgloss.NewStyle().Foreground(movingColor)

	statusLineStyle = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)
	helpStyle       = lipgloss.NewStyle().Padding(1, 1, 0, 1)
)

// classStyle returns the badge style for an indicator class.
func classStyle(class string) lipgloss.Style {
	switch class {
	case view.ClassUpper, view.ClassLower:
		return limitStyle
	case string(status.StateOpen):
		return badgeStyle.Background(openColor)
	case string(status.StateClosed):
		return badgeStyle.Background(closedColor)
	case string(status.StateOpening), string(status.StateClosing):
		return badgeStyle.Background(movingColor)
	default:
		return badgeStyle.Background(mutedColor)
	}
}

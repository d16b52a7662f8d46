package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#E8590C")
	mutedColor  = lipgloss.Color("#888888")
	textColor   = lipgloss.Color("#FFFFFF")
	warnColor   = lipgloss.Color("#FF3B30")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	barStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	clipStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the chat screen styles.
type Theme struct {
	Title   lipgloss.Style
	Status  lipgloss.Style
	User    lipgloss.Style
	Bot     lipgloss.Style
	Body    lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Input   lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultTheme is the default chat theme.
var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#10b981")),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	User: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3b82f6")),
	Bot: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#10b981")),
	Body: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		PaddingLeft(2),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Input: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	Spinner: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
}

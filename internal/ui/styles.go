package ui

import "github.com/charmbracelet/lipgloss"

var (
	Primary = lipgloss.Color("#2563EB")

	ColorSuccess = lipgloss.Color("#10B981")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorInfo    = lipgloss.Color("#06B6D4")
	ColorMuted   = lipgloss.Color("#6B7280")
)

var (
	SuccessBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000")).
			Background(ColorSuccess).
			Padding(0, 1).
			Bold(true)

	WarningBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000")).
			Background(ColorWarning).
			Padding(0, 1).
			Bold(true)

	ErrorBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(ColorError).
			Padding(0, 1).
			Bold(true)

	InfoBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000")).
			Background(ColorInfo).
			Padding(0, 1).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)
)

package tui

import "github.com/charmbracelet/lipgloss"

// --- Styles ---
var (
	accent = lipgloss.Color("#7D56F4")

	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1).
			Bold(true)
	balanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
	tableHeaderStyle = lipgloss.NewStyle().Underline(true).Bold(true)

	// transaction direction
	incomingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	outgoingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
)

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	turnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	// terminal colors for the 4-entry board palette
	tokenStyles = map[string]lipgloss.Style{
		"green":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		"blue":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		"orange": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		"red":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
)

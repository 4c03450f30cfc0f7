package tui

import "github.com/charmbracelet/lipgloss"

const defaultAccent = "39"

var (
	userRoleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("28")).
			Padding(0, 1)

	fallbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Italic(true).
			Padding(0, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))
)

// accentStyles derives the styles that follow the configured accent color.
func accentStyles(accent string) (title, assistantRole, spinner lipgloss.Style) {
	if accent == "" {
		accent = defaultAccent
	}
	c := lipgloss.Color(accent)

	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(c).
		Padding(0, 1)

	assistantRole = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(c).
		Padding(0, 1)

	spinner = lipgloss.NewStyle().Foreground(c)
	return title, assistantRole, spinner
}

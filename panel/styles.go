package panel

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97757"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	busyInputStyle = inputStyle.BorderForeground(lipgloss.Color("237"))

	statusStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

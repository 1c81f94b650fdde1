package tui

import "github.com/charmbracelet/lipgloss"

var (
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	uncheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// MenuOption represents a menu choice
type MenuOption struct {
	Label string
	Value string
	Hint  string
}

// MenuModel is the bubbletea model for the main menu
type MenuModel struct {
	options  []MenuOption
	cursor   int
	selected string
}

// NewMenuModel creates a new menu
func NewMenuModel(options []MenuOption) MenuModel {
	return MenuModel{options: options}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.options) > 0 {
			m.selected = m.options[m.cursor].Value
		}
		return m, tea.Quit
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("? What would you like to do?"))
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		sb.WriteString(cursor)
		sb.WriteString(style.Render(opt.Label))
		if opt.Hint != "" && i == m.cursor {
			sb.WriteString("  ")
			sb.WriteString(hintStyle.Render(opt.Hint))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n(up/down to navigate, enter to select, q to quit)\n")
	return sb.String()
}

// Selected returns the selected value, empty if the menu was dismissed
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu displays the menu and returns the selection
func RunMenu(options []MenuOption) (string, error) {
	p := tea.NewProgram(NewMenuModel(options))

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	return finalModel.(MenuModel).Selected(), nil
}

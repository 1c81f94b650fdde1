package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CheckboxOption represents a checkbox choice
type CheckboxOption struct {
	Label   string
	Value   string
	Hint    string // shown dimmed after the label
	Checked bool
}

// CheckboxModel is the bubbletea model for picking a subset of options
type CheckboxModel struct {
	title     string
	options   []CheckboxOption
	cursor    int
	done      bool
	minSelect int
}

// NewCheckboxModel creates a new checkbox selector
func NewCheckboxModel(title string, options []CheckboxOption) CheckboxModel {
	return CheckboxModel{
		title:     title,
		options:   options,
		minSelect: 1,
	}
}

func (m CheckboxModel) Init() tea.Cmd {
	return nil
}

func (m CheckboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case " ", "x":
		m.toggle(m.cursor)
	case "a":
		m.setAll(m.countSelected() < len(m.options))
	case "enter":
		if m.countSelected() >= m.minSelect {
			m.done = true
			return m, tea.Quit
		}
	case "q", "ctrl+c", "esc":
		m.done = false
		return m, tea.Quit
	}
	return m, nil
}

// toggle flips one option. Options are copied so the caller's slice is
// never modified.
func (m *CheckboxModel) toggle(i int) {
	if i < 0 || i >= len(m.options) {
		return
	}
	opts := make([]CheckboxOption, len(m.options))
	copy(opts, m.options)
	opts[i].Checked = !opts[i].Checked
	m.options = opts
}

func (m *CheckboxModel) setAll(checked bool) {
	opts := make([]CheckboxOption, len(m.options))
	for i, opt := range m.options {
		opt.Checked = checked
		opts[i] = opt
	}
	m.options = opts
}

func (m CheckboxModel) countSelected() int {
	count := 0
	for _, opt := range m.options {
		if opt.Checked {
			count++
		}
	}
	return count
}

func (m CheckboxModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		checkbox := "[ ]"
		style := uncheckedStyle
		if opt.Checked {
			checkbox = "[x]"
			style = checkedStyle
		}

		sb.WriteString(style.Render(fmt.Sprintf("%s%s %s", cursor, checkbox, opt.Label)))
		if opt.Hint != "" {
			sb.WriteString("  ")
			sb.WriteString(hintStyle.Render(opt.Hint))
		}
		sb.WriteString("\n")
	}

	if m.countSelected() < m.minSelect {
		sb.WriteString(fmt.Sprintf("\n(select at least %d)\n", m.minSelect))
	} else {
		sb.WriteString("\n")
	}
	sb.WriteString("(space=toggle, a=all, enter=confirm, q=cancel)\n")

	return sb.String()
}

// Selected returns the selected option values in display order
func (m CheckboxModel) Selected() []string {
	var result []string
	for _, opt := range m.options {
		if opt.Checked {
			result = append(result, opt.Value)
		}
	}
	return result
}

// Cancelled returns true if the user cancelled
func (m CheckboxModel) Cancelled() bool {
	return !m.done
}

// RunCheckbox displays checkboxes and returns selected values, or nil when
// the user cancels.
func RunCheckbox(title string, options []CheckboxOption) ([]string, error) {
	p := tea.NewProgram(NewCheckboxModel(title, options))

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(CheckboxModel)
	if result.Cancelled() {
		return nil, nil
	}
	return result.Selected(), nil
}

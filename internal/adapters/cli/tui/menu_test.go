package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMenuModel(t *testing.T) {
	options := []MenuOption{
		{Label: "Build brief", Value: "build", Hint: "fetch and typeset"},
		{Label: "Build official brief", Value: "official"},
		{Label: "Cache status", Value: "cache"},
	}

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want string
	}{
		{"first", []tea.KeyMsg{{Type: tea.KeyEnter}}, "build"},
		{"down", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, "official"},
		{"clamped", []tea.KeyMsg{runeKey("j"), runeKey("j"), runeKey("j"), {Type: tea.KeyEnter}}, "cache"},
		{"quit", []tea.KeyMsg{runeKey("q")}, ""},
		{"escape", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEsc}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewMenuModel(options)
			for _, k := range tt.keys {
				m, _ = m.Update(k)
			}
			if got := m.(MenuModel).Selected(); got != tt.want {
				t.Errorf("Selected() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMenuModel_View(t *testing.T) {
	view := NewMenuModel([]MenuOption{
		{Label: "Build brief", Value: "build", Hint: "fetch and typeset"},
		{Label: "Cache status", Value: "cache", Hint: "hidden until focused"},
	}).View()

	if !strings.Contains(view, "> Build brief") || !strings.Contains(view, "fetch and typeset") {
		t.Errorf("View() missing focused option:\n%s", view)
	}
	if strings.Contains(view, "hidden until focused") {
		t.Error("View() shows hint for unfocused option")
	}
}

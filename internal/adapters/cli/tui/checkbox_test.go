package tui

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m CheckboxModel, keys ...tea.KeyMsg) (CheckboxModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(CheckboxModel)
	}
	return m, cmd
}

func sectionOptions() []CheckboxOption {
	return []CheckboxOption{
		{Label: "News", Value: "rss", Checked: true},
		{Label: "Comics", Value: "comics", Checked: true},
		{Label: "Weather", Value: "weather", Checked: true},
	}
}

func TestCheckboxModel_Toggle(t *testing.T) {
	opts := sectionOptions()
	m, cmd := press(NewCheckboxModel("Sections", opts),
		tea.KeyMsg{Type: tea.KeyDown},
		runeKey("x"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if cmd == nil || m.Cancelled() {
		t.Fatal("enter did not confirm")
	}
	if got := m.Selected(); !slices.Equal(got, []string{"rss", "weather"}) {
		t.Errorf("Selected() = %v", got)
	}
	if !opts[1].Checked {
		t.Error("caller's options were modified")
	}
}

func TestCheckboxModel_RequiresSelection(t *testing.T) {
	m, _ := press(NewCheckboxModel("Sections", sectionOptions()), runeKey("a"))
	if len(m.Selected()) != 0 {
		t.Fatalf("a with everything checked should clear, got %v", m.Selected())
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !m.Cancelled() {
		t.Error("enter confirmed an empty selection")
	}
	if !strings.Contains(m.View(), "select at least 1") {
		t.Error("View() missing selection hint")
	}

	m, _ = press(m, runeKey("a"))
	if len(m.Selected()) != 3 {
		t.Errorf("a should select all, got %v", m.Selected())
	}
}

func TestCheckboxModel_Cancel(t *testing.T) {
	m, cmd := press(NewCheckboxModel("Sections", sectionOptions()), runeKey("q"))
	if cmd == nil || !m.Cancelled() {
		t.Error("q did not cancel")
	}
}

func TestCheckboxModel_CursorBounds(t *testing.T) {
	m, _ := press(NewCheckboxModel("Sections", sectionOptions()),
		tea.KeyMsg{Type: tea.KeyUp},
		runeKey("j"), runeKey("j"), runeKey("j"), runeKey("j"),
	)
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestCheckboxModel_View(t *testing.T) {
	opts := sectionOptions()
	opts[0].Hint = "12 feeds"
	view := NewCheckboxModel("Sections", opts).View()

	for _, want := range []string{"Sections", "> [x] News", "12 feeds", "[x] Weather"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

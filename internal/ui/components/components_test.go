package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestTextInputNumericOnly(t *testing.T) {
	ti := NewTextInput("answer", true, 4)
	for _, r := range "1a2 -3" {
		ti, _ = ti.Update(keyPress(r))
	}
	if ti.Value() != "123" {
		t.Fatalf("expected digits only, got %q", ti.Value())
	}

	ti, _ = ti.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if ti.Value() != "12" {
		t.Fatalf("backspace should pass through, got %q", ti.Value())
	}
}

func TestMenuNavigation(t *testing.T) {
	type chosenMsg string
	item := func(label string) MenuItem {
		return MenuItem{Label: label, Action: func() tea.Msg { return chosenMsg(label) }}
	}
	m := NewMenu([]MenuItem{item("one"), item("two"), item("three")})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 0 {
		t.Fatalf("cursor moved above the first item: %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(keyPress('j'))
	m, _ = m.Update(keyPress('j'))
	if m.Selected != 2 {
		t.Fatalf("expected cursor on last item, got %d", m.Selected)
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil || cmd() != chosenMsg("three") {
		t.Fatal("expected the action for 'three'")
	}

	view := ansi.Strip(m.View(40))
	if !strings.Contains(view, "▸ three") {
		t.Fatalf("selected row not marked:\n%s", view)
	}
}

func TestProgressBarClamps(t *testing.T) {
	if got := ansi.Strip(NewProgressBar("", 140, 20).View()); !strings.HasSuffix(got, "100%") {
		t.Fatalf("expected clamp to 100%%, got %q", got)
	}
	if got := ansi.Strip(NewProgressBar("Accuracy", -5, 30).View()); !strings.HasSuffix(got, " 0%") {
		t.Fatalf("expected clamp to 0%%, got %q", got)
	}
}

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyRegistryScopeMatch(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeyBindings())
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyTab}, actionToggle, scopeTime) {
		t.Fatalf("expected tab to toggle in time scope")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyTab}, actionToggle, scopeRecurrence) {
		t.Fatalf("did not expect tab to toggle in recurrence scope")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, actionQuit, scopeRecurrence) {
		t.Fatalf("q must reach the recurrence filter")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlC}, actionQuit, scopeRecurrence) {
		t.Fatalf("expected ctrl+c to match wildcard scope")
	}
	if got := len(reg.BindingsForScope(scopeRecurrence)); got != 1 {
		t.Fatalf("expected 1 binding in recurrence scope, got %d", got)
	}
}

func TestKeyRegistryRepeatOnlyScope(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeyBindings())
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlS}, actionConfirm, scopeRepeatOnly) {
		t.Fatalf("expected ctrl+s to confirm when recurrence is the only picker")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyEsc}, actionCancel, scopeRepeatOnly) {
		t.Fatalf("expected esc to cancel when recurrence is the only picker")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlS}, actionConfirm, scopeRecurrence) {
		t.Fatalf("ctrl+s must not confirm while recurrence can return to date/time")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, actionQuit, scopeRepeatOnly) {
		t.Fatalf("q must reach the recurrence filter")
	}
}

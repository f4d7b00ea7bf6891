package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	actionQuit       = "quit"
	actionToggle     = "toggle"
	actionRecurrence = "recurrence"
	actionConfirm    = "confirm"
	actionCancel     = "cancel"
)

// Scopes follow the visible picker.
const (
	scopeDate       = "picker:date"
	scopeTime       = "picker:time"
	scopeRecurrence = "picker:recurrence"
	// scopeRepeatOnly is recurrence with no date or time picker to return to.
	scopeRepeatOnly = "picker:recurrence-only"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func DefaultKeyBindings() []KeyBinding {
	container := []string{scopeDate, scopeTime}
	widget := []string{scopeDate, scopeTime, scopeRepeatOnly}
	return []KeyBinding{
		{Keys: []string{"tab"}, Action: actionToggle, Description: "date/time", Scopes: container},
		{Keys: []string{"ctrl+r"}, Action: actionRecurrence, Description: "repeat", Scopes: container},
		{Keys: []string{"ctrl+s"}, Action: actionConfirm, Description: "confirm", Scopes: widget},
		{Keys: []string{"esc"}, Action: actionCancel, Description: "cancel", Scopes: widget},
		{Keys: []string{"q"}, Action: actionQuit, Description: "quit", Scopes: container},
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: []string{"*"}},
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/sublimepicker/internal/widgets"
)

func (a *App) renderFooter() string {
	bindings := a.keys.BindingsForScope(a.scope())
	bg := widgets.ColorMantle
	keyStyle := lipgloss.NewStyle().Foreground(widgets.ColorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(widgets.ColorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description))
		kb.SetEnabled(a.actionAvailable(b.Action))
		if !kb.Enabled() {
			continue
		}
		h := kb.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = lipgloss.NewStyle().Foreground(widgets.ColorMuted).Background(bg).Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, a.width), line, bg)
}

func (a *App) renderStatusBar() string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	if a.statusErr {
		return renderBar(statusErrBarStyle, max(1, a.width), msg, widgets.ColorSurface0)
	}
	return renderBar(statusBarStyle, max(1, a.width), msg, widgets.ColorSurface0)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}

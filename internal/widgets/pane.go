package widgets

import "github.com/charmbracelet/lipgloss"

// Pane draws a rounded box with a bracketed title. Active panes get the accent
// border.
type Pane struct {
	Title   string
	Content string
	Active  bool
}

func (p Pane) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	border := ColorBorder
	if p.Active {
		border = ColorAccent
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(1, width-2)).
		Height(max(1, height-2))
	return style.Render("[" + p.Title + "]\n" + p.Content)
}

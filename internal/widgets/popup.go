package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Popup is a bordered card centred over a base canvas. The base keeps showing
// on every row and column the card does not cover.
type Popup struct {
	Title string
	Body  string
}

func (p Popup) Over(base string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	content := p.Body
	if p.Title != "" {
		content = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Render(p.Title) + "\n\n" + p.Body
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 2).
		Render(content)
	placed := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	return composite(canvas(base, width, height), canvas(placed, width, height), width, height)
}

// composite copies, row by row, the non-blank span of top onto bottom.
func composite(bottom, top string, width, height int) string {
	bottomRows := rows(bottom, height)
	topRows := rows(top, height)
	out := make([]string, height)
	for i := range out {
		under := pad(bottomRows[i], width)
		over := pad(topRows[i], width)
		start, end, ok := inkBounds(over, width)
		if !ok {
			out[i] = under
			continue
		}
		left := ansi.Truncate(under, start, "")
		mid := ansi.Truncate(skipColumns(over, start), end-start, "")
		right := skipColumns(under, end)
		out[i] = pad(left+mid+right, width)
	}
	return strings.Join(out, "\n")
}

func inkBounds(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	if trimmed == "" {
		return 0, 0, false
	}
	for start < len(trimmed) && trimmed[start] == ' ' {
		start++
	}
	return start, len(trimmed), true
}

func canvas(s string, width, height int) string {
	lines := rows(s, height)
	for i := range lines {
		lines[i] = pad(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func rows(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func skipColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return strings.TrimPrefix(s, ansi.Truncate(s, cols, ""))
}

func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// FitHeight clips or pads s to exactly height lines.
func FitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	return strings.Join(rows(s, height), "\n")
}

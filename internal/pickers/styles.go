package pickers

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sublimepicker/internal/widgets"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Bold(true)
	weekdayStyle  = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	dayStyle      = lipgloss.NewStyle().Foreground(widgets.ColorText)
	outsideStyle  = lipgloss.NewStyle().Foreground(widgets.ColorBorder).Strikethrough(true)
	rangeStyle    = lipgloss.NewStyle().Background(widgets.ColorRange).Foreground(widgets.ColorText)
	endpointStyle = lipgloss.NewStyle().Background(widgets.ColorAccent).Foreground(widgets.ColorMantle).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Underline(true).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(widgets.ColorError)
	focusStyle    = lipgloss.NewStyle().Background(widgets.ColorSurface0).Foreground(widgets.ColorAccent).Bold(true)
)

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sublimepicker/internal/widgets"
)

var (
	headerStyle       = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Bold(true)
	summaryStyle      = lipgloss.NewStyle().Foreground(widgets.ColorText)
	summaryLabelStyle = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	validStyle        = lipgloss.NewStyle().Foreground(widgets.ColorSuccess)
	invalidStyle      = lipgloss.NewStyle().Foreground(widgets.ColorError)
	footerStyle       = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	statusBarStyle    = lipgloss.NewStyle().Foreground(widgets.ColorText)
	statusErrBarStyle = lipgloss.NewStyle().Foreground(widgets.ColorError).Bold(true)
)

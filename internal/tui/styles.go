package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// Severity colours match the web stylesheet.
var severityColors = map[toast.Severity]lipgloss.Color{
	toast.SeveritySuccess: lipgloss.Color("#198754"),
	toast.SeverityDanger:  lipgloss.Color("#dc3545"),
	toast.SeverityWarning: lipgloss.Color("#ffc107"),
	toast.SeverityInfo:    lipgloss.Color("#0dcaf0"),
}

var iconGlyphs = map[string]string{
	"check":                "✔",
	"exclamation-circle":   "✖",
	"exclamation-triangle": "⚠",
	"info-circle":          "ℹ",
}

// Styles holds the lipgloss styles for one colour scheme.
type Styles struct {
	Header  lipgloss.Style
	Toast   lipgloss.Style
	Title   lipgloss.Style
	Message lipgloss.Style
	Faint   lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
}

// StylesFor returns the styles for mode.
func StylesFor(mode theme.Mode) Styles {
	fg, muted := lipgloss.Color("#212529"), lipgloss.Color("#6c757d")
	if mode.OrDefault() == theme.ModeDark {
		fg, muted = lipgloss.Color("#f8f9fa"), lipgloss.Color("#adb5bd")
	}

	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(fg).Padding(0, 1),
		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Foreground(fg),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(fg),
		Message: lipgloss.NewStyle().Foreground(fg),
		Faint:   lipgloss.NewStyle().Foreground(muted),
		Status:  lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1),
	}
}

// RenderToast draws one toast box of the given outer width.
func (s Styles) RenderToast(e toast.Entry, width int) string {
	color := severityColors[e.Severity.Normalize()]

	icon := lipgloss.NewStyle().Foreground(color).Render(iconGlyphs[e.Severity.Icon()])

	var lines []string
	if e.HasTitle() {
		lines = append(lines, s.Title.Render(e.Title))
	}
	lines = append(lines, s.Message.Render(e.Message))
	text := lipgloss.JoinVertical(lipgloss.Left, lines...)

	box := s.Toast.BorderForeground(color)
	if width > 4 {
		box = box.Width(width - 2)
	}
	if e.State == toast.StateLeaving {
		box = box.Faint(true)
	}
	return box.Render(lipgloss.JoinHorizontal(lipgloss.Top, icon, " ", text))
}

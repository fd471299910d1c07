package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lemonberrylabs/quickcalc/pkg/theme"
)

// styles are rebuilt whenever the palette changes.
type styles struct {
	Title   lipgloss.Style
	Badge   lipgloss.Style
	Input   lipgloss.Style
	Prompt  lipgloss.Style
	Result  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Toast   lipgloss.Style
	Heading lipgloss.Style
	Name    lipgloss.Style
	Help    lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	fg := lipgloss.Color(p.Fg)
	muted := lipgloss.Color(p.Muted)
	accent := lipgloss.Color(p.Accent)
	accent2 := lipgloss.Color(p.Accent2)

	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Badge: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginTop(1),
		Prompt: lipgloss.NewStyle().
			Foreground(accent),
		Result: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent2).
			MarginTop(1).
			PaddingLeft(2),
		Muted: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1).
			PaddingLeft(2),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),
		Toast: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Bg)).
			Background(accent2).
			Padding(0, 1),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1),
		Name: lipgloss.NewStyle().
			Foreground(fg).
			Width(10),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/gssantosss/horariosautomaticosloga/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Header      lipgloss.Style
	Status      lipgloss.Style

	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardValue lipgloss.Style

	// Day markers
	Crossing lipgloss.Style
	Gap      lipgloss.Style
	OK       lipgloss.Style
	Warning  lipgloss.Style

	Table table.Styles
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	if t == nil {
		t, _ = theme.Load(theme.DefaultName)
	}

	fg := theme.Color(t.Fg)
	muted := theme.Color(t.FgMuted)
	accent := theme.Color(t.Accent)
	border := theme.Color(t.BgSelection)

	s := &Styles{
		ActiveTab: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(accent),
		InactiveTab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(border),
		Header: lipgloss.NewStyle().Foreground(muted),
		Status: lipgloss.NewStyle().Foreground(theme.Color(t.Warning)),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(border),
		CardTitle: lipgloss.NewStyle().Foreground(muted),
		CardValue: lipgloss.NewStyle().Foreground(fg).Bold(true),

		Crossing: lipgloss.NewStyle().Foreground(theme.Color(t.Crossing)).Bold(true),
		Gap:      lipgloss.NewStyle().Foreground(theme.Color(t.Gap)),
		OK:       lipgloss.NewStyle().Foreground(theme.Color(t.OK)),
		Warning:  lipgloss.NewStyle().Foreground(theme.Color(t.Warning)),
	}

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(border).
		Foreground(fg).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	ts.Cell = ts.Cell.
		Foreground(fg).
		Padding(0, 1).
		PaddingLeft(0)
	ts.Selected = ts.Cell.
		Foreground(accent).
		Background(theme.Color(t.BgHighlight)).
		Bold(true)
	s.Table = ts

	return s
}

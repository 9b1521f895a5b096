package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("196")
	colorBlue   = lipgloss.Color("39")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
	colorBorder = lipgloss.Color("240")
	colorTable  = lipgloss.Color("99")
)

// Styles defines the visual styles of the terminal dashboard.
type Styles struct {
	Title     lipgloss.Style
	PanelBox  lipgloss.Style
	Heading   lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Muted     lipgloss.Style
	Stale     lipgloss.Style
	StatusBar lipgloss.Style

	TableBorder lipgloss.Style

	Success lipgloss.Style
	Danger  lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// ButtonSep separates buttons on one line.
	ButtonSep string

	// MaxCellWidth caps table cell width before truncation.
	MaxCellWidth int
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Padding(0, 1),

		PanelBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGray),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGray).
			Padding(0, 1),

		Cell: lipgloss.NewStyle().
			Padding(0, 1),

		Muted: lipgloss.NewStyle().
			Foreground(colorGray),

		Stale: lipgloss.NewStyle().
			Foreground(colorYellow),

		StatusBar: lipgloss.NewStyle().
			Foreground(colorGray).
			Padding(0, 1),

		TableBorder: lipgloss.NewStyle().
			Foreground(colorTable),

		Success: lipgloss.NewStyle().Foreground(colorGreen),
		Danger:  lipgloss.NewStyle().Foreground(colorRed),
		Warning: lipgloss.NewStyle().Foreground(colorYellow),
		Info:    lipgloss.NewStyle().Foreground(colorBlue),

		ButtonSep:    "  ",
		MaxCellWidth: 40,
	}
}

// ForClass maps a space-separated style class list, as rendered by the
// refreshers, to a terminal style.
func (s Styles) ForClass(class string) lipgloss.Style {
	for _, c := range strings.Fields(class) {
		switch strings.TrimPrefix(c, "btn-") {
		case "danger":
			return s.Danger
		case "warning":
			return s.Warning
		case "success":
			return s.Success
		case "info":
			return s.Info
		}
	}
	return lipgloss.NewStyle()
}

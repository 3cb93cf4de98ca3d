package tui

import (
	"github.com/charmbracelet/lipgloss"

	"roomviz/internal/palette"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = palette.Terminal(palette.Positive)
	borderCol = lipgloss.Color("#243141")

	appStyle    = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	activeStyle = lipgloss.NewStyle().Foreground(palette.Terminal(palette.Highlight)).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(palette.Terminal(palette.Negative))
)

// fillStyle colours a cell of the map or a histogram bar.
func fillStyle(color string, active bool) lipgloss.Style {
	if active {
		color = palette.Shade(color, .6)
	}
	return lipgloss.NewStyle().Foreground(palette.Terminal(color))
}

// swatchStyle sets text on a region colour with a readable foreground.
func swatchStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(palette.Terminal(color)).
		Foreground(palette.Terminal(palette.Contrast(color))).
		Bold(true)
}

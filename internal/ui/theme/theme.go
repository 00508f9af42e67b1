// Package theme holds the colors and lipgloss styles of the lesson player.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette, after the apricot and pomegranate of the app's branding.
var (
	Primary   = lipgloss.Color("#E0592A") // Apricot
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#E11D48") // Pomegranate
	Heart     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Glyph renders an Armenian letter or word being introduced.
	Glyph = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Components
var (
	Tile = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	TileFocused = Tile.
			BorderForeground(Primary).
			Foreground(Primary).
			Bold(true)

	TileUsed = Tile.
			Foreground(Border)

	Hearts = lipgloss.NewStyle().
		Foreground(Heart).
		Bold(true)
)

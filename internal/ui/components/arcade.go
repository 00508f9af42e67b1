package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hayer/internal/ui/theme"
)

// ContentWidth returns the inner width shared by boxed sections so they
// line up inside a frame of frameWidth.
func ContentWidth(frameWidth int) int {
	// border (2) + padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double border, centered in width x height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded box of content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 2).
		Render(content)
}

// MenuButton renders one menu entry as a bordered button.
func MenuButton(label string, selected, disabled bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch {
	case disabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Accent).
			BorderForeground(theme.Accent).
			Render("▸ " + label)
	}
	return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hayer/internal/ui/theme"
)

// ProgressBar is a one-line bar for lesson progress and scores.
type ProgressBar struct {
	Label       string
	Ratio       float64
	ShowPercent bool
	Width       int

	// Mark, when in (0, 1), draws a tick at that ratio and turns the bar
	// green once Ratio reaches it.
	Mark float64
}

// NewProgressBar creates a bar of total width w, label and percent included.
func NewProgressBar(label string, ratio float64, showPercent bool, w int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Ratio:       ratio,
		ShowPercent: showPercent,
		Width:       w,
	}
}

// WithMark returns a copy of p with a pass mark at ratio.
func (p ProgressBar) WithMark(ratio float64) ProgressBar {
	p.Mark = ratio
	return p
}

func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	used := lipgloss.Width(b.String())
	if p.ShowPercent {
		used += 6 // "  100%"
	}
	barWidth := max(p.Width-used, 4)
	ratio := max(0, min(p.Ratio, 1))
	filled := int(float64(barWidth) * ratio)

	fill := theme.Secondary
	mark := -1
	if p.Mark > 0 && p.Mark < 1 {
		mark = int(float64(barWidth) * p.Mark)
		if ratio >= p.Mark {
			fill = theme.Success
		}
	}

	on := lipgloss.NewStyle().Background(fill)
	off := lipgloss.NewStyle().Background(theme.Border)
	for i := range barWidth {
		style := off
		if i < filled {
			style = on
		}
		cell := " "
		if i == mark {
			cell = "│"
			style = style.Foreground(theme.Text)
		}
		b.WriteString(style.Render(cell))
	}

	if p.ShowPercent {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(ratio*100))))
	}
	return b.String()
}

// Package summary shows the result of a finished lesson.
package summary

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hayer/internal/lesson"
	"github.com/abhisek/hayer/internal/router"
	"github.com/abhisek/hayer/internal/screen"
	"github.com/abhisek/hayer/internal/ui/components"
	"github.com/abhisek/hayer/internal/ui/layout"
	"github.com/abhisek/hayer/internal/ui/theme"
)

// SummaryScreen displays the lesson summary. Leaving it pops back to
// whatever started the lesson.
type SummaryScreen struct {
	summary *lesson.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *lesson.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

// Summary returns the summary being shown.
func (s *SummaryScreen) Summary() *lesson.Summary { return s.summary }

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Finish"},
		{Key: "Esc", Description: "Finish"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	title, titleColor := "Lesson complete!", theme.Primary
	if !sum.Passed {
		title, titleColor = "Keep practicing", theme.Accent
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(titleColor).
		Bold(true).
		Render(title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Correct: %d/%d        Skipped: %d        XP: +%d",
		sum.Correct, sum.Total, sum.Skipped, sum.XP)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Score", sum.Ratio, true, min(width-8, 50)).WithMark(lesson.PassThreshold)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if sum.BestStreak > 0 {
		streak := fmt.Sprintf("Best streak: %d", sum.BestStreak)
		if len(sum.Milestones) > 0 {
			marks := make([]string, len(sum.Milestones))
			for i, m := range sum.Milestones {
				marks[i] = strconv.Itoa(m)
			}
			streak += "   Milestones: " + strings.Join(marks, ", ")
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(streak))
		b.WriteString("\n")
	}

	return b.String()
}

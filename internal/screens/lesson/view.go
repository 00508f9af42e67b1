package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/grading"
	"github.com/abhisek/hayer/internal/ui/components"
	"github.com/abhisek/hayer/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	if s.ex == nil {
		return center(width, theme.Dim, "\n\n  Lesson finished.")
	}
	switch s.phase {
	case phaseQuitConfirm:
		return renderQuitConfirm(width)
	case phaseFeedback:
		return s.renderFeedback(width)
	}
	return s.renderExercise(width)
}

// renderInfo renders the kind, position and streak line with the
// progress bar under it.
func (s *LessonScreen) renderInfo(width int) string {
	p := s.runner.Progress()

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.ex.Kind.DisplayName())

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d/%d  %s %d",
			min(p.Index+1, p.Total), p.Total,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("streak"),
			s.runner.Streak()))

	line := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + infoRight
	}

	bar := components.NewProgressBar("", p.Fraction(), false, max(width-4, 10))
	return line + "\n  " + bar.View() + "\n\n"
}

func (s *LessonScreen) renderExercise(width int) string {
	var b strings.Builder
	b.WriteString(s.renderInfo(width))

	if s.ex.Prompt != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render(s.ex.Prompt))
		b.WriteString("\n\n")
	}
	if s.ex.SentenceBefore != "" || s.ex.SentenceAfter != "" {
		b.WriteString(center(width, theme.Body,
			strings.TrimSpace(s.ex.SentenceBefore+" ____ "+s.ex.SentenceAfter)))
		b.WriteString("\n\n")
	}

	var body string
	switch {
	case s.ex.Kind == exercise.KindCharIntro:
		body = s.renderIntro()
	case s.ex.Kind == exercise.KindMatchPairs:
		body = s.renderBoard()
	case s.ex.Kind.Typed():
		body = "Answer: " + s.input.View()
	case s.ex.Kind.Ordered():
		body = s.tiles.View()
	default:
		body = s.choices.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(center(width, theme.Hint, s.notice))
	}
	return b.String()
}

var (
	introGlyphKeys  = []string{"char", "letter", "glyph", "word"}
	introDetailKeys = []string{"sound", "transliteration", "name", "pronunciation"}
)

// renderIntro shows the letter being introduced.
func (s *LessonScreen) renderIntro() string {
	var b strings.Builder
	if glyph := firstString(s.ex.Config, introGlyphKeys); glyph != "" {
		b.WriteString(theme.Glyph.Render(glyph))
		b.WriteString("\n")
	}
	if detail := firstString(s.ex.Config, introDetailKeys); detail != "" {
		b.WriteString(theme.Subtitle.Render(detail))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press Enter to continue"))
	return b.String()
}

// renderBoard renders the two match_pairs columns side by side.
func (s *LessonScreen) renderBoard() string {
	board := s.runner.Board()
	if board == nil || board.Len() == 0 {
		return theme.Hint.Render("No pairs to match. Press Enter to continue")
	}

	m := s.match
	var left, right strings.Builder
	for i := 0; i < board.Len(); i++ {
		left.WriteString(pairCell(board.Left(i), board.LeftMatched(i), m.column == 0 && i == m.left, i == m.picked))
		left.WriteString("\n")
		right.WriteString(pairCell(board.Right(i), board.RightMatched(i), m.column == 1 && i == m.right, false))
		right.WriteString("\n")
	}

	status := theme.Dim.Render(fmt.Sprintf("%d/%d matched, %d mistakes",
		board.Matched(), board.Len(), board.Mistakes()))

	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(18).Render(left.String()),
		lipgloss.NewStyle().Width(18).Render(right.String()))
	return cols + "\n" + status
}

func pairCell(text string, matched, focused, picked bool) string {
	prefix := "  "
	if focused {
		prefix = "> "
	}
	switch {
	case matched:
		return theme.Correct.Render(prefix + text)
	case picked:
		return theme.Selected.Underline(true).Render(prefix + text)
	case focused:
		return theme.Selected.Render(prefix + text)
	}
	return theme.Unselected.Render(prefix + text)
}

// renderFeedback renders the verdict for the answered exercise.
func (s *LessonScreen) renderFeedback(width int) string {
	res := s.outcome.Result

	var b strings.Builder
	b.WriteString(s.renderInfo(width))

	switch {
	case res.Skipped:
		b.WriteString(center(width, theme.Dim.Bold(true), "Skipped"))
	case s.ex.Kind == exercise.KindCharIntro:
		b.WriteString(center(width, theme.Correct, "Nice to meet you!"))
	case res.IsCorrect:
		b.WriteString(center(width, theme.Correct, "Correct!"))
	case ungradable(res):
		b.WriteString(center(width, theme.Incorrect, "This exercise can't be checked"))
		b.WriteString("\n")
		b.WriteString(center(width, theme.Dim, res.Message))
	default:
		b.WriteString(center(width, theme.Incorrect, "Not quite"))
	}
	b.WriteString("\n")

	if !res.IsCorrect && s.solution.Text != "" {
		b.WriteString(center(width, theme.Dim, "Correct answer: "+s.solution.Text))
		b.WriteString("\n")
	}
	if res.XP > 0 {
		b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Accent), fmt.Sprintf("+%d XP", res.XP)))
		b.WriteString("\n")
	}
	if s.outcome.Milestone > 0 {
		b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
			fmt.Sprintf("%d in a row!", s.outcome.Milestone)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.ex.Kind.Typed():
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
		b.WriteString("\n\n")
	case s.ex.Kind.Ordered():
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.tiles.View()))
		b.WriteString("\n\n")
	case s.ex.Kind != exercise.KindCharIntro && s.ex.Kind != exercise.KindMatchPairs:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString(center(width, theme.Hint, s.notice))
		b.WriteString("\n")
	}
	b.WriteString(center(width, theme.Dim, "Press any key to continue..."))
	return b.String()
}

func ungradable(res exercise.AttemptResult) bool {
	switch res.Message {
	case grading.MsgMissingAnswer, grading.MsgMalformed, grading.MsgUnsupportedKind:
		return true
	}
	return false
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center(width, theme.Body.Bold(true), "End lesson early?"))
	b.WriteString("\n")
	b.WriteString(center(width, theme.Dim, "Your answers so far are saved."))
	b.WriteString("\n\n")
	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end lesson"))
	b.WriteString("\n")
	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func center(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func firstString(cfg exercise.Config, keys []string) string {
	for _, k := range keys {
		if v, ok := cfg[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

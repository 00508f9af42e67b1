package lesson

import (
	"time"

	"github.com/abhisek/hayer/internal/exercise"
)

// PassThreshold is the completion ratio a lesson needs to count as passed.
const PassThreshold = 0.7

// Summary holds the data displayed when a lesson ends.
type Summary struct {
	LessonID   string        `json:"lesson_id"`
	Total      int           `json:"total"`
	Answered   int           `json:"answered"`
	Correct    int           `json:"correct"`
	Skipped    int           `json:"skipped"`
	Ratio      float64       `json:"ratio"`
	Passed     bool          `json:"passed"`
	XP         int           `json:"xp"`
	BestStreak int           `json:"best_streak"`
	Milestones []int         `json:"milestones,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Scored reports whether results of kind count toward the completion ratio.
// Introductions are shown, never scored.
func Scored(kind exercise.Kind) bool {
	return kind != exercise.KindCharIntro
}

// CompletionRatio returns correct / total. A lesson with nothing to score
// is complete.
func CompletionRatio(correct, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(correct) / float64(total)
}

// BuildSummary totals the final results of a lesson. results holds at most
// one entry per exercise; missing entries count as not answered.
func BuildSummary(l *Lesson, results []exercise.AttemptResult) *Summary {
	s := &Summary{LessonID: l.ID}
	for _, ex := range l.Exercises {
		if Scored(ex.Kind) {
			s.Total++
		}
	}

	var streak Streak
	for _, res := range results {
		s.XP += res.XP
		if !Scored(res.Kind) {
			continue
		}
		s.Answered++
		switch {
		case res.Skipped:
			s.Skipped++
			streak.Miss()
		case res.IsCorrect:
			s.Correct++
			streak.Hit()
		default:
			streak.Miss()
		}
	}

	s.Ratio = CompletionRatio(s.Correct, s.Total)
	s.Passed = s.Ratio >= PassThreshold
	s.BestStreak = streak.Best()
	s.Milestones = streak.Milestones()
	return s
}

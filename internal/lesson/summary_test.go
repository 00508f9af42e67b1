package lesson

import (
	"testing"

	"github.com/abhisek/hayer/internal/exercise"
)

func TestBuildSummary(t *testing.T) {
	l := &Lesson{ID: "l", Exercises: []exercise.Exercise{
		{ID: "i", Kind: exercise.KindCharIntro},
		{ID: "a", Kind: exercise.KindTrueFalse},
		{ID: "b", Kind: exercise.KindTrueFalse},
		{ID: "c", Kind: exercise.KindTrueFalse},
		{ID: "d", Kind: exercise.KindTrueFalse},
	}}
	results := []exercise.AttemptResult{
		{ExerciseID: "i", Kind: exercise.KindCharIntro, IsCorrect: true},
		{ExerciseID: "a", Kind: exercise.KindTrueFalse, IsCorrect: true, XP: 10},
		{ExerciseID: "b", Kind: exercise.KindTrueFalse, IsCorrect: true, XP: 10},
		{ExerciseID: "c", Kind: exercise.KindTrueFalse, Skipped: true},
		{ExerciseID: "d", Kind: exercise.KindTrueFalse, IsCorrect: true, XP: 5},
	}

	s := BuildSummary(l, results)
	if s.Total != 4 || s.Answered != 4 || s.Correct != 3 || s.Skipped != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.Ratio != 0.75 || !s.Passed {
		t.Errorf("ratio = %v passed = %v, want 0.75 true", s.Ratio, s.Passed)
	}
	if s.XP != 25 {
		t.Errorf("XP = %d, want 25", s.XP)
	}
	if s.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", s.BestStreak)
	}
}

func TestCompletionRatio(t *testing.T) {
	tests := []struct {
		correct, total int
		want           float64
		pass           bool
	}{
		{0, 0, 1, true},
		{7, 10, 0.7, true},
		{6, 10, 0.6, false},
		{0, 3, 0, false},
	}
	for _, tt := range tests {
		got := CompletionRatio(tt.correct, tt.total)
		if got != tt.want {
			t.Errorf("CompletionRatio(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
		}
		if (got >= PassThreshold) != tt.pass {
			t.Errorf("CompletionRatio(%d, %d) pass = %v, want %v", tt.correct, tt.total, got >= PassThreshold, tt.pass)
		}
	}
}

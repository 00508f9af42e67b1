package grading

import (
	"testing"

	"github.com/abhisek/hayer/internal/exercise"
)

func TestIsMulti(t *testing.T) {
	tests := []struct {
		name string
		ex   *exercise.Exercise
		want bool
	}{
		{"multi_select", &exercise.Exercise{Kind: exercise.KindMultiSelect}, true},
		{"recognition plain", &exercise.Exercise{Kind: exercise.KindLetterRecognition, Prompt: "Which is Ա?"}, false},
		{"recognition prompt", &exercise.Exercise{Kind: exercise.KindLetterRecognition, Prompt: "Select ALL vowels"}, true},
		{"recognition flag", &exercise.Exercise{Kind: exercise.KindLetterRecognition, Config: exercise.Config{"multi": true}}, true},
		{"recognition mode", &exercise.Exercise{Kind: exercise.KindLetterRecognition, Config: exercise.Config{"mode": "Multi"}}, true},
		{"translate prompt", &exercise.Exercise{Kind: exercise.KindTranslateMCQ, Prompt: "select all"}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMulti(tt.ex); got != tt.want {
				t.Errorf("IsMulti = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectionBounds(t *testing.T) {
	choices := []any{"a", "b", "c", "d"}
	tests := []struct {
		name     string
		cfg      exercise.Config
		min, max int
	}{
		{"defaults", exercise.Config{"choices": choices}, 1, 4},
		{"authored", exercise.Config{"choices": choices, "minSelect": float64(2), "maxSelect": float64(3)}, 2, 3},
		{"min above count", exercise.Config{"choices": choices, "min_select": float64(9)}, 4, 4},
		{"max below min", exercise.Config{"choices": choices, "minSelect": float64(3), "maxSelect": float64(2)}, 3, 3},
		{"no choices", exercise.Config{}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := SelectionBounds(&exercise.Exercise{Kind: exercise.KindMultiSelect, Config: tt.cfg})
			if lo != tt.min || hi != tt.max {
				t.Errorf("bounds = (%d, %d), want (%d, %d)", lo, hi, tt.min, tt.max)
			}
		})
	}
}

func TestCanCheck(t *testing.T) {
	multi := &exercise.Exercise{
		Kind:   exercise.KindMultiSelect,
		Config: exercise.Config{"choices": []any{"a", "b", "c"}, "minSelect": float64(2)},
	}
	single := &exercise.Exercise{Kind: exercise.KindTranslateMCQ}
	typed := &exercise.Exercise{Kind: exercise.KindFillBlank}
	order := &exercise.Exercise{Kind: exercise.KindSentenceOrder}
	pairs := &exercise.Exercise{Kind: exercise.KindMatchPairs}

	tests := []struct {
		name string
		ex   *exercise.Exercise
		in   exercise.Input
		want bool
	}{
		{"single none", single, exercise.Input{}, false},
		{"single one", single, exercise.Input{Selected: []int{1}}, true},
		{"single two", single, exercise.Input{Selected: []int{0, 1}}, false},
		{"multi below min", multi, exercise.Input{Selected: []int{0, 0}}, false},
		{"multi at min", multi, exercise.Input{Selected: []int{0, 2}}, true},
		{"typed blank", typed, exercise.Input{Text: " . "}, false},
		{"typed", typed, exercise.Input{Text: "ա"}, true},
		{"order empty", order, exercise.Input{}, false},
		{"order", order, exercise.Input{Sequence: []int{0}}, true},
		{"pairs none", pairs, exercise.Input{}, false},
		{"pairs", pairs, exercise.Input{Pair: &exercise.PairPick{}}, true},
		{"intro", &exercise.Exercise{Kind: exercise.KindCharIntro}, exercise.Input{}, true},
		{"skip", typed, exercise.Input{Skip: true}, true},
		{"nil", nil, exercise.Input{Skip: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCheck(tt.ex, tt.in); got != tt.want {
				t.Errorf("CanCheck = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildWord(t *testing.T) {
	if got := BuildWord([]string{"ա", "բ", "գ"}, []int{2, 0, 1, 9, -1}); got != "գաբ" {
		t.Errorf("BuildWord = %q, want գաբ", got)
	}
}

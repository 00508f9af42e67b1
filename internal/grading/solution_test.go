package grading

import (
	"slices"
	"testing"

	"github.com/abhisek/hayer/internal/exercise"
)

func TestSolution(t *testing.T) {
	tests := []struct {
		name        string
		ex          *exercise.Exercise
		wantText    string
		wantIndices []int
	}{
		{
			name: "options",
			ex: &exercise.Exercise{
				Kind: exercise.KindTranslateMCQ,
				Options: []exercise.Option{
					{Text: "house"},
					{Text: "water", IsCorrect: true},
				},
			},
			wantText:    "water",
			wantIndices: []int{1},
		},
		{
			name: "text key mapped onto choices",
			ex: &exercise.Exercise{
				Kind:   exercise.KindCharMCQSound,
				Config: exercise.Config{"choices": []any{"a", "b"}, "answer": "B"},
			},
			wantText:    "b",
			wantIndices: []int{1},
		},
		{
			name:     "typed",
			ex:       &exercise.Exercise{Kind: exercise.KindWordSpelling, ExpectedAnswer: "բարև"},
			wantText: "բարև",
		},
		{
			name: "build word",
			ex: &exercise.Exercise{
				Kind: exercise.KindCharBuildWord,
				Config: exercise.Config{
					"tiles":           []any{"ա", "գ", "բ"},
					"solutionIndices": []any{1.0, 0.0, 2.0},
				},
			},
			wantText:    "գաբ",
			wantIndices: []int{1, 0, 2},
		},
		{
			name: "sentence order",
			ex: &exercise.Exercise{
				Kind: exercise.KindSentenceOrder,
				Config: exercise.Config{
					"tokens":   []any{"ես", "եմ", "ուսանող"},
					"solution": []any{"ես", "ուսանող", "եմ"},
				},
			},
			wantText: "ես ուսանող եմ",
		},
		{
			name: "pairs",
			ex: &exercise.Exercise{
				Kind: exercise.KindMatchPairs,
				Config: exercise.Config{"pairs": []any{
					map[string]any{"left": "ա", "right": "a"},
				}},
			},
			wantText: "ա = a",
		},
		{
			name: "unresolvable",
			ex:   &exercise.Exercise{Kind: exercise.KindTranslateMCQ, Config: exercise.Config{"choices": []any{"x"}}},
		},
		{
			name: "intro",
			ex:   &exercise.Exercise{Kind: exercise.KindCharIntro},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default.Solution(tt.ex)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if !slices.Equal(got.Indices, tt.wantIndices) {
				t.Errorf("Indices = %v, want %v", got.Indices, tt.wantIndices)
			}
		})
	}
}

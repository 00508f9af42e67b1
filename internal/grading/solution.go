package grading

import (
	"strings"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/exercise"
)

// Solution is the expected answer of an exercise, as shown to the learner
// after a wrong attempt.
type Solution struct {
	// Indices are the correct choice indices for choice kinds, or the
	// solution order for ordered kinds. Nil when the answer is text only.
	Indices []int

	// Text is the expected answer as display text. Empty when the exercise
	// has no resolvable answer.
	Text string
}

// Solution resolves the expected answer of ex with the engine's resolver.
func (e *Engine) Solution(ex *exercise.Exercise) Solution {
	return solutionOf(e.resolver, ex)
}

func solutionOf(r *answerkey.Resolver, ex *exercise.Exercise) Solution {
	if ex == nil {
		return Solution{}
	}

	switch {
	case ex.Kind == exercise.KindCharIntro:
		return Solution{}

	case ex.Kind == exercise.KindMatchPairs:
		pairs := answerkey.ResolvePairs(ex)
		parts := make([]string, len(pairs))
		for i, p := range pairs {
			parts[i] = p.Left + " = " + p.Right
		}
		return Solution{Text: strings.Join(parts, "; ")}

	case ex.Kind.Ordered():
		return sequenceSolution(r, ex)
	}

	key := r.Resolve(ex)
	choices := answerkey.Choices(ex)

	if ex.Kind.Typed() {
		if c := key.TextCandidates(choices); len(c) > 0 {
			return Solution{Text: c[0]}
		}
		return Solution{}
	}

	var sol Solution
	switch key.Mode {
	case answerkey.ByIndex:
		sol.Indices = key.Indices
	case answerkey.ByText:
		for i, c := range choices {
			if key.MatchesText(c) {
				sol.Indices = append(sol.Indices, i)
			}
		}
	}

	var texts []string
	if len(sol.Indices) > 0 {
		for _, i := range sol.Indices {
			if i >= 0 && i < len(choices) {
				texts = append(texts, choices[i])
			}
		}
	} else {
		texts = key.TextCandidates(choices)
	}
	sol.Text = strings.Join(texts, ", ")
	return sol
}

func sequenceSolution(r *answerkey.Resolver, ex *exercise.Exercise) Solution {
	seq := r.Sequence(ex)
	sep := " "
	if ex.Kind == exercise.KindCharBuildWord {
		sep = ""
	}

	// sentence_order grades by token text first.
	if ex.Kind == exercise.KindSentenceOrder && len(seq.Texts) > 0 {
		return Solution{Text: strings.Join(seq.Texts, sep)}
	}

	switch {
	case len(seq.Indices) > 0:
		words := make([]string, 0, len(seq.Indices))
		for _, i := range seq.Indices {
			if i < len(seq.Items) {
				words = append(words, seq.Items[i])
			}
		}
		return Solution{Indices: seq.Indices, Text: strings.Join(words, sep)}
	case len(seq.Texts) > 0:
		return Solution{Text: strings.Join(seq.Texts, sep)}
	case strings.TrimSpace(seq.Word) != "":
		return Solution{Text: seq.Word}
	}
	if c := r.Resolve(ex).TextCandidates(nil); len(c) > 0 {
		return Solution{Text: c[0]}
	}
	return Solution{}
}

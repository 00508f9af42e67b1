package grading

import (
	"strings"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/textnorm"
)

// ShuffleFunc permutes n elements through swap, as math/rand/v2.Shuffle does.
type ShuffleFunc func(n int, swap func(i, j int))

// MatchBoard keeps the running state of a match_pairs exercise. A wrong
// pick is rejected and counted; it never ends the exercise.
type MatchBoard struct {
	ex    *exercise.Exercise
	pairs []answerkey.Pair

	// rights is the display order of the right column as pair indices.
	rights []int

	leftDone  []bool
	rightDone []bool
	matched   int
	mistakes  int
}

// NewMatchBoard lays out the authored pairs of ex. The right column is
// permuted with shuffle when it is non-nil.
func NewMatchBoard(ex *exercise.Exercise, shuffle ShuffleFunc) *MatchBoard {
	pairs := answerkey.ResolvePairs(ex)
	b := &MatchBoard{
		ex:        ex,
		pairs:     pairs,
		rights:    make([]int, len(pairs)),
		leftDone:  make([]bool, len(pairs)),
		rightDone: make([]bool, len(pairs)),
	}
	for i := range b.rights {
		b.rights[i] = i
	}
	if shuffle != nil {
		shuffle(len(b.rights), func(i, j int) {
			b.rights[i], b.rights[j] = b.rights[j], b.rights[i]
		})
	}
	return b
}

// Len returns the number of pairs on the board.
func (b *MatchBoard) Len() int { return len(b.pairs) }

// Left returns the left column text at i.
func (b *MatchBoard) Left(i int) string { return b.pairs[i].Left }

// Right returns the right column text at display position i.
func (b *MatchBoard) Right(i int) string { return b.pairs[b.rights[i]].Right }

// LeftMatched reports whether the left item at i is already matched.
func (b *MatchBoard) LeftMatched(i int) bool { return b.leftDone[i] }

// RightMatched reports whether the right item at display position i is
// already matched.
func (b *MatchBoard) RightMatched(i int) bool { return b.rightDone[i] }

// Try matches left item left with right item right (a display position).
// It reports whether the pick was accepted. Picks of matched or
// out-of-range items are rejected without counting a mistake.
func (b *MatchBoard) Try(left, right int) bool {
	if left < 0 || left >= len(b.pairs) || right < 0 || right >= len(b.rights) {
		return false
	}
	if b.leftDone[left] || b.rightDone[right] {
		return false
	}
	if !textnorm.Equal(b.Right(right), partnerOf(b.pairs, b.pairs[left].Left)) {
		b.mistakes++
		return false
	}
	b.leftDone[left] = true
	b.rightDone[right] = true
	b.matched++
	return true
}

// Done reports whether every pair has been matched.
func (b *MatchBoard) Done() bool {
	return len(b.pairs) > 0 && b.matched == len(b.pairs)
}

// Matched returns the number of matched pairs.
func (b *MatchBoard) Matched() int { return b.matched }

// Mistakes returns the number of rejected picks.
func (b *MatchBoard) Mistakes() int { return b.mistakes }

// Result returns the attempt result for the board. It is correct only once
// the board is done.
func (b *MatchBoard) Result() exercise.AttemptResult {
	res := exercise.AttemptResult{}
	if b.ex != nil {
		res.ExerciseID = b.ex.ID
		res.Kind = b.ex.Kind
	}
	switch {
	case len(b.pairs) == 0:
		res.Message = MsgMissingAnswer
		return res
	case !b.Done():
		return res
	}

	parts := make([]string, len(b.pairs))
	for i, p := range b.pairs {
		parts[i] = p.Left + " = " + p.Right
	}
	res.IsCorrect = true
	res.AnswerText = strings.Join(parts, "; ")
	if b.ex != nil && b.ex.XP > 0 {
		res.XP = b.ex.XP
	}
	return res
}

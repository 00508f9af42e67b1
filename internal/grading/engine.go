// Package grading decides the correctness of one learner submission. All
// rendering surfaces (terminal player, HTTP preview) share one strategy
// table keyed by exercise kind.
//
// Grading is a pure total function: malformed content degrades to an
// incorrect result carrying a message and never panics to the caller.
package grading

import (
	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/exercise"
)

// Messages attached to incorrect results that could not be graded normally.
const (
	MsgMissingAnswer   = "missing correct answer in config"
	MsgUnsupportedKind = "unsupported exercise kind"
	MsgNoExercise      = "missing exercise"
	MsgNoSelection     = "no selection"
	MsgEmptyAnswer     = "empty answer"
	MsgOutOfRange      = "selection out of range"
	MsgMalformed       = "malformed exercise config"
)

// Verdict is what a Strategy decides for one submission.
type Verdict struct {
	Correct  bool
	Selected []int
	Answer   string
	Message  string
}

// Strategy grades one exercise kind.
type Strategy func(r *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict

// Engine dispatches submissions to the strategy registered for the kind.
type Engine struct {
	resolver   *answerkey.Resolver
	strategies map[exercise.Kind]Strategy
}

// NewEngine creates an Engine with the built-in strategy for every kind.
// A nil resolver means answerkey.Default.
func NewEngine(r *answerkey.Resolver) *Engine {
	if r == nil {
		r = answerkey.Default
	}
	return &Engine{
		resolver: r,
		strategies: map[exercise.Kind]Strategy{
			exercise.KindCharIntro:         gradeIntro,
			exercise.KindCharMCQSound:      gradeSingleChoice,
			exercise.KindLetterRecognition: gradeRecognition,
			exercise.KindCharBuildWord:     gradeBuildWord,
			exercise.KindLetterTyping:      gradeTyped,
			exercise.KindWordSpelling:      gradeTyped,
			exercise.KindFillBlank:         gradeTyped,
			exercise.KindTranslateMCQ:      gradeSingleChoice,
			exercise.KindTrueFalse:         gradeSingleChoice,
			exercise.KindSentenceOrder:     gradeSentenceOrder,
			exercise.KindMatchPairs:        gradePairPick,
			exercise.KindAudioChoiceTTS:    gradeSingleChoice,
			exercise.KindMultiSelect:       gradeMultiSelect,
		},
	}
}

// Default is the shared engine.
var Default = NewEngine(nil)

// Grade grades a submission with the Default engine.
func Grade(ex *exercise.Exercise, in exercise.Input) exercise.AttemptResult {
	return Default.Grade(ex, in)
}

// Resolver returns the resolver the engine grades with.
func (e *Engine) Resolver() *answerkey.Resolver {
	return e.resolver
}

// Register replaces the strategy for kind.
func (e *Engine) Register(kind exercise.Kind, s Strategy) {
	e.strategies[kind] = s
}

// Supports reports whether a strategy is registered for kind.
func (e *Engine) Supports(kind exercise.Kind) bool {
	_, ok := e.strategies[kind]
	return ok
}

// Grade grades one submission. A skip is always reported as skipped and
// incorrect, whatever the kind.
func (e *Engine) Grade(ex *exercise.Exercise, in exercise.Input) (res exercise.AttemptResult) {
	if ex == nil {
		return exercise.AttemptResult{Message: MsgNoExercise}
	}
	if in.Skip {
		return Skip(ex)
	}

	strategy, ok := e.strategies[ex.Kind]
	if !ok {
		return exercise.AttemptResult{
			ExerciseID: ex.ID,
			Kind:       ex.Kind,
			Message:    MsgUnsupportedKind,
		}
	}

	defer func() {
		if recover() != nil {
			res = exercise.AttemptResult{
				ExerciseID: ex.ID,
				Kind:       ex.Kind,
				Message:    MsgMalformed,
			}
		}
	}()

	v := strategy(e.resolver, ex, in)
	return result(ex, v)
}

// Skip returns the result of skipping ex. Skips are never correct.
func Skip(ex *exercise.Exercise) exercise.AttemptResult {
	res := exercise.AttemptResult{Skipped: true}
	if ex != nil {
		res.ExerciseID = ex.ID
		res.Kind = ex.Kind
	}
	return res
}

func result(ex *exercise.Exercise, v Verdict) exercise.AttemptResult {
	res := exercise.AttemptResult{
		ExerciseID:      ex.ID,
		Kind:            ex.Kind,
		IsCorrect:       v.Correct,
		SelectedIndices: v.Selected,
		AnswerText:      v.Answer,
		Message:         v.Message,
	}
	if v.Correct && ex.Kind != exercise.KindCharIntro && ex.XP > 0 {
		res.XP = ex.XP
	}
	return res
}

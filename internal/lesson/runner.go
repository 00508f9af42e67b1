package lesson

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/attempt"
	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/grading"
	"github.com/abhisek/hayer/internal/learner"
)

var (
	// ErrStaleExercise is reported for an ack that arrives after the
	// learner has moved on from the exercise it belongs to.
	ErrStaleExercise = errors.New("exercise is no longer active")

	// ErrFinished is returned when the lesson has no exercise left.
	ErrFinished = errors.New("lesson finished")

	// ErrNotCheckable is returned for input that is not complete enough to
	// grade, such as an empty selection.
	ErrNotCheckable = errors.New("answer is not complete")

	// ErrAnswered is returned when the current exercise already has a
	// final result.
	ErrAnswered = errors.New("exercise already answered")

	// ErrUnanswered is returned by Next before the current exercise has a
	// final result.
	ErrUnanswered = errors.New("exercise not answered yet")
)

// Dispatch runs a recording job.
type Dispatch func(job func())

// Sync runs the job before returning.
func Sync(job func()) { job() }

// Async runs the job on its own goroutine.
func Async(job func()) { go job() }

// AckEvent reports the outcome of recording one attempt.
type AckEvent struct {
	Token      uint64
	ExerciseID string
	Ack        attempt.Ack
	Err        error

	// Stale is set when the learner had moved on; the ack was not applied.
	Stale bool
}

// Options configures a Runner. Every field is optional.
type Options struct {
	Engine    *grading.Engine
	Recorder  attempt.Recorder
	Dispatch  Dispatch
	Logger    *zap.Logger
	Clock     func() time.Time
	SessionID string
	Shuffle   grading.ShuffleFunc

	// Learner receives hearts and XP from acks. It is updated while the
	// runner holds its lock, so its subscribers must not block on or call
	// back into the runner.
	Learner learner.Store

	// OnAck is called after each recording completes, from the goroutine
	// that ran it.
	OnAck func(AckEvent)
}

// Outcome is what one submission produced.
type Outcome struct {
	Result exercise.AttemptResult

	// Final is false for a provisional match_pairs pick; the exercise stays
	// open until the board is done.
	Final bool

	// Milestone is the streak milestone reached by this answer, or 0.
	Milestone int

	Token uint64
}

// Runner walks a learner through the exercises of one lesson. Each shown
// exercise gets a new token; acks recorded under an older token are
// dropped.
type Runner struct {
	lesson *Lesson
	engine *grading.Engine
	rec    attempt.Recorder
	learn  learner.Store
	disp   Dispatch
	logger *zap.Logger
	clock  func() time.Time
	shuf   grading.ShuffleFunc
	onAck  func(AckEvent)

	sessionID string

	mu       sync.Mutex
	pos      int
	token    uint64
	shownAt  time.Time
	started  time.Time
	board    *grading.MatchBoard
	answered bool
	results  []exercise.AttemptResult
	streak   Streak
}

// NewRunner starts l at its first exercise.
func NewRunner(l *Lesson, opts Options) *Runner {
	r := &Runner{
		lesson:    l,
		engine:    opts.Engine,
		rec:       opts.Recorder,
		learn:     opts.Learner,
		disp:      opts.Dispatch,
		logger:    opts.Logger,
		clock:     opts.Clock,
		shuf:      opts.Shuffle,
		onAck:     opts.OnAck,
		sessionID: opts.SessionID,
	}
	if r.engine == nil {
		r.engine = grading.Default
	}
	if r.rec == nil {
		r.rec = attempt.Discard
	}
	if r.disp == nil {
		r.disp = Sync
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.sessionID == "" {
		r.sessionID = uuid.New().String()
	}

	r.started = r.clock()
	r.show()
	return r
}

// show activates the exercise at pos. Callers hold mu or own r exclusively.
func (r *Runner) show() {
	r.token++
	r.answered = false
	r.board = nil
	r.shownAt = r.clock()
	if ex := r.current(); ex != nil && ex.Kind == exercise.KindMatchPairs {
		r.board = grading.NewMatchBoard(ex, r.shuf)
	}
}

func (r *Runner) current() *exercise.Exercise {
	if r.pos >= len(r.lesson.Exercises) {
		return nil
	}
	return &r.lesson.Exercises[r.pos]
}

// SessionID identifies this run in recorded attempts.
func (r *Runner) SessionID() string { return r.sessionID }

// Lesson returns the lesson being run.
func (r *Runner) Lesson() *Lesson { return r.lesson }

// Current returns the active exercise and its token, or nil once the lesson
// is finished.
func (r *Runner) Current() (*exercise.Exercise, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current(), r.token
}

// Board returns the match board of the active match_pairs exercise, or nil.
func (r *Runner) Board() *grading.MatchBoard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board
}

// Answered reports whether the active exercise has a final result.
func (r *Runner) Answered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answered
}

// Finished reports whether every exercise has been passed.
func (r *Runner) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current() == nil
}

// Streak returns the running streak of correct answers.
func (r *Runner) Streak() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.streak.Current()
}

// Submit grades in against the active exercise and records the final
// result through the recorder.
func (r *Runner) Submit(ctx context.Context, in exercise.Input) (Outcome, error) {
	if in.Skip {
		return r.Skip(ctx)
	}

	r.mu.Lock()
	ex := r.current()
	switch {
	case ex == nil:
		r.mu.Unlock()
		return Outcome{}, ErrFinished
	case r.answered:
		r.mu.Unlock()
		return Outcome{}, ErrAnswered
	case !grading.CanCheck(ex, in) && !(r.board != nil && r.board.Len() == 0):
		r.mu.Unlock()
		return Outcome{}, ErrNotCheckable
	}

	var res exercise.AttemptResult
	if r.board != nil {
		if r.board.Len() > 0 {
			accepted := r.board.Try(in.Pair.Left, in.Pair.Right)
			if !r.board.Done() {
				out := Outcome{
					Result: exercise.AttemptResult{ExerciseID: ex.ID, Kind: ex.Kind, IsCorrect: accepted},
					Token:  r.token,
				}
				r.mu.Unlock()
				return out, nil
			}
		}
		res = r.board.Result()
	} else {
		res = r.engine.Grade(ex, in)
	}

	out, job := r.finalize(ctx, ex, res)
	r.mu.Unlock()

	r.disp(job)
	return out, nil
}

// Skip records a skip for the active exercise.
func (r *Runner) Skip(ctx context.Context) (Outcome, error) {
	r.mu.Lock()
	ex := r.current()
	switch {
	case ex == nil:
		r.mu.Unlock()
		return Outcome{}, ErrFinished
	case r.answered:
		r.mu.Unlock()
		return Outcome{}, ErrAnswered
	}

	out, job := r.finalize(ctx, ex, grading.Skip(ex))
	r.mu.Unlock()

	r.disp(job)
	return out, nil
}

// finalize stores res as the final result of ex and returns the recording
// job. Callers hold mu.
func (r *Runner) finalize(ctx context.Context, ex *exercise.Exercise, res exercise.AttemptResult) (Outcome, func()) {
	r.answered = true
	r.results = append(r.results, res)

	out := Outcome{Result: res, Final: true, Token: r.token}
	if Scored(ex.Kind) {
		if res.IsCorrect {
			out.Milestone = r.streak.Hit()
		} else {
			r.streak.Miss()
		}
	}

	switch res.Message {
	case grading.MsgMissingAnswer, grading.MsgMalformed, grading.MsgUnsupportedKind:
		r.logger.Warn("exercise could not be graded",
			zap.String("exercise_id", ex.ID),
			zap.String("kind", string(ex.Kind)),
			zap.String("reason", res.Message))
	}

	sub := attempt.FromResult(res, r.clock().Sub(r.shownAt))
	sub.LessonID = r.lesson.ID
	sub.SessionID = r.sessionID
	token := r.token

	job := func() {
		ack, err := r.rec.Record(ctx, sub)
		r.applyAck(token, sub.ExerciseID, ack, err)
	}
	return out, job
}

// applyAck applies hearts and XP from ack to the learner store when token
// is still active. The token check and the update share one critical
// section so a concurrent Next cannot slip between them.
func (r *Runner) applyAck(token uint64, exerciseID string, ack attempt.Ack, err error) {
	ev := AckEvent{Token: token, ExerciseID: exerciseID, Ack: ack, Err: err}

	if err != nil {
		r.logger.Warn("record attempt",
			zap.String("exercise_id", exerciseID),
			zap.Bool("retryable", attempt.IsRetryable(err)),
			zap.Error(err))
	}

	r.mu.Lock()
	ev.Stale = token != r.token
	if !ev.Stale && r.learn != nil {
		if ack.HasHearts() {
			limit := 0
			if ack.HeartsMax != nil {
				limit = *ack.HeartsMax
			}
			r.learn.SetHearts(*ack.HeartsCurrent, limit)
		}
		if ack.EarnedXPDelta != nil {
			r.learn.AddXP(*ack.EarnedXPDelta)
		}
	}
	r.mu.Unlock()

	if ev.Stale {
		if ev.Err == nil {
			ev.Err = ErrStaleExercise
		}
		r.logger.Debug("dropping stale ack",
			zap.String("exercise_id", exerciseID),
			zap.Uint64("token", token))
	}

	if r.onAck != nil {
		r.onAck(ev)
	}
}

// Next moves to the following exercise. It returns nil once the lesson is
// finished.
func (r *Runner) Next() (*exercise.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current() == nil {
		return nil, ErrFinished
	}
	if !r.answered {
		return nil, ErrUnanswered
	}
	r.pos++
	r.show()
	return r.current(), nil
}

// Progress is the position of a runner in its lesson.
type Progress struct {
	Index    int
	Total    int
	Correct  int
	Answered bool
}

// Fraction returns the share of exercises passed, for progress bars.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Index) / float64(p.Total)
}

// Progress reports where the runner is.
func (r *Runner) Progress() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := Progress{Index: r.pos, Total: len(r.lesson.Exercises), Answered: r.answered}
	for _, res := range r.results {
		if res.IsCorrect && Scored(res.Kind) {
			p.Correct++
		}
	}
	return p
}

// Results returns a copy of the final results so far, in exercise order.
func (r *Runner) Results() []exercise.AttemptResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]exercise.AttemptResult(nil), r.results...)
}

// Summary totals the run so far.
func (r *Runner) Summary() *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := BuildSummary(r.lesson, r.results)
	s.Duration = r.clock().Sub(r.started)
	return s
}

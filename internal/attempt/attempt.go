// Package attempt hands graded results to the attempt-submission
// collaborators: the remote backend and the local event log.
package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/hayer/internal/exercise"
)

// Submission is one graded attempt on its way to a recorder. Only the
// fields with JSON names travel over the wire.
type Submission struct {
	ExerciseID string        `json:"-"`
	LessonID   string        `json:"-"`
	SessionID  string        `json:"-"`
	Kind       exercise.Kind `json:"-"`
	Skipped    bool          `json:"-"`
	XP         int           `json:"-"`

	IsCorrect       bool   `json:"is_correct"`
	AnswerText      string `json:"answer_text"`
	SelectedIndices []int  `json:"selected_indices"`
	TimeMs          int64  `json:"time_ms"`
}

// FromResult builds the submission for a graded result.
func FromResult(res exercise.AttemptResult, elapsed time.Duration) Submission {
	sel := res.SelectedIndices
	if sel == nil {
		sel = []int{}
	}
	return Submission{
		ExerciseID:      res.ExerciseID,
		Kind:            res.Kind,
		Skipped:         res.Skipped,
		XP:              res.XP,
		IsCorrect:       res.IsCorrect,
		AnswerText:      res.AnswerText,
		SelectedIndices: sel,
		TimeMs:          elapsed.Milliseconds(),
	}
}

// Ack is what a recorder reports back. Every field is optional.
type Ack struct {
	HeartsCurrent *int `json:"hearts_current,omitempty"`
	HeartsMax     *int `json:"hearts_max,omitempty"`
	EarnedXPDelta *int `json:"earned_xp_delta,omitempty"`
}

// HasHearts reports whether the ack carries a hearts update.
func (a Ack) HasHearts() bool {
	return a.HeartsCurrent != nil
}

// Recorder records one submission.
type Recorder interface {
	Record(ctx context.Context, sub Submission) (Ack, error)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, sub Submission) (Ack, error)

func (f RecorderFunc) Record(ctx context.Context, sub Submission) (Ack, error) {
	return f(ctx, sub)
}

// Discard records nothing and acknowledges with an empty Ack.
var Discard Recorder = RecorderFunc(func(context.Context, Submission) (Ack, error) {
	return Ack{}, nil
})

// ErrRejected indicates the backend refused the submission (4xx). It is
// never retried.
type ErrRejected struct {
	Status int
	Body   string
}

func (e *ErrRejected) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("attempt rejected (status %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("attempt rejected (status %d)", e.Status)
}

// ErrUnavailable indicates the backend is down, overloaded or unreachable.
type ErrUnavailable struct {
	Status int
	Err    error
}

func (e *ErrUnavailable) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("attempt backend unavailable (status %d): %v", e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("attempt backend unavailable (status %d)", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("attempt backend unavailable: %v", e.Err)
	}
	return "attempt backend unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rejected *ErrRejected
	if errors.As(err, &rejected) {
		return false
	}
	var unavail *ErrUnavailable
	return errors.As(err, &unavail)
}

// Multi records to every recorder in order. The first ack that carries
// hearts supplies hearts; the first that carries an XP delta supplies XP.
// Failures are joined into the returned error and do not stop the others,
// so the returned Ack is usable even when err is non-nil.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, sub Submission) (Ack, error) {
	var (
		out  Ack
		errs []error
	)
	for _, r := range m {
		ack, err := r.Record(ctx, sub)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !out.HasHearts() && ack.HasHearts() {
			out.HeartsCurrent = ack.HeartsCurrent
			out.HeartsMax = ack.HeartsMax
		}
		if out.EarnedXPDelta == nil && ack.EarnedXPDelta != nil {
			out.EarnedXPDelta = ack.EarnedXPDelta
		}
	}
	return out, errors.Join(errs...)
}

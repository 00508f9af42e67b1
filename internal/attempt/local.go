package attempt

import (
	"context"
	"fmt"

	"github.com/abhisek/hayer/internal/store"
)

// HeartsSource reports the learner's current and maximum hearts.
type HeartsSource interface {
	Hearts() (current, limit int)
}

// StoreRecorder appends submissions to the local event log and
// acknowledges them the way the backend does: an incorrect answer costs
// one heart, never below zero, and a correct one earns its XP. Skips
// cost nothing.
type StoreRecorder struct {
	events store.EventRepo
	hearts HeartsSource
}

// NewStoreRecorder creates a StoreRecorder. hearts may be nil, in which
// case acks carry no hearts update.
func NewStoreRecorder(events store.EventRepo, hearts HeartsSource) *StoreRecorder {
	return &StoreRecorder{events: events, hearts: hearts}
}

func (r *StoreRecorder) Record(ctx context.Context, sub Submission) (Ack, error) {
	_, err := r.events.AppendAttempt(ctx, store.AttemptEventData{
		SessionID:       sub.SessionID,
		LessonID:        sub.LessonID,
		ExerciseID:      sub.ExerciseID,
		Kind:            string(sub.Kind),
		Correct:         sub.IsCorrect,
		Skipped:         sub.Skipped,
		AnswerText:      sub.AnswerText,
		SelectedIndices: sub.SelectedIndices,
		TimeMs:          sub.TimeMs,
		XP:              sub.XP,
	})
	if err != nil {
		return Ack{}, fmt.Errorf("record attempt: %w", err)
	}

	var ack Ack
	if r.hearts != nil {
		cur, limit := r.hearts.Hearts()
		if !sub.IsCorrect && !sub.Skipped && cur > 0 {
			cur--
		}
		ack.HeartsCurrent = &cur
		ack.HeartsMax = &limit
	}
	xp := 0
	if sub.IsCorrect {
		xp = sub.XP
	}
	ack.EarnedXPDelta = &xp
	return ack, nil
}

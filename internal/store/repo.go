package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	After      int64     // sequence > After
	Before     int64     // sequence < Before
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
	LessonID   string    // exact lesson match when set
	ExerciseID string    // exact exercise match when set
}

// AttemptEventData captures one graded attempt.
type AttemptEventData struct {
	SessionID       string
	LessonID        string
	ExerciseID      string
	Kind            string
	Correct         bool
	Skipped         bool
	AnswerText      string
	SelectedIndices []int
	TimeMs          int64
	XP              int
}

// AttemptEvent is a stored attempt.
type AttemptEvent struct {
	ID        int
	EventID   string
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// KindStats aggregates attempts of one exercise kind.
type KindStats struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
	Skipped  int `json:"skipped"`
}

// Stats aggregates stored attempts.
type Stats struct {
	Attempts    int                  `json:"attempts"`
	Correct     int                  `json:"correct"`
	Skipped     int                  `json:"skipped"`
	XP          int                  `json:"xp"`
	LastAttempt time.Time            `json:"last_attempt"`
	ByKind      map[string]KindStats `json:"by_kind"`
}

// Accuracy returns correct attempts over all attempts. Skips count as
// attempts and never as correct.
func (s Stats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// EventRepo provides append and query access to attempt events.
type EventRepo interface {
	// AppendAttempt records a graded attempt and returns the stored event.
	AppendAttempt(ctx context.Context, data AttemptEventData) (AttemptEvent, error)

	// Attempts returns stored attempts in sequence order.
	Attempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error)

	// Stats aggregates attempts, optionally for one lesson.
	Stats(ctx context.Context, lessonID string) (Stats, error)

	// LatestAttemptTime returns when exerciseID was last attempted, or the
	// zero time.
	LatestAttemptTime(ctx context.Context, exerciseID string) (time.Time, error)
}

// SnapshotData is the persisted learner state.
type SnapshotData struct {
	Version       int    `json:"version"`
	Token         string `json:"token,omitempty"`
	HeartsCurrent int    `json:"hearts_current"`
	HeartsMax     int    `json:"hearts_max"`
	XP            int    `json:"xp"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot stamped with the next sequence number.
	Save(ctx context.Context, data SnapshotData) (*Snapshot, error)

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

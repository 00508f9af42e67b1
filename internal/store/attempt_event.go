package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// attemptColumns is the select list scanned by scanAttempt.
var attemptColumns = []string{
	"id", "event_id", "sequence", "timestamp",
	"session_id", "lesson_id", "exercise_id", "kind",
	"correct", "skipped", "answer_text", "selected_indices",
	"time_ms", "xp",
}

// eventRepo implements EventRepo backed by SQLite and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) (AttemptEvent, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return AttemptEvent{}, fmt.Errorf("next sequence: %w", err)
	}

	indices, err := json.Marshal(data.SelectedIndices)
	if err != nil {
		return AttemptEvent{}, fmt.Errorf("marshal selected indices: %w", err)
	}

	ev := AttemptEvent{
		EventID:          uuid.NewString(),
		Sequence:         seqNum,
		Timestamp:        time.Now().UTC(),
		AttemptEventData: data,
	}

	query, args := sqlite.Insert(attemptEventsTable).
		Columns(attemptColumns[1:]...).
		Values(
			ev.EventID, ev.Sequence, ev.Timestamp,
			data.SessionID, data.LessonID, data.ExerciseID, data.Kind,
			data.Correct, data.Skipped, data.AnswerText, string(indices),
			data.TimeMs, data.XP,
		).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return AttemptEvent{}, fmt.Errorf("save attempt event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return AttemptEvent{}, fmt.Errorf("attempt event id: %w", err)
	}
	ev.ID = int(id)
	return ev, nil
}

func (r *eventRepo) Attempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error) {
	sel := sqlite.Select(attemptColumns...).
		From(entsql.Table(attemptEventsTable)).
		OrderBy("sequence")
	if ps := opts.predicates(); len(ps) > 0 {
		sel.Where(entsql.And(ps...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		ev, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

func (r *eventRepo) Stats(ctx context.Context, lessonID string) (Stats, error) {
	events, err := r.Attempts(ctx, QueryOpts{LessonID: lessonID})
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}

	st := Stats{ByKind: make(map[string]KindStats)}
	for _, e := range events {
		st.Attempts++
		ks := st.ByKind[e.Kind]
		ks.Attempts++
		switch {
		case e.Skipped:
			st.Skipped++
			ks.Skipped++
		case e.Correct:
			st.Correct++
			ks.Correct++
		}
		st.ByKind[e.Kind] = ks
		st.XP += e.XP
		if e.Timestamp.After(st.LastAttempt) {
			st.LastAttempt = e.Timestamp
		}
	}
	return st, nil
}

func (r *eventRepo) LatestAttemptTime(ctx context.Context, exerciseID string) (time.Time, error) {
	query, args := sqlite.Select("timestamp").
		From(entsql.Table(attemptEventsTable)).
		Where(entsql.EQ("exercise_id", exerciseID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var ts time.Time
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("query latest attempt time: %w", err)
	}
	return ts, nil
}

func (o QueryOpts) predicates() []*entsql.Predicate {
	var ps []*entsql.Predicate
	if o.After > 0 {
		ps = append(ps, entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		ps = append(ps, entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		ps = append(ps, entsql.GTE("timestamp", o.From.UTC()))
	}
	if !o.To.IsZero() {
		ps = append(ps, entsql.LTE("timestamp", o.To.UTC()))
	}
	if o.LessonID != "" {
		ps = append(ps, entsql.EQ("lesson_id", o.LessonID))
	}
	if o.ExerciseID != "" {
		ps = append(ps, entsql.EQ("exercise_id", o.ExerciseID))
	}
	return ps
}

func scanAttempt(rows *sql.Rows) (AttemptEvent, error) {
	var (
		ev      AttemptEvent
		answer  sql.NullString
		indices sql.NullString
	)
	err := rows.Scan(
		&ev.ID, &ev.EventID, &ev.Sequence, &ev.Timestamp,
		&ev.SessionID, &ev.LessonID, &ev.ExerciseID, &ev.Kind,
		&ev.Correct, &ev.Skipped, &answer, &indices,
		&ev.TimeMs, &ev.XP,
	)
	if err != nil {
		return AttemptEvent{}, fmt.Errorf("scan attempt: %w", err)
	}
	ev.AnswerText = answer.String
	if indices.Valid && indices.String != "" {
		if err := json.Unmarshal([]byte(indices.String), &ev.SelectedIndices); err != nil {
			return AttemptEvent{}, fmt.Errorf("decode selected indices: %w", err)
		}
	}
	return ev, nil
}

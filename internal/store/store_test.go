package store

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{attemptEventsTable, learnerSnapshotsTable, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.EventRepo().AppendAttempt(ctx, AttemptEventData{ExerciseID: "e1", Kind: "fill_blank"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	events, err := s.EventRepo().Attempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events after reopen, want 1", len(events))
	}

	ev, err := s.EventRepo().AppendAttempt(ctx, AttemptEventData{ExerciseID: "e2"})
	if err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	if ev.Sequence != 2 {
		t.Errorf("sequence after reopen = %d, want 2", ev.Sequence)
	}
}

func TestAppendAndQueryAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	attempts := []AttemptEventData{
		{SessionID: "s1", LessonID: "l1", ExerciseID: "e1", Kind: "translate_mcq", Correct: true, SelectedIndices: []int{1}, AnswerText: "Hello", XP: 10},
		{SessionID: "s1", LessonID: "l1", ExerciseID: "e2", Kind: "fill_blank", AnswerText: "գնամ"},
		{SessionID: "s1", LessonID: "l1", ExerciseID: "e3", Kind: "fill_blank", Skipped: true},
		{SessionID: "s2", LessonID: "l2", ExerciseID: "e9", Kind: "multi_select", Correct: true, SelectedIndices: []int{0, 2}, XP: 5},
	}
	for i, a := range attempts {
		ev, err := repo.AppendAttempt(ctx, a)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if ev.EventID == "" {
			t.Errorf("append %d: empty event id", i)
		}
	}

	all, err := repo.Attempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d attempts, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Sequence <= all[i-1].Sequence {
			t.Errorf("attempts not in sequence order: %d then %d", all[i-1].Sequence, all[i].Sequence)
		}
	}
	if !slices.Equal(all[3].SelectedIndices, []int{0, 2}) {
		t.Errorf("selected indices = %v, want [0 2]", all[3].SelectedIndices)
	}
	if all[1].AnswerText != "գնամ" {
		t.Errorf("answer text = %q", all[1].AnswerText)
	}

	l1, err := repo.Attempts(ctx, QueryOpts{LessonID: "l1", Limit: 2})
	if err != nil {
		t.Fatalf("attempts l1: %v", err)
	}
	if len(l1) != 2 || l1[0].ExerciseID != "e1" {
		t.Errorf("filtered attempts = %+v", l1)
	}

	after, err := repo.Attempts(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("attempts after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("got %d attempts after seq %d, want 2", len(after), all[1].Sequence)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, a := range []AttemptEventData{
		{LessonID: "l1", ExerciseID: "e1", Kind: "fill_blank", Correct: true, XP: 10},
		{LessonID: "l1", ExerciseID: "e2", Kind: "fill_blank"},
		{LessonID: "l1", ExerciseID: "e3", Kind: "true_false", Skipped: true},
		{LessonID: "l1", ExerciseID: "e4", Kind: "true_false", Correct: true, XP: 5},
		{LessonID: "l2", ExerciseID: "x", Kind: "true_false", Correct: true, XP: 99},
	} {
		if _, err := repo.AppendAttempt(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	st, err := repo.Stats(ctx, "l1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Attempts != 4 || st.Correct != 2 || st.Skipped != 1 || st.XP != 15 {
		t.Errorf("stats = %+v", st)
	}
	if st.Accuracy() != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", st.Accuracy())
	}
	if tf := st.ByKind["true_false"]; tf.Attempts != 2 || tf.Correct != 1 || tf.Skipped != 1 {
		t.Errorf("true_false stats = %+v", tf)
	}
	if st.LastAttempt.IsZero() {
		t.Error("expected last attempt time")
	}

	all, err := repo.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats all: %v", err)
	}
	if all.Attempts != 5 {
		t.Errorf("all attempts = %d, want 5", all.Attempts)
	}

	empty, err := repo.Stats(ctx, "nope")
	if err != nil {
		t.Fatalf("stats empty: %v", err)
	}
	if empty.Accuracy() != 0 {
		t.Errorf("empty accuracy = %v", empty.Accuracy())
	}
}

func TestLatestAttemptTime(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	ts, err := repo.LatestAttemptTime(ctx, "e1")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("expected zero time, got %v", ts)
	}

	ev, err := repo.AppendAttempt(ctx, AttemptEventData{ExerciseID: "e1"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	ts, err = repo.LatestAttemptTime(ctx, "e1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !ts.Equal(ev.Timestamp) {
		t.Errorf("latest = %v, want %v", ts, ev.Timestamp)
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	for i := 1; i <= 3; i++ {
		if _, err := repo.Save(ctx, SnapshotData{Version: 1, HeartsCurrent: i, HeartsMax: 5, XP: i * 10}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Data.HeartsCurrent != 3 || snap.Data.XP != 30 {
		t.Errorf("latest data = %+v", snap.Data)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := repo.Save(ctx, SnapshotData{Version: 1, XP: i}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune to keep 5.
	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + learnerSnapshotsTable).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Data.XP != 6 {
		t.Errorf("latest xp = %d, want 6", snap.Data.XP)
	}

	// Prune with keep above the count is a no-op.
	if err := repo.Prune(ctx, 10); err != nil {
		t.Fatalf("prune no-op: %v", err)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.EventRepo().AppendAttempt(ctx, AttemptEventData{ExerciseID: "e1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.SnapshotRepo().Save(ctx, SnapshotData{XP: 10}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	events, err := s.EventRepo().Attempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d attempts after reset", len(events))
	}
	snap, err := s.SnapshotRepo().Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap != nil {
		t.Errorf("snapshot survived reset: %+v", snap)
	}

	ev, err := s.EventRepo().AppendAttempt(ctx, AttemptEventData{ExerciseID: "e2"})
	if err != nil {
		t.Fatalf("append after reset: %v", err)
	}
	if ev.Sequence != 3 {
		t.Errorf("sequence after reset = %d, want 3", ev.Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

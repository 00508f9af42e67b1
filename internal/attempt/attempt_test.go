package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/store"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type fixedHearts struct{ cur, max int }

func (f fixedHearts) Hearts() (int, int) { return f.cur, f.max }

func fastConfig(base string) HTTPConfig {
	return HTTPConfig{
		BaseURL: base,
		Timeout: 5 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Millisecond,
			MaxWait:     5 * time.Millisecond,
			Multiplier:  2,
		},
	}
}

func intp(v int) *int { return &v }

func TestFromResult(t *testing.T) {
	sub := FromResult(exercise.AttemptResult{
		ExerciseID: "e1",
		Kind:       exercise.KindTrueFalse,
		IsCorrect:  true,
		AnswerText: "False",
		XP:         5,
	}, 1500*time.Millisecond)

	assert.Equal(t, int64(1500), sub.TimeMs)
	assert.Equal(t, []int{}, sub.SelectedIndices)

	raw, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_correct":true,"answer_text":"False","selected_indices":[],"time_ms":1500}`, string(raw))
}

func TestHTTPRecorder_PostsAndDecodesAck(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hearts_current":4,"hearts_max":5,"earned_xp_delta":10}`))
	}))
	defer srv.Close()

	rec := NewHTTPRecorder(fastConfig(srv.URL+"/api/v1/"), staticToken("tok"))
	ack, err := rec.Record(context.Background(), Submission{
		ExerciseID:      "ex 1",
		IsCorrect:       true,
		AnswerText:      "Hello",
		SelectedIndices: []int{1},
		TimeMs:          900,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/exercises/ex 1/attempt", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, true, gotBody["is_correct"])
	assert.Equal(t, "Hello", gotBody["answer_text"])
	assert.Equal(t, float64(900), gotBody["time_ms"])
	assert.NotContains(t, gotBody, "ExerciseID")

	require.True(t, ack.HasHearts())
	assert.Equal(t, 4, *ack.HeartsCurrent)
	assert.Equal(t, 5, *ack.HeartsMax)
	assert.Equal(t, 10, *ack.EarnedXPDelta)
}

func TestHTTPRecorder_EmptyBodyAndNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ack, err := NewHTTPRecorder(fastConfig(srv.URL), staticToken("")).Record(context.Background(), Submission{ExerciseID: "e1"})
	require.NoError(t, err)
	assert.False(t, ack.HasHearts())
	assert.Nil(t, ack.EarnedXPDelta)
}

func TestHTTPRecorder_RejectedNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown exercise", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPRecorder(fastConfig(srv.URL), nil).Record(context.Background(), Submission{ExerciseID: "e1"})
	require.Error(t, err)

	var rejected *ErrRejected
	require.True(t, errors.As(err, &rejected), "got %T: %v", err, err)
	assert.Equal(t, http.StatusNotFound, rejected.Status)
	assert.Equal(t, "unknown exercise", rejected.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPRecorder_RejectionsKeepBreakerClosed(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 6 {
			http.Error(w, "answer_text too long", http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte(`{"earned_xp_delta":10}`))
	}))
	defer srv.Close()

	rec := NewHTTPRecorder(fastConfig(srv.URL), nil)
	for i := range 6 {
		_, err := rec.Record(context.Background(), Submission{ExerciseID: "e1"})
		var rejected *ErrRejected
		require.True(t, errors.As(err, &rejected), "call %d: got %T: %v", i, err, err)
	}

	ack, err := rec.Record(context.Background(), Submission{ExerciseID: "e1"})
	require.NoError(t, err)
	require.NotNil(t, ack.EarnedXPDelta)
	assert.Equal(t, 10, *ack.EarnedXPDelta)
	assert.Equal(t, int32(7), calls.Load())
}

func TestHTTPRecorder_UnavailableRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"earned_xp_delta":3}`))
	}))
	defer srv.Close()

	ack, err := NewHTTPRecorder(fastConfig(srv.URL), nil).Record(context.Background(), Submission{ExerciseID: "e1"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	require.NotNil(t, ack.EarnedXPDelta)
	assert.Equal(t, 3, *ack.EarnedXPDelta)
}

func TestHTTPRecorder_MissingExerciseID(t *testing.T) {
	_, err := NewHTTPRecorder(fastConfig("http://127.0.0.1:0"), nil).Record(context.Background(), Submission{})
	var rejected *ErrRejected
	require.True(t, errors.As(err, &rejected))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(&ErrRejected{Status: 400}))
	assert.True(t, IsRetryable(&ErrUnavailable{Status: 502}))
	assert.True(t, IsRetryable(&ErrUnavailable{Err: errors.New("connection refused")}))
	assert.False(t, IsRetryable(&ErrUnavailable{Err: context.Canceled}))
	assert.False(t, IsRetryable(errors.New("decode attempt ack")))
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "attempts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRecorder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		sub        Submission
		hearts     fixedHearts
		wantHearts int
		wantXP     int
	}{
		{"correct", Submission{ExerciseID: "e1", IsCorrect: true, XP: 10}, fixedHearts{3, 5}, 3, 10},
		{"incorrect costs a heart", Submission{ExerciseID: "e2", XP: 10}, fixedHearts{3, 5}, 2, 0},
		{"hearts floor at zero", Submission{ExerciseID: "e3"}, fixedHearts{0, 5}, 0, 0},
		{"skip is free", Submission{ExerciseID: "e4", Skipped: true}, fixedHearts{3, 5}, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, err := NewStoreRecorder(s.EventRepo(), tt.hearts).Record(ctx, tt.sub)
			require.NoError(t, err)
			require.True(t, ack.HasHearts())
			assert.Equal(t, tt.wantHearts, *ack.HeartsCurrent)
			assert.Equal(t, 5, *ack.HeartsMax)
			assert.Equal(t, tt.wantXP, *ack.EarnedXPDelta)
		})
	}

	events, err := s.EventRepo().Attempts(ctx, store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 4)
	assert.True(t, events[3].Skipped)
}

func TestStoreRecorder_NoHeartsSource(t *testing.T) {
	s := openStore(t)
	ack, err := NewStoreRecorder(s.EventRepo(), nil).Record(context.Background(), Submission{ExerciseID: "e1"})
	require.NoError(t, err)
	assert.False(t, ack.HasHearts())
}

func TestMulti(t *testing.T) {
	noHearts := RecorderFunc(func(context.Context, Submission) (Ack, error) {
		return Ack{EarnedXPDelta: intp(7)}, nil
	})
	failing := RecorderFunc(func(context.Context, Submission) (Ack, error) {
		return Ack{}, &ErrUnavailable{Status: 503}
	})
	withHearts := RecorderFunc(func(context.Context, Submission) (Ack, error) {
		return Ack{HeartsCurrent: intp(2), HeartsMax: intp(5), EarnedXPDelta: intp(1)}, nil
	})
	later := RecorderFunc(func(context.Context, Submission) (Ack, error) {
		return Ack{HeartsCurrent: intp(9), HeartsMax: intp(9)}, nil
	})

	ack, err := Multi{noHearts, failing, withHearts, later}.Record(context.Background(), Submission{ExerciseID: "e"})

	var unavail *ErrUnavailable
	assert.True(t, errors.As(err, &unavail))
	require.True(t, ack.HasHearts())
	assert.Equal(t, 2, *ack.HeartsCurrent)
	assert.Equal(t, 5, *ack.HeartsMax)
	assert.Equal(t, 7, *ack.EarnedXPDelta)

	ack, err = Multi{Discard}.Record(context.Background(), Submission{})
	assert.NoError(t, err)
	assert.False(t, ack.HasHearts())
}

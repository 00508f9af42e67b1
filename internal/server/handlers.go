package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/attempt"
	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/grading"
	"github.com/abhisek/hayer/internal/lesson"
)

// maxBody bounds request documents.
const maxBody = 1 << 20

func (s *Server) health(c *gin.Context) {
	if s.ping != nil {
		if err := s.ping(c.Request.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type gradeRequest struct {
	Exercise json.RawMessage `json:"exercise"`
	Input    exercise.Input  `json:"input"`
}

// keySummary describes the resolved answer key for content authors.
type keySummary struct {
	Mode      string   `json:"mode"`
	Source    string   `json:"source,omitempty"`
	Indices   []int    `json:"indices,omitempty"`
	Texts     []string `json:"texts,omitempty"`
	Ambiguous bool     `json:"ambiguous,omitempty"`
}

type gradeResponse struct {
	Result   exercise.AttemptResult `json:"result"`
	CanCheck bool                   `json:"can_check"`
	Key      keySummary             `json:"key"`
}

func (s *Server) grade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Exercise) == 0 || string(req.Exercise) == "null" {
		fail(c, http.StatusBadRequest, "exercise is required")
		return
	}

	var doc any
	if err := json.Unmarshal(req.Exercise, &doc); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := lesson.ValidateExercise(doc); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	var ex exercise.Exercise
	if err := json.Unmarshal(req.Exercise, &ex); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	res := s.engine.Grade(&ex, req.Input)
	s.metrics.ObserveGrade(res)
	if Outcome(res) == "ungradable" {
		s.logger.Warn("exercise could not be graded",
			zap.String("exercise_id", ex.ID),
			zap.String("kind", string(ex.Kind)),
			zap.String("reason", res.Message))
	}

	c.JSON(http.StatusOK, gradeResponse{
		Result:   res,
		CanCheck: grading.CanCheck(&ex, req.Input),
		Key:      summarizeKey(s.engine.Resolver().Resolve(&ex)),
	})
}

func summarizeKey(k answerkey.Key) keySummary {
	return keySummary{
		Mode:      k.Mode.String(),
		Source:    k.Source,
		Indices:   k.Indices,
		Texts:     k.Texts,
		Ambiguous: k.Ambiguous,
	}
}

type lintResponse struct {
	LessonID string           `json:"lesson_id"`
	OK       bool             `json:"ok"`
	Findings []lesson.Finding `json:"findings"`
}

func (s *Server) lint(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	format := lesson.FormatJSON
	if f := c.Query("format"); f == "yaml" || f == "yml" || strings.Contains(c.ContentType(), "yaml") {
		format = lesson.FormatYAML
	}

	l, err := lesson.Load(bytes.NewReader(raw), format)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	findings := lesson.Lint(l, s.engine.Resolver())
	for _, f := range findings {
		if f.Severity == lesson.SeverityError {
			s.logger.Warn("lint finding",
				zap.String("lesson_id", l.ID),
				zap.String("exercise_id", f.ExerciseID),
				zap.String("kind", string(f.Kind)),
				zap.String("reason", f.Message))
		}
	}
	if findings == nil {
		findings = []lesson.Finding{}
	}
	c.JSON(http.StatusOK, lintResponse{
		LessonID: l.ID,
		OK:       !lesson.HasErrors(findings),
		Findings: findings,
	})
}

type attemptRequest struct {
	ExerciseID string        `json:"exercise_id" binding:"required"`
	LessonID   string        `json:"lesson_id"`
	SessionID  string        `json:"session_id"`
	Kind       exercise.Kind `json:"kind"`
	Skipped    bool          `json:"skipped"`
	XP         int           `json:"xp"`
	attempt.Submission
}

func (s *Server) recordAttempt(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sub := req.Submission
	sub.ExerciseID = req.ExerciseID
	sub.LessonID = req.LessonID
	sub.SessionID = req.SessionID
	sub.Kind = req.Kind
	sub.Skipped = req.Skipped
	sub.XP = req.XP
	s.record(c, sub)
}

// recordExerciseAttempt serves the attempt backend contract, so a player
// can record against a local hayer server.
func (s *Server) recordExerciseAttempt(c *gin.Context) {
	var sub attempt.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sub.ExerciseID = c.Param("id")
	s.record(c, sub)
}

func (s *Server) record(c *gin.Context, sub attempt.Submission) {
	if sub.SelectedIndices == nil {
		sub.SelectedIndices = []int{}
	}
	ack, err := s.recorder.Record(c.Request.Context(), sub)
	if err != nil {
		s.metrics.Attempts.WithLabelValues("error").Inc()
		s.logger.Warn("record attempt",
			zap.String("exercise_id", sub.ExerciseID),
			zap.Error(err))
		fail(c, http.StatusBadGateway, err.Error())
		return
	}
	s.metrics.Attempts.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, ack)
}

func (s *Server) stats(c *gin.Context) {
	if s.events == nil {
		fail(c, http.StatusNotFound, "no attempt store configured")
		return
	}
	st, err := s.events.Stats(c.Request.Context(), c.Query("lesson_id"))
	if err != nil {
		s.logger.Error("load stats", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":    st,
		"accuracy": st.Accuracy(),
	})
}

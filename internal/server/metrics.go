package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/grading"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Grades          *prometheus.CounterVec
	Attempts        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hayer_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hayer_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "endpoint"},
		),
		Grades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hayer_grades_total",
				Help: "Graded submissions by exercise kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hayer_attempts_recorded_total",
				Help: "Attempts handed to the recorder by result",
			},
			[]string{"result"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.RequestCounter, m.RequestDuration, m.Grades, m.Attempts)
	return m
}

// Outcome classifies a result for the grades counter.
func Outcome(res exercise.AttemptResult) string {
	switch {
	case res.Skipped:
		return "skipped"
	case res.IsCorrect:
		return "correct"
	}
	switch res.Message {
	case grading.MsgMissingAnswer, grading.MsgMalformed, grading.MsgUnsupportedKind, grading.MsgNoExercise:
		return "ungradable"
	}
	return "incorrect"
}

// ObserveGrade counts one graded result.
func (m *Metrics) ObserveGrade(res exercise.AttemptResult) {
	kind := string(res.Kind)
	if !res.Kind.Known() {
		kind = "unknown"
	}
	m.Grades.WithLabelValues(kind, Outcome(res)).Inc()
}

func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

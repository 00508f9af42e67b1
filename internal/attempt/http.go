package attempt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
	"go.uber.org/zap"
)

// maxErrorBody caps how much of an error response is kept in ErrRejected.
const maxErrorBody = 512

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// HTTPConfig configures an HTTPRecorder.
type HTTPConfig struct {
	// BaseURL is the API root, e.g. https://api.example.com/api/v1.
	BaseURL string

	// Timeout bounds one submission including retries. Default: 10s.
	Timeout time.Duration

	Retry RetryConfig

	// Client overrides the HTTP client. Default: a client without timeout;
	// the per-submission context carries the deadline.
	Client *http.Client
}

// DefaultHTTPConfig returns an HTTPConfig with sensible defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout: 10 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// HTTPRecorder posts submissions to {BaseURL}/exercises/{id}/attempt.
type HTTPRecorder struct {
	cfg     HTTPConfig
	client  *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	retrier retry.Retry[Ack]
	breaker circuitbreaker.CircuitBreaker[Ack]
}

// HTTPOption configures an HTTPRecorder.
type HTTPOption func(*HTTPRecorder)

// WithLogger sets the logger used for circuit breaker transitions.
func WithLogger(l *zap.Logger) HTTPOption {
	return func(r *HTTPRecorder) { r.logger = l }
}

// NewHTTPRecorder creates an HTTPRecorder. tokens may be nil.
func NewHTTPRecorder(cfg HTTPConfig, tokens TokenSource, opts ...HTTPOption) *HTTPRecorder {
	def := DefaultHTTPConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = def.Retry
	}
	if cfg.Retry.Multiplier <= 0 {
		cfg.Retry.Multiplier = def.Retry.Multiplier
	}

	r := &HTTPRecorder{
		cfg:    cfg,
		client: cfg.Client,
		tokens: tokens,
		logger: zap.NewNop(),
	}
	if r.client == nil {
		r.client = &http.Client{}
	}
	for _, o := range opts {
		o(r)
	}

	r.retrier = retry.New[Ack](retry.Config{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		InitialDelay:  cfg.Retry.InitialWait,
		MaxDelay:      cfg.Retry.MaxWait,
		Multiplier:    cfg.Retry.Multiplier,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   IsRetryable,
	})
	r.breaker = circuitbreaker.New[Ack](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A rejected submission means the backend is up.
		IsSuccessful: func(err error) bool {
			var rejected *ErrRejected
			return err == nil || errors.As(err, &rejected)
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			r.logger.Warn("attempt backend circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return r
}

// Record posts sub. Skips are posted as incorrect attempts.
func (r *HTTPRecorder) Record(ctx context.Context, sub Submission) (Ack, error) {
	if sub.ExerciseID == "" {
		return Ack{}, &ErrRejected{Status: http.StatusBadRequest, Body: "missing exercise id"}
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return Ack{}, fmt.Errorf("marshal submission: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	return r.breaker.Execute(ctx, func(ctx context.Context) (Ack, error) {
		return r.retrier.Do(ctx, func(ctx context.Context) (Ack, error) {
			return r.post(ctx, sub.ExerciseID, body)
		})
	})
}

func (r *HTTPRecorder) post(ctx context.Context, exerciseID string, body []byte) (Ack, error) {
	endpoint := strings.TrimRight(r.cfg.BaseURL, "/") + "/exercises/" + url.PathEscape(exerciseID) + "/attempt"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Ack{}, fmt.Errorf("build attempt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.tokens != nil {
		if tok := r.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Ack{}, ctx.Err()
		}
		return Ack{}, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Ack{}, &ErrUnavailable{Status: resp.StatusCode}
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Ack{}, &ErrRejected{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Ack{}, &ErrUnavailable{Status: resp.StatusCode, Err: err}
	}
	var ack Ack
	if len(bytes.TrimSpace(raw)) == 0 {
		return ack, nil
	}
	if err := json.Unmarshal(raw, &ack); err != nil {
		return Ack{}, fmt.Errorf("decode attempt ack: %w", err)
	}
	return ack, nil
}

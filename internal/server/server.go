// Package server exposes the grading engine over HTTP for content preview
// and as a local stand-in for the attempt backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/attempt"
	"github.com/abhisek/hayer/internal/grading"
	"github.com/abhisek/hayer/internal/store"
)

// Options configures a Server. Engine, Recorder and Logger default to
// grading.Default, attempt.Discard and a no-op logger.
type Options struct {
	Engine   *grading.Engine
	Recorder attempt.Recorder
	Events   store.EventRepo
	Logger   *zap.Logger
	Metrics  *Metrics

	// Mode is the gin mode: debug, release or test.
	Mode string

	// Ping reports storage health for /healthz. Optional.
	Ping func(ctx context.Context) error
}

type Server struct {
	engine   *grading.Engine
	recorder attempt.Recorder
	events   store.EventRepo
	logger   *zap.Logger
	metrics  *Metrics
	ping     func(ctx context.Context) error
	router   *gin.Engine
}

// New builds the router with every route registered.
func New(opts Options) *Server {
	s := &Server{
		engine:   opts.Engine,
		recorder: opts.Recorder,
		events:   opts.Events,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		ping:     opts.Ping,
	}
	if s.engine == nil {
		s.engine = grading.Default
	}
	if s.recorder == nil {
		s.recorder = attempt.Discard
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	router := gin.New()
	router.Use(s.recovery(), s.requestLog(), s.metrics.middleware())
	s.registerRoutes(router)
	s.router = router
	return s
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/healthz", s.health)
	router.GET("/metrics", s.metrics.handler())

	api := router.Group("/api/v1")
	{
		api.POST("/grade", s.grade)
		api.POST("/lint", s.lint)
		api.POST("/attempts", s.recordAttempt)
		api.POST("/exercises/:id/attempt", s.recordExerciseAttempt)
		api.GET("/stats", s.stats)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("handler panic",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered))
		fail(c, http.StatusInternalServerError, "internal server error")
	})
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorResponse{Error: message})
}

package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/app"
	"github.com/abhisek/hayer/internal/attempt"
	"github.com/abhisek/hayer/internal/learner"
	"github.com/abhisek/hayer/internal/lesson"
	"github.com/abhisek/hayer/internal/screen"
	"github.com/abhisek/hayer/internal/screens/home"
	lessonscreen "github.com/abhisek/hayer/internal/screens/lesson"
)

var playCmd = &cobra.Command{
	Use:   "play <lesson-file|lesson-dir>",
	Short: "Play a lesson, or pick one from a directory of lessons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// The TUI owns the terminal; log to the file sink only.
		e, err := openEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		learn, err := learner.OpenPersistent(ctx, e.store.SnapshotRepo(), e.cfg.Learner.HeartsMax, e.logger)
		if err != nil {
			return err
		}
		defer learn.Close()
		if e.cfg.API.Token != "" && learn.Token() == "" {
			learn.SetToken(e.cfg.API.Token)
		}

		var rec attempt.Recorder = attempt.NewStoreRecorder(e.store.EventRepo(), learn)
		if e.cfg.API.BaseURL != "" {
			// The backend's hearts win over the local estimate.
			rec = attempt.Multi{
				attempt.NewHTTPRecorder(httpConfig(e), learn, attempt.WithLogger(e.logger)),
				rec,
			}
		}

		engine := newEngine(e.cfg)
		opts := lesson.Options{
			Engine:   engine,
			Recorder: rec,
			Logger:   e.logger,
		}
		if shuffle, _ := cmd.Flags().GetBool("shuffle"); shuffle {
			opts.Shuffle = rand.Shuffle
		}

		open := func(l *lesson.Lesson) screen.Screen {
			for _, f := range lesson.Lint(l, engine.Resolver()) {
				e.logger.Warn("lesson content",
					zap.String("lesson_id", l.ID),
					zap.String("exercise_id", f.ExerciseID),
					zap.String("kind", string(f.Kind)),
					zap.String("severity", string(f.Severity)),
					zap.String("reason", f.Message))
			}
			return lessonscreen.New(l, learn, opts)
		}

		initial, err := initialScreen(args[0], open, e.logger)
		if err != nil {
			return err
		}
		if err := app.Run(initial, learn); err != nil {
			return fmt.Errorf("run player: %w", err)
		}
		return nil
	},
}

func init() {
	playCmd.Flags().Bool("shuffle", true, "Shuffle the right column of match-the-pairs boards")
}

// initialScreen opens the lesson at path, or the lesson picker when path
// is a directory.
func initialScreen(path string, open home.OpenFunc, logger *zap.Logger) (screen.Screen, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open lesson: %w", err)
	}
	if !info.IsDir() {
		l, err := lesson.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return open(l), nil
	}

	entries, err := lesson.ScanDir(path)
	if err != nil {
		return nil, err
	}
	for _, en := range entries {
		if en.Err != nil {
			logger.Warn("skipping lesson", zap.String("path", en.Path), zap.Error(en.Err))
		}
	}
	return home.New(entries, open), nil
}

// httpConfig maps the api config section onto the recorder config.
func httpConfig(e *env) attempt.HTTPConfig {
	api := e.cfg.API
	cfg := attempt.DefaultHTTPConfig()
	cfg.BaseURL = api.BaseURL
	if api.Timeout > 0 {
		cfg.Timeout = api.Timeout
	}
	cfg.Retry = attempt.RetryConfig{
		MaxAttempts: api.Retry.MaxAttempts,
		InitialWait: api.Retry.InitialWait,
		MaxWait:     api.Retry.MaxWait,
		Multiplier:  api.Retry.Multiplier,
	}
	return cfg
}

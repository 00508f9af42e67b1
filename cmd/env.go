package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/config"
	"github.com/abhisek/hayer/internal/grading"
	"github.com/abhisek/hayer/internal/logging"
	"github.com/abhisek/hayer/internal/store"
)

// env is what commands that touch local state share.
type env struct {
	cfg    *config.Config
	store  *store.Store
	logger *zap.Logger
}

// openEnv loads config, builds the logger and opens the store. console is
// where log lines go besides the configured file; nil keeps the terminal
// clean for the TUI.
func openEnv(cmd *cobra.Command, console io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, console)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))

	return &env{cfg: cfg, store: st, logger: logger}, nil
}

func (e *env) Close() {
	_ = e.logger.Sync()
	_ = e.store.Close()
}

// newEngine builds the grading engine for cfg.
func newEngine(cfg *config.Config) *grading.Engine {
	var opts []answerkey.Option
	if cfg != nil && cfg.Learner.LegacyOneBasedAudio {
		opts = append(opts, answerkey.WithLegacyOneBasedAudio())
	}
	return grading.NewEngine(answerkey.New(opts...))
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/attempt"
	"github.com/abhisek/hayer/internal/learner"
	"github.com/abhisek/hayer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the grading API for the lesson editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		learn, err := learner.OpenPersistent(ctx, e.store.SnapshotRepo(), e.cfg.Learner.HeartsMax, e.logger)
		if err != nil {
			return err
		}
		defer learn.Close()

		local := attempt.NewStoreRecorder(e.store.EventRepo(), learn)
		// Acks are applied to the local learner the way the player does.
		rec := attempt.RecorderFunc(func(ctx context.Context, sub attempt.Submission) (attempt.Ack, error) {
			ack, err := local.Record(ctx, sub)
			if err != nil {
				return ack, err
			}
			if ack.HasHearts() {
				limit := 0
				if ack.HeartsMax != nil {
					limit = *ack.HeartsMax
				}
				learn.SetHearts(*ack.HeartsCurrent, limit)
			}
			if ack.EarnedXPDelta != nil {
				learn.AddXP(*ack.EarnedXPDelta)
			}
			return ack, nil
		})

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = e.cfg.Server.Addr
		}

		srv := server.New(server.Options{
			Engine:   newEngine(e.cfg),
			Recorder: rec,
			Events:   e.store.EventRepo(),
			Logger:   e.logger,
			Mode:     e.cfg.Server.Mode,
			Ping:     e.store.DB().PingContext,
		})
		e.logger.Info("serving grading API", zap.String("addr", addr))
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

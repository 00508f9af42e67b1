package learner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/store"
)

const (
	snapshotVersion = 1

	// keepSnapshots is how many learner snapshots survive each save.
	keepSnapshots = 10
)

// Persistent is a Memory store whose every change is saved as a learner
// snapshot, so token, hearts and XP survive restarts.
type Persistent struct {
	*Memory
	repo   store.SnapshotRepo
	logger *zap.Logger
	cancel func()
}

// OpenPersistent restores the latest snapshot from repo, or starts with
// full hearts when there is none.
func OpenPersistent(ctx context.Context, repo store.SnapshotRepo, heartsMax int, logger *zap.Logger) (*Persistent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := NewMemory(heartsMax)

	snap, err := repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load learner state: %w", err)
	}
	if snap != nil {
		m.Restore(State{
			Token:         snap.Data.Token,
			HeartsCurrent: snap.Data.HeartsCurrent,
			HeartsMax:     snap.Data.HeartsMax,
			XP:            snap.Data.XP,
		})
	}

	p := &Persistent{Memory: m, repo: repo, logger: logger}
	p.cancel = m.Subscribe(p.save)
	return p, nil
}

// Close stops persisting changes.
func (p *Persistent) Close() {
	p.cancel()
}

func (p *Persistent) save(s State) {
	ctx := context.Background()
	_, err := p.repo.Save(ctx, store.SnapshotData{
		Version:       snapshotVersion,
		Token:         s.Token,
		HeartsCurrent: s.HeartsCurrent,
		HeartsMax:     s.HeartsMax,
		XP:            s.XP,
	})
	if err != nil {
		p.logger.Warn("save learner state", zap.Error(err))
		return
	}
	if err := p.repo.Prune(ctx, keepSnapshots); err != nil {
		p.logger.Warn("prune learner snapshots", zap.Error(err))
	}
}

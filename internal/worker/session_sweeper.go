package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/session"
)

// Sweeper drops idle sessions from an in-process store. Redis-backed
// sessions expire through key TTLs and need no sweeper.
type Sweeper interface {
	Sweep(now time.Time, window time.Duration) int
}

// RunSessionSweeper sweeps store every policy.CheckInterval until ctx is done.
func RunSessionSweeper(ctx context.Context, store Sweeper, policy session.Policy, logger *zap.Logger) {
	if store == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ticker := time.NewTicker(policy.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := store.Sweep(now, policy.Window); removed > 0 {
				logger.Info("expired idle sessions", zap.Int("count", removed))
			}
		}
	}
}

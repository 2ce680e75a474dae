package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/logger"
)

// SessionReaperJob periodically removes sessions past their expiry. This is
// housekeeping only: validation checks expiry on read, so a session that the
// reaper has not swept yet still fails validation.
type SessionReaperJob struct {
	repo     repositories.SessionRepository
	interval time.Duration
	stop     chan struct{}
}

func NewSessionReaperJob(repo repositories.SessionRepository) *SessionReaperJob {
	return &SessionReaperJob{
		repo:     repo,
		interval: 10 * time.Minute,
		stop:     make(chan struct{}),
	}
}

func (j *SessionReaperJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting session reaper job")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Session reaper job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Session reaper job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionReaperJob) Stop() {
	close(j.stop)
}

func (j *SessionReaperJob) sweep(ctx context.Context) {
	removed, err := j.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Error(ctx, "Error sweeping expired sessions", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info(ctx, "Swept expired sessions", zap.Int64("removed", removed))
	}
}

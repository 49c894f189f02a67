package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// TokenCleaner removes expired refresh tokens.
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// Sweeper drops expired in-memory rate limit windows.
type Sweeper interface {
	Sweep() int
}

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// AddTokenCleanup schedules refresh token cleanup on spec (cron syntax or a descriptor such as @hourly).
func (s *Scheduler) AddTokenCleanup(spec string, cleaner TokenCleaner) error {
	_, err := s.cron.AddFunc(spec, func() { s.cleanupTokens(cleaner) })
	return err
}

func (s *Scheduler) AddRateLimitSweep(spec string, sweeper Sweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		if n := sweeper.Sweep(); n > 0 {
			s.logger.Debug("rate limit windows swept", "removed", n)
		}
	})
	return err
}

func (s *Scheduler) cleanupTokens(cleaner TokenCleaner) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := cleaner.CleanupExpiredTokens(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "refresh token cleanup failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "expired refresh tokens removed", "count", removed)
}

func (s *Scheduler) Start() {
	s.logger.Info("job scheduler starting", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("job scheduler stop timed out")
	}
}

package worker

import (
	"context"
	"time"

	"maison-be/internal/booking"
	"maison-be/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper cancels pending bookings whose deposit never arrived so their
// slots open back up.
type Sweeper struct {
	repo   booking.Repository
	maxAge time.Duration
	cron   *cron.Cron
}

func NewSweeper(repo booking.Repository, maxAge time.Duration) *Sweeper {
	if maxAge <= 0 {
		maxAge = 12 * time.Hour
	}
	return &Sweeper{
		repo:   repo,
		maxAge: maxAge,
	}
}

// Start schedules the sweep and runs one pass immediately so a restart does
// not leave stale bookings holding slots until the next tick.
func (s *Sweeper) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.Sweep); err != nil {
		return err
	}

	s.Sweep()

	c.Start()
	s.cron = c

	logger.L().Info("booking sweeper started",
		zap.String("schedule", spec),
		zap.Duration("max_age", s.maxAge),
	)

	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.maxAge)

	expired, err := s.repo.ExpireStalePending(ctx, cutoff)
	if err != nil {
		logger.L().Error("booking sweep failed", zap.Error(err))
		return
	}

	if expired > 0 {
		logger.L().Info("expired stale pending bookings", zap.Int64("count", expired))
	}
}

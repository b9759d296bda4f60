// Package jobs runs cron-scheduled maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepTimeout = time.Minute

// TokenStore removes expired session tokens.
type TokenStore interface {
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler wraps a cron runner with zap logging and panic recovery.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	cl := cronLogger{s: logger.Sugar()}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
		now:    time.Now,
	}
}

// AddTokenSweep schedules expired-token cleanup with a standard cron spec
// or descriptor such as "@hourly".
func (s *Scheduler) AddTokenSweep(spec string, store TokenStore) error {
	if _, err := s.cron.AddFunc(spec, func() { s.sweepTokens(store) }); err != nil {
		return fmt.Errorf("schedule token sweep %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) sweepTokens(store TokenStore) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := store.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		s.logger.Error("token sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired tokens removed", zap.Int64("count", n))
	}
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

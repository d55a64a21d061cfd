package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers a full pipeline run on a cron schedule. Cycles that
// would overlap a still-running pipeline are skipped, keeping at most one
// run in flight per process.
type Scheduler struct {
	runner *Runner
	log    *zap.SugaredLogger
	cron   *cron.Cron
	busy   atomic.Bool
}

// NewScheduler creates a scheduler around the runner.
func NewScheduler(runner *Runner, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		runner: runner,
		log:    log,
		cron:   cron.New(),
	}
}

// Start registers the cron entry and blocks until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if !s.busy.CompareAndSwap(false, true) {
			s.log.Warnw("previous pipeline run still in flight, skipping cycle")
			return
		}
		defer s.busy.Store(false)

		if err := s.runner.Run(ctx); err != nil {
			s.log.Errorw("scheduled pipeline run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.log.Infow("scheduler started", "spec", spec)
	s.cron.Start()
	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Infow("scheduler stopped")
	return nil
}

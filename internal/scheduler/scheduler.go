package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/logging"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/sweep"
)

const module logging.Module = "scheduler"

var ErrInvalidInterval = errors.New("sweep interval must be positive")

type SweepRunner interface {
	Run(ctx context.Context, now time.Time) (*sweep.Response, error)
}

// Scheduler triggers the sweep in-process for deployments without an external
// timer. Overlapping ticks are skipped.
type Scheduler struct {
	cron     *cron.Cron
	runner   SweepRunner
	interval time.Duration
	clock    func() time.Time
}

func New(runner SweepRunner, interval time.Duration) *Scheduler {
	logger := cronLogger{}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		runner:   runner,
		interval: interval,
		clock:    time.Now,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return ErrInvalidInterval
	}

	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(schedule, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()

	slog.InfoContext(ctx, "sweep scheduler started",
		slog.Duration("interval", s.interval),
	)
	return nil
}

// Stop prevents new ticks and waits for a running sweep until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	ctx = logging.WithModule(ctx, module)

	resp, err := s.runner.Run(ctx, s.clock())
	if err != nil {
		slog.ErrorContext(ctx, "scheduled sweep failed",
			slog.String("error", err.Error()),
		)
		return
	}

	slog.DebugContext(ctx, "scheduled sweep finished",
		slog.String("run_id", resp.RunID),
		slog.Int("processed_count", resp.ProcessedCount),
	)
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}

package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/metrics"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/tracing"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/dispatch"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/token"
)

const (
	DefaultLookahead = 30 * time.Minute
	DefaultClaimTTL  = 5 * time.Minute

	sweepOutcomeSuccess     = "success"
	sweepOutcomeFailed      = "failed"
	sweepOutcomeInterrupted = "interrupted"
)

type Options struct {
	Lookahead   time.Duration
	// ClaimTTL bounds how long an occurrence stays claimed. Keep it at or
	// below the sweep interval; it is capped at Lookahead.
	ClaimTTL    time.Duration
	Concurrency int
}

type Service struct {
	reminders  domain.ReminderRepository
	resolver   *token.Resolver
	dispatcher *dispatch.Dispatcher
	claims     domain.DeliveryClaimStore
	recorder   domain.SweepResultRecorder
	metrics    *metrics.ReminderMetrics

	lookahead   time.Duration
	claimTTL    time.Duration
	concurrency int
}

func NewService(
	reminders domain.ReminderRepository,
	resolver *token.Resolver,
	dispatcher *dispatch.Dispatcher,
	claims domain.DeliveryClaimStore,
	recorder domain.SweepResultRecorder,
	reminderMetrics *metrics.ReminderMetrics,
	opts Options,
) *Service {
	lookahead := opts.Lookahead
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}

	claimTTL := opts.ClaimTTL
	if claimTTL <= 0 {
		claimTTL = DefaultClaimTTL
	}

	return &Service{
		reminders:   reminders,
		resolver:    resolver,
		dispatcher:  dispatcher,
		claims:      claims,
		recorder:    recorder,
		metrics:     reminderMetrics,
		lookahead:   lookahead,
		claimTTL:    min(claimTTL, lookahead),
		concurrency: max(opts.Concurrency, 1),
	}
}

// Run sweeps the window [now, now+lookahead]. Per-reminder failures are
// reported in the response; only a failed query or an interrupted run
// returns an error.
func (s *Service) Run(ctx context.Context, now time.Time) (*Response, error) {
	started := time.Now()

	windowStart := now.UTC().Truncate(time.Second)
	windowEnd := windowStart.Add(s.lookahead)

	resp := &Response{
		RunID:       uuid.NewString(),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Results:     make([]ResultItem, 0),
	}

	ctx, span := tracing.StartSweepSpan(ctx, resp.RunID, windowStart, windowEnd)
	defer span.End()

	due, err := s.reminders.FindDue(ctx, windowStart, windowEnd)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query due reminders",
			slog.String("run_id", resp.RunID),
			slog.String("error", err.Error()),
		)
		tracing.RecordSweepResult(span, 0, 0, 0, err)
		if s.metrics != nil {
			s.metrics.RecordSweep(ctx, sweepOutcomeFailed, time.Since(started))
		}
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}

	resp.MatchedCount = len(due)

	slog.InfoContext(ctx, "sweep started",
		slog.String("run_id", resp.RunID),
		slog.Time("window_start", windowStart),
		slog.Time("window_end", windowEnd),
		slog.Int("matched_count", len(due)),
	)

	for _, item := range s.processAll(ctx, due) {
		resp.add(item)
	}

	runErr := ctx.Err()

	duration := time.Since(started)
	outcome := sweepOutcomeSuccess
	if runErr != nil {
		outcome = sweepOutcomeInterrupted
	}
	if s.metrics != nil {
		s.metrics.RecordSweep(ctx, outcome, duration)
	}
	tracing.RecordSweepResult(span, resp.MatchedCount, resp.DeliveredCount, resp.FailedCount, runErr)

	if s.recorder != nil {
		if err := s.recorder.RecordSweep(context.WithoutCancel(ctx), resp.record(duration)); err != nil {
			slog.WarnContext(ctx, "failed to record sweep result",
				slog.String("run_id", resp.RunID),
				slog.String("error", err.Error()),
			)
		}
	}

	slog.InfoContext(ctx, "sweep completed",
		slog.String("run_id", resp.RunID),
		slog.Int("matched_count", resp.MatchedCount),
		slog.Int("processed_count", resp.ProcessedCount),
		slog.Int("delivered_count", resp.DeliveredCount),
		slog.Int("rescheduled_count", resp.RescheduledCount),
		slog.Int("clamped_count", resp.ClampedCount),
		slog.Int("finalized_count", resp.FinalizedCount),
		slog.Int("skipped_count", resp.SkippedCount),
		slog.Int("conflict_count", resp.ConflictCount),
		slog.Int("failed_count", resp.FailedCount),
		slog.Duration("duration", duration),
	)

	if runErr != nil {
		return resp, fmt.Errorf("sweep interrupted: %w", runErr)
	}
	return resp, nil
}

// processAll keeps the matched order in its output. Reminders not yet started
// when ctx is cancelled are left untouched and omitted.
func (s *Service) processAll(ctx context.Context, due []*domain.Reminder) []ResultItem {
	if s.concurrency <= 1 {
		items := make([]ResultItem, 0, len(due))
		for _, r := range due {
			if ctx.Err() != nil {
				break
			}
			items = append(items, s.process(ctx, r))
		}
		return items
	}

	slots := make([]*ResultItem, len(due))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, r := range due {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			item := s.process(ctx, r)
			slots[i] = &item
			return nil
		})
	}
	// Workers report through slots and never return an error.
	g.Wait()

	items := make([]ResultItem, 0, len(due))
	for _, item := range slots {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items
}

// process runs read, resolve, send, update for one reminder. All errors are
// contained in the returned item.
func (s *Service) process(ctx context.Context, r *domain.Reminder) ResultItem {
	ctx, span := tracing.StartReminderSpan(ctx, r.Path, r.NotifyAt)
	defer span.End()

	item := ResultItem{
		ReminderPath: r.Path,
		UserID:       r.UserID,
		TaskID:       r.TaskID,
		NotifyAt:     r.NotifyAt,
	}

	defer func() {
		var err error
		if item.Error != "" {
			err = errors.New(item.Error)
		}
		tracing.RecordReminderResult(span, item.Outcome.String(), item.Transition.String(), err)
		if s.metrics != nil {
			s.metrics.RecordReminderProcessed(ctx, item.Outcome.String())
		}
	}()

	if !r.HasOwner() {
		slog.WarnContext(ctx, "reminder has no owner, finalizing without delivery",
			slog.String("reminder_path", r.Path),
		)
		item.SkipReason = skipReasonMissingOwner
		s.apply(ctx, r, &item, domain.Transition{Kind: domain.TransitionFinalize}, false)
		return item
	}

	claimKey := r.ClaimKey()
	held, granted := s.claim(ctx, claimKey)
	if !granted {
		slog.DebugContext(ctx, "reminder occurrence already claimed",
			slog.String("reminder_path", r.Path),
			slog.String("claim_key", claimKey),
		)
		item.Outcome = OutcomeSkipped
		item.SkipReason = skipReasonClaimed
		return item
	}

	tokens, err := s.resolver.Resolve(ctx, r.UserID)
	if err != nil {
		s.fail(ctx, r, &item, "failed to resolve device tokens", err)
		s.release(ctx, claimKey, held)
		return item
	}
	item.TokenCount = len(tokens)

	if len(tokens) == 0 {
		slog.DebugContext(ctx, "owner has no device tokens, finalizing without delivery",
			slog.String("reminder_path", r.Path),
			slog.String("user_id", r.UserID),
		)
		item.SkipReason = skipReasonNoTokens
		if !s.apply(ctx, r, &item, domain.Transition{Kind: domain.TransitionFinalize}, false) {
			s.release(ctx, claimKey, held)
		}
		return item
	}

	result, err := s.dispatcher.Dispatch(ctx, dispatch.SourceReminder, domain.NewReminderPush(r), tokens)
	if result != nil {
		item.SuccessCount = result.SuccessCount
		item.FailureCount = result.FailureCount
	}
	if err != nil {
		s.fail(ctx, r, &item, "failed to deliver reminder push", err)
		s.release(ctx, claimKey, held)
		return item
	}
	item.Delivered = item.SuccessCount > 0

	if !s.apply(ctx, r, &item, r.NextTransition(), true) {
		s.release(ctx, claimKey, held)
	}
	return item
}

// apply writes the transition and sets the item outcome. It reports false
// when the write failed in a way the next sweep should retry.
func (s *Service) apply(ctx context.Context, r *domain.Reminder, item *ResultItem, next domain.Transition, delivered bool) bool {
	item.Transition = next.Kind

	var err error
	if next.IsFinal() {
		err = s.reminders.MarkSent(ctx, r)
	} else {
		err = s.reminders.Reschedule(ctx, r, next.NextNotifyAt)
	}

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrReminderConflict):
		slog.WarnContext(ctx, "reminder changed since it was read, leaving it to the other writer",
			slog.String("reminder_path", r.Path),
			slog.String("error", err.Error()),
		)
		item.Outcome = OutcomeConflict
		item.Error = err.Error()
		return true
	case errors.Is(err, domain.ErrReminderNotFound):
		slog.WarnContext(ctx, "reminder deleted during sweep",
			slog.String("reminder_path", r.Path),
		)
		item.Outcome = OutcomeSkipped
		item.SkipReason = skipReasonDeleted
		return true
	default:
		s.fail(ctx, r, item, "failed to update reminder", err)
		return false
	}

	switch next.Kind {
	case domain.TransitionReschedule:
		item.Outcome = OutcomeRescheduled
	case domain.TransitionClamp:
		item.Outcome = OutcomeClamped
	default:
		item.Outcome = OutcomeFinalized
	}
	if !next.IsFinal() {
		nextAt := next.NextNotifyAt
		item.NextNotifyAt = &nextAt
	}

	slog.DebugContext(ctx, "reminder transitioned",
		slog.String("reminder_path", r.Path),
		slog.String("transition", next.Kind.String()),
		slog.Bool("delivered", delivered),
		slog.Time("next_notify_at", next.NextNotifyAt),
	)
	return true
}

func (s *Service) fail(ctx context.Context, r *domain.Reminder, item *ResultItem, msg string, err error) {
	slog.ErrorContext(ctx, msg,
		slog.String("reminder_path", r.Path),
		slog.String("user_id", r.UserID),
		slog.String("error", err.Error()),
	)
	item.Outcome = OutcomeFailed
	item.Error = err.Error()
}

// claim returns whether this invocation now holds the claim and whether
// processing may continue. Store errors fail open.
func (s *Service) claim(ctx context.Context, key string) (held, granted bool) {
	if s.claims == nil {
		return false, true
	}

	ok, err := s.claims.Claim(ctx, key, s.claimTTL)
	if err != nil {
		slog.WarnContext(ctx, "delivery claim store unavailable, continuing without claim",
			slog.String("claim_key", key),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordClaimStoreError(ctx, "claim")
		}
		return false, true
	}
	return ok, ok
}

func (s *Service) release(ctx context.Context, key string, held bool) {
	if !held || s.claims == nil {
		return
	}

	if err := s.claims.Release(context.WithoutCancel(ctx), key); err != nil {
		slog.WarnContext(ctx, "failed to release delivery claim",
			slog.String("claim_key", key),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordClaimStoreError(ctx, "release")
		}
	}
}

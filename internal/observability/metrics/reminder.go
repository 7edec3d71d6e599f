package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	reminderMeterName = "reminder.dispatch"
)

type ReminderMetrics struct {
	sweepRuns             metric.Int64Counter
	sweepDuration         metric.Float64Histogram
	remindersProcessed    metric.Int64Counter
	pushTokens            metric.Int64Counter
	pushDispatchDuration  metric.Float64Histogram
	notificationEvents    metric.Int64Counter
	claimStoreUnavailable metric.Int64Counter
}

func NewReminderMetrics() (*ReminderMetrics, error) {
	meter := otel.Meter(reminderMeterName)

	sweepRuns, err := meter.Int64Counter(
		"reminder_sweep_runs_total",
		metric.WithDescription("Total number of due-reminder sweeps"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram(
		"reminder_sweep_duration_seconds",
		metric.WithDescription("Due-reminder sweep duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
		),
	)
	if err != nil {
		return nil, err
	}

	remindersProcessed, err := meter.Int64Counter(
		"reminder_processed_total",
		metric.WithDescription("Total number of reminders processed by outcome"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	pushTokens, err := meter.Int64Counter(
		"push_tokens_total",
		metric.WithDescription("Total number of device tokens targeted by result"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	pushDispatchDuration, err := meter.Float64Histogram(
		"push_dispatch_duration_seconds",
		metric.WithDescription("Time spent in multicast push delivery"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	notificationEvents, err := meter.Int64Counter(
		"notification_events_total",
		metric.WithDescription("Total number of notification-created events by outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	claimStoreUnavailable, err := meter.Int64Counter(
		"reminder_claim_store_errors_total",
		metric.WithDescription("Delivery-claim store errors that were failed open"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &ReminderMetrics{
		sweepRuns:             sweepRuns,
		sweepDuration:         sweepDuration,
		remindersProcessed:    remindersProcessed,
		pushTokens:            pushTokens,
		pushDispatchDuration:  pushDispatchDuration,
		notificationEvents:    notificationEvents,
		claimStoreUnavailable: claimStoreUnavailable,
	}, nil
}

func (m *ReminderMetrics) RecordSweep(ctx context.Context, outcome string, duration time.Duration) {
	m.sweepRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
	m.sweepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordReminderProcessed(ctx context.Context, outcome string) {
	m.remindersProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordPushTokens(ctx context.Context, source string, succeeded, failed int) {
	if succeeded > 0 {
		m.pushTokens.Add(ctx, int64(succeeded), metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("result", "success"),
		))
	}
	if failed > 0 {
		m.pushTokens.Add(ctx, int64(failed), metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("result", "failure"),
		))
	}
}

func (m *ReminderMetrics) RecordPushDispatchDuration(ctx context.Context, source string, duration time.Duration) {
	m.pushDispatchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("source", source),
	))
}

func (m *ReminderMetrics) RecordNotificationEvent(ctx context.Context, outcome string) {
	m.notificationEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordClaimStoreError(ctx context.Context, operation string) {
	m.claimStoreUnavailable.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

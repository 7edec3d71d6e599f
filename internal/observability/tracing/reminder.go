package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reminderTracerName = "github.com/KasumiMercury/primind-reminder-dispatch/internal/service"

func ReminderTracer() trace.Tracer {
	return otel.Tracer(reminderTracerName)
}

func StartSweepSpan(ctx context.Context, runID string, windowStart, windowEnd time.Time) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.sweep",
		trace.WithAttributes(
			attribute.String("sweep.run_id", runID),
			attribute.String("sweep.window_start", windowStart.Format(time.RFC3339)),
			attribute.String("sweep.window_end", windowEnd.Format(time.RFC3339)),
		),
	)
}

func StartReminderSpan(ctx context.Context, reminderPath string, notifyAt time.Time) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.process",
		trace.WithAttributes(
			attribute.String("reminder.path", reminderPath),
			attribute.String("reminder.notify_at", notifyAt.Format(time.RFC3339)),
		),
	)
}

func StartDispatchSpan(ctx context.Context, tokenCount int) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "push.dispatch",
		trace.WithAttributes(
			attribute.Int("push.token_count", tokenCount),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartNotificationEventSpan(ctx context.Context, userID, messageID string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "notification.event",
		trace.WithAttributes(
			attribute.String("notification.user_id", userID),
			attribute.String("notification.message_id", messageID),
		),
	)
}

func RecordSweepResult(span trace.Span, matched, delivered, failed int, err error) {
	span.SetAttributes(
		attribute.Int("sweep.matched_count", matched),
		attribute.Int("sweep.delivered_count", delivered),
		attribute.Int("sweep.failed_count", failed),
	)
	recordStatus(span, err)
}

func RecordReminderResult(span trace.Span, outcome, transition string, err error) {
	span.SetAttributes(
		attribute.String("reminder.outcome", outcome),
		attribute.String("reminder.transition", transition),
	)
	recordStatus(span, err)
}

func RecordDispatchResult(span trace.Span, successCount, failureCount int, err error) {
	span.SetAttributes(
		attribute.Int("push.success_count", successCount),
		attribute.Int("push.failure_count", failureCount),
	)
	recordStatus(span, err)
}

func RecordError(span trace.Span, err error) {
	recordStatus(span, err)
}

func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

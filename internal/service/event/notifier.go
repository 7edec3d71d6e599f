package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/metrics"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/tracing"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/dispatch"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/token"
)

type Outcome string

const (
	OutcomeSent     Outcome = "sent"
	OutcomeNoTokens Outcome = "no_tokens"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeFailed   Outcome = "failed"
)

type Result struct {
	UserID       string  `json:"user_id"`
	MessageID    string  `json:"message_id"`
	Outcome      Outcome `json:"outcome"`
	TokenCount   int     `json:"token_count"`
	SuccessCount int     `json:"success_count"`
	FailureCount int     `json:"failure_count"`
}

type Notifier struct {
	resolver   *token.Resolver
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.ReminderMetrics
}

func NewNotifier(resolver *token.Resolver, dispatcher *dispatch.Dispatcher, reminderMetrics *metrics.ReminderMetrics) *Notifier {
	return &Notifier{
		resolver:   resolver,
		dispatcher: dispatcher,
		metrics:    reminderMetrics,
	}
}

// Notify delivers one push for a newly created notification record. There is
// no retry path: a failure here is reported to the trigger and dropped.
func (n *Notifier) Notify(ctx context.Context, event *domain.NotificationEvent) (*Result, error) {
	if event == nil || !event.HasOwner() {
		return nil, domain.ErrMissingEventOwner
	}

	ctx, span := tracing.StartNotificationEventSpan(ctx, event.UserID, event.MessageID)
	defer span.End()

	result := &Result{
		UserID:    event.UserID,
		MessageID: event.MessageID,
	}

	tokens, err := n.resolver.Resolve(ctx, event.UserID)
	if err != nil {
		n.finish(ctx, result, OutcomeFailed)
		tracing.RecordError(span, err)
		return result, fmt.Errorf("failed to resolve tokens for notification %s: %w", event.MessageID, err)
	}
	result.TokenCount = len(tokens)

	if len(tokens) == 0 {
		slog.InfoContext(ctx, "no device tokens for notification, nothing to send",
			slog.String("user_id", event.UserID),
			slog.String("message_id", event.MessageID),
		)
		n.finish(ctx, result, OutcomeNoTokens)
		return result, nil
	}

	dispatched, err := n.dispatcher.Dispatch(ctx, dispatch.SourceEvent, domain.NewEventPush(event), tokens)
	if dispatched != nil {
		result.SuccessCount = dispatched.SuccessCount
		result.FailureCount = dispatched.FailureCount
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to deliver notification push",
			slog.String("user_id", event.UserID),
			slog.String("message_id", event.MessageID),
			slog.String("error", err.Error()),
		)
		n.finish(ctx, result, OutcomeFailed)
		tracing.RecordError(span, err)
		return result, fmt.Errorf("failed to deliver notification %s: %w", event.MessageID, err)
	}

	slog.InfoContext(ctx, "notification push sent",
		slog.String("user_id", event.UserID),
		slog.String("message_id", event.MessageID),
		slog.Int("success_count", result.SuccessCount),
		slog.Int("failure_count", result.FailureCount),
	)
	n.finish(ctx, result, OutcomeSent)
	return result, nil
}

// Ignore records a trigger that carried no record data.
func (n *Notifier) Ignore(ctx context.Context, userID, messageID string) *Result {
	slog.InfoContext(ctx, "notification trigger without data, ignoring",
		slog.String("user_id", userID),
		slog.String("message_id", messageID),
	)

	result := &Result{UserID: userID, MessageID: messageID}
	n.finish(ctx, result, OutcomeIgnored)
	return result
}

func (n *Notifier) finish(ctx context.Context, result *Result, outcome Outcome) {
	result.Outcome = outcome
	if n.metrics != nil {
		n.metrics.RecordNotificationEvent(ctx, string(outcome))
	}
}

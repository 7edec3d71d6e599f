package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/infra/push"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/metrics"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/tracing"
)

type Dispatcher struct {
	gateway   push.Gateway
	chunkSize int
	metrics   *metrics.ReminderMetrics
}

func NewDispatcher(gateway push.Gateway, reminderMetrics *metrics.ReminderMetrics) *Dispatcher {
	return &Dispatcher{
		gateway:   gateway,
		chunkSize: push.MaxTokensPerMulticast,
		metrics:   reminderMetrics,
	}
}

// Dispatch sends msg to every token. Individual token failures are reported in
// the result and never fail the call. An error is returned only when no token
// was reached because the gateway itself failed.
func (d *Dispatcher) Dispatch(ctx context.Context, source Source, msg domain.PushMessage, tokens []string) (*Result, error) {
	result := &Result{TokenCount: len(tokens)}
	if len(tokens) == 0 {
		return result, nil
	}

	ctx, span := tracing.StartDispatchSpan(ctx, len(tokens))
	defer span.End()

	start := time.Now()

	var sendErr error
	for _, chunk := range push.Chunk(tokens, d.chunkSize) {
		resp, err := d.gateway.SendEachForMulticast(ctx, push.NewMulticast(msg, chunk))
		if err != nil {
			slog.WarnContext(ctx, "multicast send failed",
				slog.String("source", source.String()),
				slog.Int("token_count", len(chunk)),
				slog.String("error", err.Error()),
			)
			sendErr = err
			for _, tok := range chunk {
				result.Failures = append(result.Failures, TokenFailure{Token: tok, Error: err.Error()})
			}
			result.FailureCount += len(chunk)
			continue
		}

		collectResponses(result, chunk, resp)
	}

	if d.metrics != nil {
		d.metrics.RecordPushTokens(ctx, source.String(), result.SuccessCount, result.FailureCount)
		d.metrics.RecordPushDispatchDuration(ctx, source.String(), time.Since(start))
	}

	var err error
	if sendErr != nil && result.SuccessCount == 0 {
		err = fmt.Errorf("%w: %w", ErrDispatchFailed, sendErr)
	}
	tracing.RecordDispatchResult(span, result.SuccessCount, result.FailureCount, err)

	slog.InfoContext(ctx, "push dispatched",
		slog.String("source", source.String()),
		slog.Int("token_count", result.TokenCount),
		slog.Int("success_count", result.SuccessCount),
		slog.Int("failure_count", result.FailureCount),
		slog.Int("unregistered_count", len(result.UnregisteredTokens())),
	)

	return result, err
}

func collectResponses(result *Result, chunk []string, resp *messaging.BatchResponse) {
	if resp == nil {
		return
	}

	for i, r := range resp.Responses {
		if r == nil {
			continue
		}
		if r.Success {
			result.SuccessCount++
			continue
		}

		failure := TokenFailure{}
		if i < len(chunk) {
			failure.Token = chunk[i]
		}
		if r.Error != nil {
			failure.Error = r.Error.Error()
			failure.Unregistered = messaging.IsUnregistered(r.Error)
		}
		result.Failures = append(result.Failures, failure)
		result.FailureCount++
	}
}

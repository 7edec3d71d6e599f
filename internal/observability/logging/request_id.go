package logging

import (
	"context"

	"github.com/google/uuid"
)

const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ValidateAndExtractRequestID returns the given id if it is a UUID, otherwise a fresh one.
func ValidateAndExtractRequestID(requestID string) string {
	if requestID != "" {
		if _, err := uuid.Parse(requestID); err == nil {
			return requestID
		}
	}
	return uuid.NewString()
}

package firestore

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

var ErrInvalidReminderData = errors.New("invalid reminder data")

// mapUpdateError translates Firestore gRPC status codes on a conditional update.
func mapUpdateError(path string, err error) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.FailedPrecondition, codes.Aborted:
		return fmt.Errorf("%w: %s", domain.ErrReminderConflict, path)
	case codes.NotFound:
		return fmt.Errorf("%w: %s", domain.ErrReminderNotFound, path)
	default:
		return fmt.Errorf("failed to update reminder %s: %w", path, err)
	}
}

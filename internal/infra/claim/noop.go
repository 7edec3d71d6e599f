package claim

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

// noopStore grants every claim. Used when Redis is not configured.
type noopStore struct{}

func NewNoopStore() domain.DeliveryClaimStore {
	return &noopStore{}
}

func (n *noopStore) Claim(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (n *noopStore) Release(_ context.Context, _ string) error {
	return nil
}

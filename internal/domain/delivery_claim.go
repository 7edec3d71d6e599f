package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=delivery_claim.go -destination=delivery_claim_mock.go -package=domain

// DeliveryClaimStore guards one reminder occurrence against concurrent delivery
// by overlapping sweeps.
type DeliveryClaimStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

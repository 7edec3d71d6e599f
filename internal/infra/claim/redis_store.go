package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

const (
	claimKeyPrefix = "reminder:claim:"

	minClaimTTL = time.Minute
)

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) domain.DeliveryClaimStore {
	return &redisStore{
		client: client,
	}
}

func (s *redisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyClaimKey
	}

	ttl = max(ttl, minClaimTTL)

	ok, err := s.client.SetNX(ctx, claimKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}

	return ok, nil
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyClaimKey
	}

	if err := s.client.Del(ctx, claimKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}

	return nil
}

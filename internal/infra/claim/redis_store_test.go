package claim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/testutil"
)

func TestRedisStoreClaim(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	store := NewRedisStore(client)
	key := "users/u1/reminders/r1@2025-01-01T09:00:00Z"

	ok, err := store.Claim(ctx, key, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first claim to succeed")
	}

	ok, err = store.Claim(ctx, key, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second claim to be rejected")
	}

	ttl, err := client.TTL(ctx, claimKeyPrefix+key).Result()
	if err != nil {
		t.Fatalf("failed to read ttl: %v", err)
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Errorf("unexpected ttl %v", ttl)
	}

	if err := store.Release(ctx, key); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}

	ok, err = store.Claim(ctx, key, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected claim to succeed after release")
	}
}

func TestRedisStoreMinimumTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	store := NewRedisStore(client)

	if _, err := store.Claim(ctx, "short", time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl, err := client.TTL(ctx, claimKeyPrefix+"short").Result()
	if err != nil {
		t.Fatalf("failed to read ttl: %v", err)
	}
	if ttl < 30*time.Second {
		t.Errorf("expected ttl raised to the minimum, got %v", ttl)
	}
}

func TestEmptyKey(t *testing.T) {
	store := NewRedisStore(nil)

	if _, err := store.Claim(context.Background(), "", time.Minute); !errors.Is(err, ErrEmptyClaimKey) {
		t.Errorf("expected ErrEmptyClaimKey, got %v", err)
	}
	if err := store.Release(context.Background(), ""); !errors.Is(err, ErrEmptyClaimKey) {
		t.Errorf("expected ErrEmptyClaimKey, got %v", err)
	}
}

func TestNoopStore(t *testing.T) {
	store := NewNoopStore()

	for range 2 {
		ok, err := store.Claim(context.Background(), "k", time.Minute)
		if err != nil || !ok {
			t.Errorf("noop claim: got (%v, %v), want (true, nil)", ok, err)
		}
	}
}

package firestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/testutil"
)

func TestReminderRepository_Emulator(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, collection, cleanup := testutil.SetupFirestoreEmulator(ctx, t)
	defer cleanup()

	repo := NewReminderRepository(client, collection)
	now := time.Now().UTC().Truncate(time.Second)

	docs := map[string]map[string]any{
		"due": {
			"userId":   "u1",
			"title":    "Water plants",
			"sent":     false,
			"notifyAt": now.Add(5 * time.Minute),
		},
		"too_late": {
			"userId":   "u1",
			"sent":     false,
			"notifyAt": now.Add(2 * time.Hour),
		},
		"already_sent": {
			"userId":   "u1",
			"sent":     true,
			"notifyAt": now.Add(5 * time.Minute),
		},
	}
	for id, data := range docs {
		if _, err := client.Collection("users").Doc("u1").Collection(collection).Doc(id).Set(ctx, data); err != nil {
			t.Fatalf("failed to seed %s: %v", id, err)
		}
	}

	due, err := repo.FindDue(ctx, now, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("FindDue: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due reminder, got %d", len(due))
	}

	reminder := due[0]
	if reminder.Title == nil || *reminder.Title != "Water plants" {
		t.Errorf("Title: got %v", reminder.Title)
	}

	next := now.Add(time.Hour)
	if err := repo.Reschedule(ctx, reminder, next); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	// The stored revision moved on, so the stale snapshot must conflict.
	if err := repo.MarkSent(ctx, reminder); !errors.Is(err, domain.ErrReminderConflict) {
		t.Errorf("expected ErrReminderConflict on stale update, got %v", err)
	}

	snap, err := client.Doc(reminder.Path).Get(ctx)
	if err != nil {
		t.Fatalf("failed to read back reminder: %v", err)
	}
	got, ok := snap.Data()["notifyAt"].(time.Time)
	if !ok || !got.Equal(next) {
		t.Errorf("notifyAt: got %v, want %v", snap.Data()["notifyAt"], next)
	}
}

func TestTokenRepository_Emulator(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, _, cleanup := testutil.SetupFirestoreEmulator(ctx, t)
	defer cleanup()

	userID := "token-user-" + time.Now().Format("150405.000000")
	for _, token := range []string{"tok-a", "tok-b"} {
		_, err := client.Collection("user_tokens").Doc(userID).Collection("tokens").Doc(token).Set(ctx, map[string]any{
			"createdAt": time.Now(),
		})
		if err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}

	repo := NewTokenRepository(client)

	tokens, err := repo.ListTokens(ctx, userID)
	if err != nil {
		t.Fatalf("ListTokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("expected 2 tokens, got %v", tokens)
	}

	empty, err := repo.ListTokens(ctx, "nobody-"+userID)
	if err != nil {
		t.Fatalf("ListTokens for unknown user: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no tokens, got %v", empty)
	}

	if _, err := repo.ListTokens(ctx, ""); !errors.Is(err, domain.ErrMissingOwner) {
		t.Errorf("expected ErrMissingOwner, got %v", err)
	}
}

package firestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

type reminderRepository struct {
	client     *firestore.Client
	collection string
}

// NewReminderRepository reads reminders across every parent through a
// collection-group query on the given collection id.
func NewReminderRepository(client *firestore.Client, collection string) domain.ReminderRepository {
	return &reminderRepository{
		client:     client,
		collection: collection,
	}
}

func (r *reminderRepository) FindDue(ctx context.Context, start, end time.Time) ([]*domain.Reminder, error) {
	iter := r.client.CollectionGroup(r.collection).
		Where(fieldSent, "==", false).
		Where(fieldNotifyAt, ">=", start).
		Where(fieldNotifyAt, "<=", end).
		Documents(ctx)
	defer iter.Stop()

	reminders := make([]*domain.Reminder, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query due reminders: %w", err)
		}

		path := relativePath(snap.Ref.Path)
		reminder, issues, err := decodeReminder(path, snap.UpdateTime, snap.Data())
		if err != nil {
			slog.ErrorContext(ctx, "skipping undecodable reminder",
				slog.String("reminder_path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, issue := range issues {
			slog.WarnContext(ctx, "reminder has malformed field",
				slog.String("reminder_path", path),
				slog.String("error", issue.Error()),
			)
		}

		reminders = append(reminders, reminder)
	}

	return reminders, nil
}

func (r *reminderRepository) Reschedule(ctx context.Context, reminder *domain.Reminder, next time.Time) error {
	updates := []firestore.Update{
		{Path: fieldNotifyAt, Value: next},
		{Path: fieldUpdatedAt, Value: firestore.ServerTimestamp},
	}

	_, err := r.client.Doc(reminder.Path).Update(ctx, updates, preconditions(reminder)...)
	return mapUpdateError(reminder.Path, err)
}

func (r *reminderRepository) MarkSent(ctx context.Context, reminder *domain.Reminder) error {
	updates := []firestore.Update{
		{Path: fieldSent, Value: true},
		{Path: fieldSentAt, Value: firestore.ServerTimestamp},
	}

	_, err := r.client.Doc(reminder.Path).Update(ctx, updates, preconditions(reminder)...)
	return mapUpdateError(reminder.Path, err)
}

// preconditions pins the update to the revision the sweep read.
func preconditions(reminder *domain.Reminder) []firestore.Precondition {
	if reminder.UpdateTime.IsZero() {
		return nil
	}
	return []firestore.Precondition{firestore.LastUpdateTime(reminder.UpdateTime)}
}

package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=reminder_repository.go -destination=reminder_repository_mock.go -package=domain

type ReminderRepository interface {
	// FindDue returns unsent reminders whose notifyAt lies within [start, end].
	FindDue(ctx context.Context, start, end time.Time) ([]*Reminder, error)
	// Reschedule moves notifyAt forward and leaves the reminder unsent.
	Reschedule(ctx context.Context, reminder *Reminder, next time.Time) error
	// MarkSent finalizes the reminder.
	MarkSent(ctx context.Context, reminder *Reminder) error
}

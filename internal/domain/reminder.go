package domain

import (
	"math"
	"time"
)

var maxIntervalMinutes = float64(math.MaxInt64) / float64(time.Minute)

// Reminder is one scheduled notification instance under a task.
// Only the fields the sweep reads and writes are modelled.
type Reminder struct {
	Path                  string
	UserID                string
	TaskID                string
	Title                 *string
	Sent                  bool
	NotifyAt              time.Time
	DueDate               time.Time
	RepeatIntervalMinutes float64

	// UpdateTime is the document revision the reminder was read at.
	UpdateTime time.Time
}

func (r *Reminder) HasOwner() bool {
	return r.UserID != ""
}

// IsRepeating reports whether the reminder carries everything needed to roll
// forward: a positive interval plus both timestamps.
func (r *Reminder) IsRepeating() bool {
	return r.RepeatIntervalMinutes > 0 && !r.NotifyAt.IsZero() && !r.DueDate.IsZero()
}

// RepeatInterval converts the interval to a Duration, saturating at the
// largest representable value instead of overflowing.
func (r *Reminder) RepeatInterval() time.Duration {
	if r.RepeatIntervalMinutes >= maxIntervalMinutes {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(r.RepeatIntervalMinutes * float64(time.Minute))
}

// ClaimKey identifies a single occurrence of the reminder.
func (r *Reminder) ClaimKey() string {
	return r.Path + "@" + r.NotifyAt.UTC().Format(time.RFC3339Nano)
}

package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

// memoryReminders applies transitions to an in-memory store so tests can
// assert on the state a sweep leaves behind.
type memoryReminders struct {
	mu        sync.Mutex
	reminders map[string]*domain.Reminder
	sentAt    map[string]time.Time
}

func newMemoryReminders(reminders ...*domain.Reminder) *memoryReminders {
	m := &memoryReminders{
		reminders: make(map[string]*domain.Reminder, len(reminders)),
		sentAt:    make(map[string]time.Time),
	}
	for _, r := range reminders {
		stored := *r
		m.reminders[r.Path] = &stored
	}
	return m
}

func (m *memoryReminders) FindDue(_ context.Context, start, end time.Time) ([]*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	due := make([]*domain.Reminder, 0)
	for _, r := range m.reminders {
		if r.Sent || r.NotifyAt.Before(start) || r.NotifyAt.After(end) {
			continue
		}
		snapshot := *r
		due = append(due, &snapshot)
	}
	return due, nil
}

func (m *memoryReminders) Reschedule(_ context.Context, r *domain.Reminder, next time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.reminders[r.Path]
	if !ok {
		return domain.ErrReminderNotFound
	}
	stored.NotifyAt = next
	return nil
}

func (m *memoryReminders) MarkSent(_ context.Context, r *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.reminders[r.Path]
	if !ok {
		return domain.ErrReminderNotFound
	}
	stored.Sent = true
	m.sentAt[r.Path] = time.Now()
	return nil
}

func (m *memoryReminders) get(path string) domain.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.reminders[path]
}

type capturingRecorder struct {
	records []domain.SweepResultRecord
}

func (c *capturingRecorder) RecordSweep(_ context.Context, record domain.SweepResultRecord) error {
	c.records = append(c.records, record)
	return nil
}

func (c *capturingRecorder) Close() error {
	return nil
}

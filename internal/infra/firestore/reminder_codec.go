package firestore

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

const (
	fieldSent                  = "sent"
	fieldSentAt                = "sentAt"
	fieldNotifyAt              = "notifyAt"
	fieldUpdatedAt             = "updatedAt"
	fieldDueDate               = "dueDate"
	fieldRepeatIntervalMinutes = "repeatIntervalMinutes"
	fieldTitle                 = "title"
	fieldTaskID                = "taskId"
	fieldUserID                = "userId"

	documentsSegment = "/documents/"
)

// decodeReminder maps raw document fields onto a Reminder. Malformed optional
// fields are dropped and reported in issues rather than failing the decode,
// so the reminder still falls through to the finalize path.
func decodeReminder(path string, updateTime time.Time, data map[string]any) (*domain.Reminder, []error, error) {
	if data == nil {
		return nil, nil, fmt.Errorf("%w: %s has no data", ErrInvalidReminderData, path)
	}

	var issues []error

	reminder := &domain.Reminder{
		Path:       path,
		UserID:     stringField(data, fieldUserID),
		TaskID:     stringField(data, fieldTaskID),
		Title:      optionalStringField(data, fieldTitle),
		UpdateTime: updateTime,
	}

	if sent, ok := data[fieldSent].(bool); ok {
		reminder.Sent = sent
	}

	if raw, ok := data[fieldNotifyAt]; ok {
		notifyAt, err := domain.NormalizeTime(raw)
		if err != nil {
			issues = append(issues, fmt.Errorf("%s: %w", fieldNotifyAt, err))
		} else {
			reminder.NotifyAt = notifyAt
		}
	}

	if raw, ok := data[fieldDueDate]; ok && raw != nil {
		dueDate, err := domain.NormalizeTime(raw)
		if err != nil {
			issues = append(issues, fmt.Errorf("%s: %w", fieldDueDate, err))
		} else {
			reminder.DueDate = dueDate
		}
	}

	if raw, ok := data[fieldRepeatIntervalMinutes]; ok && raw != nil {
		interval, err := numberField(raw)
		if err != nil {
			issues = append(issues, fmt.Errorf("%s: %w", fieldRepeatIntervalMinutes, err))
		} else {
			reminder.RepeatIntervalMinutes = interval
		}
	}

	return reminder, issues, nil
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func optionalStringField(data map[string]any, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func numberField(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidReminderData, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite number", ErrInvalidReminderData)
	}
	return f, nil
}

// relativePath strips the "projects/{p}/databases/{d}/documents/" prefix.
func relativePath(fullPath string) string {
	if i := strings.Index(fullPath, documentsSegment); i >= 0 {
		return fullPath[i+len(documentsSegment):]
	}
	return fullPath
}

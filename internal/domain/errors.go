package domain

import "errors"

var (
	ErrMissingOwner      = errors.New("reminder has no owner")
	ErrInvalidTimestamp  = errors.New("invalid timestamp value")
	ErrReminderConflict  = errors.New("reminder was modified concurrently")
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrMissingEventOwner = errors.New("notification event has no owner")
)

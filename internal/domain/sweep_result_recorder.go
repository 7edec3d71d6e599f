package domain

import (
	"context"
	"time"
)

type SweepResultRecord struct {
	RunID          string
	WindowStart    time.Time
	WindowEnd      time.Time
	MatchedCount   int
	DeliveredCount int
	Rescheduled    int
	Clamped        int
	Finalized      int
	SkippedCount   int
	ConflictCount  int
	FailedCount    int
	TokensSent     int
	TokensFailed   int
	Duration       time.Duration
}

type SweepResultRecorder interface {
	RecordSweep(ctx context.Context, record SweepResultRecord) error
	Close() error
}

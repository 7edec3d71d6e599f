//go:build gcloud

package sweeprecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt     time.Time `bigquery:"recorded_at"`
	RunID          string    `bigquery:"run_id"`
	WindowStart    time.Time `bigquery:"window_start"`
	WindowEnd      time.Time `bigquery:"window_end"`
	MatchedCount   int64     `bigquery:"matched_count"`
	DeliveredCount int64     `bigquery:"delivered_count"`
	Rescheduled    int64     `bigquery:"rescheduled"`
	Clamped        int64     `bigquery:"clamped"`
	Finalized      int64     `bigquery:"finalized"`
	SkippedCount   int64     `bigquery:"skipped_count"`
	ConflictCount  int64     `bigquery:"conflict_count"`
	FailedCount    int64     `bigquery:"failed_count"`
	TokensSent     int64     `bigquery:"tokens_sent"`
	TokensFailed   int64     `bigquery:"tokens_failed"`
	DurationMS     int64     `bigquery:"duration_ms"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SweepResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "sweep result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, sweep result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, sweep result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "sweep result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordSweep(ctx context.Context, record domain.SweepResultRecord) error {
	row := &bigQueryRecord{
		RecordedAt:     time.Now(),
		RunID:          record.RunID,
		WindowStart:    record.WindowStart,
		WindowEnd:      record.WindowEnd,
		MatchedCount:   int64(record.MatchedCount),
		DeliveredCount: int64(record.DeliveredCount),
		Rescheduled:    int64(record.Rescheduled),
		Clamped:        int64(record.Clamped),
		Finalized:      int64(record.Finalized),
		SkippedCount:   int64(record.SkippedCount),
		ConflictCount:  int64(record.ConflictCount),
		FailedCount:    int64(record.FailedCount),
		TokensSent:     int64(record.TokensSent),
		TokensFailed:   int64(record.TokensFailed),
		DurationMS:     record.Duration.Milliseconds(),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert sweep result to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

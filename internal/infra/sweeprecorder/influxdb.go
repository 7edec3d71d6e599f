//go:build !gcloud

package sweeprecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

const sweepMeasurement = "reminder_sweep"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SweepResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "sweep result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, sweep result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "sweep result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
	}, nil
}

func (r *influxDBRecorder) RecordSweep(ctx context.Context, record domain.SweepResultRecord) error {
	if err := r.writeAPI.WritePoint(ctx, newSweepPoint(record, time.Now())); err != nil {
		slog.WarnContext(ctx, "failed to write sweep result to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}

	return nil
}

func newSweepPoint(record domain.SweepResultRecord, at time.Time) *write.Point {
	return influxdb2.NewPoint(
		sweepMeasurement,
		map[string]string{
			"run_id": record.RunID,
		},
		map[string]any{
			"window_start":    record.WindowStart.Unix(),
			"window_end":      record.WindowEnd.Unix(),
			"matched_count":   record.MatchedCount,
			"delivered_count": record.DeliveredCount,
			"rescheduled":     record.Rescheduled,
			"clamped":         record.Clamped,
			"finalized":       record.Finalized,
			"skipped_count":   record.SkippedCount,
			"conflict_count":  record.ConflictCount,
			"failed_count":    record.FailedCount,
			"tokens_sent":     record.TokensSent,
			"tokens_failed":   record.TokensFailed,
			"duration_ms":     record.Duration.Milliseconds(),
		},
		at,
	)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}

package sweep

import (
	"time"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

type Outcome string

const (
	OutcomeRescheduled Outcome = "rescheduled"
	OutcomeClamped     Outcome = "clamped"
	OutcomeFinalized   Outcome = "finalized"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeConflict    Outcome = "conflict"
	OutcomeFailed      Outcome = "failed"
)

func (o Outcome) String() string {
	return string(o)
}

const (
	skipReasonMissingOwner = "missing owner"
	skipReasonNoTokens     = "no device tokens"
	skipReasonClaimed      = "already claimed"
	skipReasonDeleted      = "reminder deleted"
)

type ResultItem struct {
	ReminderPath string                `json:"reminder_path"`
	UserID       string                `json:"user_id,omitempty"`
	TaskID       string                `json:"task_id,omitempty"`
	NotifyAt     time.Time             `json:"notify_at"`
	Outcome      Outcome               `json:"outcome"`
	Transition   domain.TransitionKind `json:"transition,omitempty"`
	NextNotifyAt *time.Time            `json:"next_notify_at,omitempty"`
	Delivered    bool                  `json:"delivered"`
	TokenCount   int                   `json:"token_count"`
	SuccessCount int                   `json:"success_count"`
	FailureCount int                   `json:"failure_count"`
	SkipReason   string                `json:"skip_reason,omitempty"`
	Error        string                `json:"error,omitempty"`
}

type Response struct {
	RunID            string       `json:"run_id"`
	WindowStart      time.Time    `json:"window_start"`
	WindowEnd        time.Time    `json:"window_end"`
	MatchedCount     int          `json:"matched_count"`
	ProcessedCount   int          `json:"processed_count"`
	DeliveredCount   int          `json:"delivered_count"`
	RescheduledCount int          `json:"rescheduled_count"`
	ClampedCount     int          `json:"clamped_count"`
	FinalizedCount   int          `json:"finalized_count"`
	SkippedCount     int          `json:"skipped_count"`
	ConflictCount    int          `json:"conflict_count"`
	FailedCount      int          `json:"failed_count"`
	TokensSent       int          `json:"tokens_sent"`
	TokensFailed     int          `json:"tokens_failed"`
	Results          []ResultItem `json:"results"`
}

func (r *Response) add(item ResultItem) {
	r.Results = append(r.Results, item)
	r.ProcessedCount++
	r.TokensSent += item.SuccessCount
	r.TokensFailed += item.FailureCount
	if item.Delivered {
		r.DeliveredCount++
	}

	switch item.Outcome {
	case OutcomeRescheduled:
		r.RescheduledCount++
	case OutcomeClamped:
		r.ClampedCount++
	case OutcomeFinalized:
		r.FinalizedCount++
	case OutcomeSkipped:
		r.SkippedCount++
	case OutcomeConflict:
		r.ConflictCount++
	case OutcomeFailed:
		r.FailedCount++
	}
}

func (r *Response) record(duration time.Duration) domain.SweepResultRecord {
	return domain.SweepResultRecord{
		RunID:          r.RunID,
		WindowStart:    r.WindowStart,
		WindowEnd:      r.WindowEnd,
		MatchedCount:   r.MatchedCount,
		DeliveredCount: r.DeliveredCount,
		Rescheduled:    r.RescheduledCount,
		Clamped:        r.ClampedCount,
		Finalized:      r.FinalizedCount,
		SkippedCount:   r.SkippedCount,
		ConflictCount:  r.ConflictCount,
		FailedCount:    r.FailedCount,
		TokensSent:     r.TokensSent,
		TokensFailed:   r.TokensFailed,
		Duration:       duration,
	}
}

package config

import (
	"os"
	"strconv"
	"time"
)

const (
	sweepLookaheadMinutesEnv = "SWEEP_LOOKAHEAD_MINUTES"
	sweepIntervalMinutesEnv  = "SWEEP_INTERVAL_MINUTES"
	sweepSchedulerEnabledEnv = "SWEEP_SCHEDULER_ENABLED"
	sweepConcurrencyEnv      = "SWEEP_CONCURRENCY"
	sweepCollectionEnv       = "SWEEP_REMINDERS_COLLECTION"

	defaultSweepLookaheadMinutes = 30
	defaultSweepIntervalMinutes  = 5
	defaultSweepConcurrency      = 1
	defaultSweepCollection       = "reminders"
)

type SweepConfig struct {
	LookaheadMinutes    int
	IntervalMinutes     int
	SchedulerEnabled    bool
	Concurrency         int
	RemindersCollection string
}

func LoadSweepConfig() *SweepConfig {
	lookahead := defaultSweepLookaheadMinutes
	if v := os.Getenv(sweepLookaheadMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			lookahead = parsed
		}
	}

	interval := defaultSweepIntervalMinutes
	if v := os.Getenv(sweepIntervalMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	concurrency := defaultSweepConcurrency
	if v := os.Getenv(sweepConcurrencyEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			concurrency = parsed
		}
	}

	collection := os.Getenv(sweepCollectionEnv)
	if collection == "" {
		collection = defaultSweepCollection
	}

	return &SweepConfig{
		LookaheadMinutes:    lookahead,
		IntervalMinutes:     interval,
		SchedulerEnabled:    os.Getenv(sweepSchedulerEnabledEnv) == "true",
		Concurrency:         concurrency,
		RemindersCollection: collection,
	}
}

func (c *SweepConfig) Lookahead() time.Duration {
	return time.Duration(c.LookaheadMinutes) * time.Minute
}

func (c *SweepConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

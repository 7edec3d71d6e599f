package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/sweep"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakeRunner) Run(_ context.Context, now time.Time) (*sweep.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, now)
	if f.err != nil {
		return nil, f.err
	}
	return &sweep.Response{RunID: "run"}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestTick(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		err  error
	}{
		{name: "success"},
		{name: "runner error is contained", err: errors.New("query failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.err}
			s := New(runner, 5*time.Minute)
			s.clock = func() time.Time { return fixed }

			s.tick(context.Background())

			if runner.callCount() != 1 || !runner.calls[0].Equal(fixed) {
				t.Errorf("expected one call at %v, got %v", fixed, runner.calls)
			}
		})
	}
}

func TestStart_InvalidInterval(t *testing.T) {
	s := New(&fakeRunner{}, 0)

	if err := s.Start(context.Background()); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestStartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	runner := &fakeRunner{}
	s := New(runner, time.Second)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for runner.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}

	if runner.callCount() == 0 {
		t.Error("expected at least one scheduled sweep")
	}
}

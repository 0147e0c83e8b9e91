package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeAborted   Outcome = "aborted"
)

// RunRecord describes one finished (or aborted) sort run.
type RunRecord struct {
	RunID     string
	Algorithm Algorithm
	Size      int
	Observed  bool

	// Steps counts step events delivered to the observer, excluding the
	// final Done event. Always zero in fast mode.
	Steps int64

	Duration  time.Duration
	Outcome   Outcome
	StartedAt time.Time
}

// TimingSink receives a RunRecord for every Run.
//
// Sink errors are logged by the engine and never fail the sort.
// Implementations shared between engines must be safe for concurrent use.
type TimingSink interface {
	RecordRun(ctx context.Context, rec RunRecord) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordRun implements TimingSink.
func (NopSink) RecordRun(context.Context, RunRecord) error { return nil }

// LogSink writes each record to a structured logger at Info level.
type LogSink struct {
	Logger *slog.Logger
}

// RecordRun implements TimingSink.
func (s LogSink) RecordRun(ctx context.Context, rec RunRecord) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "sort run finished",
		"run_id", rec.RunID,
		"algorithm", rec.Algorithm,
		"size", rec.Size,
		"observed", rec.Observed,
		"steps", rec.Steps,
		"duration", rec.Duration,
		"outcome", rec.Outcome,
	)
	return nil
}

// MultiSink fans a record out to several sinks and joins their errors.
type MultiSink []TimingSink

// RecordRun implements TimingSink.
func (m MultiSink) RecordRun(ctx context.Context, rec RunRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordRun(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// measure runs fn between a start and stop reading of the clock.
func measure(now func() time.Time, fn func() error) (time.Time, time.Duration, error) {
	start := now()
	err := fn()
	return start, now().Sub(start), err
}

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/sortviz/internal/engine"
)

// recorder is the scenario observer. It keeps every callback with a copy of
// the sequence and stops the run at step abortAfter.
type recorder struct {
	result     *Result
	abortAfter int64
}

func (r *recorder) Observe(view engine.View, ev engine.Event) error {
	r.result.Trace = append(r.result.Trace, TraceEvent{
		Seq:        ev.Seq,
		Snapshot:   view.Values(),
		Highlights: slices.Clone(ev.Highlights),
		Done:       ev.Done,
	})
	if r.abortAfter > 0 && !ev.Done && ev.Seq == r.abortAfter {
		return engine.ErrStop
	}
	return nil
}

// recordSink keeps the last run record.
type recordSink struct {
	rec engine.RunRecord
}

func (s *recordSink) RecordRun(_ context.Context, rec engine.RunRecord) error {
	s.rec = rec
	return nil
}

// Run executes a scenario against a fresh engine and returns the result.
//
// Execution flow:
//  1. Build the engine from the scenario input (or size and seed)
//  2. Run the algorithm, recording every observer callback
//  3. Apply built-in checks, then the scenario's expect block
//
// A run stopped by abort_after is a normal outcome. Any other engine error
// is returned as an error.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	alg, err := engine.ParseAlgorithm(scenario.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}

	result := NewResult()
	result.Algorithm = alg
	rec := &recorder{result: result, abortAfter: scenario.AbortAfter}
	sink := &recordSink{}

	opts := []engine.Option{
		engine.WithObserver(rec),
		engine.WithSink(sink),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in scenarios
	}

	var e *engine.Engine
	if len(scenario.Input) > 0 {
		e = engine.NewFromValues(scenario.Input, scenario.Observed(), opts...)
	} else {
		opts = append(opts, engine.WithSeed(scenario.Seed))
		e, err = engine.New(scenario.Size, scenario.Observed(), opts...)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}
	result.Input = e.Snapshot().Sequence

	if err := e.Run(ctx, alg); err != nil {
		if !engine.IsAborted(err) || !errors.Is(err, engine.ErrStop) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Aborted = true
	}

	st := e.Snapshot()
	result.Final = st.Sequence
	result.Sorted = st.Sorted
	result.Record = sink.rec
	result.Steps = sink.rec.Steps

	for _, msg := range CheckInvariants(result) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateExpectations(scenario.Expect, result) {
		result.AddError(msg)
	}

	return result, nil
}

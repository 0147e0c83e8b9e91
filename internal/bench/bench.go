// Package bench times every algorithm over a grid of sizes in fast mode.
//
// Jobs run in parallel, one engine per job, bounded by Runner.Concurrency.
// Every algorithm sees the same input for a given size and repetition, and
// every result is checked to be a sorted permutation of that input.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/sortviz/internal/engine"
	"github.com/roach88/sortviz/internal/sorting"
)

// InvalidResultError reports an algorithm whose output was not a sorted
// permutation of its input.
type InvalidResultError struct {
	Algorithm engine.Algorithm
	Size      int
	RunID     string
}

// Error implements the error interface.
func (e *InvalidResultError) Error() string {
	return fmt.Sprintf("%s produced an invalid result for size %d (run %s)", e.Algorithm, e.Size, e.RunID)
}

// IsInvalidResult returns true if err is (or wraps) an *InvalidResultError.
func IsInvalidResult(err error) bool {
	var ie *InvalidResultError
	return errors.As(err, &ie)
}

// Result is one timed run.
type Result struct {
	Algorithm engine.Algorithm `json:"algorithm"`
	Size      int              `json:"size"`
	Repeat    int              `json:"repeat"`
	RunID     string           `json:"run_id"`
	Duration  time.Duration    `json:"duration_ns"`
}

// Summary aggregates the repetitions of one algorithm at one size.
type Summary struct {
	Algorithm engine.Algorithm `json:"algorithm"`
	Size      int              `json:"size"`
	Runs      int              `json:"runs"`
	Min       time.Duration    `json:"min_ns"`
	Mean      time.Duration    `json:"mean_ns"`
	Max       time.Duration    `json:"max_ns"`
}

// Runner configures a benchmark. The zero value benchmarks nothing; set
// Sizes at least.
type Runner struct {
	Sizes      []int
	Algorithms []engine.Algorithm // default: engine.Algorithms()
	Repeat     int                // default: 1
	Seed       uint64

	// Concurrency bounds parallel jobs. Default: GOMAXPROCS.
	Concurrency int

	// Sink receives every run record in addition to the runner. Must be safe
	// for concurrent use.
	Sink engine.TimingSink

	// RunIDs names the runs. Default: UUIDv7. Must be safe for concurrent use.
	RunIDs engine.RunIDGenerator

	Logger *slog.Logger
}

type job struct {
	alg    engine.Algorithm
	size   int
	repeat int
	seed   uint64
}

// captureSink keeps the record of a single run.
type captureSink struct {
	rec engine.RunRecord
}

func (c *captureSink) RecordRun(_ context.Context, rec engine.RunRecord) error {
	c.rec = rec
	return nil
}

// Run executes all jobs and returns their results ordered by size, then
// algorithm, then repetition. The first failure cancels the remaining jobs.
func (r Runner) Run(ctx context.Context) ([]Result, error) {
	jobs, err := r.jobs()
	if err != nil {
		return nil, err
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.runJob(gctx, j, logger)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("benchmark finished", "runs", len(results), "concurrency", limit)
	return results, nil
}

func (r Runner) jobs() ([]job, error) {
	algs := r.Algorithms
	if len(algs) == 0 {
		algs = engine.Algorithms()
	}
	for _, alg := range algs {
		if !alg.Valid() {
			return nil, engine.NewUnknownAlgorithmError(string(alg))
		}
	}
	for _, size := range r.Sizes {
		if size <= 0 {
			return nil, engine.NewInvalidSizeError(size)
		}
	}
	repeat := max(r.Repeat, 1)

	var jobs []job
	for si, size := range r.Sizes {
		for _, alg := range algs {
			for rep := 0; rep < repeat; rep++ {
				jobs = append(jobs, job{
					alg:    alg,
					size:   size,
					repeat: rep,
					seed:   r.Seed + uint64(si*repeat+rep),
				})
			}
		}
	}
	return jobs, nil
}

func (r Runner) runJob(ctx context.Context, j job, logger *slog.Logger) (Result, error) {
	capture := &captureSink{}
	var sink engine.TimingSink = capture
	if r.Sink != nil {
		sink = engine.MultiSink{capture, r.Sink}
	}

	opts := []engine.Option{
		engine.WithSeed(j.seed),
		engine.WithSink(sink),
		engine.WithLogger(logger),
	}
	if r.RunIDs != nil {
		opts = append(opts, engine.WithRunIDGenerator(r.RunIDs))
	}

	e, err := engine.New(j.size, false, opts...)
	if err != nil {
		return Result{}, err
	}
	input := e.Snapshot().Sequence

	if err := e.Run(ctx, j.alg); err != nil {
		return Result{}, fmt.Errorf("bench %s size %d: %w", j.alg, j.size, err)
	}
	if !sorting.IsValidSort(input, e.Snapshot().Sequence) {
		return Result{}, &InvalidResultError{Algorithm: j.alg, Size: j.size, RunID: capture.rec.RunID}
	}

	return Result{
		Algorithm: j.alg,
		Size:      j.size,
		Repeat:    j.repeat,
		RunID:     capture.rec.RunID,
		Duration:  capture.rec.Duration,
	}, nil
}

// Summarize groups results by (algorithm, size), preserving first-seen order.
func Summarize(results []Result) []Summary {
	type key struct {
		alg  engine.Algorithm
		size int
	}
	var order []key
	groups := make(map[key][]time.Duration)
	for _, res := range results {
		k := key{res.Algorithm, res.Size}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], res.Duration)
	}

	summaries := make([]Summary, 0, len(order))
	for _, k := range order {
		ds := groups[k]
		var total time.Duration
		for _, d := range ds {
			total += d
		}
		summaries = append(summaries, Summary{
			Algorithm: k.alg,
			Size:      k.size,
			Runs:      len(ds),
			Min:       slices.Min(ds),
			Mean:      total / time.Duration(len(ds)),
			Max:       slices.Max(ds),
		})
	}
	return summaries
}

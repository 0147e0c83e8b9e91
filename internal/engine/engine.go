package engine

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/roach88/sortviz/internal/sorting"
)

// Controller is the capability surface a presentation layer needs.
// Renderers hold a Controller; they never embed or extend the Engine.
type Controller interface {
	Regenerate(size int) error
	Run(ctx context.Context, alg Algorithm) error
	IsSorted() bool
	Snapshot() State
}

// Engine owns a sequence and runs sorting algorithms over it.
//
// Thread-safety model:
//   - No method is safe for concurrent use; one Engine serves one session.
//   - Observer callbacks run on the goroutine that called Run.
//   - The TimingSink may be shared between engines if it is itself safe.
type Engine struct {
	state    State
	observer Observer
	sink     TimingSink
	runIDs   RunIDGenerator
	rng      *rand.Rand
	logger   *slog.Logger
	now      func() time.Time
}

var _ Controller = (*Engine)(nil)

// Option allows configuration of engine collaborators.
type Option func(*Engine)

// WithObserver sets the observer used in observed mode.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithSink sets the timing sink. Default: NopSink.
func WithSink(s TimingSink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithRunIDGenerator sets the run id generator. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.runIDs = g
		}
	}
}

// WithRand sets the random source used by Initialize and Regenerate.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds the random source so generated sequences are reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)))
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the wall clock used for run timing. Tests only.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		sink:   NopSink{},
		runIDs: UUIDv7Generator{},
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New creates an Engine holding a random sequence of size distinct values from
// [0, 4*size). observe selects observed mode for every subsequent Run.
//
// Returns an INVALID_SIZE RuntimeError if size <= 0.
func New(size int, observe bool, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	st, err := Initialize(size, observe, e.rng)
	if err != nil {
		return nil, err
	}
	e.state = st
	e.logger.Debug("engine initialized", "size", size, "observe", observe)
	return e, nil
}

// NewFromValues creates an Engine over a copy of values. Any length, including
// zero, is accepted; Sorted starts false.
func NewFromValues(values []int, observe bool, opts ...Option) *Engine {
	e := newEngine(opts)
	e.state = State{Sequence: slices.Clone(values), Observe: observe}
	if e.state.Sequence == nil {
		e.state.Sequence = []int{}
	}
	return e
}

// SetObserver replaces the observer. A renderer that is built around the
// engine registers itself here.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// SetObserve switches between observed and fast mode for later runs.
func (e *Engine) SetObserve(observe bool) {
	e.state.Observe = observe
}

// Regenerate replaces the sequence with a fresh sample of the given size,
// keeping the observe setting. On error the current state is unchanged.
func (e *Engine) Regenerate(size int) error {
	st, err := Initialize(size, e.state.Observe, e.rng)
	if err != nil {
		return err
	}
	e.state = st
	e.logger.Debug("sequence regenerated", "size", size)
	return nil
}

// IsSorted reports the advisory sorted flag.
func (e *Engine) IsSorted() bool {
	return e.state.Sorted
}

// Len returns the current sequence length.
func (e *Engine) Len() int {
	return e.state.Len()
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() State {
	return e.state.Clone()
}

// Run sorts the sequence in place with alg.
//
// In observed mode the observer is called after every step and once more with
// Done set after the sort completes. In fast mode it is never called.
//
// Returns an UNKNOWN_ALGORITHM error for an unsupported alg (state untouched)
// and an ABORTED error if the observer or ctx stopped the sort. A zero-length
// sequence is a no-op that marks the state sorted.
func (e *Engine) Run(ctx context.Context, alg Algorithm) error {
	sortFn, ok := algorithmFuncs[alg]
	if !ok {
		return NewUnknownAlgorithmError(string(alg))
	}

	e.state.Sorted = false
	rec := RunRecord{
		RunID:     e.runIDs.Generate(),
		Algorithm: alg,
		Size:      e.state.Len(),
		Observed:  e.observing(),
	}

	var seq int64
	var emit sorting.Emit
	if rec.Observed {
		emit = e.emitter(ctx, alg, rec.RunID, &seq)
	}

	start, elapsed, err := measure(e.now, func() error {
		return sortFn(e.state.Sequence, compareInts, emit)
	})
	rec.StartedAt = start
	rec.Duration = elapsed
	rec.Steps = seq

	if err != nil {
		rec.Outcome = OutcomeAborted
		e.report(ctx, rec)
		e.logger.Info("sort aborted", "algorithm", alg, "steps", seq, "error", err)
		return NewAbortedError(alg, rec.Size, seq, err)
	}

	e.state.Sorted = true
	rec.Outcome = OutcomeCompleted
	e.report(ctx, rec)

	if rec.Observed {
		seq++
		done := Event{RunID: rec.RunID, Seq: seq, Algorithm: alg, Done: true}
		if err := e.observer.Observe(View{data: e.state.Sequence}, done); err != nil {
			// The sort already finished; a failing final frame changes nothing.
			e.logger.Debug("observer rejected done event", "error", err)
		}
	}
	return nil
}

func (e *Engine) observing() bool {
	return e.state.Observe && e.observer != nil
}

// emitter builds the per-run observation closure. It is the only place the
// engine pays for instrumentation.
func (e *Engine) emitter(ctx context.Context, alg Algorithm, runID string, seq *int64) sorting.Emit {
	view := View{data: e.state.Sequence}
	return func(highlights ...sorting.Highlight) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		*seq++
		return e.observer.Observe(view, Event{
			RunID:      runID,
			Seq:        *seq,
			Algorithm:  alg,
			Highlights: highlights,
		})
	}
}

// report hands rec to the sink. Sink failures are logged, not returned.
func (e *Engine) report(ctx context.Context, rec RunRecord) {
	if err := e.sink.RecordRun(context.WithoutCancel(ctx), rec); err != nil {
		e.logger.Warn("timing sink failed", "run_id", rec.RunID, "error", err)
	}
}

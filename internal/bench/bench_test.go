package bench

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/sortviz/internal/engine"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// lockedSink collects records from concurrent runs.
type lockedSink struct {
	mu      sync.Mutex
	records []engine.RunRecord
}

func (s *lockedSink) RecordRun(_ context.Context, rec engine.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func TestRunner_AllAlgorithms(t *testing.T) {
	sink := &lockedSink{}
	r := Runner{
		Sizes:       []int{16, 200},
		Repeat:      2,
		Seed:        5,
		Concurrency: 3,
		Sink:        sink,
	}

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2*5*2)

	i := 0
	for _, size := range []int{16, 200} {
		for _, alg := range engine.Algorithms() {
			for rep := 0; rep < 2; rep++ {
				assert.Equal(t, alg, results[i].Algorithm)
				assert.Equal(t, size, results[i].Size)
				assert.Equal(t, rep, results[i].Repeat)
				assert.NotEmpty(t, results[i].RunID)
				i++
			}
		}
	}

	require.Len(t, sink.records, 20)
	for _, rec := range sink.records {
		assert.Equal(t, engine.OutcomeCompleted, rec.Outcome)
		assert.False(t, rec.Observed)
		assert.Zero(t, rec.Steps)
	}
}

func TestRunner_Validation(t *testing.T) {
	_, err := Runner{Sizes: []int{8}, Algorithms: []engine.Algorithm{"bogo"}}.Run(context.Background())
	assert.True(t, engine.IsUnknownAlgorithmError(err))

	_, err = Runner{Sizes: []int{8, 0}}.Run(context.Background())
	assert.True(t, engine.IsInvalidSizeError(err))

	results, err := Runner{}.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Runner{Sizes: []int{64, 128}, Concurrency: 1}.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Algorithm: engine.Quick, Size: 8, Duration: 30 * time.Microsecond},
		{Algorithm: engine.Quick, Size: 8, Duration: 10 * time.Microsecond},
		{Algorithm: engine.Heap, Size: 8, Duration: 7 * time.Microsecond},
		{Algorithm: engine.Quick, Size: 8, Duration: 20 * time.Microsecond},
	}

	got := Summarize(results)
	assert.Equal(t, []Summary{
		{Algorithm: engine.Quick, Size: 8, Runs: 3, Min: 10 * time.Microsecond, Mean: 20 * time.Microsecond, Max: 30 * time.Microsecond},
		{Algorithm: engine.Heap, Size: 8, Runs: 1, Min: 7 * time.Microsecond, Mean: 7 * time.Microsecond, Max: 7 * time.Microsecond},
	}, got)

	assert.Empty(t, Summarize(nil))
}

func TestInvalidResultError(t *testing.T) {
	err := &InvalidResultError{Algorithm: engine.Merge, Size: 4, RunID: "run-1"}
	assert.Equal(t, "merge produced an invalid result for size 4 (run run-1)", err.Error())
	assert.True(t, IsInvalidResult(err))
	assert.False(t, IsInvalidResult(context.Canceled))
}

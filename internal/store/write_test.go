package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sortviz/internal/engine"
)

var testStart = time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)

func testRecord(id string, alg engine.Algorithm, size int, d time.Duration, outcome engine.Outcome) engine.RunRecord {
	return engine.RunRecord{
		RunID:     id,
		Algorithm: alg,
		Size:      size,
		Duration:  d,
		Outcome:   outcome,
		StartedAt: testStart,
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := engine.RunRecord{
		RunID:     "run-1",
		Algorithm: engine.Quick,
		Size:      256,
		Observed:  true,
		Steps:     1234,
		Duration:  1500 * time.Microsecond,
		Outcome:   engine.OutcomeAborted,
		StartedAt: testStart.In(time.FixedZone("CET", 3600)),
	}
	require.NoError(t, s.RecordRun(ctx, rec))

	got, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := rec
	want.StartedAt = testStart
	assert.Equal(t, want, got[0])
}

func TestRecordRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := testRecord("run-dup", engine.Heap, 8, time.Millisecond, engine.OutcomeCompleted)
	require.NoError(t, s.RecordRun(ctx, rec))

	rec.Duration = time.Hour
	require.NoError(t, s.RecordRun(ctx, rec), "duplicate id is silently ignored")

	got, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Millisecond, got[0].Duration, "first write wins")
}

func TestRecordRun_EmptyID(t *testing.T) {
	s := createTestStore(t)
	err := s.RecordRun(context.Background(), testRecord("", engine.Heap, 1, 0, engine.OutcomeCompleted))
	assert.Error(t, err)
}

func TestRecordRun_RejectsUnknownOutcome(t *testing.T) {
	s := createTestStore(t)
	err := s.RecordRun(context.Background(), testRecord("run-x", engine.Heap, 1, 0, engine.Outcome("exploded")))
	assert.Error(t, err)
}

func TestRecordRun_FromEngine(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	e, err := engine.New(64, false,
		engine.WithSeed(1),
		engine.WithSink(s),
		engine.WithRunIDGenerator(engine.NewFixedGenerator("run-a", "run-b")),
	)
	require.NoError(t, err)
	require.NoError(t, e.Run(ctx, engine.Merge))
	require.NoError(t, e.Regenerate(32))
	require.NoError(t, e.Run(ctx, engine.Insertion))

	got, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-a", got[0].RunID)
	assert.Equal(t, engine.Merge, got[0].Algorithm)
	assert.Equal(t, 64, got[0].Size)
	assert.Equal(t, "run-b", got[1].RunID)
	assert.Equal(t, 32, got[1].Size)
	assert.Equal(t, engine.OutcomeCompleted, got[1].Outcome)
}

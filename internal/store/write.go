package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/sortviz/internal/engine"
)

var _ engine.TimingSink = (*Store)(nil)

// timeLayout is the started_at column format. Fixed-width so that text order
// matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RecordRun inserts a run record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate run ids are
// silently ignored. Other constraint violations still return errors.
func (s *Store) RecordRun(ctx context.Context, rec engine.RunRecord) error {
	if rec.RunID == "" {
		return fmt.Errorf("record run: empty run id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, algorithm, size, observed, steps, duration_ns, outcome, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.RunID,
		string(rec.Algorithm),
		rec.Size,
		boolToInt(rec.Observed),
		rec.Steps,
		rec.Duration.Nanoseconds(),
		string(rec.Outcome),
		rec.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse started_at %q: %w", s, err)
	}
	return t, nil
}

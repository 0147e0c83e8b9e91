package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sortviz/internal/engine"
)

// RunFilter narrows ListRuns. Zero values mean "no restriction".
type RunFilter struct {
	Algorithm engine.Algorithm
	Size      int

	// Limit keeps only the most recent Limit runs. Zero returns all.
	Limit int
}

// Summary aggregates completed runs of one algorithm at one size.
type Summary struct {
	Algorithm engine.Algorithm
	Size      int
	Runs      int
	Min       time.Duration
	Avg       time.Duration
	Max       time.Duration
}

// ListRuns returns run records in insertion order (oldest first).
// With a Limit the newest Limit records are kept, still oldest first.
//
// Returns an empty slice (not nil) if no records match.
func (s *Store) ListRuns(ctx context.Context, f RunFilter) ([]engine.RunRecord, error) {
	var where []string
	var args []any
	if f.Algorithm != "" {
		where = append(where, "algorithm = ?")
		args = append(args, string(f.Algorithm))
	}
	if f.Size > 0 {
		where = append(where, "size = ?")
		args = append(args, f.Size)
	}

	query := `SELECT seq, id, algorithm, size, observed, steps, duration_ns, outcome, started_at FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	query = "SELECT id, algorithm, size, observed, steps, duration_ns, outcome, started_at FROM (" +
		query + ") ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := []engine.RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

func scanRun(rows *sql.Rows) (engine.RunRecord, error) {
	var (
		rec        engine.RunRecord
		algorithm  string
		observed   int
		durationNS int64
		outcome    string
		startedAt  string
	)
	if err := rows.Scan(&rec.RunID, &algorithm, &rec.Size, &observed, &rec.Steps, &durationNS, &outcome, &startedAt); err != nil {
		return engine.RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	started, err := parseTime(startedAt)
	if err != nil {
		return engine.RunRecord{}, err
	}
	rec.Algorithm = engine.Algorithm(algorithm)
	rec.Observed = observed == 1
	rec.Duration = time.Duration(durationNS)
	rec.Outcome = engine.Outcome(outcome)
	rec.StartedAt = started
	return rec, nil
}

// Summaries aggregates completed runs per (algorithm, size), ordered by
// algorithm then size. Aborted runs are excluded.
func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT algorithm, size, COUNT(*), MIN(duration_ns), CAST(AVG(duration_ns) AS INTEGER), MAX(duration_ns)
		FROM runs
		WHERE outcome = ?
		GROUP BY algorithm, size
		ORDER BY algorithm COLLATE BINARY ASC, size ASC
	`, string(engine.OutcomeCompleted))
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var (
			sum                 Summary
			algorithm           string
			minNS, avgNS, maxNS int64
		)
		if err := rows.Scan(&algorithm, &sum.Size, &sum.Runs, &minNS, &avgNS, &maxNS); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.Algorithm = engine.Algorithm(algorithm)
		sum.Min = time.Duration(minNS)
		sum.Avg = time.Duration(avgNS)
		sum.Max = time.Duration(maxNS)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return summaries, nil
}

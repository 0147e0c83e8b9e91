// Package store provides SQLite-backed run history for sortviz.
//
// Every engine run produces one RunRecord. The store keeps them in an
// append-only runs table and answers two questions: what ran recently, and how
// fast each algorithm is at each size.
//
// # Critical Patterns
//
// Idempotent Writes:
//   - run id is UNIQUE; RecordRun uses ON CONFLICT(id) DO NOTHING
//   - replaying the same record is harmless
//
// Deterministic Ordering:
//   - listing orders by seq INTEGER (insertion order), NEVER by started_at
//   - summaries order by algorithm, then size
//
// # Database Configuration
//
//   - WAL mode: history can be read while another command records runs
//   - busy_timeout=5000: a second writer waits up to 5 seconds
//   - user_version holds SchemaVersion; newer files are refused
//
// Store implements engine.TimingSink, so it can be handed directly to
// engine.WithSink.
package store

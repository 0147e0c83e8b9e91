package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/sortviz/internal/engine"
	"github.com/roach88/sortviz/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath    string
	Algorithm string
	Size      int
	Limit     int
	Summary   bool
}

// HistoryRun is one stored run as shown by the history command.
type HistoryRun struct {
	RunID      string           `json:"run_id"`
	Algorithm  engine.Algorithm `json:"algorithm"`
	Size       int              `json:"size"`
	Observed   bool             `json:"observed"`
	Steps      int64            `json:"steps"`
	DurationNS int64            `json:"duration_ns"`
	Outcome    engine.Outcome   `json:"outcome"`
	StartedAt  string           `json:"started_at"`
}

// HistorySummary is one (algorithm, size) aggregate.
type HistorySummary struct {
	Algorithm engine.Algorithm `json:"algorithm"`
	Size      int              `json:"size"`
	Runs      int              `json:"runs"`
	MinNS     int64            `json:"min_ns"`
	AvgNS     int64            `json:"avg_ns"`
	MaxNS     int64            `json:"max_ns"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs from the history database",
		Long: `List runs recorded by run, animate and bench, newest last.

With --summary, show min/avg/max durations of completed runs per algorithm
and size instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database path (default from config)")
	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "only runs of this algorithm")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "only runs of this size")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "most recent runs to show (0 for all)")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "aggregate completed runs")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cfg := opts.config()
	out := opts.formatter(cmd)

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = cfg.Database
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, "no database: pass --db or set database in the config file")
	}

	filter := store.RunFilter{Size: opts.Size, Limit: opts.Limit}
	if opts.Algorithm != "" {
		alg, err := engine.ParseAlgorithm(opts.Algorithm)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid algorithm", err)
		}
		filter.Algorithm = alg
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d: must be >= 0", opts.Limit))
	}

	st, err := opts.openStore(dbPath)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	ctx := cmd.Context()
	p := message.NewPrinter(language.English)

	if opts.Summary {
		sums, err := st.Summaries(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read summaries", err)
		}
		rows := make([]HistorySummary, 0, len(sums))
		for _, s := range sums {
			rows = append(rows, HistorySummary{
				Algorithm: s.Algorithm,
				Size:      s.Size,
				Runs:      s.Runs,
				MinNS:     s.Min.Nanoseconds(),
				AvgNS:     s.Avg.Nanoseconds(),
				MaxNS:     s.Max.Nanoseconds(),
			})
		}
		return out.Success(rows, func(w io.Writer) {
			if len(rows) == 0 {
				fmt.Fprintln(w, "No completed runs recorded.")
				return
			}
			p.Fprintf(w, "%-10s %8s %5s %14s %14s %14s\n", "ALGORITHM", "SIZE", "RUNS", "MIN (ns)", "AVG (ns)", "MAX (ns)")
			for _, r := range rows {
				p.Fprintf(w, "%-10s %8d %5d %14d %14d %14d\n", r.Algorithm, r.Size, r.Runs, r.MinNS, r.AvgNS, r.MaxNS)
			}
		})
	}

	recs, err := st.ListRuns(ctx, filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}
	runs := make([]HistoryRun, 0, len(recs))
	for _, rec := range recs {
		runs = append(runs, HistoryRun{
			RunID:      rec.RunID,
			Algorithm:  rec.Algorithm,
			Size:       rec.Size,
			Observed:   rec.Observed,
			Steps:      rec.Steps,
			DurationNS: rec.Duration.Nanoseconds(),
			Outcome:    rec.Outcome,
			StartedAt:  rec.StartedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	return out.Success(runs, func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return
		}
		p.Fprintf(w, "%-24s %-10s %8s %-9s %10s %14s  %s\n", "STARTED", "ALGORITHM", "SIZE", "OUTCOME", "STEPS", "DURATION (ns)", "RUN")
		for _, r := range runs {
			p.Fprintf(w, "%-24s %-10s %8d %-9s %10d %14d  %s\n",
				r.StartedAt, r.Algorithm, r.Size, r.Outcome, r.Steps, r.DurationNS, r.RunID)
		}
	})
}

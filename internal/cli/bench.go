package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/sortviz/internal/bench"
	"github.com/roach88/sortviz/internal/engine"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	*RootOptions
	Sizes       []int
	Algorithms  []string
	Repeat      int
	Concurrency int
	Seed        uint64
	DBPath      string
	Runs        bool
}

// BenchReport is the bench command's output.
type BenchReport struct {
	Summaries []bench.Summary `json:"summaries"`
	Results   []bench.Result  `json:"results,omitempty"`
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time algorithms in fast mode across sizes",
		Long: `Time every algorithm (or --algorithms) at every size (or --sizes) with
observation disabled. At each size all algorithms sort the same inputs.

Exit codes:
  0 - all runs sorted correctly
  1 - a run produced an unsorted result, or was interrupted
  2 - invalid flags, config or database error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	cmd.Flags().IntSliceVar(&opts.Sizes, "sizes", nil, "sequence lengths (default from config)")
	cmd.Flags().StringSliceVar(&opts.Algorithms, "algorithms", nil, "algorithms to time (default all)")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 3, "runs per algorithm and size")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "parallel runs (default GOMAXPROCS)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record runs in this SQLite database (default from config)")
	cmd.Flags().BoolVar(&opts.Runs, "runs", false, "include individual runs in the output")

	return cmd
}

func runBench(cmd *cobra.Command, opts *BenchOptions) error {
	cfg := opts.config()
	logger := opts.logger()
	out := opts.formatter(cmd)

	sizes := opts.Sizes
	if len(sizes) == 0 {
		sizes = cfg.Sizes
	}
	var algs []engine.Algorithm
	for _, name := range opts.Algorithms {
		alg, err := engine.ParseAlgorithm(name)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid algorithm", err)
		}
		algs = append(algs, alg)
	}
	if opts.Repeat < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid repeat %d: must be >= 1", opts.Repeat))
	}
	seed := opts.Seed
	if !cmd.Flags().Changed("seed") {
		seed = cfg.Seed
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = cfg.Database
	}
	st, err := opts.openStore(dbPath)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	runner := bench.Runner{
		Sizes:       sizes,
		Algorithms:  algs,
		Repeat:      opts.Repeat,
		Seed:        seed,
		Concurrency: opts.Concurrency,
		Logger:      logger,
	}
	if st != nil {
		runner.Sink = st
	}

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	results, err := runner.Run(ctx)
	switch {
	case err == nil:
	case bench.IsInvalidResult(err):
		return WrapExitError(ExitFailure, "benchmark failed", err)
	case ctx.Err() != nil:
		return WrapExitError(ExitFailure, "benchmark interrupted", err)
	default:
		return WrapExitError(ExitCommandError, "benchmark failed", err)
	}

	report := BenchReport{Summaries: bench.Summarize(results)}
	if opts.Runs {
		report.Results = results
	}
	return out.Success(report, func(w io.Writer) {
		writeBenchTable(w, report)
	})
}

// writeBenchTable prints summaries with grouped digits, e.g. 1,234,567 ns.
func writeBenchTable(w io.Writer, report BenchReport) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%-10s %8s %5s %14s %14s %14s\n", "ALGORITHM", "SIZE", "RUNS", "MIN (ns)", "MEAN (ns)", "MAX (ns)")
	for _, s := range report.Summaries {
		p.Fprintf(w, "%-10s %8d %5d %14d %14d %14d\n",
			s.Algorithm, s.Size, s.Runs, int64(s.Min), int64(s.Mean), int64(s.Max))
	}
	for _, r := range report.Results {
		p.Fprintf(w, "  %s n=%d #%d %v (run %s)\n", r.Algorithm, r.Size, r.Repeat, r.Duration, r.RunID)
	}
}

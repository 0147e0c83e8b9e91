package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sortviz/internal/engine"
	"github.com/roach88/sortviz/internal/sorting"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Size    int
	Seed    uint64
	Input   []int
	Observe bool
	Print   bool
	DBPath  string
}

// RunSummary is the result of a single sort.
type RunSummary struct {
	RunID      string           `json:"run_id"`
	Algorithm  engine.Algorithm `json:"algorithm"`
	Size       int              `json:"size"`
	Observed   bool             `json:"observed"`
	Steps      int64            `json:"steps"`
	DurationNS int64            `json:"duration_ns"`
	Sorted     bool             `json:"sorted"`
	Input      []int            `json:"input,omitempty"`
	Final      []int            `json:"final,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Sort one sequence and report the timing",
		Long: `Sort a random sequence (or --input) with one algorithm.

Algorithms: selection, insertion, merge, quick, heap.

With --observe every step is printed as it happens:
  0001 [5 3 8] candidate=0 tracker=1

Exit codes:
  0 - sorted
  1 - aborted (e.g. interrupted)
  2 - invalid size, unknown algorithm, config or database error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Size, "size", "n", 0, "sequence length (default from config)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().IntSliceVar(&opts.Input, "input", nil, "explicit input sequence, e.g. 5,3,8")
	cmd.Flags().BoolVar(&opts.Observe, "observe", false, "print every step")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "include input and final sequences in the output")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this SQLite database (default from config)")

	return cmd
}

func runSort(cmd *cobra.Command, name string, opts *RunOptions) error {
	cfg := opts.config()
	logger := opts.logger()
	out := opts.formatter(cmd)

	alg, err := engine.ParseAlgorithm(name)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid algorithm", err)
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

	seed := opts.Seed
	if !cmd.Flags().Changed("seed") {
		seed = cfg.Seed
	}
	last := &lastRecord{}
	engineOpts := []engine.Option{
		engine.WithSink(engine.MultiSink{last, opts.timingSink(st)}),
		engine.WithLogger(logger),
	}
	if seed != 0 {
		engineOpts = append(engineOpts, engine.WithSeed(seed))
	}
	if opts.Observe {
		// Keep stdout a single JSON document.
		steps := cmd.OutOrStdout()
		if opts.Format == "json" {
			steps = cmd.ErrOrStderr()
		}
		engineOpts = append(engineOpts, engine.WithObserver(stepPrinter(steps)))
	}

	var e *engine.Engine
	if cmd.Flags().Changed("input") {
		e = engine.NewFromValues(opts.Input, opts.Observe, engineOpts...)
	} else {
		size := opts.Size
		if !cmd.Flags().Changed("size") {
			size = cfg.DefaultSize
		}
		e, err = engine.New(size, opts.Observe, engineOpts...)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid size", err)
		}
	}
	input := e.Snapshot().Sequence

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	if err := e.Run(ctx, alg); err != nil {
		return engineExitError("sort failed", err)
	}

	final := e.Snapshot()
	summary := RunSummary{
		RunID:      last.rec.RunID,
		Algorithm:  alg,
		Size:       last.rec.Size,
		Observed:   last.rec.Observed,
		Steps:      last.rec.Steps,
		DurationNS: last.rec.Duration.Nanoseconds(),
		Sorted:     final.Sorted,
	}
	if opts.Print {
		summary.Input = input
		summary.Final = final.Sequence
	}
	if !sorting.IsValidSort(input, final.Sequence) {
		return NewExitError(ExitFailure, fmt.Sprintf("%s produced an invalid result", alg))
	}

	return out.Success(summary, func(w io.Writer) {
		fmt.Fprintf(w, "%s: sorted %d elements in %s (run %s)\n",
			summary.Algorithm, summary.Size, time.Duration(summary.DurationNS), summary.RunID)
		if summary.Observed {
			fmt.Fprintf(w, "steps: %d\n", summary.Steps)
		}
		if opts.Print {
			fmt.Fprintf(w, "input: %v\n", summary.Input)
			fmt.Fprintf(w, "final: %v\n", summary.Final)
		}
	})
}

// lastRecord keeps the record of the command's single run.
type lastRecord struct {
	rec engine.RunRecord
}

func (l *lastRecord) RecordRun(_ context.Context, rec engine.RunRecord) error {
	l.rec = rec
	return nil
}

// stepPrinter prints one line per observer event.
func stepPrinter(w io.Writer) engine.Observer {
	return engine.ObserverFunc(func(view engine.View, ev engine.Event) error {
		fmt.Fprintf(w, "%04d %v", ev.Seq, view.Values())
		if ev.Done {
			fmt.Fprint(w, " done")
		}
		for _, h := range ev.Highlights {
			fmt.Fprintf(w, " %s", h)
		}
		fmt.Fprintln(w)
		return nil
	})
}

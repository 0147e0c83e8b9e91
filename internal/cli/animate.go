package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/sortviz/internal/engine"
	"github.com/roach88/sortviz/internal/render"
)

// AnimateOptions holds flags for the animate command.
type AnimateOptions struct {
	*RootOptions
	Size    int
	DelayMS int
	DBPath  string

	// newScreen opens the terminal. Tests swap in a simulation screen.
	newScreen func() (tcell.Screen, error)
}

// NewAnimateCommand creates the animate command.
func NewAnimateCommand(rootOpts *RootOptions) *cobra.Command {
	return newAnimateCommand(rootOpts, tcell.NewScreen)
}

func newAnimateCommand(rootOpts *RootOptions, newScreen func() (tcell.Screen, error)) *cobra.Command {
	opts := &AnimateOptions{RootOptions: rootOpts, newScreen: newScreen}

	cmd := &cobra.Command{
		Use:   "animate [algorithm]",
		Short: "Animate sorting algorithms in the terminal",
		Long: `Draw the sequence as bars and animate each sort step.

Keys:
  1-5    selection, insertion, merge, quick, heap
  r      new random sequence
  + / -  next / previous size on the configured ladder
  q      quit (also stops a running sort)

If an algorithm is given it starts immediately.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnimate(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Size, "size", "n", 0, "sequence length (default from config)")
	cmd.Flags().IntVar(&opts.DelayMS, "delay", 0, "pause per step in milliseconds (default from config)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record runs in this SQLite database (default from config)")

	return cmd
}

func runAnimate(cmd *cobra.Command, args []string, opts *AnimateOptions) error {
	cfg := opts.config()

	var first engine.Algorithm
	if len(args) == 1 {
		alg, err := engine.ParseAlgorithm(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid algorithm", err)
		}
		first = alg
	}

	size := cfg.DefaultSize
	if cmd.Flags().Changed("size") {
		size = opts.Size
	}
	delay := cfg.FrameDelay()
	if cmd.Flags().Changed("delay") {
		if opts.DelayMS < 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid delay %d: must be >= 0", opts.DelayMS))
		}
		delay = time.Duration(opts.DelayMS) * time.Millisecond
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

	// The terminal belongs to the screen; log lines would corrupt it.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	engineOpts := []engine.Option{engine.WithLogger(quiet)}
	if st != nil {
		engineOpts = append(engineOpts, engine.WithSink(st))
	}
	if cfg.Seed != 0 {
		engineOpts = append(engineOpts, engine.WithSeed(cfg.Seed))
	}
	e, err := engine.New(size, true, engineOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid size", err)
	}

	screen, err := opts.newScreen()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open terminal", err)
	}
	if err := screen.Init(); err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize terminal", err)
	}

	r := render.New(screen, e,
		render.WithFrameDelay(delay),
		render.WithSizes(cfg.Sizes),
		render.WithLogger(quiet),
	)
	e.SetObserver(r)
	r.Start()
	defer r.Close()

	if first != "" {
		queueSort(screen, first, quiet)
	}

	ctx, cancel := signalContext(cmd, quiet)
	defer cancel()

	if err := r.Loop(ctx); err != nil {
		return engineExitError("animation failed", err)
	}
	return nil
}

// queueSort presses the algorithm's number key so the loop starts it. A full
// event queue only skips the auto-start.
func queueSort(screen tcell.Screen, alg engine.Algorithm, logger *slog.Logger) {
	key := rune('1' + slices.Index(engine.Algorithms(), alg))
	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, key, tcell.ModNone)); err != nil {
		logger.Debug("initial sort not queued", "algorithm", alg, "error", err)
	}
}

package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/roach88/sortviz/internal/engine"
	"github.com/roach88/sortviz/internal/sorting"
)

// Bar styles.
var (
	styleBar       = tcell.StyleDefault.Background(tcell.ColorWhite)
	styleCandidate = tcell.StyleDefault.Background(tcell.ColorYellow)
	styleTracker   = tcell.StyleDefault.Background(tcell.ColorGreen)
	styleDone      = tcell.StyleDefault.Background(tcell.ColorGreen)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

const helpText = "[1-5] sort  r regenerate  +/- size  q quit"

// Bars is the read-only sequence the renderer draws. engine.View implements it.
type Bars interface {
	Len() int
	At(i int) int
}

// Renderer draws sorts on a tcell screen and hosts the key loop.
type Renderer struct {
	screen     tcell.Screen
	ctrl       engine.Controller
	frameDelay time.Duration
	sizes      []int
	logger     *slog.Logger

	events chan tcell.Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	status        string
	quitRequested bool
}

var _ engine.Observer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithFrameDelay pauses after every drawn step. Default: no pause.
func WithFrameDelay(d time.Duration) Option {
	return func(r *Renderer) {
		r.frameDelay = d
	}
}

// WithSizes sets the ladder that +/- step through.
func WithSizes(sizes []int) Option {
	return func(r *Renderer) {
		r.sizes = slices.Clone(sizes)
		slices.Sort(r.sizes)
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a renderer on an initialized screen. The caller registers it
// as the engine's observer.
func New(screen tcell.Screen, ctrl engine.Controller, opts ...Option) *Renderer {
	r := &Renderer{
		screen: screen,
		ctrl:   ctrl,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		events: make(chan tcell.Event, 16),
		done:   make(chan struct{}),
		status: "ready",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the event pump.
func (r *Renderer) Start() {
	r.wg.Add(1)
	go r.pump()
}

// Close stops the event pump and finalizes the screen. Safe to call twice.
func (r *Renderer) Close() {
	r.once.Do(func() {
		close(r.done)
		r.screen.Fini()
		r.wg.Wait()
	})
}

// pump forwards terminal events until the screen is finalized.
func (r *Renderer) pump() {
	defer r.wg.Done()
	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case r.events <- ev:
		case <-r.done:
			return
		}
	}
}

// Observe draws one frame. It returns engine.ErrStop when a quit key is
// pending.
func (r *Renderer) Observe(view engine.View, ev engine.Event) error {
drain:
	for {
		select {
		case tev := <-r.events:
			if isQuit(tev) {
				r.quitRequested = true
				return engine.ErrStop
			}
			if _, ok := tev.(*tcell.EventResize); ok {
				r.screen.Sync()
			}
		default:
			break drain
		}
	}

	status := fmt.Sprintf("%s  n=%d  step=%d", ev.Algorithm, view.Len(), ev.Seq)
	if ev.Done {
		status = fmt.Sprintf("%s  n=%d  sorted in %d steps", ev.Algorithm, view.Len(), ev.Seq-1)
	}
	r.Draw(view, ev.Highlights, ev.Done, status)

	if r.frameDelay > 0 && !ev.Done {
		time.Sleep(r.frameDelay)
	}
	return nil
}

// Loop handles keys until the user quits or ctx is done.
func (r *Renderer) Loop(ctx context.Context) error {
	r.redraw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-r.events:
			quit, err := r.handle(ctx, ev)
			if err != nil || quit {
				return err
			}
		}
	}
}

// handle applies one idle-time event.
func (r *Renderer) handle(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		r.screen.Sync()
		r.redraw()
		return false, nil
	case *tcell.EventKey:
		if isQuit(ev) {
			return true, nil
		}
		if ev.Key() != tcell.KeyRune {
			return false, nil
		}
		switch key := ev.Rune(); key {
		case '1', '2', '3', '4', '5':
			alg := engine.Algorithms()[key-'1']
			return r.runSort(ctx, alg)
		case 'r':
			r.regenerate(r.ctrl.Snapshot().Len())
		case '+', '=':
			if size, ok := r.nextSize(+1); ok {
				r.regenerate(size)
			}
		case '-', '_':
			if size, ok := r.nextSize(-1); ok {
				r.regenerate(size)
			}
		}
	}
	return false, nil
}

func (r *Renderer) runSort(ctx context.Context, alg engine.Algorithm) (bool, error) {
	r.logger.Debug("starting sort", "algorithm", alg, "size", r.ctrl.Snapshot().Len())
	err := r.ctrl.Run(ctx, alg)
	switch {
	case err == nil:
		r.status = fmt.Sprintf("%s: sorted", alg)
	case engine.IsAborted(err):
		if r.quitRequested {
			return true, nil
		}
		r.status = fmt.Sprintf("%s: aborted", alg)
	default:
		return false, err
	}
	r.redraw()
	return false, nil
}

func (r *Renderer) regenerate(size int) {
	if err := r.ctrl.Regenerate(size); err != nil {
		r.status = err.Error()
	} else {
		r.status = fmt.Sprintf("regenerated n=%d", size)
	}
	r.redraw()
}

// nextSize returns the neighbouring ladder size in direction dir.
func (r *Renderer) nextSize(dir int) (int, bool) {
	cur := r.ctrl.Snapshot().Len()
	if dir > 0 {
		for _, s := range r.sizes {
			if s > cur {
				return s, true
			}
		}
		return 0, false
	}
	for i := len(r.sizes) - 1; i >= 0; i-- {
		if r.sizes[i] < cur {
			return r.sizes[i], true
		}
	}
	return 0, false
}

func (r *Renderer) redraw() {
	st := r.ctrl.Snapshot()
	r.Draw(intBars(st.Sequence), nil, st.Sorted, r.status)
}

// Draw renders one frame: bars scaled to the screen with highlights, and a
// status line on the bottom row.
func (r *Renderer) Draw(bars Bars, highlights []sorting.Highlight, done bool, status string) {
	r.screen.Clear()
	width, height := r.screen.Size()
	barHeight := height - 1
	n := bars.Len()

	if n > 0 && width > 0 && barHeight > 0 {
		maxVal := 0
		for i := 0; i < n; i++ {
			maxVal = max(maxVal, bars.At(i))
		}

		colWidth := 1
		cols := width
		if n <= width {
			colWidth = width / n
			cols = n * colWidth
		}

		for x := 0; x < cols; x++ {
			i := x / colWidth
			if n > width {
				i = x * n / width
			}
			h := 1
			if maxVal > 0 {
				h = 1 + bars.At(i)*(barHeight-1)/maxVal
			}
			style := barStyle(i, highlights, done)
			for y := barHeight - h; y < barHeight; y++ {
				r.screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}

	if height > 0 {
		drawText(r.screen, 0, height-1, width, status+"  "+helpText, styleStatus)
	}
	r.screen.Show()
}

func barStyle(i int, highlights []sorting.Highlight, done bool) tcell.Style {
	if done {
		return styleDone
	}
	for _, h := range highlights {
		if h.Index != i {
			continue
		}
		if h.Role == sorting.RoleTracker {
			return styleTracker
		}
		return styleCandidate
	}
	return styleBar
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}

func isQuit(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return key.Rune() == 'q' || key.Rune() == 'Q'
	}
	return false
}

// intBars adapts a plain slice to Bars.
type intBars []int

func (b intBars) Len() int     { return len(b) }
func (b intBars) At(i int) int { return b[i] }

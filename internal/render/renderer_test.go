package render

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sortviz/internal/engine"
	"github.com/roach88/sortviz/internal/sorting"
	"github.com/roach88/sortviz/internal/testutil"
)

func newTestScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(width, height)
	return s
}

func background(t *testing.T, s tcell.SimulationScreen, x, y int) tcell.Color {
	t.Helper()
	cells, w, _ := s.GetContents()
	_, bg, _ := cells[y*w+x].Style.Decompose()
	return bg
}

func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

// fakeController records calls without sorting anything.
type fakeController struct {
	mu    sync.Mutex
	size  int
	calls []string
}

func (f *fakeController) Regenerate(size int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("regenerate %d", size))
	f.size = size
	return nil
}

func (f *fakeController) Run(_ context.Context, alg engine.Algorithm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "run "+string(alg))
	return nil
}

func (f *fakeController) IsSorted() bool { return false }

func (f *fakeController) Snapshot() engine.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return engine.State{Sequence: make([]int, f.size)}
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestDraw_ScalesBars(t *testing.T) {
	s := newTestScreen(t, 8, 5)
	r := New(s, &fakeController{})

	r.Draw(intBars{1, 2, 3, 4}, nil, false, "ready")

	// Four values over eight columns: two columns per bar, four bar rows.
	heights := []int{1, 2, 3, 4}
	for i, h := range heights {
		for _, x := range []int{2 * i, 2*i + 1} {
			for y := 0; y < 4; y++ {
				want := tcell.ColorDefault
				if y >= 4-h {
					want = tcell.ColorWhite
				}
				assert.Equal(t, want, background(t, s, x, y), "bar %d at (%d,%d)", i, x, y)
			}
		}
	}
	assert.True(t, strings.HasPrefix(row(s, 4), "ready"))
}

func TestDraw_Highlights(t *testing.T) {
	s := newTestScreen(t, 3, 4)
	r := New(s, &fakeController{})

	r.Draw(intBars{3, 1, 2}, []sorting.Highlight{
		{Index: 0, Role: sorting.RoleCandidate},
		{Index: 2, Role: sorting.RoleTracker},
	}, false, "")
	assert.Equal(t, tcell.ColorYellow, background(t, s, 0, 2))
	assert.Equal(t, tcell.ColorWhite, background(t, s, 1, 2))
	assert.Equal(t, tcell.ColorGreen, background(t, s, 2, 2))

	r.Draw(intBars{1, 2, 3}, []sorting.Highlight{{Index: 1, Role: sorting.RolePlacement}}, false, "")
	assert.Equal(t, tcell.ColorYellow, background(t, s, 1, 2))

	r.Draw(intBars{1, 2, 3}, nil, true, "")
	for x := 0; x < 3; x++ {
		assert.Equal(t, tcell.ColorGreen, background(t, s, x, 2))
	}
}

func TestDraw_MoreBarsThanColumns(t *testing.T) {
	s := newTestScreen(t, 10, 6)
	r := New(s, &fakeController{})

	assert.NotPanics(t, func() {
		r.Draw(intBars(testutil.Ascending(1000)), nil, false, "wide")
	})
	// Column 9 samples value 900 of 999: 1 + 900*4/999 = 4 rows.
	assert.Equal(t, tcell.ColorWhite, background(t, s, 9, 1))
	assert.Equal(t, tcell.ColorDefault, background(t, s, 9, 0))
	assert.Equal(t, tcell.ColorDefault, background(t, s, 0, 3), "value 0 is one row tall")
	assert.Equal(t, tcell.ColorWhite, background(t, s, 0, 4))
}

func TestDraw_TinyScreen(t *testing.T) {
	s := newTestScreen(t, 1, 1)
	r := New(s, &fakeController{})
	assert.NotPanics(t, func() {
		r.Draw(intBars{5, 4}, nil, false, "tiny")
	})
}

func TestObserve_DrawsFinalFrame(t *testing.T) {
	s := newTestScreen(t, 30, 6)
	e := engine.NewFromValues([]int{3, 1, 2}, true)
	r := New(s, e)
	e.SetObserver(r)

	require.NoError(t, e.Run(context.Background(), engine.Quick))

	for x := 0; x < 30; x++ {
		if bg := background(t, s, x, 4); bg != tcell.ColorDefault {
			assert.Equal(t, tcell.ColorGreen, bg, "done frame is all green")
		}
	}
	assert.Contains(t, row(s, 5), "quick  n=3  sorted in 2 steps")
}

func TestObserve_QuitKeyAbortsSort(t *testing.T) {
	s := newTestScreen(t, 40, 10)
	e := engine.NewFromValues(testutil.Descending(200), true)
	r := New(s, e)
	e.SetObserver(r)
	r.Start()
	defer r.Close()

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	require.Eventually(t, func() bool { return len(r.events) == 1 }, time.Second, time.Millisecond)

	err := e.Run(context.Background(), engine.Insertion)
	require.Error(t, err)
	assert.True(t, engine.IsAborted(err))
	assert.ErrorIs(t, err, engine.ErrStop)
	assert.False(t, e.IsSorted())
	assert.True(t, r.quitRequested)
}

func TestLoop_Keys(t *testing.T) {
	s := newTestScreen(t, 20, 6)
	ctrl := &fakeController{size: 4}
	r := New(s, ctrl, WithSizes([]int{8, 2, 4}))
	r.Start()
	defer r.Close()

	for _, key := range []rune{'3', 'r', '+', '+', '-', 'x', '5'} {
		s.InjectKey(tcell.KeyRune, key, tcell.ModNone)
	}
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	errc := make(chan error, 1)
	go func() { errc <- r.Loop(context.Background()) }()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit on escape")
	}

	assert.Equal(t, []string{
		"run merge",
		"regenerate 4",
		"regenerate 8",
		"regenerate 4",
		"run heap",
	}, ctrl.Calls(), "second + at the top of the ladder is ignored")
}

func TestLoop_ContextCancel(t *testing.T) {
	s := newTestScreen(t, 20, 6)
	r := New(s, &fakeController{size: 4})
	r.Start()
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Loop(ctx) }()
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit on cancel")
	}
}

func TestLoop_QuitDuringSortExits(t *testing.T) {
	s := newTestScreen(t, 40, 10)
	e := engine.NewFromValues(testutil.Descending(100), true)
	r := New(s, e, WithFrameDelay(time.Millisecond))
	e.SetObserver(r)
	r.Start()
	defer r.Close()

	s.InjectKey(tcell.KeyRune, '2', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	errc := make(chan error, 1)
	go func() { errc <- r.Loop(context.Background()) }()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("loop did not exit on quit")
	}
}

func TestNextSize(t *testing.T) {
	ctrl := &fakeController{size: 100}
	r := New(newTestScreen(t, 10, 5), ctrl, WithSizes([]int{256, 32, 64, 128}))

	size, ok := r.nextSize(+1)
	assert.True(t, ok)
	assert.Equal(t, 128, size)

	size, ok = r.nextSize(-1)
	assert.True(t, ok)
	assert.Equal(t, 64, size)

	ctrl.size = 256
	_, ok = r.nextSize(+1)
	assert.False(t, ok)

	ctrl.size = 32
	_, ok = r.nextSize(-1)
	assert.False(t, ok)
}

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.False(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	assert.False(t, isQuit(tcell.NewEventResize(10, 10)))
}

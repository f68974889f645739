package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/engine/input"
	"github.com/Faultbox/panoview/internal/engine/renderer"
)

type fakeDrag struct {
	dragging bool
	starts   int
	moves    int
	ends     int
}

func (d *fakeDrag) DragStart(x, y float64) {
	d.dragging = true
	d.starts++
}

func (d *fakeDrag) DragMove(x, y float64) { d.moves++ }

func (d *fakeDrag) DragEnd() {
	d.dragging = false
	d.ends++
}

func (d *fakeDrag) Dragging() bool { return d.dragging }

// fakeStrip has one thumbnail covering y >= 400.
type fakeStrip struct {
	clicks int
}

func (s *fakeStrip) HitTest(w, h, x, y int) int {
	if y >= 400 {
		return 0
	}
	return -1
}

func (s *fakeStrip) Click(w, h, x, y int) bool {
	if s.HitTest(w, h, x, y) < 0 {
		return false
	}
	s.clicks++
	return true
}

func mouse(typ input.EventType, x, y int) input.Event {
	return input.Event{Type: typ, MouseX: x, MouseY: y, Button: sdl.BUTTON_LEFT}
}

func TestPointerDragsOutsideStrip(t *testing.T) {
	d := &fakeDrag{}
	s := &fakeStrip{}
	p := &pointer{drag: d, strip: s}

	p.handle(mouse(input.EventMouseDown, 100, 100), 0, 800, 480)
	p.handle(mouse(input.EventMouseMove, 120, 100), 0, 800, 480)
	p.handle(mouse(input.EventMouseUp, 120, 100), 0, 800, 480)

	if d.starts != 1 || d.moves != 1 || d.ends != 1 {
		t.Errorf("drag calls = %+v", d)
	}
	if s.clicks != 0 {
		t.Error("release over the panorama must not click a thumbnail")
	}
}

func TestPointerClicksThumbnail(t *testing.T) {
	d := &fakeDrag{}
	s := &fakeStrip{}
	p := &pointer{drag: d, strip: s}

	p.handle(mouse(input.EventMouseDown, 50, 420), 0, 800, 480)
	p.handle(mouse(input.EventMouseUp, 50, 420), 0, 800, 480)

	if s.clicks != 1 {
		t.Errorf("clicks = %d, want 1", s.clicks)
	}
	if d.starts != 0 {
		t.Error("press on a thumbnail must not start a drag")
	}
}

func TestPointerDragEndingOnStripIsNotAClick(t *testing.T) {
	d := &fakeDrag{}
	s := &fakeStrip{}
	p := &pointer{drag: d, strip: s}

	p.handle(mouse(input.EventMouseDown, 50, 100), 0, 800, 480)
	p.handle(mouse(input.EventMouseMove, 50, 420), 0, 800, 480)
	p.handle(mouse(input.EventMouseUp, 50, 420), 0, 800, 480)

	if s.clicks != 0 {
		t.Error("drag released over the strip must not click")
	}
}

func TestPointerIgnoresPinch(t *testing.T) {
	d := &fakeDrag{}
	p := &pointer{drag: d}

	down := mouse(input.EventMouseDown, 10, 10)
	down.Touch = true
	p.handle(down, 1, 800, 480)
	if !d.dragging {
		t.Fatal("one finger should orbit")
	}

	move := mouse(input.EventMouseMove, 30, 10)
	move.Touch = true
	p.handle(move, 2, 800, 480)
	if d.dragging || d.moves != 0 {
		t.Errorf("second finger should end the drag: %+v", d)
	}
}

func TestPointerIgnoresOtherButtons(t *testing.T) {
	d := &fakeDrag{}
	p := &pointer{drag: d}
	ev := mouse(input.EventMouseDown, 10, 10)
	ev.Button = sdl.BUTTON_RIGHT
	p.handle(ev, 0, 800, 480)
	if d.starts != 0 {
		t.Error("right button must not drag")
	}
}

type fakeWindow struct {
	title      string
	fullscreen bool
	err        error
}

func (w *fakeWindow) SetTitle(title string) { w.title = title }
func (w *fakeWindow) Fullscreen() bool      { return w.fullscreen }
func (w *fakeWindow) SetFullscreen(on bool) error {
	if w.err != nil {
		return w.err
	}
	w.fullscreen = on
	return nil
}

type fakeStatus struct {
	status renderer.Status
}

func (s *fakeStatus) SetStatus(st renderer.Status) { s.status = st }

func TestStatusIndicator(t *testing.T) {
	w := &fakeWindow{}
	st := &fakeStatus{}
	current := ""
	ind := &statusIndicator{window: w, status: st, current: func() string { return current }}

	ind.ShowLoading()
	if st.status != renderer.StatusLoading || w.title != "panoview - loading" {
		t.Errorf("loading: status %v, title %q", st.status, w.title)
	}

	current = "/photos/lake.jpg"
	ind.ShowLoading()
	if w.title != "panoview - loading lake.jpg" {
		t.Errorf("title = %q", w.title)
	}

	ind.ShowError("Error loading image")
	if st.status != renderer.StatusError || w.title != "panoview - Error loading image" {
		t.Errorf("error: status %v, title %q", st.status, w.title)
	}

	ind.Hide()
	if st.status != renderer.StatusNone || w.title != "panoview - lake.jpg" {
		t.Errorf("hide: status %v, title %q", st.status, w.title)
	}
}

func TestFullscreenToggle(t *testing.T) {
	w := &fakeWindow{}
	f := &fullscreenToggle{window: w, log: zap.NewNop()}

	if err := f.Enter(); err != nil || !w.fullscreen {
		t.Fatalf("first Enter: err %v, fullscreen %v", err, w.fullscreen)
	}
	if err := f.Enter(); err != nil || w.fullscreen {
		t.Fatalf("second Enter: err %v, fullscreen %v", err, w.fullscreen)
	}

	w.err = errors.New("no display")
	if err := f.Enter(); err == nil {
		t.Error("expected error")
	}
}

func TestCloseAllRunsEveryStep(t *testing.T) {
	ran := 0
	errA := errors.New("a")
	errB := errors.New("b")
	err := closeAll(
		func() error { ran++; return errA },
		func() error { ran++; return nil },
		func() error { ran++; return errB },
	)
	if ran != 3 {
		t.Errorf("ran %d steps, want 3", ran)
	}
	if got := multierr.Errors(err); len(got) != 2 {
		t.Errorf("errors = %v", got)
	}
}

func TestPhotos(t *testing.T) {
	cfg := config.Default()
	cfg.Viewer.Photos = []string{"a.jpg"}
	cfg.Viewer.PhotoDir = "ignored"
	got, err := Photos(cfg)
	if err != nil || len(got) != 1 {
		t.Errorf("explicit photos: %v, %v", got, err)
	}

	cfg.Viewer.Photos = nil
	cfg.Viewer.PhotoDir = ""
	if got, err := Photos(cfg); err != nil || got != nil {
		t.Errorf("nothing configured: %v, %v", got, err)
	}

	cfg.Viewer.PhotoDir = filepath.Join(t.TempDir(), "missing")
	if _, err := Photos(cfg); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel, log: zap.NewNop()}
	cancel()

	// Nothing past the context check is wired, so Run must return before
	// touching input or rendering.
	if err := a.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.running {
		t.Error("running should be false after cancellation")
	}
}

func TestAliveFollowsContextAndQuit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := &App{ctx: ctx, cancel: cancel, log: zap.NewNop(), running: true}

	if !a.alive() {
		t.Fatal("expected alive before cancellation")
	}
	a.handle(input.Event{Type: input.EventQuit})
	if a.alive() {
		t.Error("quit event should stop the loop")
	}

	a.running = true
	cancel()
	if a.alive() {
		t.Error("canceled context should stop the loop")
	}
}

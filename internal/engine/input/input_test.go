package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/panoview/internal/viewer"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		sc   sdl.Scancode
		want viewer.Key
	}{
		{sdl.SCANCODE_LEFT, viewer.KeyArrowLeft},
		{sdl.SCANCODE_RIGHT, viewer.KeyArrowRight},
		{sdl.SCANCODE_F, viewer.KeyImmersive},
		{sdl.SCANCODE_F11, viewer.KeyImmersive},
		{sdl.SCANCODE_UP, viewer.KeyUnknown},
		{sdl.SCANCODE_ESCAPE, viewer.KeyUnknown},
	}
	for _, tt := range tests {
		if got := keyFor(tt.sc); got != tt.want {
			t.Errorf("keyFor(%d) = %d, want %d", tt.sc, got, tt.want)
		}
	}
}

func TestWheelDelta(t *testing.T) {
	tests := []struct {
		name      string
		y         int32
		precise   float32
		direction uint32
		want      float64
	}{
		{"scroll down widens", -1, 0, sdl.MOUSEWHEEL_NORMAL, 100},
		{"scroll up narrows", 2, 0, sdl.MOUSEWHEEL_NORMAL, -200},
		{"natural scrolling", -1, 0, sdl.MOUSEWHEEL_FLIPPED, -100},
		{"fractional trackpad scroll", 0, -0.25, sdl.MOUSEWHEEL_NORMAL, 25},
		{"precise wins over notches", -1, -0.5, sdl.MOUSEWHEEL_NORMAL, 50},
		{"fractional natural scrolling", 0, 0.5, sdl.MOUSEWHEEL_FLIPPED, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wheelDelta(tt.y, tt.precise, tt.direction); got != tt.want {
				t.Errorf("wheelDelta = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestFingerPoint(t *testing.T) {
	p := fingerPoint(0.5, 0.25, 800, 600)
	if p.X != 400 || p.Y != 150 {
		t.Errorf("fingerPoint = %+v", p)
	}
}

func TestTouches(t *testing.T) {
	tr := newTouches()

	if pts := tr.down(7, viewer.Point{X: 1, Y: 1}); len(pts) != 1 {
		t.Fatalf("expected 1 point, got %v", pts)
	}
	pts := tr.down(3, viewer.Point{X: 5, Y: 5})
	if len(pts) != 2 || pts[0].X != 1 || pts[1].X != 5 {
		t.Fatalf("points should keep touch-down order, got %v", pts)
	}

	pts = tr.move(3, viewer.Point{X: 9, Y: 9})
	if pts[1].X != 9 {
		t.Errorf("move not applied: %v", pts)
	}
	pts = tr.move(42, viewer.Point{X: 0, Y: 0})
	if len(pts) != 2 {
		t.Errorf("move of an unknown finger must not add it: %v", pts)
	}

	pts = tr.up(7)
	if len(pts) != 1 || pts[0].X != 9 || tr.count() != 1 {
		t.Errorf("after lifting 7: %v", pts)
	}
	tr.up(7)
	if tr.count() != 1 {
		t.Error("lifting twice must be harmless")
	}
	if pts = tr.up(3); len(pts) != 0 {
		t.Errorf("expected no points, got %v", pts)
	}
}

type fakeHandler struct {
	starts, moves, ends [][]viewer.Point
}

func (h *fakeHandler) Wheel(float64)               {}
func (h *fakeHandler) TouchStart(p []viewer.Point) { h.starts = append(h.starts, p) }
func (h *fakeHandler) TouchMove(p []viewer.Point)  { h.moves = append(h.moves, p) }
func (h *fakeHandler) TouchEnd(p []viewer.Point)   { h.ends = append(h.ends, p) }
func (h *fakeHandler) KeyDown(viewer.Key)          {}
func (h *fakeHandler) Resize(int, int)             {}

type fakeSizer struct{}

func (fakeSizer) GetSize() (int, int)      { return 1000, 500 }
func (fakeSizer) DrawableSize() (int, int) { return 2000, 1000 }

func TestTouchEventDispatch(t *testing.T) {
	in := New(fakeSizer{})
	h := &fakeHandler{}
	in.Attach(h)

	in.touchEvent(&sdl.TouchFingerEvent{Type: sdl.FINGERDOWN, FingerID: 1, X: 0.1, Y: 0.5})
	in.touchEvent(&sdl.TouchFingerEvent{Type: sdl.FINGERDOWN, FingerID: 2, X: 0.2, Y: 0.5})
	in.touchEvent(&sdl.TouchFingerEvent{Type: sdl.FINGERMOTION, FingerID: 2, X: 0.25, Y: 0.5})
	in.touchEvent(&sdl.TouchFingerEvent{Type: sdl.FINGERUP, FingerID: 1})

	if len(h.starts) != 2 || len(h.starts[1]) != 2 {
		t.Fatalf("unexpected starts %v", h.starts)
	}
	if got := h.moves[0][1]; got.X != 250 || got.Y != 250 {
		t.Errorf("move scaled to %+v, want (250, 250)", got)
	}
	if len(h.ends) != 1 || len(h.ends[0]) != 1 {
		t.Errorf("end should report the remaining finger: %v", h.ends)
	}
	if in.Fingers() != 1 {
		t.Errorf("expected 1 finger down, got %d", in.Fingers())
	}
}

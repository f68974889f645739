package viewer

import (
	"context"
	"errors"
	"testing"
)

func TestNewRequiresContainer(t *testing.T) {
	r := newRig()
	opts := r.options("a", "b")
	opts.Surface = nil

	s, err := New(context.Background(), opts)
	if !errors.Is(err, ErrMissingContainer) || s != nil {
		t.Fatalf("expected ErrMissingContainer, got %v", err)
	}
	if len(r.thumbs.uris) != 0 || len(r.input.handlers) != 0 || r.controls.settings != nil {
		t.Error("construction without a container must have no side effects")
	}
	if r.fetcher.callCount() != 0 || len(r.indicator.events) != 0 {
		t.Error("construction without a container must not load")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	tests := []struct {
		name  string
		strip func(*Options)
	}{
		{"camera", func(o *Options) { o.Camera = nil }},
		{"controls", func(o *Options) { o.Controls = nil }},
		{"fetcher", func(o *Options) { o.Fetcher = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			opts := r.options("a")
			tt.strip(&opts)
			if _, err := New(context.Background(), opts); !errors.Is(err, ErrMissingCollaborator) {
				t.Errorf("expected ErrMissingCollaborator, got %v", err)
			}
			if len(r.thumbs.uris) != 0 || len(r.input.handlers) != 0 {
				t.Error("failed construction must have no side effects")
			}
		})
	}
}

func TestNewWiring(t *testing.T) {
	r := newRig()
	s := r.start(t, "a", "b", "c")

	if r.controls.settings == nil || *r.controls.settings != DefaultOrbitSettings() {
		t.Errorf("controls configured with %+v", r.controls.settings)
	}
	st := r.controls.settings
	if st.EnableZoom || st.EnablePan || !st.EnableDamping || st.RotateSpeed >= 0 || st.MinDistance != st.MaxDistance {
		t.Errorf("orbit settings should disable zoom and pan, damp, invert and pin distance: %+v", st)
	}
	if r.camera.fov != 75 || r.camera.projections == 0 {
		t.Errorf("initial fov not applied: fov=%g projections=%d", r.camera.fov, r.camera.projections)
	}
	if len(r.thumbs.uris) != 3 || r.thumbs.uris[2] != "c" {
		t.Errorf("expected one thumbnail per photo, got %v", r.thumbs.uris)
	}
	if len(r.input.handlers) != 1 || r.input.handlers[0] != InputHandler(s) {
		t.Errorf("input should be attached exactly once, got %d", len(r.input.handlers))
	}
	if r.surface.loop == nil {
		t.Fatal("animation loop not started")
	}
	if got := r.thumbs.activeIndices(); len(got) != 1 || got[0] != 0 {
		t.Errorf("expected thumbnail 0 active, got %v", got)
	}
}

func TestSessionScenario(t *testing.T) {
	r := newRig()
	s := r.start(t, "A", "B", "C")

	if s.CurrentIndex() != 0 || s.PhotoCount() != 3 {
		t.Fatalf("expected index 0 of 3, got %d of %d", s.CurrentIndex(), s.PhotoCount())
	}
	if s.LoadState() != LoadPending {
		t.Errorf("expected a load request for A, got %s", s.LoadState())
	}
	if !await(t, s) || r.surface.shownName() != "A" {
		t.Fatalf("expected A displayed, got %q", r.surface.shownName())
	}

	s.LoadPhoto(2)
	if s.CurrentIndex() != 2 {
		t.Fatalf("expected index 2 immediately, got %d", s.CurrentIndex())
	}
	if !await(t, s) {
		t.Fatal("expected C to be applied")
	}
	if r.surface.shownName() != "C" {
		t.Errorf("expected C displayed, got %q", r.surface.shownName())
	}
	if got := r.thumbs.activeIndices(); len(got) != 1 || got[0] != 2 {
		t.Errorf("expected only thumbnail 2 active, got %v", got)
	}
}

func TestLoadPhotoOutOfRange(t *testing.T) {
	r := newRig()
	s := r.start(t, "a", "b")
	s.LoadPhoto(1)

	for _, index := range []int{-1, 2, 99} {
		s.LoadPhoto(index)
		if s.CurrentIndex() != 1 {
			t.Errorf("LoadPhoto(%d) moved index to %d", index, s.CurrentIndex())
		}
	}
}

func TestIndexUpdatesBeforeFetchResolves(t *testing.T) {
	r := newRig()
	r.fetcher.gate("a", "b", "c")
	s := r.start(t, "a", "b", "c")

	for _, index := range []int{1, 2, 0} {
		s.LoadPhoto(index)
		if s.CurrentIndex() != index {
			t.Errorf("LoadPhoto(%d) then CurrentIndex() = %d", index, s.CurrentIndex())
		}
	}
}

func TestStaleLoadNeverDisplayed(t *testing.T) {
	r := newRig()
	r.fetcher.gate("a", "b")
	s := r.start(t, "a", "b")

	s.LoadPhoto(1)
	r.fetcher.open("a")
	await(t, s)
	if r.surface.shownName() == "a" {
		t.Fatal("superseded photo was displayed")
	}

	r.fetcher.open("b")
	await(t, s)
	if r.surface.shownName() != "b" {
		t.Errorf("expected b displayed, got %q", r.surface.shownName())
	}
}

func TestReselectReloads(t *testing.T) {
	r := newRig()
	r.fetcher.failWith("a", errBoom)
	s := r.start(t, "a")
	await(t, s)
	if s.LoadState() != LoadFailed {
		t.Fatalf("expected failed load, got %s", s.LoadState())
	}

	gen := s.loader.Latest()
	s.LoadPhoto(0)
	if s.loader.Latest() != gen+1 {
		t.Errorf("reselecting should issue generation %d, got %d", gen+1, s.loader.Latest())
	}
	if r.indicator.last() != "loading" {
		t.Errorf("reselect should show loading, got %v", r.indicator.events)
	}
	await(t, s)
	if r.fetcher.callCount() != 2 {
		t.Errorf("expected a second fetch, got %d", r.fetcher.callCount())
	}
}

func TestKeyboardNavigation(t *testing.T) {
	r := newRig()
	s := r.start(t, "a", "b", "c")

	s.KeyDown(KeyArrowLeft)
	if s.CurrentIndex() != 0 {
		t.Errorf("previous at 0 moved to %d", s.CurrentIndex())
	}

	s.KeyDown(KeyArrowRight)
	s.KeyDown(KeyArrowRight)
	if s.CurrentIndex() != 2 {
		t.Fatalf("expected 2, got %d", s.CurrentIndex())
	}
	s.KeyDown(KeyArrowRight)
	if s.CurrentIndex() != 2 {
		t.Errorf("next at the last photo moved to %d", s.CurrentIndex())
	}

	s.KeyDown(KeyArrowLeft)
	if s.CurrentIndex() != 1 {
		t.Errorf("expected 1, got %d", s.CurrentIndex())
	}

	s.KeyDown(KeyUnknown)
	if s.CurrentIndex() != 1 {
		t.Errorf("unknown key moved index to %d", s.CurrentIndex())
	}
}

func TestThumbnailActivation(t *testing.T) {
	r := newRig()
	s := r.start(t, "a", "b", "c")

	r.thumbs.activate[1]()
	if s.CurrentIndex() != 1 {
		t.Errorf("thumbnail click should select 1, got %d", s.CurrentIndex())
	}
	if got := r.thumbs.activeIndices(); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected only thumbnail 1 active, got %v", got)
	}
}

func TestWheelAppliesToCamera(t *testing.T) {
	r := newRig()
	s := r.start(t, "a")
	before := r.camera.projections

	s.Wheel(-100)
	if s.FOV() != 70 || r.camera.fov != 70 {
		t.Errorf("expected fov 70 on session and camera, got %g / %g", s.FOV(), r.camera.fov)
	}
	if r.camera.projections != before+1 {
		t.Errorf("projection should update once, got %d", r.camera.projections-before)
	}

	for i := 0; i < 50; i++ {
		s.Wheel(500)
	}
	if r.camera.fov != 100 {
		t.Errorf("camera fov should clamp to 100, got %g", r.camera.fov)
	}
}

func TestPinchAppliesToCamera(t *testing.T) {
	r := newRig()
	s := r.start(t)

	s.TouchStart(pair(100))
	s.TouchMove(pair(50))
	if r.camera.fov != 100 {
		t.Errorf("expected clamped fov 100, got %g", r.camera.fov)
	}
	s.TouchEnd(nil)
	s.TouchMove(pair(10))
	if r.camera.fov != 100 {
		t.Errorf("move after gesture end changed fov to %g", r.camera.fov)
	}
}

func TestResize(t *testing.T) {
	r := newRig()
	s := r.start(t, "a")

	s.Resize(1600, 800)
	if r.camera.aspect != 2 {
		t.Errorf("expected aspect 2, got %g", r.camera.aspect)
	}
	if r.surface.width != 1600 || r.surface.height != 800 {
		t.Errorf("surface size %dx%d", r.surface.width, r.surface.height)
	}

	s.Resize(100, 0)
	if r.camera.aspect != 2 {
		t.Errorf("zero height should be ignored, aspect %g", r.camera.aspect)
	}
}

func TestFrameUpdatesControlsBeforeRender(t *testing.T) {
	r := newRig()
	r.start(t, "a")
	*r.log = nil

	r.surface.loop()
	r.surface.loop()

	want := []string{"update", "render", "update", "render"}
	if len(*r.log) != len(want) {
		t.Fatalf("frame calls = %v, want %v", *r.log, want)
	}
	for i := range want {
		if (*r.log)[i] != want[i] {
			t.Errorf("frame calls = %v, want %v", *r.log, want)
			break
		}
	}
}

func TestFrameIgnoresLoadState(t *testing.T) {
	r := newRig()
	r.fetcher.gate("a")
	s := r.start(t, "a")

	s.Frame()
	if r.surface.renders != 1 {
		t.Errorf("pending load should not block rendering")
	}
}

func TestImmersive(t *testing.T) {
	r := newRig()
	s := r.start(t, "a")

	s.KeyDown(KeyImmersive)
	r.immersive.err = errors.New("no display")
	s.EnterImmersive()
	if r.immersive.entered != 2 {
		t.Errorf("expected 2 immersive entries, got %d", r.immersive.entered)
	}

	opts := newRig().options("a")
	opts.Immersive = nil
	s2, err := New(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	s2.EnterImmersive()
}

func TestEmptyPhotoSet(t *testing.T) {
	r := newRig()
	s := r.start(t)

	if s.CurrentIndex() != NoPhoto {
		t.Errorf("expected NoPhoto, got %d", s.CurrentIndex())
	}
	if s.PhotoCount() != 0 {
		t.Errorf("expected 0 photos, got %d", s.PhotoCount())
	}
	s.Next()
	s.Previous()
	s.LoadPhoto(0)
	if s.CurrentIndex() != NoPhoto || s.LoadState() != LoadIdle {
		t.Errorf("navigation on empty set changed state: %d %s", s.CurrentIndex(), s.LoadState())
	}
	if r.fetcher.callCount() != 0 || len(r.thumbs.uris) != 0 {
		t.Error("empty set must not fetch or add thumbnails")
	}
	if r.surface.loop == nil {
		t.Error("render loop should still run")
	}
}

func TestPhotosCopied(t *testing.T) {
	r := newRig()
	photos := []string{"a", "b"}
	s := r.start(t, photos...)
	photos[0] = "changed"

	if s.Photo(0) != "a" {
		t.Errorf("session should keep its own photo list, got %q", s.Photo(0))
	}
	if s.Photo(5) != "" {
		t.Errorf("out-of-range Photo should be empty")
	}
}

func TestCustomOrbitSettings(t *testing.T) {
	r := newRig()
	opts := r.options("a")
	custom := DefaultOrbitSettings()
	custom.RotateSpeed = 0.5
	opts.Orbit = &custom

	s, err := New(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if r.controls.settings.RotateSpeed != 0.5 {
		t.Errorf("expected custom rotate speed, got %g", r.controls.settings.RotateSpeed)
	}
}

func TestCloseReleasesDisplayed(t *testing.T) {
	r := newRig()
	s, err := New(context.Background(), r.options("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	await(t, s)
	s.LoadPhoto(1)
	await(t, s)

	s.Close()
	for i, res := range r.surface.uploads {
		if res.releases != 1 {
			t.Errorf("resource %d released %d times, want 1", i, res.releases)
		}
	}
}

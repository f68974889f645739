package viewer

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"
)

// namedImage lets tests tell which photo reached the surface.
type namedImage struct {
	*image.Gray
	name string
}

func newNamedImage(name string) namedImage {
	return namedImage{Gray: image.NewGray(image.Rect(0, 0, 2, 1)), name: name}
}

type fakeResource struct {
	name     string
	releases int
}

func (r *fakeResource) Release() { r.releases++ }

// calls is a shared ordered log of collaborator calls.
type calls []string

func (c *calls) add(s string) { *c = append(*c, s) }

type fakeSurface struct {
	log       *calls
	width     int
	height    int
	renders   int
	loop      func()
	uploads   []*fakeResource
	shown     *fakeResource
	showCalls int
	uploadErr error
}

func (s *fakeSurface) SetSize(w, h int) { s.width, s.height = w, h }
func (s *fakeSurface) Render() {
	s.renders++
	if s.log != nil {
		s.log.add("render")
	}
}
func (s *fakeSurface) SetAnimationLoop(frame func()) { s.loop = frame }
func (s *fakeSurface) Upload(img image.Image) (Resource, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	name := ""
	if n, ok := img.(namedImage); ok {
		name = n.name
	}
	r := &fakeResource{name: name}
	s.uploads = append(s.uploads, r)
	return r, nil
}
func (s *fakeSurface) Show(res Resource) {
	s.showCalls++
	if res == nil {
		s.shown = nil
		return
	}
	s.shown = res.(*fakeResource)
}

func (s *fakeSurface) shownName() string {
	if s.shown == nil {
		return ""
	}
	return s.shown.name
}

type fakeCamera struct {
	fov         float64
	aspect      float64
	projections int
}

func (c *fakeCamera) SetFOV(deg float64)      { c.fov = deg }
func (c *fakeCamera) SetAspect(a float64)     { c.aspect = a }
func (c *fakeCamera) UpdateProjectionMatrix() { c.projections++ }

type fakeControls struct {
	log      *calls
	settings *OrbitSettings
	updates  int
}

func (c *fakeControls) Configure(s OrbitSettings) { c.settings = &s }
func (c *fakeControls) Update() {
	c.updates++
	if c.log != nil {
		c.log.add("update")
	}
}

// fakeFetcher returns a namedImage per uri. Gated uris block until opened.
type fakeFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	fail  map[string]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{gates: map[string]chan struct{}{}, fail: map[string]error{}}
}

func (f *fakeFetcher) gate(uris ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, uri := range uris {
		f.gates[uri] = make(chan struct{})
	}
}

func (f *fakeFetcher) open(uri string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.gates[uri])
}

func (f *fakeFetcher) failWith(uri string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[uri] = err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) Fetch(ctx context.Context, uri string) (image.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, uri)
	gate := f.gates[uri]
	err := f.fail[uri]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return newNamedImage(uri), nil
}

type fakeInput struct {
	handlers []InputHandler
}

func (in *fakeInput) Attach(h InputHandler) { in.handlers = append(in.handlers, h) }

type fakeThumbs struct {
	uris     []string
	activate []func()
	active   map[int]bool
}

func newFakeThumbs() *fakeThumbs {
	return &fakeThumbs{active: map[int]bool{}}
}

func (t *fakeThumbs) AddThumbnail(index int, uri string, onActivate func()) {
	t.uris = append(t.uris, uri)
	t.activate = append(t.activate, onActivate)
}

func (t *fakeThumbs) SetActive(index int, active bool) { t.active[index] = active }

func (t *fakeThumbs) activeIndices() []int {
	var out []int
	for i := range t.uris {
		if t.active[i] {
			out = append(out, i)
		}
	}
	return out
}

type fakeIndicator struct {
	events []string
}

func (i *fakeIndicator) ShowLoading()         { i.events = append(i.events, "loading") }
func (i *fakeIndicator) ShowError(msg string) { i.events = append(i.events, "error:"+msg) }
func (i *fakeIndicator) Hide()                { i.events = append(i.events, "hide") }

func (i *fakeIndicator) last() string {
	if len(i.events) == 0 {
		return ""
	}
	return i.events[len(i.events)-1]
}

type fakeImmersive struct {
	entered int
	err     error
}

func (f *fakeImmersive) Enter() error {
	f.entered++
	return f.err
}

// rig bundles a session with its fakes.
type rig struct {
	surface   *fakeSurface
	camera    *fakeCamera
	controls  *fakeControls
	fetcher   *fakeFetcher
	input     *fakeInput
	thumbs    *fakeThumbs
	indicator *fakeIndicator
	immersive *fakeImmersive
	log       *calls
}

func newRig() *rig {
	log := &calls{}
	return &rig{
		surface:   &fakeSurface{log: log},
		camera:    &fakeCamera{},
		controls:  &fakeControls{log: log},
		fetcher:   newFakeFetcher(),
		input:     &fakeInput{},
		thumbs:    newFakeThumbs(),
		indicator: &fakeIndicator{},
		immersive: &fakeImmersive{},
		log:       log,
	}
}

func (r *rig) options(photos ...string) Options {
	return Options{
		Photos:     photos,
		Surface:    r.surface,
		Camera:     r.camera,
		Controls:   r.controls,
		Fetcher:    r.fetcher,
		Input:      r.input,
		Thumbnails: r.thumbs,
		Indicator:  r.indicator,
		Immersive:  r.immersive,
	}
}

func (r *rig) start(t *testing.T, photos ...string) *Session {
	t.Helper()
	s, err := New(context.Background(), r.options(photos...))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// await completes the next load result or fails the test after a second.
func await(t *testing.T, s *Session) bool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	applied, err := s.Await(ctx)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	return applied
}

var errBoom = errors.New("boom")

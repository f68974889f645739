package viewer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Options configures a Session. Surface, Camera, Controls and Fetcher are
// required; the rest are optional.
type Options struct {
	Photos []string

	Surface    Surface
	Camera     Camera
	Controls   OrbitControls
	Fetcher    Fetcher
	Input      InputSource
	Thumbnails ThumbnailTarget
	Indicator  Indicator
	Immersive  Immersive

	Zoom         ZoomLimits
	Orbit        *OrbitSettings // nil uses DefaultOrbitSettings
	FetchTimeout time.Duration
	Logger       *zap.Logger
}

// Session is one viewer instance. All methods must be called from the
// goroutine that owns the Surface.
type Session struct {
	photos    []string
	surface   Surface
	camera    Camera
	controls  OrbitControls
	immersive Immersive
	log       *zap.Logger

	nav    *Navigator
	zoom   *ZoomController
	loader *PhotoLoader
	thumbs *ThumbnailSync
}

// New builds a session, starts its animation loop and selects the first
// photo. It has no side effects when it returns an error.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Surface == nil {
		return nil, ErrMissingContainer
	}
	if opts.Camera == nil || opts.Controls == nil || opts.Fetcher == nil {
		return nil, ErrMissingCollaborator
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	photos := append([]string(nil), opts.Photos...)

	s := &Session{
		photos:    photos,
		surface:   opts.Surface,
		camera:    opts.Camera,
		controls:  opts.Controls,
		immersive: opts.Immersive,
		log:       log,
		zoom:      NewZoomController(opts.Zoom),
		thumbs:    NewThumbnailSync(opts.Thumbnails, len(photos)),
	}
	s.loader = NewPhotoLoader(ctx, photos, opts.Fetcher, opts.Surface, opts.Indicator, opts.FetchTimeout, log)
	s.nav = NewNavigator(len(photos), s.selected)

	orbit := DefaultOrbitSettings()
	if opts.Orbit != nil {
		orbit = *opts.Orbit
	}
	s.controls.Configure(orbit)
	s.applyFOV()

	if opts.Thumbnails != nil {
		for i, uri := range photos {
			i := i
			opts.Thumbnails.AddThumbnail(i, uri, func() { s.nav.Select(i) })
		}
		if len(photos) > 0 {
			opts.Thumbnails.SetActive(0, true)
		}
	}

	if opts.Input != nil {
		opts.Input.Attach(s)
	}
	s.surface.SetAnimationLoop(s.Frame)

	log.Info("Viewer session started",
		zap.Int("photos", len(photos)),
		zap.Float64("fov", s.zoom.FOV()))

	if len(photos) > 0 {
		s.nav.Select(0)
	}
	return s, nil
}

func (s *Session) selected(index int) {
	s.loader.Request(index)
	s.thumbs.Reflect(index)
}

func (s *Session) applyFOV() {
	s.camera.SetFOV(s.zoom.FOV())
	s.camera.UpdateProjectionMatrix()
}

// LoadPhoto selects the photo at index. Out-of-range indices are ignored.
func (s *Session) LoadPhoto(index int) {
	if !s.nav.Select(index) {
		s.log.Debug("Ignoring out-of-range photo index",
			zap.Int("index", index),
			zap.Int("count", s.nav.Count()))
	}
}

// CurrentIndex returns the selected index, or NoPhoto with no photos.
func (s *Session) CurrentIndex() int {
	return s.nav.Current()
}

// PhotoCount returns the number of photos.
func (s *Session) PhotoCount() int {
	return s.nav.Count()
}

// Photo returns the identifier at index, or "" if out of range.
func (s *Session) Photo(index int) string {
	if index < 0 || index >= len(s.photos) {
		return ""
	}
	return s.photos[index]
}

// Next selects the following photo.
func (s *Session) Next() {
	s.nav.Next()
}

// Previous selects the preceding photo.
func (s *Session) Previous() {
	s.nav.Previous()
}

// FOV returns the current field of view in degrees.
func (s *Session) FOV() float64 {
	return s.zoom.FOV()
}

// LoadState reports the lifecycle of the latest load.
func (s *Session) LoadState() LoadState {
	return s.loader.State()
}

// Frame advances the controls and renders. It is the animation loop body.
func (s *Session) Frame() {
	s.controls.Update()
	s.surface.Render()
}

// Poll completes finished loads without blocking.
func (s *Session) Poll() int {
	return s.loader.Poll()
}

// Await blocks for the next finished load and completes it.
func (s *Session) Await(ctx context.Context) (bool, error) {
	return s.loader.Await(ctx)
}

// EnterImmersive starts an immersive session if one is available.
func (s *Session) EnterImmersive() {
	if s.immersive == nil {
		return
	}
	if err := s.immersive.Enter(); err != nil {
		s.log.Warn("Failed to enter immersive mode", zap.Error(err))
	}
}

// Wheel zooms by a wheel delta in pixels.
func (s *Session) Wheel(deltaY float64) {
	before := s.zoom.FOV()
	if s.zoom.Wheel(deltaY) != before {
		s.applyFOV()
	}
}

// TouchStart handles new touch contacts; points are all active contacts.
func (s *Session) TouchStart(points []Point) {
	s.zoom.TouchStart(points)
}

// TouchMove handles moving contacts.
func (s *Session) TouchMove(points []Point) {
	if s.zoom.TouchMove(points) {
		s.applyFOV()
	}
}

// TouchEnd handles lifted contacts; remaining are the ones still down.
func (s *Session) TouchEnd(remaining []Point) {
	s.zoom.TouchEnd(remaining)
}

// KeyDown handles navigation keys.
func (s *Session) KeyDown(key Key) {
	switch key {
	case KeyArrowLeft:
		s.Previous()
	case KeyArrowRight:
		s.Next()
	case KeyImmersive:
		s.EnterImmersive()
	}
}

// Resize updates the aspect ratio and surface size.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.camera.SetAspect(float64(width) / float64(height))
	s.camera.UpdateProjectionMatrix()
	s.surface.SetSize(width, height)
}

// Close stops in-flight loads and releases the displayed image.
func (s *Session) Close() {
	s.loader.Close()
	s.log.Info("Viewer session closed")
}

var _ InputHandler = (*Session)(nil)

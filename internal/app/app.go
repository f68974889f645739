// Package app wires the viewer session to an SDL2 window and runs the
// main loop.
package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/engine/camera"
	"github.com/Faultbox/panoview/internal/engine/input"
	"github.com/Faultbox/panoview/internal/engine/renderer"
	"github.com/Faultbox/panoview/internal/engine/screenshot"
	"github.com/Faultbox/panoview/internal/engine/texture"
	"github.com/Faultbox/panoview/internal/engine/window"
	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/internal/photo"
	"github.com/Faultbox/panoview/internal/ui"
	"github.com/Faultbox/panoview/internal/viewer"
)

// App is the desktop viewer.
// IMPORTANT: New, Run and Close must be called from the main OS thread.
type App struct {
	cfg *config.Config
	log *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	window   *window.Window
	renderer *renderer.Renderer
	camera   *camera.Perspective
	controls *camera.PanoramaControls
	input    *input.Input
	strip    *ui.Strip
	pointer  *pointer
	session  *viewer.Session
	shots    *screenshot.Capture

	winW, winH int
	running    bool
}

// Photos resolves the photo list from cfg: explicit photos win, otherwise
// PhotoDir is scanned.
func Photos(cfg *config.Config) ([]string, error) {
	if len(cfg.Viewer.Photos) > 0 {
		return cfg.Viewer.Photos, nil
	}
	if cfg.Viewer.PhotoDir == "" {
		return nil, nil
	}
	return photo.Scan(cfg.Viewer.PhotoDir)
}

// New opens the window and builds the viewer session for photos.
func New(ctx context.Context, cfg *config.Config, photos []string) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Named("app"),
		shots: screenshot.New(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
	}
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.log.Info("initializing viewer",
		zap.Int("photos", len(photos)),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height))

	var err error
	a.window, err = window.New(window.Config{
		Title:      appTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	}, logger.Named("window"))
	if err != nil {
		a.cancel()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dw, dh := a.window.DrawableSize()
	a.winW, a.winH = a.window.GetSize()

	a.camera = camera.NewPerspective(cfg.Viewer.FOV, float64(dw)/float64(max(dh, 1)))
	a.controls = camera.NewPanoramaControls(a.camera)
	a.controls.SetViewportHeight(a.winH)

	// Renderer needs the GL context created by the window.
	a.renderer, err = renderer.New(renderer.Config{
		Width:  dw,
		Height: dh,
		MSAA:   cfg.Graphics.MSAA > 0,
	}, a.camera, logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		a.cancel()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer.SetWindowSize(a.winW, a.winH)

	a.input = input.New(a.window)
	a.pointer = &pointer{drag: a.controls}

	// A nil *ui.Strip must not reach the session as a non-nil interface.
	var thumbs viewer.ThumbnailTarget
	if cfg.Viewer.Thumbnails {
		a.strip = ui.NewStrip(cfg.Viewer.ThumbnailSize, logger.Named("thumbnails"))
		a.renderer.SetLayout(a.strip.Layout)
		a.pointer.strip = a.strip
		thumbs = a.strip
	}

	fetcher := photo.NewFetcher(a.maxTextureDim(), logger.Named("photo"))
	if cfg.Viewer.CacheMB > 0 {
		fetcher.Cache = photo.NewCache(int64(cfg.Viewer.CacheMB) << 20)
	}

	orbit := viewer.DefaultOrbitSettings()
	orbit.DampingFactor = cfg.Viewer.DampingFactor
	orbit.RotateSpeed = cfg.Viewer.RotateSpeed

	a.session, err = viewer.New(a.ctx, viewer.Options{
		Photos:     photos,
		Surface:    a.renderer,
		Camera:     a.camera,
		Controls:   a.controls,
		Fetcher:    fetcher,
		Input:      a.input,
		Thumbnails: thumbs,
		Indicator: &statusIndicator{
			window:  a.window,
			status:  a.renderer,
			current: a.currentPhoto,
		},
		Immersive: &fullscreenToggle{window: a.window, log: a.log},
		Zoom: viewer.ZoomLimits{
			InitialFOV: cfg.Viewer.FOV,
			MinFOV:     cfg.Viewer.MinFOV,
			MaxFOV:     cfg.Viewer.MaxFOV,
			WheelSpeed: cfg.Viewer.WheelSpeed,
		},
		Orbit:        &orbit,
		FetchTimeout: cfg.Viewer.FetchTimeout,
		Logger:       logger.Named("viewer"),
	})
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		a.cancel()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if a.strip != nil {
		size := cfg.Viewer.ThumbnailSize
		a.strip.Start(a.ctx, func(ctx context.Context, uri string) (image.Image, error) {
			return fetcher.Thumbnail(ctx, uri, 2*size, size)
		})
	}

	if len(photos) == 0 {
		a.window.SetTitle(appTitle + " - no photos")
	}

	a.log.Info("viewer initialized")
	return a, nil
}

// maxTextureDim is the smaller of the configured and the GPU texture limit.
func (a *App) maxTextureDim() int {
	limit := texture.MaxSize()
	if d := a.cfg.Viewer.MaxTextureDim; d > 0 && (limit <= 0 || d < limit) {
		return d
	}
	return limit
}

func (a *App) currentPhoto() string {
	if a.session == nil {
		return ""
	}
	return a.session.Photo(a.session.CurrentIndex())
}

// Session returns the viewer session.
func (a *App) Session() *viewer.Session {
	return a.session
}

// Run runs the main loop until the window closes, Esc is pressed or the
// context passed to New is canceled.
func (a *App) Run() error {
	a.running = true
	frames := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.alive() {
		// 1. Input: wheel, touch, keys and resize go straight to the session.
		if a.input.Update() {
			break
		}
		for _, ev := range a.input.Events() {
			a.handle(ev)
		}

		// 2. Apply finished loads on this thread.
		a.session.Poll()
		if a.strip != nil {
			for _, t := range a.strip.Poll() {
				if err := a.renderer.SetThumbnail(t.Index, t.Image); err != nil {
					a.log.Warn("failed to upload thumbnail", zap.Int("index", t.Index), zap.Error(err))
				}
			}
		}

		// 3. Animation loop: controls update, then render.
		a.renderer.Frame()
		a.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}

	a.log.Info("main loop stopped")
	return nil
}

// alive reports whether the loop should run another frame.
func (a *App) alive() bool {
	select {
	case <-a.ctx.Done():
		if a.running {
			a.log.Info("context canceled, stopping", zap.Error(a.ctx.Err()))
		}
		a.running = false
	default:
	}
	return a.running
}

func (a *App) handle(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		a.winW, a.winH = ev.Width, ev.Height
		a.renderer.SetWindowSize(ev.Width, ev.Height)
		a.controls.SetViewportHeight(ev.Height)

	case input.EventKeyDown:
		switch ev.Key {
		case sdl.SCANCODE_ESCAPE:
			a.running = false
		case sdl.SCANCODE_T:
			if a.strip != nil {
				a.strip.Toggle()
			}
		case sdl.SCANCODE_F12:
			a.screenshot()
		}

	case input.EventMouseDown, input.EventMouseMove, input.EventMouseUp:
		a.pointer.handle(ev, a.input.Fingers(), a.winW, a.winH)
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.SavePixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close stops background work and releases the session, renderer and window.
func (a *App) Close() error {
	a.log.Info("closing viewer")
	a.cancel()

	return closeAll(
		func() error {
			if a.session != nil {
				a.session.Close()
			}
			return nil
		},
		func() error {
			if a.strip != nil {
				a.strip.Wait()
			}
			return nil
		},
		func() error {
			a.renderer.Close()
			return nil
		},
		a.window.Close,
	)
}

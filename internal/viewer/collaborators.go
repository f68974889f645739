// Package viewer implements the panorama viewer's interaction and navigation
// state machine: photo selection, asynchronous photo loading, field-of-view
// zoom and thumbnail markers. Rendering, orbit math, fetching and windowing
// are reached through the interfaces declared here.
package viewer

import (
	"context"
	"image"
)

// Surface is the render container: a sized drawing surface that shows one
// replaceable image and drives the per-frame callback.
type Surface interface {
	SetSize(width, height int)
	Render()
	// SetAnimationLoop installs the callback run once per frame.
	SetAnimationLoop(frame func())
	// Upload turns a decoded image into a displayable resource. Must be
	// called on the render goroutine.
	Upload(img image.Image) (Resource, error)
	// Show installs res as the displayed image. nil shows nothing.
	Show(res Resource)
}

// Resource is a displayable image owned by the caller until released.
type Resource interface {
	Release()
}

// Camera is the perspective camera whose field of view doubles as zoom.
type Camera interface {
	SetFOV(degrees float64)
	SetAspect(aspect float64)
	UpdateProjectionMatrix()
}

// OrbitSettings configures the drag-to-look controls.
type OrbitSettings struct {
	EnableZoom    bool
	EnablePan     bool
	EnableDamping bool
	DampingFactor float64
	RotateSpeed   float64 // Negative inverts the drag direction
	MinDistance   float64
	MaxDistance   float64
}

// DefaultOrbitSettings returns the settings for viewing a sphere from its
// center: no zoom or pan, damped rotation, inverted drag, pinned distance.
func DefaultOrbitSettings() OrbitSettings {
	return OrbitSettings{
		EnableZoom:    false,
		EnablePan:     false,
		EnableDamping: true,
		DampingFactor: 0.1,
		RotateSpeed:   -0.25,
		MinDistance:   0.1,
		MaxDistance:   0.1,
	}
}

// OrbitControls consumes pointer drags and rotates the camera.
type OrbitControls interface {
	Configure(settings OrbitSettings)
	// Update advances damping; called every frame before rendering.
	Update()
}

// Fetcher resolves a photo identifier to a decoded image. Implementations
// must allow concurrent calls.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (image.Image, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, uri string) (image.Image, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, uri string) (image.Image, error) {
	return f(ctx, uri)
}

// Point is a touch contact in screen pixels.
type Point struct {
	X, Y float64
}

// Key identifies the keys the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyArrowLeft
	KeyArrowRight
	KeyImmersive
)

// InputHandler receives translated input events.
type InputHandler interface {
	Wheel(deltaY float64)
	TouchStart(points []Point)
	TouchMove(points []Point)
	TouchEnd(remaining []Point)
	KeyDown(key Key)
	Resize(width, height int)
}

// InputSource delivers input events to a handler.
type InputSource interface {
	Attach(h InputHandler)
}

// ThumbnailTarget displays one thumbnail per photo.
type ThumbnailTarget interface {
	AddThumbnail(index int, uri string, onActivate func())
	SetActive(index int, active bool)
}

// Indicator shows load progress and errors.
type Indicator interface {
	ShowLoading()
	ShowError(msg string)
	Hide()
}

// Immersive enters an immersive viewing session.
type Immersive interface {
	Enter() error
}

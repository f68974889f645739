// Package input translates SDL2 events into viewer input and app events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/panoview/internal/viewer"
)

// wheelPixelsPerNotch matches the pixel delta browsers report per notch.
const wheelPixelsPerNotch = 100

// EventType lists the events left for the app after viewer dispatch.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int // Window size in points for EventWindowResize
	Height int
	MouseX int
	MouseY int
	Button uint8
	Touch  bool // Mouse event synthesized from a touch
}

// Sizer reports the window and drawable sizes.
type Sizer interface {
	GetSize() (int, int)
	DrawableSize() (int, int)
}

// Input handles all input processing.
type Input struct {
	window  Sizer
	handler viewer.InputHandler
	touches *touches
	events  []Event
}

// New creates an input handler for window.
func New(window Sizer) *Input {
	return &Input{
		window:  window,
		touches: newTouches(),
		events:  make([]Event, 0, 16),
	}
}

// Attach sets the viewer handler that receives wheel, touch, key and
// resize input.
func (i *Input) Attach(h viewer.InputHandler) {
	i.handler = h
}

// Fingers returns the number of touch contacts down.
func (i *Input) Fingers() int {
	return i.touches.count()
}

// Update polls SDL events, dispatches viewer input and records app events.
// Returns true if the app should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w, h := i.window.GetSize()
				i.events = append(i.events, Event{Type: EventWindowResize, Width: w, Height: h})
				if i.handler != nil {
					i.handler.Resize(i.window.DrawableSize())
				}
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			if key := keyFor(e.Keysym.Scancode); key != viewer.KeyUnknown && i.handler != nil {
				if key == viewer.KeyImmersive && e.Repeat != 0 {
					continue
				}
				i.handler.KeyDown(key)
			}

		case *sdl.MouseWheelEvent:
			if i.handler != nil {
				i.handler.Wheel(wheelDelta(e.Y, e.PreciseY, e.Direction))
			}

		case *sdl.TouchFingerEvent:
			i.touchEvent(e)

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Touch:  e.Which == sdl.TOUCH_MOUSEID,
			})

		case *sdl.MouseButtonEvent:
			typ := EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				typ = EventMouseUp
			}
			i.events = append(i.events, Event{
				Type:   typ,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
				Touch:  e.Which == sdl.TOUCH_MOUSEID,
			})
		}
	}

	return quit
}

func (i *Input) touchEvent(e *sdl.TouchFingerEvent) {
	w, h := i.window.GetSize()
	p := fingerPoint(e.X, e.Y, w, h)
	id := int64(e.FingerID)

	switch e.Type {
	case sdl.FINGERDOWN:
		pts := i.touches.down(id, p)
		if i.handler != nil {
			i.handler.TouchStart(pts)
		}
	case sdl.FINGERMOTION:
		pts := i.touches.move(id, p)
		if i.handler != nil {
			i.handler.TouchMove(pts)
		}
	case sdl.FINGERUP:
		pts := i.touches.up(id)
		if i.handler != nil {
			i.handler.TouchEnd(pts)
		}
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// keyFor maps a scancode to a viewer key.
func keyFor(sc sdl.Scancode) viewer.Key {
	switch sc {
	case sdl.SCANCODE_LEFT:
		return viewer.KeyArrowLeft
	case sdl.SCANCODE_RIGHT:
		return viewer.KeyArrowRight
	case sdl.SCANCODE_F, sdl.SCANCODE_F11:
		return viewer.KeyImmersive
	}
	return viewer.KeyUnknown
}

// wheelDelta converts SDL notches to a pixel delta where positive means
// scrolling down, as browsers report it. precise carries fractional
// trackpad scrolls and wins when set.
func wheelDelta(y int32, precise float32, direction uint32) float64 {
	notches := float64(y)
	if precise != 0 {
		notches = float64(precise)
	}
	d := -notches * wheelPixelsPerNotch
	if direction == sdl.MOUSEWHEEL_FLIPPED {
		d = -d
	}
	return d
}

// fingerPoint scales SDL's normalized finger position to window points.
func fingerPoint(x, y float32, w, h int) viewer.Point {
	return viewer.Point{X: float64(x) * float64(w), Y: float64(y) * float64(h)}
}

var _ viewer.InputSource = (*Input)(nil)

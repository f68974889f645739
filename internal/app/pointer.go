package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/panoview/internal/engine/input"
	"github.com/Faultbox/panoview/internal/ui"
)

type dragger interface {
	DragStart(x, y float64)
	DragMove(x, y float64)
	DragEnd()
	Dragging() bool
}

type clicker interface {
	HitTest(screenW, screenH, x, y int) int
	Click(screenW, screenH, x, y int) bool
}

// pointer routes mouse events to the orbit controls or the thumbnail strip.
// A press on a thumbnail never starts a drag; a release ends one.
type pointer struct {
	drag    dragger
	strip   clicker
	guard   ui.ClickGuard
	onStrip bool
}

// handle processes one mouse event. fingers is the number of touch contacts
// down; synthetic mouse events are ignored while a pinch is in progress.
func (p *pointer) handle(ev input.Event, fingers, winW, winH int) {
	if ev.Touch && fingers >= 2 {
		if p.drag.Dragging() {
			p.drag.DragEnd()
			p.guard.DragEnd()
		}
		return
	}

	switch ev.Type {
	case input.EventMouseDown:
		if ev.Button != sdl.BUTTON_LEFT {
			return
		}
		p.guard.DragStart()
		p.onStrip = p.strip != nil && p.strip.HitTest(winW, winH, ev.MouseX, ev.MouseY) >= 0
		if !p.onStrip {
			p.drag.DragStart(float64(ev.MouseX), float64(ev.MouseY))
		}

	case input.EventMouseMove:
		if p.drag.Dragging() {
			p.guard.Move()
			p.drag.DragMove(float64(ev.MouseX), float64(ev.MouseY))
		}

	case input.EventMouseUp:
		if ev.Button != sdl.BUTTON_LEFT {
			return
		}
		if p.drag.Dragging() {
			p.drag.DragEnd()
			p.guard.DragEnd()
		}
		if p.onStrip && p.guard.Click() {
			p.strip.Click(winW, winH, ev.MouseX, ev.MouseY)
		}
		p.onStrip = false
	}
}

package viewer

import "math"

// ZoomLimits bounds the field of view, in degrees.
type ZoomLimits struct {
	InitialFOV float64
	MinFOV     float64
	MaxFOV     float64
	WheelSpeed float64 // Degrees per wheel delta unit
}

// DefaultZoomLimits returns 75° initial in [30°, 100°] with wheel speed 0.05.
func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{
		InitialFOV: 75,
		MinFOV:     30,
		MaxFOV:     100,
		WheelSpeed: 0.05,
	}
}

// withDefaults fills zero fields from DefaultZoomLimits.
func (l ZoomLimits) withDefaults() ZoomLimits {
	d := DefaultZoomLimits()
	if l.MinFOV <= 0 {
		l.MinFOV = d.MinFOV
	}
	if l.MaxFOV <= 0 {
		l.MaxFOV = d.MaxFOV
	}
	if l.MinFOV > l.MaxFOV {
		l.MinFOV, l.MaxFOV = l.MaxFOV, l.MinFOV
	}
	if l.InitialFOV <= 0 {
		l.InitialFOV = d.InitialFOV
	}
	if l.WheelSpeed <= 0 {
		l.WheelSpeed = d.WheelSpeed
	}
	return l
}

// pinchGesture is the snapshot taken when two fingers touch down.
type pinchGesture struct {
	startDistance float64
	startFOV      float64
}

// ZoomController turns wheel and pinch input into a clamped field of view.
type ZoomController struct {
	limits  ZoomLimits
	fov     float64
	gesture *pinchGesture // nil unless a two-finger gesture is active
}

// NewZoomController creates a controller at the initial FOV.
func NewZoomController(limits ZoomLimits) *ZoomController {
	limits = limits.withDefaults()
	z := &ZoomController{limits: limits}
	z.fov = z.clamp(limits.InitialFOV)
	return z
}

// FOV returns the current field of view in degrees.
func (z *ZoomController) FOV() float64 {
	return z.fov
}

// Limits returns the effective limits.
func (z *ZoomController) Limits() ZoomLimits {
	return z.limits
}

// Pinching reports whether a two-finger gesture is active.
func (z *ZoomController) Pinching() bool {
	return z.gesture != nil
}

// Wheel accumulates a wheel delta. Positive deltas widen the view.
func (z *ZoomController) Wheel(deltaY float64) float64 {
	z.fov = z.clamp(z.fov + deltaY*z.limits.WheelSpeed)
	return z.fov
}

// TouchStart begins a pinch when exactly two points are down and ends any
// gesture otherwise.
func (z *ZoomController) TouchStart(points []Point) {
	z.baseline(points)
}

// TouchMove rescales the FOV against the gesture snapshot. It reports
// whether the FOV changed.
func (z *ZoomController) TouchMove(points []Point) bool {
	if len(points) != 2 {
		z.gesture = nil
		return false
	}
	if z.gesture == nil {
		return false
	}
	d := distance(points[0], points[1])
	if d <= 0 {
		return false
	}
	fov := z.clamp(z.gesture.startFOV * (z.gesture.startDistance / d))
	changed := fov != z.fov
	z.fov = fov
	return changed
}

// TouchEnd is called with the points still down after a lift.
func (z *ZoomController) TouchEnd(remaining []Point) {
	z.baseline(remaining)
}

func (z *ZoomController) baseline(points []Point) {
	if len(points) != 2 {
		z.gesture = nil
		return
	}
	d := distance(points[0], points[1])
	if d <= 0 {
		z.gesture = nil
		return
	}
	z.gesture = &pinchGesture{startDistance: d, startFOV: z.fov}
}

func (z *ZoomController) clamp(fov float64) float64 {
	return math.Max(z.limits.MinFOV, math.Min(z.limits.MaxFOV, fov))
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

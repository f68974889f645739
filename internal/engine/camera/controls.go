package camera

import (
	gomath "math"

	"github.com/Faultbox/panoview/internal/viewer"
	"github.com/Faultbox/panoview/pkg/math"
)

// settleEpsilon is the angular velocity below which damping stops.
const settleEpsilon = 1e-6

// PanoramaControls orbits the camera around its target in response to
// pointer drags, with optional damping.
type PanoramaControls struct {
	camera   *Perspective
	settings viewer.OrbitSettings

	spherical  math.Spherical
	deltaTheta float64
	deltaPhi   float64

	viewportHeight int
	dragging       bool
	lastX, lastY   float64
}

// NewPanoramaControls attaches controls to cam, starting from its current
// position.
func NewPanoramaControls(cam *Perspective) *PanoramaControls {
	return &PanoramaControls{
		camera:         cam,
		settings:       viewer.DefaultOrbitSettings(),
		spherical:      math.SphericalFromVec3(cam.Position.Sub(cam.Target)),
		viewportHeight: 1,
	}
}

// Configure applies settings.
func (c *PanoramaControls) Configure(s viewer.OrbitSettings) {
	c.settings = s
}

// Settings returns the active settings.
func (c *PanoramaControls) Settings() viewer.OrbitSettings {
	return c.settings
}

// SetViewportHeight sets the pixel height that maps to a full turn.
func (c *PanoramaControls) SetViewportHeight(h int) {
	if h > 0 {
		c.viewportHeight = h
	}
}

// DragStart begins a drag at (x, y).
func (c *PanoramaControls) DragStart(x, y float64) {
	c.dragging = true
	c.lastX, c.lastY = x, y
}

// DragMove rotates by the movement since the last drag position.
func (c *PanoramaControls) DragMove(x, y float64) {
	if !c.dragging {
		return
	}
	c.Rotate(x-c.lastX, y-c.lastY)
	c.lastX, c.lastY = x, y
}

// DragEnd ends the drag. Damping keeps the view moving briefly.
func (c *PanoramaControls) DragEnd() {
	c.dragging = false
}

// Dragging reports whether a drag is in progress.
func (c *PanoramaControls) Dragging() bool {
	return c.dragging
}

// Rotate turns the view by a pointer delta in pixels. Moving the full
// viewport height turns 2π times the rotate speed.
func (c *PanoramaControls) Rotate(dx, dy float64) {
	h := float64(c.viewportHeight)
	c.deltaTheta -= 2 * gomath.Pi * dx / h * c.settings.RotateSpeed
	c.deltaPhi -= 2 * gomath.Pi * dy / h * c.settings.RotateSpeed
}

// Update applies pending rotation to the camera. Call once per frame.
func (c *PanoramaControls) Update() {
	factor := 1.0
	if c.settings.EnableDamping {
		factor = c.settings.DampingFactor
	}

	c.spherical.Theta += c.deltaTheta * factor
	c.spherical.Phi += c.deltaPhi * factor
	c.spherical = c.spherical.MakeSafe()
	c.spherical.Radius = gomath.Max(c.settings.MinDistance, gomath.Min(c.settings.MaxDistance, c.spherical.Radius))

	c.camera.Position = c.camera.Target.Add(c.spherical.Vec3())

	if c.settings.EnableDamping {
		c.deltaTheta *= 1 - c.settings.DampingFactor
		c.deltaPhi *= 1 - c.settings.DampingFactor
		if gomath.Abs(c.deltaTheta) < settleEpsilon && gomath.Abs(c.deltaPhi) < settleEpsilon {
			c.deltaTheta, c.deltaPhi = 0, 0
		}
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
	}
}

// Moving reports whether rotation is still being applied.
func (c *PanoramaControls) Moving() bool {
	return c.deltaTheta != 0 || c.deltaPhi != 0
}

// Orientation returns the current azimuth and polar angle in radians.
func (c *PanoramaControls) Orientation() (theta, phi float64) {
	return c.spherical.Theta, c.spherical.Phi
}

var _ viewer.OrbitControls = (*PanoramaControls)(nil)
var _ viewer.Camera = (*Perspective)(nil)

// Package camera provides the perspective camera and the drag-to-look
// controls used to view a panorama from the center of its sphere.
package camera

import (
	"github.com/Faultbox/panoview/pkg/math"
)

const (
	defaultNear = 0.1
	defaultFar  = 1000
)

// Perspective is a perspective camera. FOV is the vertical field of view
// in degrees.
type Perspective struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	projection math.Mat4
}

// NewPerspective creates a camera just off the origin looking at it.
func NewPerspective(fov, aspect float64) *Perspective {
	c := &Perspective{
		FOV:      fov,
		Aspect:   aspect,
		Near:     defaultNear,
		Far:      defaultFar,
		Position: math.Vec3{X: 0, Y: 0, Z: 0.1},
		Up:       math.Vec3{X: 0, Y: 1, Z: 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// SetFOV sets the vertical field of view. Call UpdateProjectionMatrix after.
func (c *Perspective) SetFOV(degrees float64) {
	c.FOV = degrees
}

// SetAspect sets width/height. Call UpdateProjectionMatrix after.
func (c *Perspective) SetAspect(aspect float64) {
	c.Aspect = aspect
}

// UpdateProjectionMatrix rebuilds the projection from FOV, aspect and clip planes.
func (c *Perspective) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = math.PerspectiveDeg(float32(c.FOV), float32(aspect), float32(c.Near), float32(c.Far))
}

// Projection returns the projection matrix as of the last update.
func (c *Perspective) Projection() math.Mat4 {
	return c.projection
}

// View returns the view matrix.
func (c *Perspective) View() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.View())
}

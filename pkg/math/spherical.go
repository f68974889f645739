package math

import "math"

// Spherical holds spherical coordinates with Y as the polar axis.
// Phi is measured from +Y, Theta around Y starting at +Z.
type Spherical struct {
	Radius float64
	Phi    float64
	Theta  float64
}

// SphericalFromVec3 converts a cartesian offset to spherical coordinates.
func SphericalFromVec3(v Vec3) Spherical {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math.Atan2(x, z),
		Phi:    math.Acos(clamp(y/r, -1, 1)),
	}
}

// Vec3 converts back to a cartesian offset.
func (s Spherical) Vec3() Vec3 {
	sinPhi := math.Sin(s.Phi) * s.Radius
	return Vec3{
		X: float32(sinPhi * math.Sin(s.Theta)),
		Y: float32(math.Cos(s.Phi) * s.Radius),
		Z: float32(sinPhi * math.Cos(s.Theta)),
	}
}

// MakeSafe keeps Phi away from the poles where LookAt degenerates.
func (s Spherical) MakeSafe() Spherical {
	const eps = 1e-6
	s.Phi = clamp(s.Phi, eps, math.Pi-eps)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package sphere builds the inverted UV sphere a panorama is projected on.
package sphere

import (
	gomath "math"
)

// Default geometry for panoramas.
const (
	DefaultRadius         = 500
	DefaultWidthSegments  = 60
	DefaultHeightSegments = 40
)

// Vertex is an interleaved position + texture coordinate.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// New builds a sphere of the given radius seen from the inside: the x axis
// is mirrored so the texture reads correctly from the center.
func New(radius float64, widthSegments, heightSegments int) Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	var m Mesh
	m.Vertices = make([]Vertex, 0, (widthSegments+1)*(heightSegments+1))

	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		phi := v * gomath.Pi

		// Offset pole u so the triangle fans share the seam
		uOffset := 0.0
		if iy == 0 {
			uOffset = 0.5 / float64(widthSegments)
		} else if iy == heightSegments {
			uOffset = -0.5 / float64(widthSegments)
		}

		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			theta := u * 2 * gomath.Pi

			x := -radius * gomath.Cos(theta) * gomath.Sin(phi)
			y := radius * gomath.Cos(phi)
			z := radius * gomath.Sin(theta) * gomath.Sin(phi)

			row[ix] = uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, Vertex{
				// Mirrored x turns the sphere inside out
				Position: [3]float32{float32(-x), float32(y), float32(z)},
				// Image row 0 is uploaded at t = 0, so the north pole samples t = 0
				UV: [2]float32{float32(u + uOffset), float32(v)},
			})
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]

			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}

// Default builds the standard panorama sphere.
func Default() Mesh {
	return New(DefaultRadius, DefaultWidthSegments, DefaultHeightSegments)
}

// Floats flattens the vertices for a GL buffer: x, y, z, u, v per vertex.
func (m Mesh) Floats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*5)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2], v.UV[0], v.UV[1])
	}
	return out
}

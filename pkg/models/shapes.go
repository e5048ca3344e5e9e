package models

import (
	"math"

	"github.com/taigrr/lumen/pkg/math3d"
)

// boxSides lists each cube side as (normal, u, v) with u × v = normal, so
// quads wound u-then-v face outward.
var boxSides = [6][3]math3d.Vec3{
	{{X: 1}, {Y: 1}, {Z: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {Z: 1}, {X: 1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {Y: 1}, {X: 1}},
}

// NewBox creates an axis-aligned cube of the given side length centered on
// the local origin. Each side is split into details×details quads.
func NewBox(side float64, details int, opts ...Option) *Mesh {
	details = max(details, 1)
	half := side / 2
	var vertices []math3d.Vec3
	var faces []Face
	for _, s := range boxSides {
		center := s[0].Scale(half)
		vs, fs := grid(center, s[1], s[2], side, details, len(vertices))
		vertices = append(vertices, vs...)
		faces = append(faces, fs...)
	}
	return NewMesh("box", vertices, faces, opts...)
}

// NewPlane creates a square in the local XZ plane facing +Y.
func NewPlane(side float64, details int, opts ...Option) *Mesh {
	details = max(details, 1)
	vertices, faces := grid(math3d.Zero3(), math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), side, details, 0)
	return NewMesh("plane", vertices, faces, opts...)
}

// grid emits a details×details quad grid of the given side length centered
// on center, spanned by u and v. Vertex indices start at base.
func grid(center, u, v math3d.Vec3, side float64, details, base int) ([]math3d.Vec3, []Face) {
	step := side / float64(details)
	origin := center.Sub(u.Scale(side / 2)).Sub(v.Scale(side / 2))
	n := details + 1
	vertices := make([]math3d.Vec3, 0, n*n)
	for i := range n {
		for j := range n {
			vertices = append(vertices, origin.Add(u.Scale(float64(i)*step)).Add(v.Scale(float64(j)*step)))
		}
	}
	idx := func(i, j int) int { return base + i*n + j }
	faces := make([]Face, 0, details*details)
	for i := range details {
		for j := range details {
			faces = append(faces, Face{
				V:        []int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)},
				Material: -1,
			})
		}
	}
	return vertices, faces
}

// NewSphere creates a UV sphere with the given number of latitude rings and
// longitude segments. Pole caps are triangles, the rest quads.
func NewSphere(radius float64, rings, segments int, opts ...Option) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	vertices := []math3d.Vec3{
		math3d.V3(0, radius, 0),  // top pole
		math3d.V3(0, -radius, 0), // bottom pole
	}
	for i := 1; i < rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		for j := range segments {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			vertices = append(vertices, math3d.V3(
				radius*math.Sin(theta)*math.Cos(phi),
				radius*math.Cos(theta),
				radius*math.Sin(theta)*math.Sin(phi),
			))
		}
	}

	at := func(ring, seg int) int {
		switch ring {
		case 0:
			return 0
		case rings:
			return 1
		}
		return 2 + (ring-1)*segments + seg%segments
	}

	var faces []Face
	for i := range rings {
		for j := range segments {
			a, b := at(i, j), at(i+1, j)
			c, d := at(i+1, j+1), at(i, j+1)
			switch i {
			case 0:
				faces = append(faces, Face{V: []int{a, c, b}, Material: -1})
			case rings - 1:
				faces = append(faces, Face{V: []int{a, d, b}, Material: -1})
			default:
				faces = append(faces, Face{V: []int{a, d, c, b}, Material: -1})
			}
		}
	}
	return NewMesh("sphere", vertices, faces, opts...)
}

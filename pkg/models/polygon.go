package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/lumen/pkg/math3d"
)

// ErrDegenerateGeometry is reported for polygons with fewer than 3 vertices,
// a zero-length normal, or a zero-area projection. Such polygons are skipped
// for the frame; they never abort rendering.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// RGB is a base color with 0-255 channels.
type RGB struct {
	R, G, B uint8
}

// White is the default object color.
var White = RGB{255, 255, 255}

// Polygon is an ordered, planar vertex loop. Winding defines the outward
// normal by the right-hand rule.
type Polygon struct {
	Vertices   []math3d.Vec3
	Normal     math3d.Vec3 // Unit normal from the winding; zero when Degenerate
	Color      RGB
	Owner      Object // Non-owning back-reference, may be nil
	Index      int    // Position within the owner's polygon list
	Degenerate bool
}

// NewPolygon builds a polygon and derives its unit normal. A degenerate
// polygon is still returned (flagged) together with ErrDegenerateGeometry.
func NewPolygon(vertices []math3d.Vec3, color RGB) (Polygon, error) {
	p := Polygon{Vertices: vertices, Color: color}
	if len(vertices) < 3 {
		p.Degenerate = true
		return p, fmt.Errorf("%d vertices: %w", len(vertices), ErrDegenerateGeometry)
	}
	n, err := newellNormal(vertices).Unit()
	if err != nil {
		p.Degenerate = true
		return p, fmt.Errorf("zero-length normal: %w", ErrDegenerateGeometry)
	}
	p.Normal = n
	return p, nil
}

// newellNormal returns the (unnormalized) polygon normal using Newell's
// method, which agrees with (v1-v0)×(v2-v0) for triangles and stays stable
// for slightly non-planar n-gons.
func newellNormal(vs []math3d.Vec3) math3d.Vec3 {
	var n math3d.Vec3
	for i, cur := range vs {
		next := vs[(i+1)%len(vs)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

// Centroid returns the vertex average.
func (p Polygon) Centroid() math3d.Vec3 {
	var c math3d.Vec3
	if len(p.Vertices) == 0 {
		return c
	}
	for _, v := range p.Vertices {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(p.Vertices)))
}

// FacingNormal returns the normal with the owner's inversion applied.
func (p Polygon) FacingNormal() math3d.Vec3 {
	if p.Owner != nil && p.Owner.Inverted() {
		return p.Normal.Negate()
	}
	return p.Normal
}

// Transformed returns p with every vertex mapped by m and the normal
// re-derived from the new vertices, so non-uniform scale stays correct.
func (p Polygon) Transformed(m math3d.Mat4) (Polygon, error) {
	vs := make([]math3d.Vec3, len(p.Vertices))
	for i, v := range p.Vertices {
		vs[i] = m.MulVec3(v)
	}
	out, err := NewPolygon(vs, p.Color)
	out.Owner = p.Owner
	out.Index = p.Index
	return out, err
}

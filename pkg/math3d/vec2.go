package math3d

import "math"

// Vec2 represents a 2D vector, used for screen-space points.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Cross returns the z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Len returns the length of the vector.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// SignedArea returns the signed area of the polygon described by pts
// (shoelace formula). Positive when the points wind counter-clockwise in a
// Y-up frame, which is clockwise on a Y-down screen.
func SignedArea(pts []Vec2) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	prev := pts[len(pts)-1]
	for _, p := range pts {
		sum += prev.Cross(p)
		prev = p
	}
	return sum / 2
}

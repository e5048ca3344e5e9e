package render

import (
	"math"

	"github.com/taigrr/lumen/pkg/math3d"
)

// Plane is the closed half-space N·p + D >= 0 with a unit normal N. Points
// with a negative distance are outside.
type Plane struct {
	N math3d.Vec3
	D float64
}

// NewPlane scales n and d so the normal has unit length. A zero normal is
// kept as is and accepts every point.
func NewPlane(n math3d.Vec3, d float64) Plane {
	l := n.Len()
	if l == 0 {
		return Plane{N: n, D: d}
	}
	return Plane{N: n.Scale(1 / l), D: d / l}
}

// Distance returns the signed distance from the plane to p.
func (pl Plane) Distance(p math3d.Vec3) float64 {
	return pl.N.Dot(p) + pl.D
}

// support returns the corner of b farthest along the normal. If it is
// outside, the whole box is.
func (pl Plane) support(b AABB) math3d.Vec3 {
	pick := func(n, lo, hi float64) float64 {
		if n >= 0 {
			return hi
		}
		return lo
	}
	return math3d.V3(
		pick(pl.N.X, b.Min.X, b.Max.X),
		pick(pl.N.Y, b.Min.Y, b.Max.Y),
		pick(pl.N.Z, b.Min.Z, b.Max.Z),
	)
}

// Side names a bounding plane of the view volume.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideBottom
	SideTop
	SideNear
)

// ViewVolume is the camera-space region a camera can see (X right, Y up,
// Z forward): four side planes through the eye plus the near plane, all
// facing inward. It has no far plane.
type ViewVolume [5]Plane

// NewViewVolume builds the volume |x| <= z·tanH, |y| <= z·tanV, z >= near.
func NewViewVolume(tanH, tanV, near float64) ViewVolume {
	return ViewVolume{
		SideLeft:   NewPlane(math3d.V3(1, 0, tanH), 0),
		SideRight:  NewPlane(math3d.V3(-1, 0, tanH), 0),
		SideBottom: NewPlane(math3d.V3(0, 1, tanV), 0),
		SideTop:    NewPlane(math3d.V3(0, -1, tanV), 0),
		SideNear:   NewPlane(math3d.V3(0, 0, 1), -near),
	}
}

// Excludes reports whether all points lie outside one side plane. Points
// straddling a plane are kept; nothing is clipped. The near plane is not
// consulted.
func (v ViewVolume) Excludes(points []math3d.Vec3) bool {
	for _, pl := range v[SideLeft : SideTop+1] {
		far := math.Inf(-1)
		for _, p := range points {
			far = math.Max(far, pl.Distance(p))
		}
		if far < 0 {
			return true
		}
	}
	return false
}

// Contains reports whether p is inside every plane.
func (v ViewVolume) Contains(p math3d.Vec3) bool {
	for _, pl := range v {
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// Overlaps reports whether a camera-space box may hold visible geometry. It
// is false only when the box is wholly outside one plane, or touches the
// near plane at best, in which case every polygon inside it would be culled.
func (v ViewVolume) Overlaps(b AABB) bool {
	for side, pl := range v {
		d := pl.Distance(pl.support(b))
		if d < 0 || (Side(side) == SideNear && d == 0) {
			return false
		}
	}
	return true
}

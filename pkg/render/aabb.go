package render

import (
	"math"

	"github.com/taigrr/lumen/pkg/math3d"
)

// AABB is an axis-aligned box given by its minimum and maximum corners.
type AABB struct {
	Min, Max math3d.Vec3
}

// NewAABB returns the box spanned by two opposite corners in any order.
func NewAABB(a, b math3d.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

func (b AABB) Center() math3d.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

func (b AABB) Size() math3d.Vec3 { return b.Max.Sub(b.Min) }

// Corners lists the eight corners; bit 0, 1 and 2 of the index select the
// max X, Y and Z respectively.
func (b AABB) Corners() [8]math3d.Vec3 {
	var out [8]math3d.Vec3
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out[i] = c
	}
	return out
}

// Transform returns the tightest axis-aligned box around b mapped by m. The
// half-extents are pushed through the absolute value of m's linear part.
func (b AABB) Transform(m math3d.Mat4) AABB {
	center := m.MulVec3(b.Center())
	half := b.Size().Scale(0.5)
	var ext math3d.Vec3
	for r, dst := range []*float64{&ext.X, &ext.Y, &ext.Z} {
		*dst = math.Abs(m[r][0])*half.X + math.Abs(m[r][1])*half.Y + math.Abs(m[r][2])*half.Z
	}
	return AABB{Min: center.Sub(ext), Max: center.Add(ext)}
}

// Contains reports whether p is inside or on the box.
func (b AABB) Contains(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

package math3d

import "math"

// Mat4 is an affine transform in homogeneous form, indexed [row][col]. The
// bottom row is always (0, 0, 0, 1); points are column vectors, so a.Mul(b)
// applies b first.
type Mat4 [4][4]float64

// fromBasis builds the matrix that sends the unit axes to x, y and z and the
// origin to t.
func fromBasis(x, y, z, t Vec3) Mat4 {
	return Mat4{
		{x.X, y.X, z.X, t.X},
		{x.Y, y.Y, z.Y, t.Y},
		{x.Z, y.Z, z.Z, t.Z},
		{0, 0, 0, 1},
	}
}

// Identity returns the identity transform.
func Identity() Mat4 {
	return fromBasis(V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1), Zero3())
}

// Translate moves by v.
func Translate(v Vec3) Mat4 {
	return fromBasis(V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1), v)
}

// Scale scales each axis independently.
func Scale(v Vec3) Mat4 {
	return fromBasis(V3(v.X, 0, 0), V3(0, v.Y, 0), V3(0, 0, v.Z), Zero3())
}

// ScaleUniform scales all axes by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// Rotate turns by angle radians around axis, counter-clockwise when looking
// down the axis toward the origin (right-handed).
func Rotate(axis Vec3, angle float64) Mat4 {
	a := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return fromBasis(
		V3(t*a.X*a.X+c, t*a.X*a.Y+s*a.Z, t*a.X*a.Z-s*a.Y),
		V3(t*a.X*a.Y-s*a.Z, t*a.Y*a.Y+c, t*a.Y*a.Z+s*a.X),
		V3(t*a.X*a.Z+s*a.Y, t*a.Y*a.Z-s*a.X, t*a.Z*a.Z+c),
		Zero3(),
	)
}

// RotateX turns around the X axis; +90° takes +Y to +Z.
func RotateX(angle float64) Mat4 { return Rotate(Right(), angle) }

// RotateY turns around the Y axis; +90° takes +Z to +X.
func RotateY(angle float64) Mat4 { return Rotate(Up(), angle) }

// RotateZ turns around the Z axis; +90° takes +X to +Y.
func RotateZ(angle float64) Mat4 { return Rotate(V3(0, 0, 1), angle) }

// Euler creates a rotation from angles in degrees, applied around X first,
// then Y, then Z.
func Euler(deg Vec3) Mat4 {
	return RotateZ(Radians(deg.Z)).Mul(RotateY(Radians(deg.Y))).Mul(RotateX(Radians(deg.X)))
}

// TRS scales, then rotates (Euler degrees), then translates.
func TRS(translation, rotation, scale Vec3) Mat4 {
	return Translate(translation).Mul(Euler(rotation)).Mul(Scale(scale))
}

// ViewBasis maps world points into the frame with origin eye and orthonormal
// axes right, up and forward. The result's X, Y and Z are the point's
// coordinates along right, up and forward.
func ViewBasis(eye, right, up, forward Vec3) Mat4 {
	return Mat4{
		{right.X, right.Y, right.Z, -right.Dot(eye)},
		{up.X, up.Y, up.Z, -up.Dot(eye)},
		{forward.X, forward.Y, forward.Z, -forward.Dot(eye)},
		{0, 0, 0, 1},
	}
}

// Mul returns the composition a·b (b applied first).
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for r := range 4 {
		for c := range 4 {
			m[r][c] = a[r][0]*b[0][c] + a[r][1]*b[1][c] + a[r][2]*b[2][c] + a[r][3]*b[3][c]
		}
	}
	return m
}

// MulVec3 transforms v as a point.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec3Dir(v).Add(m.Column(3))
}

// MulVec3Dir transforms v as a direction, ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Column returns the upper three entries of column c: the image of an axis
// for c < 3, the translation for c == 3.
func (m Mat4) Column(c int) Vec3 {
	return Vec3{m[0][c], m[1][c], m[2][c]}
}

// FromColumnMajor converts a column-major array, as stored by OpenGL and
// glTF, to a Mat4.
func FromColumnMajor(a [16]float64) Mat4 {
	var m Mat4
	for c := range 4 {
		for r := range 4 {
			m[r][c] = a[c*4+r]
		}
	}
	return m
}

// RotateQuat converts the unit quaternion (x, y, z, w) to a rotation.
func RotateQuat(x, y, z, w float64) Mat4 {
	return fromBasis(
		V3(1-2*(y*y+z*z), 2*(x*y+z*w), 2*(x*z-y*w)),
		V3(2*(x*y-z*w), 1-2*(x*x+z*z), 2*(y*z+x*w)),
		V3(2*(x*z+y*w), 2*(y*z-x*w), 1-2*(x*x+y*y)),
		Zero3(),
	)
}

// Det3 returns the determinant of the linear part. It is negative when m
// mirrors, which reverses polygon winding.
func (m Mat4) Det3() float64 {
	return m.Column(0).Dot(m.Column(1).Cross(m.Column(2)))
}

// Package math3d provides the vector and matrix primitives used by lumen.
// The world is right-handed with +Y up; cameras look down -Z by default.
package math3d

import (
	"errors"
	"math"
)

// ErrDegenerateVector is returned when a zero-length vector is normalized.
var ErrDegenerateVector = errors.New("math3d: degenerate vector")

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func Zero3() Vec3 { return Vec3{} }

// Up is the world up axis, +Y.
func Up() Vec3 { return Vec3{Y: 1} }

// Forward is the default view direction, -Z.
func Forward() Vec3 { return Vec3{Z: -1} }

// Right is +X, to the right of a default camera.
func Right() Vec3 { return Vec3{X: 1} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross is right-handed: Right().Cross(Up()) is +Z.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LenSq() float64 { return a.Dot(a) }

func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }

func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

// Unit returns a scaled to length 1. Zero, NaN and infinite lengths fail
// with ErrDegenerateVector.
func (a Vec3) Unit() (Vec3, error) {
	l := a.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, ErrDegenerateVector
	}
	return a.Scale(1 / l), nil
}

// Normalize is Unit for callers that already know a is non-zero; a
// degenerate input yields the zero vector.
func (a Vec3) Normalize() Vec3 {
	u, err := a.Unit()
	if err != nil {
		return Vec3{}
	}
	return u
}

// Angle returns the angle between a and b in radians, or 0 if either is
// zero.
func (a Vec3) Angle(b Vec3) float64 {
	l := a.Len() * b.Len()
	if l == 0 {
		return 0
	}
	return math.Acos(math.Max(-1, math.Min(1, a.Dot(b)/l)))
}

// Min is the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max is the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Package models provides the scene object model for lumen: polygons,
// posed objects, procedural shapes and GLB import.
package models

import (
	"sync/atomic"

	"github.com/taigrr/lumen/pkg/math3d"
)

// Object is anything that produces local-space polygons and carries a
// mutable pose. Version changes whenever anything affecting the object's
// world-space geometry or color changes.
type Object interface {
	ID() uint64
	Version() uint64
	Transform() *Transform
	Inverted() bool
	Polygons() []Polygon
}

var lastID atomic.Uint64

// NextID returns a process-unique entity identifier. Objects and lights
// draw from the same sequence.
func NextID() uint64 {
	return lastID.Add(1)
}

// Transform is a position, Euler rotation (degrees) and scale. Every setter
// bumps the version counter.
type Transform struct {
	position math3d.Vec3
	rotation math3d.Vec3
	scale    math3d.Vec3
	version  uint64
}

// NewTransform returns an identity transform with unit scale.
func NewTransform() Transform {
	return Transform{scale: math3d.V3(1, 1, 1)}
}

// Position returns the translation.
func (t *Transform) Position() math3d.Vec3 { return t.position }

// Rotation returns the Euler angles in degrees.
func (t *Transform) Rotation() math3d.Vec3 { return t.rotation }

// Scale returns the per-axis scale.
func (t *Transform) Scale() math3d.Vec3 { return t.scale }

// Version returns the mutation counter.
func (t *Transform) Version() uint64 { return t.version }

// SetPosition sets the translation.
func (t *Transform) SetPosition(p math3d.Vec3) {
	t.position = p
	t.Touch()
}

// SetRotation sets the Euler angles in degrees.
func (t *Transform) SetRotation(r math3d.Vec3) {
	t.rotation = r
	t.Touch()
}

// SetScale sets the per-axis scale.
func (t *Transform) SetScale(s math3d.Vec3) {
	t.scale = s
	t.Touch()
}

// Translate moves by delta.
func (t *Transform) Translate(delta math3d.Vec3) {
	t.SetPosition(t.position.Add(delta))
}

// Rotate adds delta degrees to the Euler angles.
func (t *Transform) Rotate(delta math3d.Vec3) {
	t.SetRotation(t.rotation.Add(delta))
}

// Touch bumps the version without changing the pose. Owners call it when
// some other attribute that affects shading changes.
func (t *Transform) Touch() {
	t.version++
}

// World returns the local-to-world matrix (scale, then rotate, then
// translate).
func (t *Transform) World() math3d.Mat4 {
	return math3d.TRS(t.position, t.rotation, t.scale)
}

// WorldPolygons returns obj's polygons in world space. Every result has
// Owner set to obj and Index set to its position in obj.Polygons(), whatever
// the implementation filled in. Degenerate polygons are returned flagged so
// callers can count them; their count is also returned.
func WorldPolygons(obj Object) ([]Polygon, int) {
	local := obj.Polygons()
	m := obj.Transform().World()
	out := make([]Polygon, len(local))
	degenerate := 0
	for i, p := range local {
		p.Owner, p.Index = obj, i
		if p.Degenerate {
			out[i] = p
			degenerate++
			continue
		}
		wp, err := p.Transformed(m)
		if err != nil {
			degenerate++
		}
		out[i] = wp
	}
	return out, degenerate
}

package models

import (
	"slices"

	"github.com/taigrr/lumen/pkg/math3d"
)

// Mesh is an indexed polygon mesh with a pose. It is the concrete Object
// produced by the shape generators and the GLB importer.
//
// Vertices, Faces and Materials are exported for reading. Once the mesh has
// been rendered, change them only through SetGeometry, Bake or
// SetMaterialColor: direct writes leave the polygon and lighting caches
// stale.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	id        uint64
	transform Transform
	color     RGB
	inverted  bool

	lo, hi math3d.Vec3

	polys []Polygon // rebuilt when dirty
	dirty bool
}

// Face is a vertex loop with an optional material.
type Face struct {
	V        []int // Indices into Mesh.Vertices, >= 3 for a valid face
	Material int   // Index into Mesh.Materials (-1 for the mesh color)
}

// Material is a named base color.
type Material struct {
	Name  string
	Color RGB
}

// Option configures a Mesh at construction.
type Option func(*Mesh)

// WithPosition sets the initial position.
func WithPosition(p math3d.Vec3) Option {
	return func(m *Mesh) { m.transform.position = p }
}

// WithRotation sets the initial Euler rotation in degrees.
func WithRotation(r math3d.Vec3) Option {
	return func(m *Mesh) { m.transform.rotation = r }
}

// WithScale sets the initial scale.
func WithScale(s math3d.Vec3) Option {
	return func(m *Mesh) { m.transform.scale = s }
}

// WithUniformScale sets the same scale on every axis.
func WithUniformScale(s float64) Option {
	return WithScale(math3d.V3(s, s, s))
}

// WithColor sets the base color used by faces without a material.
func WithColor(c RGB) Option {
	return func(m *Mesh) { m.color = c }
}

// WithInverted flips every derived normal (for inside-out geometry such as
// a room or skybox).
func WithInverted(inverted bool) Option {
	return func(m *Mesh) { m.inverted = inverted }
}

// NewMesh creates a mesh from vertices and faces.
func NewMesh(name string, vertices []math3d.Vec3, faces []Face, opts ...Option) *Mesh {
	m := &Mesh{
		Name:      name,
		Vertices:  vertices,
		Faces:     faces,
		id:        NextID(),
		transform: NewTransform(),
		color:     White,
		dirty:     true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.updateBounds()
	return m
}

// ID implements Object.
func (m *Mesh) ID() uint64 { return m.id }

// Version implements Object.
func (m *Mesh) Version() uint64 { return m.transform.Version() }

// Transform implements Object.
func (m *Mesh) Transform() *Transform { return &m.transform }

// Inverted implements Object.
func (m *Mesh) Inverted() bool { return m.inverted }

// Color returns the mesh base color.
func (m *Mesh) Color() RGB { return m.color }

// SetColor sets the base color for faces without a material.
func (m *Mesh) SetColor(c RGB) {
	m.color = c
	m.invalidate()
}

// SetInverted sets the inversion flag.
func (m *Mesh) SetInverted(inverted bool) {
	m.inverted = inverted
	m.transform.Touch()
}

// SetGeometry replaces vertices and faces.
func (m *Mesh) SetGeometry(vertices []math3d.Vec3, faces []Face) {
	m.Vertices = vertices
	m.Faces = faces
	m.updateBounds()
	m.invalidate()
}

// SetMaterialColor recolors material i. It reports false if i is out of
// range.
func (m *Mesh) SetMaterialColor(i int, c RGB) bool {
	mat := m.GetMaterial(i)
	if mat == nil {
		return false
	}
	mat.Color = c
	m.invalidate()
	return true
}

func (m *Mesh) invalidate() {
	m.dirty = true
	m.transform.Touch()
}

// Polygons implements Object. The returned slice is shared; callers must
// not modify it.
func (m *Mesh) Polygons() []Polygon {
	if !m.dirty && m.polys != nil {
		return m.polys
	}
	polys := make([]Polygon, len(m.Faces))
	for i, f := range m.Faces {
		vs := make([]math3d.Vec3, 0, len(f.V))
		for _, idx := range f.V {
			if idx >= 0 && idx < len(m.Vertices) {
				vs = append(vs, m.Vertices[idx])
			}
		}
		// Degenerate faces stay in the list, flagged, so indices line up.
		p, _ := NewPolygon(vs, m.faceColor(f))
		p.Owner = m
		p.Index = i
		polys[i] = p
	}
	m.polys = polys
	m.dirty = false
	return polys
}

func (m *Mesh) faceColor(f Face) RGB {
	if mat := m.GetMaterial(f.Material); mat != nil {
		return mat.Color
	}
	return m.color
}

// GetMaterial returns material i, or nil for -1 and out-of-range indices.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

func (m *Mesh) updateBounds() {
	m.lo, m.hi = math3d.Vec3{}, math3d.Vec3{}
	for i, v := range m.Vertices {
		if i == 0 {
			m.lo, m.hi = v, v
			continue
		}
		m.lo, m.hi = m.lo.Min(v), m.hi.Max(v)
	}
}

// LocalBounds returns the local-space bounding box corners.
func (m *Mesh) LocalBounds() (lo, hi math3d.Vec3) { return m.lo, m.hi }

func (m *Mesh) Center() math3d.Vec3 { return m.lo.Add(m.hi).Scale(0.5) }

func (m *Mesh) Size() math3d.Vec3 { return m.hi.Sub(m.lo) }

func (m *Mesh) PolygonCount() int { return len(m.Faces) }

func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// Bake maps the local vertices through mat, leaving the pose untouched.
func (m *Mesh) Bake(mat math3d.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(v)
	}
	m.updateBounds()
	m.invalidate()
}

// Fit centers the mesh on its local origin and scales it uniformly so the
// largest bounding dimension becomes size.
func (m *Mesh) Fit(size float64) {
	d := m.Size()
	if longest := max(d.X, d.Y, d.Z); longest > 0 {
		m.Bake(math3d.ScaleUniform(size / longest).Mul(math3d.Translate(m.Center().Negate())))
	}
}

// Clone deep-copies geometry and materials. The copy gets a new ID.
func (m *Mesh) Clone() *Mesh {
	faces := make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = Face{V: slices.Clone(f.V), Material: f.Material}
	}
	c := NewMesh(m.Name, slices.Clone(m.Vertices), faces, WithColor(m.color), WithInverted(m.inverted))
	c.Materials = slices.Clone(m.Materials)
	c.transform = m.transform
	return c
}

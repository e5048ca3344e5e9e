package models

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/lumen/pkg/math3d"
)

// errNoTriangles is returned for documents without any triangle primitive.
var errNoTriangles = errors.New("no triangle primitives")

// GLTFLoader loads GLTF/GLB files into a single Mesh.
type GLTFLoader struct {
	// Options
	UseMaterials bool    // Color faces from each primitive's PBR base color
	FitSize      float64 // If > 0, recenter and scale to this largest dimension
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		UseMaterials: true,
	}
}

// LoadGLB loads a GLTF or GLB file with the default loader.
func LoadGLB(path string, opts ...Option) (*Mesh, error) {
	return NewGLTFLoader().Load(path, opts...)
}

// Load reads a GLTF or GLB file and flattens it into one Mesh. Node
// transforms of the default scene are baked into the vertices; a document
// without scenes contributes every mesh untransformed.
func (l *GLTFLoader) Load(path string, opts ...Option) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	b := &meshBuilder{doc: doc}
	if roots := sceneRoots(doc); roots != nil {
		for _, n := range roots {
			if err := b.addNode(n, math3d.Identity()); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range doc.Meshes {
			if err := b.addMesh(i, math3d.Identity()); err != nil {
				return nil, err
			}
		}
	}
	if len(b.faces) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), errNoTriangles)
	}

	mesh := NewMesh(filepath.Base(path), b.vertices, b.faces, opts...)
	if l.UseMaterials {
		mesh.Materials = readMaterials(doc)
	} else {
		for i := range mesh.Faces {
			mesh.Faces[i].Material = -1
		}
	}
	if l.FitSize > 0 {
		mesh.Fit(l.FitSize)
	}
	return mesh, nil
}

// sceneRoots returns the root nodes of the default (or first) scene, or nil
// if the document has none.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	s := 0
	if doc.Scene != nil {
		s = *doc.Scene
	}
	if s < 0 || s >= len(doc.Scenes) {
		return nil
	}
	return doc.Scenes[s].Nodes
}

// nodeMatrix is the node's local transform. GLTF stores either a matrix or
// TRS; the unused form is identity, so the product covers both.
func nodeMatrix(n *gltf.Node) math3d.Mat4 {
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return math3d.FromColumnMajor(n.MatrixOrDefault()).
		Mul(math3d.Translate(math3d.V3(t[0], t[1], t[2]))).
		Mul(math3d.RotateQuat(r[0], r[1], r[2], r[3])).
		Mul(math3d.Scale(math3d.V3(s[0], s[1], s[2])))
}

// meshBuilder accumulates vertices and faces across primitives.
type meshBuilder struct {
	doc      *gltf.Document
	vertices []math3d.Vec3
	faces    []Face
	depth    int
}

const maxNodeDepth = 64

func (b *meshBuilder) addNode(idx int, parent math3d.Mat4) error {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	if b.depth >= maxNodeDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxNodeDepth)
	}
	n := b.doc.Nodes[idx]
	world := parent.Mul(nodeMatrix(n))
	if n.Mesh != nil {
		if err := b.addMesh(*n.Mesh, world); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	b.depth++
	defer func() { b.depth-- }()
	for _, c := range n.Children {
		if err := b.addNode(c, world); err != nil {
			return err
		}
	}
	return nil
}

func (b *meshBuilder) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return b.doc.Accessors[i], nil
}

// addMesh appends every triangle primitive of mesh idx transformed by m.
func (b *meshBuilder) addMesh(idx int, m math3d.Mat4) error {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", idx)
	}
	mesh := b.doc.Meshes[idx]
	// A mirroring transform turns CCW faces clockwise
	flip := m.Det3() < 0

	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no surface
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		posAcc, err := b.accessor(posIdx)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: positions: %w", mesh.Name, pi, err)
		}
		positions, err := modeler.ReadPosition(b.doc, posAcc, nil)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: read positions: %w", mesh.Name, pi, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			idxAcc, err := b.accessor(*prim.Indices)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: indices: %w", mesh.Name, pi, err)
			}
			indices, err = modeler.ReadIndices(b.doc, idxAcc, nil)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: read indices: %w", mesh.Name, pi, err)
			}
		} else {
			// Unindexed: consecutive vertex triples
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		base := len(b.vertices)
		for _, p := range positions {
			b.vertices = append(b.vertices, m.MulVec3(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))))
		}
		// GLTF front faces wind counter-clockwise, matching the right-hand
		// outward normal used here.
		for i := 0; i+2 < len(indices); i += 3 {
			v := []int{base + int(indices[i]), base + int(indices[i+1]), base + int(indices[i+2])}
			if slices.ContainsFunc(v, func(x int) bool { return x >= len(b.vertices) }) {
				return fmt.Errorf("mesh %q primitive %d: index out of range", mesh.Name, pi)
			}
			if flip {
				v[1], v[2] = v[2], v[1]
			}
			b.faces = append(b.faces, Face{V: v, Material: material})
		}
	}
	return nil
}

// readMaterials converts each material's PBR base color factor to an RGB.
// Materials without a factor default to white, as GLTF does.
func readMaterials(doc *gltf.Document) []Material {
	mats := make([]Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mats[i] = Material{Name: m.Name, Color: White}
		if m.PBRMetallicRoughness == nil || m.PBRMetallicRoughness.BaseColorFactor == nil {
			continue
		}
		f := m.PBRMetallicRoughness.BaseColorFactor
		mats[i].Color = RGB{
			R: unitToByte(float64(f[0])),
			G: unitToByte(float64(f[1])),
			B: unitToByte(float64(f[2])),
		}
	}
	return mats
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

package render

import (
	"math"
	"sync/atomic"

	"github.com/taigrr/lumen/pkg/config"
	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/models"
)

// maxPitch keeps the forward vector off the world up axis.
const maxPitch = 89.0

// CullReason says why a polygon did not reach the screen.
type CullReason int

const (
	Visible CullReason = iota
	CulledDegenerate
	CulledBackface
	CulledNear
	CulledFrustum
)

// String returns a short name for the reason.
func (r CullReason) String() string {
	switch r {
	case Visible:
		return "visible"
	case CulledDegenerate:
		return "degenerate"
	case CulledBackface:
		return "backface"
	case CulledNear:
		return "near"
	case CulledFrustum:
		return "frustum"
	}
	return "unknown"
}

// CullStats counts rejected polygons since the last ResetStats.
type CullStats struct {
	Backface   int64
	Near       int64
	Frustum    int64
	Degenerate int64
}

// Total returns the number of culled polygons, degenerate ones excluded.
func (s CullStats) Total() int64 {
	return s.Backface + s.Near + s.Frustum
}

// Projection is a polygon mapped to pixel coordinates.
type Projection struct {
	Points []math3d.Vec2 // Pixel coordinates, origin top-left, Y down
	Depth  float64       // Distance from the camera to the polygon centroid
}

// Camera is a pinhole camera with a horizontal field of view. The basis and
// projection constants are recomputed eagerly by every setter, so Project is
// safe to call from several goroutines between mutations.
type Camera struct {
	position math3d.Vec3
	forward  math3d.Vec3 // Unit
	up       math3d.Vec3 // Reference up, world +Y

	fov    float64 // Horizontal, degrees
	near   float64
	width  int
	height int

	// Derived
	right  math3d.Vec3
	trueUp math3d.Vec3
	view   math3d.Mat4
	k      float64 // Pixels per unit at z = 1
	volume ViewVolume

	backface   atomic.Int64
	nearCulls  atomic.Int64
	frustCulls atomic.Int64
	degenerate atomic.Int64
}

// NewCamera creates a camera at the origin looking down -Z with the field of
// view and near distance from cfg.
func NewCamera(cfg config.Config, width, height int) (*Camera, error) {
	if err := config.ValidateCameraFOV(cfg.FOV); err != nil {
		return nil, err
	}
	if !(cfg.Near > 0) {
		return nil, config.Invalid("near", "must be > 0, got %v", cfg.Near)
	}
	if err := config.ValidateScreen(width, height); err != nil {
		return nil, err
	}
	c := &Camera{
		forward: math3d.Forward(),
		up:      math3d.Up(),
		fov:     cfg.FOV,
		near:    cfg.Near,
		width:   width,
		height:  height,
	}
	c.update()
	return c, nil
}

// update recomputes the basis, view matrix and projection constants.
func (c *Camera) update() {
	right, err := c.forward.Cross(c.up).Unit()
	if err != nil {
		// Looking straight along up; any horizontal right will do
		right = c.forward.Cross(math3d.Forward()).Normalize()
		if right.LenSq() == 0 {
			right = math3d.Right()
		}
	}
	c.right = right
	c.trueUp = right.Cross(c.forward)
	c.view = math3d.ViewBasis(c.position, c.right, c.trueUp, c.forward)

	tanH := math.Tan(math3d.Radians(c.fov) / 2)
	tanV := tanH * float64(c.height) / float64(c.width)
	c.k = float64(c.width) / 2 / tanH
	c.volume = NewViewVolume(tanH, tanV, c.near)
}

// Position returns the camera position.
func (c *Camera) Position() math3d.Vec3 { return c.position }

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 { return c.forward }

// Right returns the unit right vector.
func (c *Camera) Right() math3d.Vec3 { return c.right }

// Up returns the re-orthogonalized up vector.
func (c *Camera) Up() math3d.Vec3 { return c.trueUp }

// FOV returns the horizontal field of view in degrees.
func (c *Camera) FOV() float64 { return c.fov }

// Near returns the near distance.
func (c *Camera) Near() float64 { return c.near }

// Size returns the screen size in pixels.
func (c *Camera) Size() (width, height int) { return c.width, c.height }

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 { return c.view }

// Volume returns the camera-space view volume.
func (c *Camera) Volume() ViewVolume { return c.volume }

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.position = pos
	c.update()
}

// SetDirection points the camera along dir.
func (c *Camera) SetDirection(dir math3d.Vec3) error {
	f, err := dir.Unit()
	if err != nil {
		return config.Invalid("direction", "must be non-zero, got %v", dir)
	}
	c.forward = f
	c.update()
	return nil
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) error {
	return c.SetDirection(target.Sub(c.position))
}

// SetFOV sets the horizontal field of view in degrees.
func (c *Camera) SetFOV(fov float64) error {
	if err := config.ValidateCameraFOV(fov); err != nil {
		return err
	}
	c.fov = fov
	c.update()
	return nil
}

// Resize sets the screen size in pixels.
func (c *Camera) Resize(width, height int) error {
	if err := config.ValidateScreen(width, height); err != nil {
		return err
	}
	c.width, c.height = width, height
	c.update()
	return nil
}

// Move moves the camera along its forward and right vectors and the world
// up axis.
func (c *Camera) Move(forward, right, up float64) {
	delta := c.forward.Scale(forward).
		Add(c.right.Scale(right)).
		Add(math3d.Up().Scale(up))
	c.SetPosition(c.position.Add(delta))
}

// YawPitch returns the view direction as yaw (around +Y, 0 = -Z) and pitch
// in degrees.
func (c *Camera) YawPitch() (yaw, pitch float64) {
	yaw = math3d.Degrees(math.Atan2(c.forward.X, -c.forward.Z))
	pitch = math3d.Degrees(math.Asin(math.Max(-1, math.Min(1, c.forward.Y))))
	return yaw, pitch
}

// Turn rotates the view by yaw and pitch degrees. Pitch is clamped short of
// straight up and down.
func (c *Camera) Turn(yawDeg, pitchDeg float64) {
	yaw, pitch := c.YawPitch()
	yaw += yawDeg
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch+pitchDeg))

	y, p := math3d.Radians(yaw), math3d.Radians(pitch)
	c.forward = math3d.V3(
		math.Sin(y)*math.Cos(p),
		math.Sin(p),
		-math.Cos(y)*math.Cos(p),
	)
	c.update()
}

// ToCamera maps a world point into camera space.
func (c *Camera) ToCamera(v math3d.Vec3) math3d.Vec3 {
	return c.view.MulVec3(v)
}

// toScreen maps a camera-space point with z > 0 to pixels.
func (c *Camera) toScreen(v math3d.Vec3) math3d.Vec2 {
	return math3d.V2(
		float64(c.width)/2+v.X*c.k/v.Z,
		float64(c.height)/2-v.Y*c.k/v.Z,
	)
}

// ProjectPoint maps a world point to pixels. It fails for points at or
// behind the near plane.
func (c *Camera) ProjectPoint(v math3d.Vec3) (math3d.Vec2, bool) {
	cv := c.ToCamera(v)
	if cv.Z <= c.near {
		return math3d.Vec2{}, false
	}
	return c.toScreen(cv), true
}

// Project culls and projects a world-space polygon. It reports false for
// any polygon that must not be drawn.
func (c *Camera) Project(p models.Polygon) (Projection, bool) {
	proj, reason := c.Cull(p)
	return proj, reason == Visible
}

// Cull projects a world-space polygon and reports why it was rejected, if
// it was. Rejections are counted in the camera's stats.
func (c *Camera) Cull(p models.Polygon) (Projection, CullReason) {
	proj, reason := c.cull(p)
	c.CountCulled(reason, 1)
	return proj, reason
}

// CountCulled adds n rejections for reason to the stats. Callers that reject
// whole objects up front use it so their polygons are still counted.
func (c *Camera) CountCulled(reason CullReason, n int) {
	switch reason {
	case CulledBackface:
		c.backface.Add(int64(n))
	case CulledNear:
		c.nearCulls.Add(int64(n))
	case CulledFrustum:
		c.frustCulls.Add(int64(n))
	case CulledDegenerate:
		c.degenerate.Add(int64(n))
	}
}

func (c *Camera) cull(p models.Polygon) (Projection, CullReason) {
	if p.Degenerate || len(p.Vertices) < 3 {
		return Projection{}, CulledDegenerate
	}

	// Facing away from the eye, or edge-on
	if p.FacingNormal().Dot(p.Vertices[0].Sub(c.position)) >= 0 {
		return Projection{}, CulledBackface
	}

	cam := make([]math3d.Vec3, len(p.Vertices))
	for i, v := range p.Vertices {
		cv := c.ToCamera(v)
		// Projection is undefined at or behind the near plane; the whole
		// polygon goes rather than a partial one.
		if cv.Z <= c.near {
			return Projection{}, CulledNear
		}
		cam[i] = cv
	}

	if c.volume.Excludes(cam) {
		return Projection{}, CulledFrustum
	}

	points := make([]math3d.Vec2, len(cam))
	for i, cv := range cam {
		points[i] = c.toScreen(cv)
	}
	if math.Abs(math3d.SignedArea(points)) < 1e-12 {
		return Projection{}, CulledDegenerate
	}

	return Projection{
		Points: points,
		Depth:  p.Centroid().Distance(c.position),
	}, Visible
}

// BoxVisible reports whether any part of a local-space box placed by world
// may be visible. False means every polygon inside it would be culled.
func (c *Camera) BoxVisible(local AABB, world math3d.Mat4) bool {
	return c.volume.Overlaps(local.Transform(c.view.Mul(world)))
}

// Stats returns the cull counters.
func (c *Camera) Stats() CullStats {
	return CullStats{
		Backface:   c.backface.Load(),
		Near:       c.nearCulls.Load(),
		Frustum:    c.frustCulls.Load(),
		Degenerate: c.degenerate.Load(),
	}
}

// ResetStats zeroes the cull counters.
func (c *Camera) ResetStats() {
	c.backface.Store(0)
	c.nearCulls.Store(0)
	c.frustCulls.Store(0)
	c.degenerate.Store(0)
}

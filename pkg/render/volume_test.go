package render

import (
	"math"
	"testing"

	"github.com/taigrr/lumen/pkg/math3d"
)

func TestPlane(t *testing.T) {
	pl := NewPlane(math3d.V3(0, 3, 4), -10)
	if l := pl.N.Len(); math.Abs(l-1) > 1e-9 {
		t.Fatalf("normal length = %v, want 1", l)
	}

	tests := []struct {
		name  string
		point math3d.Vec3
		want  float64
	}{
		{"on plane", math3d.V3(7, 1.2, 1.6), 0},
		{"inside", math3d.V3(0, 3, 4), 3},
		{"outside", math3d.V3(0, 0, 0), -2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := pl.Distance(tc.point); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Distance(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}

	if zero := NewPlane(math3d.Zero3(), 1); zero.Distance(math3d.V3(-5, -5, -5)) < 0 {
		t.Error("zero-normal plane rejected a point")
	}
}

func TestViewVolumeContains(t *testing.T) {
	v := NewViewVolume(1, 0.5, 0.1)
	for side, pl := range v {
		if l := pl.N.Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("side %d normal length = %v", side, l)
		}
	}

	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"on axis", math3d.V3(0, 0, 5), true},
		{"behind eye", math3d.V3(0, 0, -5), false},
		{"before near", math3d.V3(0, 0, 0.05), false},
		{"right edge", math3d.V3(5, 0, 5), true},
		{"past right edge", math3d.V3(5.1, 0, 5), false},
		{"past top edge", math3d.V3(0, 2.6, 5), false},
		{"inside corner", math3d.V3(-4.9, -2.4, 5), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Contains(tc.point); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestViewVolumeExcludes(t *testing.T) {
	v := NewViewVolume(1, 1, 0.1)

	tests := []struct {
		name   string
		points []math3d.Vec3
		want   bool
	}{
		{"inside", []math3d.Vec3{{X: -1, Z: 5}, {X: 1, Z: 5}, {Y: 1, Z: 5}}, false},
		{"right of view", []math3d.Vec3{{X: 10, Z: 5}, {X: 12, Z: 5}, {X: 11, Y: 1, Z: 5}}, true},
		{"left of view", []math3d.Vec3{{X: -10, Z: 5}, {X: -12, Z: 5}, {X: -11, Y: 1, Z: 5}}, true},
		{"below view", []math3d.Vec3{{Y: -10, Z: 5}, {X: 1, Y: -10, Z: 5}, {Y: -11, Z: 5}}, true},
		{"straddles right edge", []math3d.Vec3{{X: 4, Z: 5}, {X: 12, Z: 5}, {X: 11, Y: 1, Z: 5}}, false},
		// Every vertex is outside some plane but no plane has them all.
		{"surrounds view", []math3d.Vec3{{X: -20, Y: -20, Z: 5}, {X: 20, Y: -20, Z: 5}, {Y: 20, Z: 5}}, false},
		{"near plane ignored", []math3d.Vec3{{Z: -1}, {X: 0.1, Z: -1}, {Y: 0.1, Z: 2}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Excludes(tc.points); got != tc.want {
				t.Errorf("Excludes = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestViewVolumeOverlaps(t *testing.T) {
	tan30 := math.Tan(math.Pi / 6)
	v := NewViewVolume(tan30, tan30*9/16, 1)

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), true},
		{"crosses near plane", NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), false},
		{"ends on near plane", NewAABB(math3d.V3(-1, -1, 0), math3d.V3(1, 1, 1)), false},
		{"far to the right", NewAABB(math3d.V3(100, -1, 5), math3d.V3(110, 1, 10)), false},
		{"encloses the eye", NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Overlaps(tc.box); got != tc.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tc.box, got, tc.want)
			}
		})
	}
}

func TestAABB(t *testing.T) {
	box := NewAABB(math3d.V3(1, 2, 3), math3d.V3(-1, -2, -3))
	if box.Min != math3d.V3(-1, -2, -3) || box.Max != math3d.V3(1, 2, 3) {
		t.Fatalf("NewAABB did not order corners: %+v", box)
	}
	if box.Center() != math3d.Zero3() || box.Size() != math3d.V3(2, 4, 6) {
		t.Errorf("center %v size %v", box.Center(), box.Size())
	}

	seen := map[math3d.Vec3]bool{}
	for _, c := range box.Corners() {
		if math.Abs(c.X) != 1 || math.Abs(c.Y) != 2 || math.Abs(c.Z) != 3 || !box.Contains(c) {
			t.Errorf("corner %v is not a box corner", c)
		}
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct corners, want 8", len(seen))
	}
	if box.Contains(math3d.V3(0, 0, 3.1)) {
		t.Error("point past Max.Z contained")
	}
}

func TestAABBTransformBoundsCorners(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -0.5), math3d.V3(1, 2, 0.5))
	m := math3d.TRS(math3d.V3(3, -1, 7), math3d.V3(20, 35, -50), math3d.V3(1, 2, 0.5))
	got := box.Transform(m)

	lo, hi := m.MulVec3(box.Min), m.MulVec3(box.Min)
	for _, c := range box.Corners() {
		p := m.MulVec3(c)
		lo, hi = lo.Min(p), hi.Max(p)
	}
	near := func(a, b math3d.Vec3) bool { return a.Sub(b).Len() < 1e-9 }
	if !near(got.Min, lo) || !near(got.Max, hi) {
		t.Errorf("Transform = %+v, want {%v %v}", got, lo, hi)
	}

	rot := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)).Transform(math3d.RotateY(math.Pi / 4))
	if w := rot.Size().X; math.Abs(w-2*math.Sqrt2) > 1e-9 {
		t.Errorf("rotated cube width = %v, want 2√2", w)
	}
}

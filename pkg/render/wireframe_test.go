package render

import (
	"image/color"
	"testing"

	"github.com/taigrr/lumen/pkg/math3d"
)

func countColor(fb *Framebuffer, c color.RGBA) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestDrawAxes(t *testing.T) {
	cam := newTestCamera(t, 80, 60)
	cam.SetPosition(math3d.V3(3, 3, 3))
	if err := cam.LookAt(math3d.Zero3()); err != nil {
		t.Fatal(err)
	}
	s := newTestSurface(t, 80, 60)
	s.Clear(bg)

	NewWireframe(cam, s).DrawAxes(1)
	for _, c := range []color.RGBA{ColorRed, ColorGreen, ColorBlue} {
		if countColor(s.Framebuffer(), c) == 0 {
			t.Errorf("axis %v not drawn", c)
		}
	}
}

func TestDrawLine3DBehindCamera(t *testing.T) {
	cam := newTestCamera(t, 80, 60)
	s := newTestSurface(t, 80, 60)
	s.Clear(bg)

	NewWireframe(cam, s).DrawLine3D(math3d.V3(0, 0, 5), math3d.V3(1, 0, 5), ink)
	if n := countColor(s.Framebuffer(), ink); n != 0 {
		t.Errorf("line behind camera drew %d pixels", n)
	}
}

func TestDrawGizmo(t *testing.T) {
	cam := newTestCamera(t, 80, 60)
	s := newTestSurface(t, 80, 60)
	s.Clear(bg)

	// Looking down -Z the X and Y axes are in view, Z points at the eye.
	NewWireframe(cam, s).DrawGizmo(10)
	fb := s.Framebuffer()
	if countColor(fb, ColorRed) < 10 || countColor(fb, ColorGreen) < 10 {
		t.Error("gizmo X and Y axes should be full length")
	}
}

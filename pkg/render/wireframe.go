package render

import (
	"image/color"

	"github.com/taigrr/lumen/pkg/math3d"
)

// Axis colors: X red, Y green, Z blue.
var (
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

var axes = [3]struct {
	dir math3d.Vec3
	ink color.RGBA
}{
	{math3d.Right(), ColorRed},
	{math3d.Up(), ColorGreen},
	{math3d.Vec3{Z: 1}, ColorBlue},
}

// Wireframe draws debug lines over a finished frame. Nothing it draws is
// depth tested against the scene.
type Wireframe struct {
	camera  *Camera
	surface *Surface
}

func NewWireframe(camera *Camera, surface *Surface) *Wireframe {
	return &Wireframe{camera: camera, surface: surface}
}

// DrawLine3D draws the world-space segment a-b, clipped at the near plane.
func (w *Wireframe) DrawLine3D(a, b math3d.Vec3, c color.RGBA) {
	ca, cb := w.camera.ToCamera(a), w.camera.ToCamera(b)
	near := w.camera.Near()
	if ca.Z <= near && cb.Z <= near {
		return
	}
	// Pull the hidden endpoint onto a plane just in front of near.
	clip := near * (1 + 1e-6)
	if ca.Z < clip {
		ca = cb.Add(ca.Sub(cb).Scale((cb.Z - clip) / (cb.Z - ca.Z)))
	} else if cb.Z < clip {
		cb = ca.Add(cb.Sub(ca).Scale((ca.Z - clip) / (ca.Z - cb.Z)))
	}
	x0, y0, ok0 := pixelPoint(w.camera.toScreen(ca))
	x1, y1, ok1 := pixelPoint(w.camera.toScreen(cb))
	if ok0 && ok1 {
		w.surface.fb.DrawLine(x0, y0, x1, y1, c)
	}
}

// pixelPoint rounds p to a pixel. Points far enough off screen to make line
// stepping expensive are refused.
func pixelPoint(p math3d.Vec2) (x, y int, ok bool) {
	const limit = 1 << 15
	if p.X < -limit || p.X > limit || p.Y < -limit || p.Y > limit {
		return 0, 0, false
	}
	return int(p.X), int(p.Y), true
}

// DrawAxes draws the world axes from the origin out to length.
func (w *Wireframe) DrawAxes(length float64) {
	for _, a := range axes {
		w.DrawLine3D(math3d.Zero3(), a.dir.Scale(length), a.ink)
	}
}

// DrawGizmo draws a size-pixel axis tripod in the bottom-right corner. It
// follows the camera's orientation and ignores its position.
func (w *Wireframe) DrawGizmo(size int) {
	width, height := w.surface.Size()
	ox, oy := width-size-2, height-size-2
	right, up := w.camera.Right(), w.camera.Up()
	for _, a := range axes {
		dx := int(a.dir.Dot(right) * float64(size))
		dy := int(a.dir.Dot(up) * float64(size))
		w.surface.fb.DrawLine(ox, oy, ox+dx, oy-dy, a.ink)
	}
}

package render

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/lumen/pkg/config"
	"github.com/taigrr/lumen/pkg/math3d"
)

var (
	bg   = color.RGBA{0, 0, 0, 255}
	ink  = color.RGBA{255, 255, 255, 255}
	ink2 = color.RGBA{255, 0, 0, 255}
)

func newTestSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := NewSurface(w, h, nil)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

// coverage fills points on a cleared surface and returns the set of
// covered pixel indices.
func coverage(s *Surface, points []math3d.Vec2) map[int]bool {
	s.Clear(bg)
	s.FillPolygon(points, ink)
	out := make(map[int]bool)
	for i, p := range s.Framebuffer().Pixels {
		if p == ink {
			out[i] = true
		}
	}
	return out
}

func TestFillAxisAlignedSquare(t *testing.T) {
	s := newTestSurface(t, 20, 20)
	got := coverage(s, []math3d.Vec2{{X: 2, Y: 3}, {X: 12, Y: 3}, {X: 12, Y: 13}, {X: 2, Y: 13}})
	if len(got) != 100 {
		t.Fatalf("covered %d pixels, want 100", len(got))
	}
	fb := s.Framebuffer()
	if fb.GetPixel(2, 3) != ink || fb.GetPixel(11, 12) != ink {
		t.Error("top-left inclusive corners not filled")
	}
	if fb.GetPixel(12, 3) == ink || fb.GetPixel(2, 13) == ink {
		t.Error("bottom-right exclusive edges filled")
	}
}

func TestFillWindingIndependent(t *testing.T) {
	s := newTestSurface(t, 30, 30)
	cw := []math3d.Vec2{{X: 1.2, Y: 2.9}, {X: 25.7, Y: 4.1}, {X: 14.3, Y: 27.6}}
	ccw := []math3d.Vec2{cw[0], cw[2], cw[1]}
	a, b := coverage(s, cw), coverage(s, ccw)
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("coverage differs by winding: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !b[i] {
			t.Fatalf("pixel %d only covered in one winding", i)
		}
	}
}

func TestFillSharedEdgeNoGapNoOverlap(t *testing.T) {
	s := newTestSurface(t, 40, 40)
	quad := []math3d.Vec2{{X: 1.3, Y: 2.7}, {X: 35.2, Y: 1.1}, {X: 37.8, Y: 34.6}, {X: 3.4, Y: 36.9}}
	// Split along both diagonals and in a fan; every split must tile.
	splits := [][2][]math3d.Vec2{
		{{quad[0], quad[1], quad[2]}, {quad[0], quad[2], quad[3]}},
		{{quad[0], quad[1], quad[3]}, {quad[1], quad[2], quad[3]}},
	}

	whole := coverage(s, quad)
	for n, split := range splits {
		a := coverage(s, split[0])
		b := coverage(s, split[1])
		for i := range a {
			if b[i] {
				t.Errorf("split %d: pixel (%d, %d) covered twice", n, i%40, i/40)
			}
		}
		for i := range whole {
			if !a[i] && !b[i] {
				t.Errorf("split %d: pixel (%d, %d) left uncovered", n, i%40, i/40)
			}
		}
		if len(a)+len(b) != len(whole) {
			t.Errorf("split %d: %d + %d pixels, whole quad %d", n, len(a), len(b), len(whole))
		}
	}
}

func TestFillTilesGrid(t *testing.T) {
	// A perturbed triangle mesh over the whole surface must cover every
	// pixel exactly once.
	const w, h, cells = 32, 24, 4
	s := newTestSurface(t, w, h)
	pt := func(i, j int) math3d.Vec2 {
		x := float64(i) * w / cells
		y := float64(j) * h / cells
		if i > 0 && i < cells && j > 0 && j < cells {
			x += 1.37 * math.Sin(float64(i*7+j))
			y += 1.21 * math.Cos(float64(i*3+j*5))
		}
		return math3d.V2(x, y)
	}

	counts := make([]int, w*h)
	for i := range cells {
		for j := range cells {
			tris := [][]math3d.Vec2{
				{pt(i, j), pt(i+1, j), pt(i+1, j+1)},
				{pt(i, j), pt(i+1, j+1), pt(i, j+1)},
			}
			for _, tri := range tris {
				for idx := range coverage(s, tri) {
					counts[idx]++
				}
			}
		}
	}
	for i, c := range counts {
		if c != 1 {
			t.Errorf("pixel (%d, %d) covered %d times", i%w, i/w, c)
		}
	}
}

func TestFillClipsToBuffer(t *testing.T) {
	tests := []struct {
		name   string
		points []math3d.Vec2
		want   int
	}{
		{"covers everything", []math3d.Vec2{{X: -50, Y: -50}, {X: 30, Y: -50}, {X: 30, Y: 30}, {X: -50, Y: 30}}, 400},
		{"left half off screen", []math3d.Vec2{{X: -10, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 20}, {X: -10, Y: 20}}, 200},
		{"entirely outside", []math3d.Vec2{{X: 30, Y: 30}, {X: 40, Y: 30}, {X: 40, Y: 40}}, 0},
		{"huge coordinates", []math3d.Vec2{{X: -1e300, Y: -1e300}, {X: 1e300, Y: -1e300}, {X: 0, Y: 1e300}}, 400},
		{"too few points", []math3d.Vec2{{X: 0, Y: 0}, {X: 10, Y: 10}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSurface(t, 20, 20)
			if got := len(coverage(s, tt.points)); got != tt.want {
				t.Errorf("covered %d pixels, want %d", got, tt.want)
			}
		})
	}
}

func TestFillOverdrawOrder(t *testing.T) {
	s := newTestSurface(t, 10, 10)
	s.Clear(bg)
	square := []math3d.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	s.FillPolygon(square, ink)
	s.FillPolygon(square[:3], ink2)
	fb := s.Framebuffer()
	if fb.GetPixel(8, 1) != ink2 {
		t.Error("later fill did not paint over earlier fill")
	}
	if fb.GetPixel(1, 8) != ink {
		t.Error("earlier fill lost outside the later polygon")
	}
}

func TestNewSurfaceErrors(t *testing.T) {
	if _, err := NewSurface(0, 10, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("NewSurface(0, 10) err = %v, want ErrInvalid", err)
	}
	if _, err := NewSurface(1<<14, 1<<14, nil); !errors.Is(err, ErrResource) {
		t.Errorf("oversized surface err = %v, want ErrResource", err)
	}
}

func TestPresent(t *testing.T) {
	s := newTestSurface(t, 4, 4)
	if err := s.Present(); err != nil {
		t.Errorf("Present with nil presenter: %v", err)
	}

	var got *Framebuffer
	s.SetPresenter(PresenterFunc(func(fb *Framebuffer) error {
		got = fb
		return nil
	}))
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if got != s.Framebuffer() {
		t.Error("presenter did not receive the surface buffer")
	}

	boom := errors.New("display gone")
	s.SetPresenter(PresenterFunc(func(*Framebuffer) error { return boom }))
	err := s.Present()
	if !errors.Is(err, ErrResource) || !errors.Is(err, boom) {
		t.Errorf("Present err = %v, want ErrResource wrapping cause", err)
	}
}

func TestDrawText(t *testing.T) {
	s := newTestSurface(t, 60, 20)
	s.Clear(bg)
	s.DrawText(1, 1, "60 FPS", ink)
	lit := 0
	for _, p := range s.Framebuffer().Pixels {
		if p != bg {
			lit++
		}
	}
	if lit == 0 {
		t.Error("DrawText drew nothing")
	}
	if w := s.TextWidth("60 FPS"); w != 6*7 {
		t.Errorf("TextWidth = %d, want 42", w)
	}
}

func TestDrawFPSClipped(t *testing.T) {
	// Smaller than the label; must not panic.
	s := newTestSurface(t, 5, 5)
	s.Clear(bg)
	s.DrawFPS(59.6)
}

func TestPNGPresenter(t *testing.T) {
	dir := t.TempDir()
	s := newTestSurface(t, 8, 8)
	p := NewPNGPresenter(filepath.Join(dir, "frame-%03d.png"))
	s.SetPresenter(p)
	for range 3 {
		s.Clear(bg)
		if err := s.Present(); err != nil {
			t.Fatalf("Present: %v", err)
		}
	}
	if p.Frames() != 3 {
		t.Errorf("Frames = %d, want 3", p.Frames())
	}
	for _, name := range []string{"frame-000.png", "frame-002.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	bad := NewPNGPresenter(filepath.Join(dir, "missing", "out.png"))
	s.SetPresenter(bad)
	if err := s.Present(); !errors.Is(err, ErrResource) {
		t.Errorf("unwritable path err = %v, want ErrResource", err)
	}
}

func TestFramebufferDrawImage(t *testing.T) {
	fb, err := NewFramebuffer(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	fb.Clear(bg)
	fb.Set(1, 1, ink)
	fb.Set(9, 9, ink) // ignored
	if fb.At(1, 1) != ink {
		t.Errorf("At(1, 1) = %v", fb.At(1, 1))
	}
	// Half-covered white over black, premultiplied
	fb.Set(2, 2, color.RGBA{128, 128, 128, 128})
	if got := fb.GetPixel(2, 2); got.R < 126 || got.R > 130 || got.A != 255 {
		t.Errorf("blended pixel = %v", got)
	}
	if fb.Bounds().Dx() != 4 || fb.Bounds().Dy() != 4 {
		t.Errorf("Bounds = %v", fb.Bounds())
	}
}

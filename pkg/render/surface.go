package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/taigrr/lumen/pkg/math3d"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Surface is the fixed-size pixel target of a frame. Nothing drawn on it is
// visible until Present hands the buffer to the presenter.
type Surface struct {
	fb        *Framebuffer
	presenter Presenter
	face      font.Face

	xs []float64 // Scanline crossings, reused across fills
}

// NewSurface allocates a width×height surface. A nil presenter discards
// frames, which is useful headless.
func NewSurface(width, height int, p Presenter) (*Surface, error) {
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		return nil, err
	}
	return &Surface{
		fb:        fb,
		presenter: p,
		face:      basicfont.Face7x13,
	}, nil
}

// Framebuffer returns the backing buffer.
func (s *Surface) Framebuffer() *Framebuffer { return s.fb }

// Size returns the surface size in pixels.
func (s *Surface) Size() (width, height int) { return s.fb.Width, s.fb.Height }

// SetPresenter replaces the presenter.
func (s *Surface) SetPresenter(p Presenter) { s.presenter = p }

// Resize reallocates the buffer. The contents are lost.
func (s *Surface) Resize(width, height int) error {
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		return err
	}
	s.fb = fb
	return nil
}

// Clear fills the whole surface with c.
func (s *Surface) Clear(c color.RGBA) {
	s.fb.Clear(c)
}

// FillPolygon scan-converts a polygon with the even-odd rule. Pixel centres
// sit at +0.5; a pixel is filled when its centre is inside, with left and
// top edges inclusive and right and bottom edges exclusive, so polygons
// sharing an edge never both cover a pixel and never leave a gap. Anything
// outside the surface is clipped.
func (s *Surface) FillPolygon(points []math3d.Vec2, c color.RGBA) {
	n := len(points)
	if n < 3 {
		return
	}
	w, h := s.fb.Width, s.fb.Height

	ymin, ymax := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
	}
	y0 := pixelIndex(ymin, h)
	y1 := pixelIndex(ymax, h)

	for y := y0; y < y1; y++ {
		sy := float64(y) + 0.5
		xs := s.xs[:0]
		for i := range n {
			a, b := points[i], points[(i+1)%n]
			if (a.Y <= sy) == (b.Y <= sy) {
				continue
			}
			// Interpolate from the upper end so a shared edge yields the
			// same crossing for both polygons.
			if a.Y > b.Y {
				a, b = b, a
			}
			t := (sy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		slices.Sort(xs)

		row := s.fb.Pixels[y*w : (y+1)*w]
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := pixelIndex(xs[i], w)
			x1 := pixelIndex(xs[i+1], w)
			for x := x0; x < x1; x++ {
				row[x] = c
			}
		}
		s.xs = xs
	}
}

// pixelIndex returns the first pixel whose centre is at or past v, clamped
// to [0, limit].
func pixelIndex(v float64, limit int) int {
	f := math.Ceil(v - 0.5)
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > float64(limit):
		return limit
	}
	return int(f)
}

// DrawText draws s with its top-left corner at (x, y) in a fixed 7x13
// bitmap face.
func (s *Surface) DrawText(x, y int, text string, c color.RGBA) {
	d := font.Drawer{
		Dst:  s.fb,
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(x, y+s.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// TextWidth returns the advance of text in pixels.
func (s *Surface) TextWidth(text string) int {
	return font.MeasureString(s.face, text).Ceil()
}

// DrawFPS overlays a frame-rate counter in the top-left corner on a dark
// backing box.
func (s *Surface) DrawFPS(fps float64) {
	label := fmt.Sprintf("%.0f FPS", fps)
	lineHeight := s.face.Metrics().Height.Ceil()
	s.fb.FillRect(0, 0, s.TextWidth(label)+4, lineHeight+2, color.RGBA{0, 0, 0, 255})
	s.DrawText(2, 1, label, color.RGBA{0, 255, 128, 255})
}

// Present makes the current buffer visible. Any presenter failure is a
// resource error.
func (s *Surface) Present() error {
	if s.presenter == nil {
		return nil
	}
	if err := s.presenter.Present(s.fb); err != nil {
		return fmt.Errorf("present frame: %w: %w", ErrResource, err)
	}
	return nil
}

// Package render turns polygons into pixels: the camera projects and culls,
// the surface scan-converts into a framebuffer, and a presenter makes the
// finished frame visible.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/taigrr/lumen/pkg/config"
)

// MaxPixels bounds a single framebuffer allocation.
const MaxPixels = 1 << 26

// ErrResource is wrapped by every buffer allocation or presentation
// failure. It is fatal to the render loop.
var ErrResource = errors.New("render resource failure")

// Framebuffer is a row-major grid of opaque pixels. It implements
// draw.Image so the image and font packages can draw onto it. For terminal
// output the height is twice the rows, one pixel per half-block.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

// NewFramebuffer allocates a width×height buffer. Sizes past MaxPixels fail
// with ErrResource.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if err := config.ValidateScreen(width, height); err != nil {
		return nil, err
	}
	if width > MaxPixels/height {
		return nil, fmt.Errorf("allocate %dx%d framebuffer: %w", width, height, ErrResource)
	}
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}, nil
}

func (fb *Framebuffer) inside(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for filled := 1; filled < len(fb.Pixels); filled *= 2 {
		copy(fb.Pixels[filled:], fb.Pixels[:filled])
	}
}

// SetPixel writes c at (x, y); writes outside the buffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if fb.inside(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel reads (x, y), or transparent black outside the buffer.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if !fb.inside(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

func (fb *Framebuffer) ColorModel() color.Model { return color.RGBAModel }

func (fb *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }

func (fb *Framebuffer) At(x, y int) color.Color { return fb.GetPixel(x, y) }

// Set blends c over the pixel at (x, y) (source-over, premultiplied), which
// is what glyph masks need.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	if !fb.inside(x, y) {
		return
	}
	src := color.RGBAModel.Convert(c).(color.RGBA)
	i := y*fb.Width + x
	if src.A == 255 {
		fb.Pixels[i] = src
		return
	}
	dst := fb.Pixels[i]
	over := func(s, d uint8) uint8 {
		return uint8(uint32(s) + uint32(d)*(255-uint32(src.A))/255)
	}
	fb.Pixels[i] = color.RGBA{over(src.R, dst.R), over(src.G, dst.G), over(src.B, dst.B), over(src.A, dst.A)}
}

// DrawLine draws a one-pixel line between two points, endpoints included,
// with Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx, sx := span(x0, x1)
	dy, sy := span(y0, y1)
	dy = -dy
	e := dx + dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// span returns |b-a| and the unit step from a toward b.
func span(a, b int) (length, step int) {
	if b < a {
		return a - b, -1
	}
	return b - a, 1
}

// FillRect fills the w×h rectangle at (x, y), clipped to the buffer.
func (fb *Framebuffer) FillRect(x, y, w, h int, c color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(fb.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := fb.Pixels[py*fb.Width+r.Min.X : py*fb.Width+r.Max.X]
		for i := range row {
			row[i] = c
		}
	}
}

// ToImage copies the buffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, p := range fb.Pixels {
		px := img.Pix[4*i : 4*i+4 : 4*i+4]
		px[0], px[1], px[2], px[3] = p.R, p.G, p.B, p.A
	}
	return img
}

// SavePNG writes the buffer to path as a PNG.
func (fb *Framebuffer) SavePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(f, fb.ToImage())
}

package render

import (
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taigrr/lumen/pkg/config"
)

func newTestFramebuffer(t *testing.T, w, h int) *Framebuffer {
	t.Helper()
	fb, err := NewFramebuffer(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return fb
}

func TestNewFramebufferLimits(t *testing.T) {
	if _, err := NewFramebuffer(0, 10); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("zero width: got %v, want ErrInvalid", err)
	}
	if _, err := NewFramebuffer(MaxPixels, 2); !errors.Is(err, ErrResource) {
		t.Errorf("oversized: got %v, want ErrResource", err)
	}
}

func TestClearFillsOddSizes(t *testing.T) {
	fb := newTestFramebuffer(t, 7, 5)
	fb.Clear(ink2)
	if n := countColor(fb, ink2); n != 35 {
		t.Errorf("cleared %d of 35 pixels", n)
	}
}

func TestPixelBounds(t *testing.T) {
	fb := newTestFramebuffer(t, 4, 4)
	fb.SetPixel(-1, 0, ink)
	fb.SetPixel(4, 4, ink)
	if n := countColor(fb, ink); n != 0 {
		t.Errorf("out of range writes landed on %d pixels", n)
	}
	if got := fb.GetPixel(9, 9); got != (color.RGBA{}) {
		t.Errorf("out of range read = %v", got)
	}
}

func TestSetBlendsOver(t *testing.T) {
	fb := newTestFramebuffer(t, 1, 1)
	fb.Clear(color.RGBA{0, 0, 200, 255})
	fb.Set(0, 0, color.RGBA{100, 0, 0, 128})
	got := fb.GetPixel(0, 0)
	if got.R != 100 || got.B < 98 || got.B > 100 || got.A != 255 {
		t.Errorf("blended pixel = %v", got)
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 1, 2, 8, 2, 8},
		{"vertical", 3, 9, 3, 0, 10},
		{"diagonal", 0, 0, 5, 5, 6},
		{"point", 4, 4, 4, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newTestFramebuffer(t, 10, 10)
			fb.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, ink)
			if n := countColor(fb, ink); n != tt.want {
				t.Errorf("drew %d pixels, want %d", n, tt.want)
			}
			if fb.GetPixel(tt.x0, tt.y0) != ink || fb.GetPixel(tt.x1, tt.y1) != ink {
				t.Error("endpoint missing")
			}
		})
	}
}

func TestDrawLineAllOctants(t *testing.T) {
	const r = 12
	done := make(chan struct{})
	go func() {
		defer close(done)
		for x := -r; x <= r; x++ {
			for y := -r; y <= r; y++ {
				fb, err := NewFramebuffer(2*r+1, 2*r+1)
				if err != nil {
					t.Error(err)
					return
				}
				fb.DrawLine(r, r, r+x, r+y, ink)
				want := max(abs(x), abs(y)) + 1
				if n := countColor(fb, ink); n != want {
					t.Errorf("(%d,%d): drew %d pixels, want %d", x, y, n, want)
				}
				if fb.GetPixel(r+x, r+y) != ink {
					t.Errorf("(%d,%d): end pixel missing", x, y)
				}
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("DrawLine did not terminate")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestFillRectClips(t *testing.T) {
	fb := newTestFramebuffer(t, 10, 10)
	fb.FillRect(-3, 7, 6, 10, ink)
	if n := countColor(fb, ink); n != 9 {
		t.Errorf("filled %d pixels, want 9", n)
	}
}

func TestSavePNG(t *testing.T) {
	fb := newTestFramebuffer(t, 3, 2)
	fb.Clear(bg)
	fb.SetPixel(2, 1, ink2)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds %v", b)
	}
	if r, _, _, _ := img.At(2, 1).RGBA(); r>>8 != 255 {
		t.Errorf("pixel (2,1) red = %d", r>>8)
	}
}

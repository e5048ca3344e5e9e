package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalf is drawn in every cell: the foreground paints the top pixel and
// the background the bottom one.
const upperHalf = "▀"

// TerminalPresenter shows frames on a uv.Screen, two stacked pixels per
// cell.
type TerminalPresenter struct {
	screen     uv.Screen
	flush      func() error
	cols, rows int
}

// NewTerminalPresenter draws onto screen. A non-nil flush runs after every
// frame, typically the terminal's Display.
func NewTerminalPresenter(screen uv.Screen, flush func() error, cols, rows int) *TerminalPresenter {
	return &TerminalPresenter{screen: screen, flush: flush, cols: cols, rows: rows}
}

// FramebufferSize is the pixel size that fills the terminal.
func (t *TerminalPresenter) FramebufferSize() (width, height int) { return t.cols, 2 * t.rows }

// Resize sets the terminal size in cells.
func (t *TerminalPresenter) Resize(cols, rows int) { t.cols, t.rows = cols, rows }

func (t *TerminalPresenter) Present(fb *Framebuffer) error {
	cols := min(t.cols, fb.Width)
	for row := range t.rows {
		for col := range cols {
			t.screen.SetCell(col, row, &uv.Cell{
				Content: upperHalf,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, 2*row)),
					Bg: cellColor(fb.GetPixel(col, 2*row+1)),
				},
			})
		}
	}
	if t.flush == nil {
		return nil
	}
	return t.flush()
}

// cellColor leaves transparent pixels at the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

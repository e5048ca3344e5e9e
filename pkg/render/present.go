package render

import (
	"fmt"
	"strings"
)

// Presenter makes a finished frame visible. It is the only place a frame
// leaves the renderer and may block on display pacing.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(fb *Framebuffer) error

// Present calls f(fb).
func (f PresenterFunc) Present(fb *Framebuffer) error {
	return f(fb)
}

// PNGPresenter writes frames to disk. If Path contains a verb such as %04d
// every frame gets its own file; otherwise each frame overwrites Path.
type PNGPresenter struct {
	Path  string
	frame int
}

// NewPNGPresenter creates a presenter writing to path.
func NewPNGPresenter(path string) *PNGPresenter {
	return &PNGPresenter{Path: path}
}

// Frames returns the number of frames written.
func (p *PNGPresenter) Frames() int { return p.frame }

// Present implements Presenter.
func (p *PNGPresenter) Present(fb *Framebuffer) error {
	path := p.Path
	if strings.Contains(path, "%") {
		path = fmt.Sprintf(path, p.frame)
	}
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	p.frame++
	return nil
}

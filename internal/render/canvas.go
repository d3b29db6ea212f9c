package render

import (
	"errors"
	"sync"

	"eracanvas/internal/engine"
	"eracanvas/internal/projector"
)

var errNilFrame = errors.New("nil frame")

var _ engine.Surface = (*Canvas)(nil)

// Canvas is an engine surface that keeps the last frame as an SVG document.
// It may be read from other goroutines while the engine draws.
type Canvas struct {
	theme Theme

	mu     sync.RWMutex
	size   engine.Size
	svg    []byte
	frames int
}

// NewCanvas returns an empty canvas of the given size.
func NewCanvas(size engine.Size, theme Theme) *Canvas {
	return &Canvas{size: size, theme: theme}
}

// Size returns the current surface size.
func (c *Canvas) Size() engine.Size {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Resize changes the surface size. The engine picks it up on its next
// resize event.
func (c *Canvas) Resize(size engine.Size) {
	c.mu.Lock()
	c.size = size
	c.mu.Unlock()
}

// Draw renders f and keeps the result.
func (c *Canvas) Draw(f *projector.Frame) error {
	if f == nil {
		return errNilFrame
	}

	ratio := c.Size().PixelRatio
	doc := []byte(SVG(f, c.theme, ratio))

	c.mu.Lock()
	c.svg = doc
	c.frames++
	c.mu.Unlock()
	return nil
}

// SVG returns the last drawn document, or nil before the first draw.
func (c *Canvas) SVG() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.svg
}

// Frames returns the number of frames drawn so far.
func (c *Canvas) Frames() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frames
}

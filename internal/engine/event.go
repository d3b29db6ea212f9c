package engine

import (
	"fmt"
	"regexp"

	"eracanvas/internal/interaction"
)

// EventType names a host input event.
type EventType string

const (
	PointerDown  EventType = "pointerdown"
	PointerMove  EventType = "pointermove"
	PointerUp    EventType = "pointerup"
	PointerLeave EventType = "pointerleave"
	TouchStart   EventType = "touchstart"
	TouchMove    EventType = "touchmove"
	TouchEnd     EventType = "touchend"
	Wheel        EventType = "wheel"
	Resize       EventType = "resize"
	Visibility   EventType = "visibility"
)

// Event is one host input event. Only the fields relevant to Type are read.
type Event struct {
	Type EventType `json:"type"`

	// Pointer position for pointer and wheel events.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	DeltaY float64 `json:"deltaY"`

	// Active touches for touch events.
	Touches []interaction.Point `json:"touches,omitempty"`

	// New surface size for resize events. The engine re-reads the surface;
	// hosts use these to resize it first.
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	PixelRatio float64 `json:"pixelRatio,omitempty"`

	// Hidden is the page visibility for visibility events.
	Hidden bool `json:"hidden,omitempty"`
}

func (ev Event) point() interaction.Point {
	return interaction.Point{X: ev.X, Y: ev.Y}
}

// Dispatch applies one input event.
func (e *Engine) Dispatch(ev Event) error {
	if err := e.check(); err != nil {
		return err
	}

	m := e.machine
	switch ev.Type {
	case PointerDown:
		m.PointerDown(ev.point())
	case PointerMove:
		m.PointerMove(ev.point())
	case PointerUp:
		if ent, ok := m.PointerUp(ev.point()); ok {
			e.navigate(ent.ID)
		}
	case PointerLeave:
		m.PointerLeave()
	case TouchStart:
		m.TouchStart(ev.Touches)
	case TouchMove:
		m.TouchMove(ev.Touches)
	case TouchEnd:
		if ent, ok := m.TouchEnd(); ok {
			e.navigate(ent.ID)
		}
	case Wheel:
		m.Wheel(ev.point(), ev.DeltaY)
	case Resize:
		e.size = e.surface.Size()
		m.SetWidth(e.size.Width)
		e.logger.Debug("surface resized", "width", e.size.Width, "height", e.size.Height)
	case Visibility:
		e.hidden = ev.Hidden
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

func (e *Engine) navigate(id string) {
	e.logger.Info("item selected", "id", id, "path", ItemPath(e.opts.BasePath, id))
	if e.opts.Navigate != nil {
		e.opts.Navigate(e.opts.BasePath, id)
	}
}

var slashes = regexp.MustCompile(`/+`)

// ItemPath returns the detail page path of an item: base + "/item/" + id
// with runs of slashes collapsed.
func ItemPath(base, id string) string {
	return slashes.ReplaceAllString(base+"/item/"+id, "/")
}

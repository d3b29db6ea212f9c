/*
Package interaction turns pointer, touch and wheel input into viewport changes,
hover state and selections.

The Machine has three states:

	Idle     --press / one touch-->  Panning
	Panning  --release / leave-->    Idle
	any      --second touch-->       Pinching
	Pinching --touch lifted-->       Idle

Panning always pans a fresh copy of the viewport captured at press time, so a
long drag never accumulates rounding drift. Pinching zooms by the
frame-to-frame distance ratio at the current touch midpoint. Wheel input zooms
immediately in any state without changing it.

Hit testing is done against the last projected frame, handed to the machine
with SetFrame.
*/
package interaction

import (
	"math"

	"eracanvas/internal/projector"
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

// State is the gesture state of a Machine.
type State int

const (
	Idle State = iota
	Panning
	Pinching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	default:
		return "unknown"
	}
}

// Point is a pointer or touch position in surface pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config tunes the machine.
type Config struct {
	Domain  scale.Domain
	MinSpan float64

	WheelZoomIn  float64 // factor for wheel deltaY <= 0
	WheelZoomOut float64 // factor for wheel deltaY > 0

	// ClickThreshold is the largest pointer travel, in pixels, between press
	// and release that still counts as a click.
	ClickThreshold float64

	// TooltipLift raises the tooltip anchor above the hovered shape.
	TooltipLift float64
}

// DefaultConfig returns the stock interaction constants.
func DefaultConfig() Config {
	return Config{
		Domain:         scale.DefaultDomain,
		MinSpan:        scale.DefaultMinSpan,
		WheelZoomIn:    1.1,
		WheelZoomOut:   0.9,
		ClickThreshold: 4,
		TooltipLift:    projector.DefaultOptions().Tooltip.Lift,
	}
}

// Machine is the interaction state machine. It is not safe for concurrent use.
type Machine struct {
	cfg Config

	state    State
	viewport scale.Viewport
	width    float64
	frame    *projector.Frame

	// Panning.
	origin         Point
	originViewport scale.Viewport
	travel         float64
	pressed        projector.Ref
	lastTouch      Point

	// Pinching.
	lastDistance float64
	lastMidpoint float64

	// Hover.
	hovered projector.Ref
	tooltip *projector.TooltipContent

	cursorX       float64
	cursorVisible bool
}

// New returns an idle machine showing v on a surface width pixels wide.
func New(cfg Config, v scale.Viewport, width float64) *Machine {
	return &Machine{
		cfg:      cfg,
		viewport: v,
		width:    width,
	}
}

// State returns the current gesture state.
func (m *Machine) State() State { return m.state }

// Viewport returns the live viewport.
func (m *Machine) Viewport() scale.Viewport { return m.viewport }

// SetViewport replaces the live viewport, clamped to the domain.
func (m *Machine) SetViewport(v scale.Viewport) {
	v.Clamp(m.cfg.Domain)
	m.viewport = v
}

// SetWidth updates the surface width used for pixel/year conversion.
func (m *Machine) SetWidth(width float64) { m.width = width }

// SetFrame records the frame used for hit testing.
func (m *Machine) SetFrame(f *projector.Frame) { m.frame = f }

// Hovered returns the hovered entity, if any.
func (m *Machine) Hovered() projector.Ref { return m.hovered }

// Tooltip returns the active tooltip descriptor or nil.
func (m *Machine) Tooltip() *projector.TooltipContent { return m.tooltip }

// Cursor returns the x position of the cursor year line and whether it is shown.
func (m *Machine) Cursor() (float64, bool) { return m.cursorX, m.cursorVisible }

// Zoom zooms the live viewport by factor around anchorPx.
func (m *Machine) Zoom(factor, anchorPx float64) {
	m.viewport.Zoom(factor, anchorPx, m.width, m.cfg.Domain, m.cfg.MinSpan)
}

// PointerDown starts a drag at p.
func (m *Machine) PointerDown(p Point) {
	m.startPan(p)
	m.pressed = projector.Ref{}
	if target, ok := m.frame.HitTest(p.X, p.Y); ok {
		m.pressed = projector.RefOf(target.Entity)
	}
}

// PointerMove pans while dragging and updates hover and cursor state.
func (m *Machine) PointerMove(p Point) {
	m.cursorX, m.cursorVisible = p.X, true
	if m.state == Panning {
		m.panTo(p)
	}
	m.hover(p)
}

// PointerUp ends a drag. It returns the selected entity when the press and
// release landed on the same selectable entity without dragging.
func (m *Machine) PointerUp(p Point) (timeline.Entity, bool) {
	if m.state != Panning {
		return timeline.Entity{}, false
	}
	m.state = Idle
	m.trackTravel(p)
	return m.selection(p)
}

// PointerLeave cancels any drag and clears hover and cursor state.
func (m *Machine) PointerLeave() {
	if m.state == Panning {
		m.state = Idle
	}
	m.pressed = projector.Ref{}
	m.cursorVisible = false
	m.clearHover()
}

// TouchStart handles a change in the set of active touches.
func (m *Machine) TouchStart(touches []Point) {
	switch {
	case len(touches) >= 2:
		m.state = Pinching
		m.pressed = projector.Ref{}
		m.lastDistance = distance(touches[0], touches[1])
		m.lastMidpoint = (touches[0].X + touches[1].X) / 2
	case len(touches) == 1:
		m.PointerDown(touches[0])
		m.lastTouch = touches[0]
	}
}

// TouchMove pans with one touch and zooms with two.
func (m *Machine) TouchMove(touches []Point) {
	switch {
	case len(touches) >= 2 && m.state == Pinching:
		d := distance(touches[0], touches[1])
		mid := (touches[0].X + touches[1].X) / 2
		if m.lastDistance > 0 && d > 0 {
			m.Zoom(d/m.lastDistance, mid)
		}
		m.lastDistance = d
		m.lastMidpoint = mid
	case len(touches) == 1 && m.state == Panning:
		m.panTo(touches[0])
		m.lastTouch = touches[0]
	}
}

// TouchEnd returns to Idle when a touch is lifted. A single-finger tap on a
// selectable entity is reported like a click.
func (m *Machine) TouchEnd() (timeline.Entity, bool) {
	state := m.state
	m.state = Idle
	if state != Panning {
		return timeline.Entity{}, false
	}
	return m.selection(m.lastTouch)
}

// Wheel zooms around p: out for a positive deltaY, in otherwise.
func (m *Machine) Wheel(p Point, deltaY float64) {
	factor := m.cfg.WheelZoomIn
	if deltaY > 0 {
		factor = m.cfg.WheelZoomOut
	}
	m.Zoom(factor, p.X)
}

func (m *Machine) startPan(p Point) {
	m.state = Panning
	m.origin = p
	m.originViewport = m.viewport
	m.travel = 0
}

func (m *Machine) panTo(p Point) {
	m.trackTravel(p)
	if m.width <= 0 {
		return
	}
	v := m.originViewport
	v.Pan(-(p.X-m.origin.X)*v.Span()/m.width, m.cfg.Domain)
	m.viewport = v
}

func (m *Machine) trackTravel(p Point) {
	m.travel = math.Max(m.travel, distance(m.origin, p))
}

func (m *Machine) selection(p Point) (timeline.Entity, bool) {
	pressed := m.pressed
	m.pressed = projector.Ref{}
	if pressed.IsZero() || m.travel > m.cfg.ClickThreshold {
		return timeline.Entity{}, false
	}

	target, ok := m.frame.HitTest(p.X, p.Y)
	if !ok || projector.RefOf(target.Entity) != pressed || !target.Entity.Selectable() {
		return timeline.Entity{}, false
	}
	return target.Entity, true
}

func (m *Machine) hover(p Point) {
	target, ok := m.frame.HitTest(p.X, p.Y)
	if !ok {
		m.clearHover()
		return
	}
	m.hovered = projector.RefOf(target.Entity)
	m.tooltip = &projector.TooltipContent{
		Title:    target.Entity.Name,
		Subtitle: target.Entity.Subtitle,
		AnchorX:  target.AnchorX,
		AnchorY:  target.AnchorY - m.cfg.TooltipLift,
	}
}

func (m *Machine) clearHover() {
	m.hovered = projector.Ref{}
	m.tooltip = nil
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

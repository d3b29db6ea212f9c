/*
Package projector derives the per-frame geometry model of the timeline.

Project is a pure function: given the entities, their packed rows, the
viewport, the surface size and the transient hover/cursor state, it returns
an immutable Frame holding every position, visibility flag and label
placement the drawing layer needs. The drawing layer holds no timeline logic
and the frame can be tested without any rendering backend.

Vertical placement is role based:

  - artifacts sit on a fixed line just above the axis,
  - span bars start at SpanRatio and stack upward by packed row,
  - point markers start at MarkerRatio and stack downward by packed row.

Entities whose projection falls entirely outside [-CullMargin, width+CullMargin]
are kept in the frame but marked invisible.
*/
package projector

import (
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

// Size is the drawable surface size in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Ref identifies an entity within a role. IDs are only unique per record
// type, so the role is part of the identity.
type Ref struct {
	Role timeline.Role
	ID   string
}

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool {
	return r.ID == ""
}

// RefOf returns the reference of e.
func RefOf(e timeline.Entity) Ref {
	return Ref{Role: e.Role, ID: e.ID}
}

// Label is a placed text run centered on (X, Y).
type Label struct {
	Text     string
	X, Y     float64
	Width    float64
	FontSize float64
	Visible  bool
}

// Point is the geometry of an artifact or marker.
type Point struct {
	Entity  timeline.Entity
	Row     int
	X, Y    float64
	Size    float64
	Visible bool
	Hovered bool
	Label   Label
}

// Bar is the geometry of a span. StartX/EndX are the true projected
// endpoints; DrawStartX/DrawEndX are clipped to the surface.
type Bar struct {
	Entity     timeline.Entity
	Row        int
	StartX     float64
	EndX       float64
	DrawStartX float64
	DrawEndX   float64
	Y          float64
	Height     float64
	StartCap   bool
	EndCap     bool
	Visible    bool
	Hovered    bool
	Label      Label
}

// AxisTick is a projected axis graduation.
type AxisTick struct {
	scale.Tick
	X float64
}

// Axis is the projected year axis.
type Axis struct {
	Y        float64
	FontSize float64
	Ticks    []AxisTick
}

// Cursor is the vertical year-tracking line under the pointer.
type Cursor struct {
	X      float64
	Year   int
	Label  string
	LabelY float64
}

// Frame is the immutable geometry of one refresh.
type Frame struct {
	Size      Size
	Viewport  scale.Viewport
	Level     scale.LevelConfig
	Axis      Axis
	Artifacts []Point
	Spans     []Bar
	Markers   []Point
	Tooltip   *Tooltip
	Cursor    *Cursor

	// VisibleArtifacts counts drawn artifacts strictly inside the surface.
	VisibleArtifacts int
	// VisibleSpans counts drawn span bars.
	VisibleSpans int

	hitSlop float64
}

// Target is the result of a hit test: the entity and the pixel its
// tooltip should anchor to.
type Target struct {
	Entity  timeline.Entity
	AnchorX float64
	AnchorY float64
}

// HitTest returns the topmost visible entity under (x, y). Artifacts are
// drawn last so they win over markers and spans.
func (f *Frame) HitTest(x, y float64) (Target, bool) {
	if f == nil {
		return Target{}, false
	}

	for i := len(f.Artifacts) - 1; i >= 0; i-- {
		p := f.Artifacts[i]
		r := p.Size + f.hitSlop
		if p.Visible && abs(x-p.X) <= r && abs(y-p.Y) <= r {
			return Target{Entity: p.Entity, AnchorX: p.X, AnchorY: p.Y}, true
		}
	}

	for i := len(f.Markers) - 1; i >= 0; i-- {
		p := f.Markers[i]
		if !p.Visible {
			continue
		}
		r := p.Size + f.hitSlop
		if abs(x-p.X) <= r && abs(y-p.Y) <= r || p.Label.Visible && inLabel(p.Label, x, y) {
			return Target{Entity: p.Entity, AnchorX: p.X, AnchorY: p.Y}, true
		}
	}

	for i := len(f.Spans) - 1; i >= 0; i-- {
		b := f.Spans[i]
		if !b.Visible {
			continue
		}
		onBar := x >= b.DrawStartX-f.hitSlop && x <= b.DrawEndX+f.hitSlop && abs(y-b.Y) <= b.Height/2+f.hitSlop
		if onBar || b.Label.Visible && inLabel(b.Label, x, y) {
			return Target{Entity: b.Entity, AnchorX: b.Label.X, AnchorY: b.Y}, true
		}
	}

	return Target{}, false
}

func inLabel(l Label, x, y float64) bool {
	return abs(x-l.X) <= l.Width/2 && abs(y-l.Y) <= l.FontSize/2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

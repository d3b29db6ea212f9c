package timeline

import "eracanvas/internal/rowpack"

// Default year buffers used when packing rows. The marker buffer roughly
// matches half the width of a rendered name label at typical zoom.
const (
	DefaultSpanBuffer   = 100.0
	DefaultMarkerBuffer = 80.0
)

// LayoutOptions tunes row packing.
type LayoutOptions struct {
	SpanBuffer   float64
	MarkerBuffer float64
}

// DefaultLayoutOptions returns the stock row buffers.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{SpanBuffer: DefaultSpanBuffer, MarkerBuffer: DefaultMarkerBuffer}
}

// Layout holds the display row of every span and marker entity. It is
// derived data: recompute it whenever the entity set changes.
type Layout struct {
	spans   map[string]int
	markers map[string]int
}

// NewLayout packs spans by their literal [Start, End] with SpanBuffer, and
// markers by [midpoint-MarkerBuffer, midpoint+MarkerBuffer] with no extra
// buffer, each role in its own row space.
func NewLayout(entities []Entity, opts LayoutOptions) Layout {
	var spans, markers []rowpack.Range
	for _, e := range entities {
		switch e.Role {
		case RoleSpan:
			spans = append(spans, rowpack.Range{
				Key:   e.ID,
				Start: float64(e.Interval.Start),
				End:   float64(e.Interval.End),
			})
		case RoleMarker:
			markers = append(markers, rowpack.Range{
				Key:   e.ID,
				Start: e.Interval.Midpoint - opts.MarkerBuffer,
				End:   e.Interval.Midpoint + opts.MarkerBuffer,
			})
		}
	}

	return Layout{
		spans:   rowpack.Pack(spans, opts.SpanBuffer),
		markers: rowpack.Pack(markers, 0),
	}
}

// Row returns the display row of e. Artifacts and unknown entities sit on row 0.
func (l Layout) Row(e Entity) int {
	switch e.Role {
	case RoleSpan:
		return l.spans[e.ID]
	case RoleMarker:
		return l.markers[e.ID]
	default:
		return 0
	}
}

// SpanRows returns the number of rows used by spans.
func (l Layout) SpanRows() int {
	return rowpack.RowCount(l.spans)
}

// MarkerRows returns the number of rows used by markers.
func (l Layout) MarkerRows() int {
	return rowpack.RowCount(l.markers)
}

package interaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eracanvas/internal/era"
	"eracanvas/internal/interaction"
	"eracanvas/internal/projector"
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

const (
	eps   = 1e-6
	width = 1000.0
)

// newMachine shows -2000..0 on a 1000x600 surface with one artifact at
// -1000 (x=500, y=468) and one marker at -500 (x=750, y=312).
func newMachine(t *testing.T) *interaction.Machine {
	t.Helper()

	entities := []timeline.Entity{
		{
			Kind: timeline.KindArtifact, Role: timeline.RoleArtifact,
			ID: "seal", Name: "Cylinder seal", Subtitle: "1000 BC",
			Interval: era.Interval{Start: -1000, End: -1000, Midpoint: -1000},
		},
		{
			Kind: timeline.KindLandmark, Role: timeline.RoleMarker,
			ID: "homer", Name: "Homer",
			Interval: era.Interval{Start: -500, End: -500, Midpoint: -500},
		},
	}
	v := scale.Viewport{Start: -2000, End: 0}

	m := interaction.New(interaction.DefaultConfig(), v, width)
	m.SetFrame(projector.Project(projector.Input{
		Entities: entities,
		Layout:   timeline.NewLayout(entities, timeline.DefaultLayoutOptions()),
		Viewport: v,
		Size:     projector.Size{Width: width, Height: 600},
		Options:  projector.DefaultOptions(),
	}))
	return m
}

func TestDragTranslatesViewport(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.PointerDown(interaction.Point{X: 500, Y: 10})
	assert.Equal(t, interaction.Panning, m.State())

	m.PointerMove(interaction.Point{X: 600, Y: 10})
	_, selected := m.PointerUp(interaction.Point{X: 600, Y: 10})

	assert.False(t, selected)
	assert.Equal(t, interaction.Idle, m.State())
	assert.InDelta(t, -2200, m.Viewport().Start, eps)
	assert.InDelta(t, -200, m.Viewport().End, eps)
}

func TestDragIsRelativeToPressViewport(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.PointerDown(interaction.Point{X: 500, Y: 10})
	for _, x := range []float64{513.3, 277.7, 901.1, 450.9, 500} {
		m.PointerMove(interaction.Point{X: x, Y: 10})
	}

	assert.Equal(t, scale.Viewport{Start: -2000, End: 0}, m.Viewport())
}

func TestDragClampsToDomain(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.SetViewport(scale.Viewport{Start: -4400, End: -2400})

	m.PointerDown(interaction.Point{X: 100, Y: 10})
	m.PointerMove(interaction.Point{X: 300, Y: 10})

	assert.InDelta(t, -4500, m.Viewport().Start, eps)
	assert.InDelta(t, -2500, m.Viewport().End, eps)
}

func TestPointerLeaveCancelsDrag(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.PointerDown(interaction.Point{X: 500, Y: 10})
	m.PointerMove(interaction.Point{X: 550, Y: 10})
	m.PointerLeave()

	assert.Equal(t, interaction.Idle, m.State())
	before := m.Viewport()

	m.PointerMove(interaction.Point{X: 900, Y: 10})
	assert.Equal(t, before, m.Viewport())

	_, visible := m.Cursor()
	assert.True(t, visible, "moving back over the surface shows the cursor again")
}

func TestPinchZoomsByDistanceRatio(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.TouchStart([]interaction.Point{{X: 400}, {X: 600}})
	require.Equal(t, interaction.Pinching, m.State())

	yearAtMid := scale.PixelToYear(500, m.Viewport(), width)
	m.TouchMove([]interaction.Point{{X: 350}, {X: 650}})

	assert.InDelta(t, 2000/1.5, m.Viewport().Span(), eps)
	assert.InDelta(t, yearAtMid, scale.PixelToYear(500, m.Viewport(), width), eps)

	// The next ratio is taken against the previous move, not the gesture start.
	m.TouchMove([]interaction.Point{{X: 200}, {X: 800}})
	assert.InDelta(t, 2000/1.5/2, m.Viewport().Span(), eps)

	_, selected := m.TouchEnd()
	assert.False(t, selected)
	assert.Equal(t, interaction.Idle, m.State())
}

func TestWheelZoomKeepsState(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.Wheel(interaction.Point{X: 500}, 120)
	assert.InDelta(t, 2000/0.9, m.Viewport().Span(), eps)
	assert.Equal(t, interaction.Idle, m.State())

	m.PointerDown(interaction.Point{X: 500, Y: 10})
	m.Wheel(interaction.Point{X: 500}, -120)
	assert.InDelta(t, 2000/0.9/1.1, m.Viewport().Span(), eps)
	assert.Equal(t, interaction.Panning, m.State())
}

func TestClickSelectsArtifact(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.PointerDown(interaction.Point{X: 500, Y: 468})
	e, ok := m.PointerUp(interaction.Point{X: 502, Y: 469})

	require.True(t, ok)
	assert.Equal(t, "seal", e.ID)
}

func TestDragSuppressesClick(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.PointerDown(interaction.Point{X: 500, Y: 468})
	m.PointerMove(interaction.Point{X: 510, Y: 468})
	_, ok := m.PointerUp(interaction.Point{X: 500, Y: 468})

	assert.False(t, ok)
}

func TestMarkersAreNotSelectable(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.PointerDown(interaction.Point{X: 750, Y: 312})
	_, ok := m.PointerUp(interaction.Point{X: 750, Y: 312})

	assert.False(t, ok)
}

func TestTouchTapSelectsArtifact(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.TouchStart([]interaction.Point{{X: 501, Y: 467}})
	e, ok := m.TouchEnd()

	require.True(t, ok)
	assert.Equal(t, "seal", e.ID)
}

func TestHoverSetsSingleTooltip(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	m.PointerMove(interaction.Point{X: 500, Y: 468})

	assert.Equal(t, projector.Ref{Role: timeline.RoleArtifact, ID: "seal"}, m.Hovered())
	tip := m.Tooltip()
	require.NotNil(t, tip)
	assert.Equal(t, "Cylinder seal", tip.Title)
	assert.Equal(t, "1000 BC", tip.Subtitle)
	assert.InDelta(t, 500, tip.AnchorX, eps)
	assert.InDelta(t, 448, tip.AnchorY, eps)

	m.PointerMove(interaction.Point{X: 750, Y: 312})
	assert.Equal(t, "homer", m.Hovered().ID)
	assert.Equal(t, "Homer", m.Tooltip().Title)

	m.PointerMove(interaction.Point{X: 100, Y: 100})
	assert.True(t, m.Hovered().IsZero())
	assert.Nil(t, m.Tooltip())
}

func TestCursorTracksPointer(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	_, visible := m.Cursor()
	assert.False(t, visible)

	m.PointerMove(interaction.Point{X: 250, Y: 40})
	x, visible := m.Cursor()
	assert.True(t, visible)
	assert.InDelta(t, 250, x, eps)

	m.PointerLeave()
	_, visible = m.Cursor()
	assert.False(t, visible)
	assert.Nil(t, m.Tooltip())
}

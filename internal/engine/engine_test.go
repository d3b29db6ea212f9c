package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eracanvas/internal/engine"
	"eracanvas/internal/projector"
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

type fakeSurface struct {
	mu     sync.Mutex
	size   engine.Size
	frames []*projector.Frame
	err    error
}

func (s *fakeSurface) Size() engine.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *fakeSurface) Draw(f *projector.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *fakeSurface) draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func year(y int) *int { return &y }

func newEngine(navigate func(base, id string)) *engine.Engine {
	artifacts := []timeline.Artifact{
		{ID: "seal", Name: "Cylinder seal", Era: "1000 BC"},
		{ID: "lamp", Name: "Oil lamp", Era: "300 BC"},
	}
	landmarks := []timeline.Landmark{
		{ID: "assyria", Name: "Assyria", Type: timeline.Civilization, YearStart: year(-1500), YearEnd: year(-600)},
		{ID: "homer", Name: "Homer", Type: timeline.Person, Year: year(-750)},
		{ID: "broken", Name: "Broken", Type: timeline.MajorEvent},
	}

	opts := engine.DefaultOptions()
	opts.BasePath = "/Archive/"
	opts.Initial = &scale.Viewport{Start: -2000, End: 0}
	opts.Navigate = navigate
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine.New(artifacts, landmarks, opts)
}

func surface() *fakeSurface {
	return &fakeSurface{size: engine.Size{Width: 1000, Height: 600, PixelRatio: 1}}
}

func TestInitRequiresSurface(t *testing.T) {
	t.Parallel()

	err := newEngine(nil).Init(nil, nil, nil)
	assert.ErrorIs(t, err, engine.ErrNoSurface)

	err = newEngine(nil).Init(&fakeSurface{size: engine.Size{Width: 800}}, nil, nil)
	assert.ErrorIs(t, err, engine.ErrEmptySurface)
}

func TestUseBeforeInit(t *testing.T) {
	t.Parallel()

	e := newEngine(nil)
	assert.ErrorIs(t, e.Tick(), engine.ErrNotInitialized)
	assert.ErrorIs(t, e.Dispatch(engine.Event{Type: engine.Wheel}), engine.ErrNotInitialized)
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	report := newEngine(nil).Report()
	assert.Equal(t, 2, report.Artifacts)
	assert.Equal(t, 1, report.Spans)
	assert.Equal(t, 1, report.Markers)
	require.Len(t, report.Rejections, 1)
	assert.Equal(t, "broken", report.Rejections[0].ID)
	assert.ErrorIs(t, report.Rejections[0].Err, timeline.ErrNoDates)
}

func TestTicksDrawFrames(t *testing.T) {
	t.Parallel()

	s := surface()
	ticks := &engine.ManualTicks{}
	e := newEngine(nil)
	require.NoError(t, e.Init(s, nil, ticks))
	assert.Equal(t, 1, s.draws(), "Init draws the first frame")

	assert.True(t, ticks.Fire())
	assert.Equal(t, 2, s.draws())

	require.NoError(t, e.Dispatch(engine.Event{Type: engine.Visibility, Hidden: true}))
	ticks.Fire()
	assert.Equal(t, 2, s.draws(), "hidden surfaces are not drawn")

	require.NoError(t, e.Dispatch(engine.Event{Type: engine.Visibility, Hidden: false}))
	ticks.Fire()
	assert.Equal(t, 3, s.draws())
}

func TestDrawErrorIsReturned(t *testing.T) {
	t.Parallel()

	s := surface()
	e := newEngine(nil)
	require.NoError(t, e.Init(s, nil, nil))

	boom := errors.New("boom")
	s.err = boom
	assert.ErrorIs(t, e.Tick(), boom)

	s.err = nil
	assert.NoError(t, e.Tick())
}

func TestDragThroughEventSource(t *testing.T) {
	t.Parallel()

	feed := engine.NewFeed()
	e := newEngine(nil)
	require.NoError(t, e.Init(surface(), feed, nil))

	feed.Emit(engine.Event{Type: engine.PointerDown, X: 500, Y: 10})
	feed.Emit(engine.Event{Type: engine.PointerMove, X: 400, Y: 10})
	feed.Emit(engine.Event{Type: engine.PointerUp, X: 400, Y: 10})

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, -1800, state.ViewportStart)
	assert.Equal(t, 200, state.ViewportEnd)
	assert.Equal(t, int(scale.LevelPeriod), state.ZoomLevel)
}

func TestState(t *testing.T) {
	t.Parallel()

	e := newEngine(nil)
	require.NoError(t, e.Init(surface(), nil, nil))
	require.NoError(t, e.SetViewport(scale.Viewport{Start: -1200.4, End: -199.6}))

	state, err := e.State()
	require.NoError(t, err)
	assert.Equal(t, engine.StateSnapshot{
		ViewportStart:        -1200,
		ViewportEnd:          -200,
		ZoomLevel:            int(scale.LevelPeriod),
		VisibleEntityCount:   2,
		VisibleLandmarkCount: 1,
	}, state)
}

func TestClickNavigates(t *testing.T) {
	t.Parallel()

	var gotBase, gotID string
	e := newEngine(func(base, id string) { gotBase, gotID = base, id })
	require.NoError(t, e.Init(surface(), nil, nil))

	// seal sits at year -1000: x = 500, y = 0.78 * 600.
	require.NoError(t, e.Dispatch(engine.Event{Type: engine.PointerDown, X: 500, Y: 468}))
	require.NoError(t, e.Dispatch(engine.Event{Type: engine.PointerUp, X: 501, Y: 468}))

	assert.Equal(t, "/Archive/", gotBase)
	assert.Equal(t, "seal", gotID)
	assert.Equal(t, "/Archive/item/seal", engine.ItemPath(gotBase, gotID))
}

func TestDragDoesNotNavigate(t *testing.T) {
	t.Parallel()

	called := false
	e := newEngine(func(string, string) { called = true })
	require.NoError(t, e.Init(surface(), nil, nil))

	require.NoError(t, e.Dispatch(engine.Event{Type: engine.PointerDown, X: 500, Y: 468}))
	require.NoError(t, e.Dispatch(engine.Event{Type: engine.PointerMove, X: 520, Y: 468}))
	require.NoError(t, e.Dispatch(engine.Event{Type: engine.PointerUp, X: 500, Y: 468}))

	assert.False(t, called)
}

func TestZoomButtons(t *testing.T) {
	t.Parallel()

	e := newEngine(nil)
	require.NoError(t, e.Init(surface(), nil, nil))

	require.NoError(t, e.ZoomIn())
	v, err := e.Viewport()
	require.NoError(t, err)
	assert.InDelta(t, 2000/1.5, v.Span(), 1e-6)
	assert.InDelta(t, -1000, (v.Start+v.End)/2, 1e-6)

	require.NoError(t, e.ZoomOut())
	v, _ = e.Viewport()
	assert.InDelta(t, 2000/1.5/0.67, v.Span(), 1e-6)
}

func TestResizeRereadsSurface(t *testing.T) {
	t.Parallel()

	s := surface()
	e := newEngine(nil)
	require.NoError(t, e.Init(s, nil, nil))

	s.size = engine.Size{Width: 500, Height: 300, PixelRatio: 2}
	require.NoError(t, e.Dispatch(engine.Event{Type: engine.Resize}))
	require.NoError(t, e.Tick())

	f := e.Frame()
	require.NotNil(t, f)
	assert.Equal(t, projector.Size{Width: 500, Height: 300}, f.Size)

	// A zero-sized surface is skipped until it has an area again.
	s.size = engine.Size{}
	require.NoError(t, e.Dispatch(engine.Event{Type: engine.Resize}))
	draws := s.draws()
	require.NoError(t, e.Tick())
	assert.Equal(t, draws, s.draws())
}

func TestUnknownEvent(t *testing.T) {
	t.Parallel()

	e := newEngine(nil)
	require.NoError(t, e.Init(surface(), nil, nil))
	assert.ErrorIs(t, e.Dispatch(engine.Event{Type: "keydown"}), engine.ErrUnknownEvent)
}

func TestDestroyReleasesEverything(t *testing.T) {
	t.Parallel()

	feed := engine.NewFeed()
	ticks := &engine.ManualTicks{}
	e := newEngine(nil)
	require.NoError(t, e.Init(surface(), feed, ticks))
	assert.Equal(t, 1, feed.Subscribers())

	e.Destroy()
	e.Destroy()

	assert.Equal(t, 0, feed.Subscribers())
	assert.False(t, ticks.Fire())
	assert.ErrorIs(t, e.Dispatch(engine.Event{Type: engine.Wheel}), engine.ErrDestroyed)
	assert.ErrorIs(t, e.Tick(), engine.ErrDestroyed)
	assert.ErrorIs(t, e.ZoomIn(), engine.ErrDestroyed)
	_, err := e.State()
	assert.ErrorIs(t, err, engine.ErrDestroyed)
	assert.ErrorIs(t, e.Init(surface(), nil, nil), engine.ErrDestroyed)
}

func TestInitTwiceKeepsOneSubscription(t *testing.T) {
	t.Parallel()

	feed := engine.NewFeed()
	ticks := &engine.ManualTicks{}
	s := surface()
	e := newEngine(nil)
	require.NoError(t, e.Init(s, feed, ticks))

	err := e.Init(s, feed, &engine.ManualTicks{})
	assert.ErrorIs(t, err, engine.ErrAlreadyInitialized)
	assert.Equal(t, 1, feed.Subscribers())
	assert.Equal(t, 1, s.draws())
	assert.True(t, ticks.Fire(), "the first tick source keeps running")

	e.Destroy()
	assert.Equal(t, 0, feed.Subscribers())
}

func TestStageKeepsOneEngine(t *testing.T) {
	t.Parallel()

	feed := engine.NewFeed()
	stage := engine.NewStage(surface())

	first := newEngine(nil)
	require.NoError(t, stage.Mount(first, feed, nil))
	second := newEngine(nil)
	require.NoError(t, stage.Mount(second, feed, nil))

	assert.Equal(t, 1, feed.Subscribers())
	assert.Same(t, second, stage.Engine())
	assert.ErrorIs(t, first.Tick(), engine.ErrDestroyed)

	stage.Unmount()
	assert.Nil(t, stage.Engine())
	assert.Equal(t, 0, feed.Subscribers())
}

func TestStageMountFailureLeavesStageEmpty(t *testing.T) {
	t.Parallel()

	stage := engine.NewStage(&fakeSurface{})
	err := stage.Mount(newEngine(nil), nil, nil)
	assert.ErrorIs(t, err, engine.ErrEmptySurface)
	assert.Nil(t, stage.Engine())
}

func TestItemPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, id, want string
	}{
		{"/Archive", "abc", "/Archive/item/abc"},
		{"/Archive/", "abc", "/Archive/item/abc"},
		{"/", "abc", "/item/abc"},
		{"", "abc", "/item/abc"},
		{"//a//b//", "x", "/a/b/item/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.ItemPath(tt.base, tt.id), "%q + %q", tt.base, tt.id)
	}
}

func TestLoopSerializesEngine(t *testing.T) {
	t.Parallel()

	s := surface()
	loop := engine.NewLoop(time.Millisecond)
	e := newEngine(nil)
	require.NoError(t, e.Init(s, loop, loop))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, loop.Post(ctx, engine.Event{Type: engine.PointerDown, X: 500, Y: 10}))
	require.NoError(t, loop.Post(ctx, engine.Event{Type: engine.PointerMove, X: 600, Y: 10}))
	require.NoError(t, loop.Post(ctx, engine.Event{Type: engine.PointerUp, X: 600, Y: 10}))

	var state engine.StateSnapshot
	require.NoError(t, loop.Do(ctx, func() {
		state, _ = e.State()
	}))
	assert.Equal(t, -2200, state.ViewportStart)

	assert.Eventually(t, func() bool { return s.draws() > 2 }, 5*time.Second, time.Millisecond)

	require.NoError(t, loop.Do(ctx, e.Destroy))
	select {
	case <-loop.Done():
	case <-ctx.Done():
		t.Fatal("loop did not stop")
	}

	assert.ErrorIs(t, loop.Post(ctx, engine.Event{Type: engine.Wheel}), engine.ErrLoopStopped)
}

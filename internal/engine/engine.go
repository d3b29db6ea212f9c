/*
Package engine wires the timeline together into one explicitly owned instance.

An Engine is built from artifact and landmark records, initialized against a
drawable Surface, an EventSource and a TickSource, and torn down with
Destroy. Every tick re-projects the frame from scratch and hands it to the
surface; input events mutate the viewport and hover state through the
interaction machine in between.

An Engine is not safe for concurrent use. Hosts that receive input on several
goroutines drive it through a Loop, which serializes events and ticks onto
one goroutine.
*/
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"eracanvas/internal/interaction"
	"eracanvas/internal/projector"
	"eracanvas/internal/scale"
	"eracanvas/internal/timeline"
)

var (
	// ErrNoSurface is returned by Init when no surface is given.
	ErrNoSurface = errors.New("no drawable surface")
	// ErrEmptySurface is returned by Init when the surface has no area.
	ErrEmptySurface = errors.New("drawable surface has zero width or height")
	// ErrDestroyed is returned by every call on a destroyed engine.
	ErrDestroyed = errors.New("engine destroyed")
	// ErrNotInitialized is returned when the engine is used before Init.
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrAlreadyInitialized is returned by Init on a live engine.
	ErrAlreadyInitialized = errors.New("engine already initialized")
	// ErrUnknownEvent is returned by Dispatch for unrecognized event types.
	ErrUnknownEvent = errors.New("unknown event type")
)

// Size is the surface size in CSS pixels plus its device pixel ratio.
type Size struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PixelRatio float64 `json:"pixelRatio"`
}

// Empty reports whether the size has no drawable area.
func (s Size) Empty() bool {
	return !(s.Width > 0) || !(s.Height > 0)
}

// Surface is where frames are drawn.
type Surface interface {
	Size() Size
	Draw(f *projector.Frame) error
}

// EventSource delivers host input events until unsubscribed.
type EventSource interface {
	Subscribe(handler func(Event)) (unsubscribe func())
}

// TickSource calls its callback once per refresh until stopped.
type TickSource interface {
	Start(tick func()) error
	Stop()
}

// Options configures an Engine.
type Options struct {
	// BasePath prefixes item paths handed to Navigate.
	BasePath string

	Interaction interaction.Config
	Layout      timeline.LayoutOptions
	Projector   projector.Options

	// Initial is the starting viewport. When nil the viewport is fitted to
	// the artifacts.
	Initial *scale.Viewport

	// Navigate is called with the base path and item id when an artifact is
	// selected.
	Navigate func(basePath, id string)

	Logger *slog.Logger
}

// DefaultOptions returns options with the default geometry and interaction
// constants.
func DefaultOptions() Options {
	return Options{
		BasePath:    "/",
		Interaction: interaction.DefaultConfig(),
		Layout:      timeline.DefaultLayoutOptions(),
		Projector:   projector.DefaultOptions(),
	}
}

// StateSnapshot is the display summary of an engine, rounded to whole years.
type StateSnapshot struct {
	ViewportStart        int `json:"viewportStart"`
	ViewportEnd          int `json:"viewportEnd"`
	ZoomLevel            int `json:"zoomLevel"`
	VisibleEntityCount   int `json:"visibleEntityCount"`
	VisibleLandmarkCount int `json:"visibleLandmarkCount"`
}

// Engine is one timeline instance.
type Engine struct {
	opts   Options
	logger *slog.Logger

	entities []timeline.Entity
	layout   timeline.Layout
	report   timeline.BuildReport

	surface     Surface
	ticks       TickSource
	unsubscribe func()

	machine *interaction.Machine
	frame   *projector.Frame
	size    Size
	hidden  bool

	destroyed bool
}

// New builds the entity set and row layout. Landmarks with malformed dates
// are left out and logged.
func New(artifacts []timeline.Artifact, landmarks []timeline.Landmark, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "engine")

	entities, report := timeline.Build(artifacts, landmarks)
	for _, r := range report.Rejections {
		logger.Warn("landmark left out of the timeline", "id", r.ID, "error", r.Err)
	}
	logger.Debug("entities built",
		"artifacts", report.Artifacts,
		"spans", report.Spans,
		"markers", report.Markers,
		"rejected", len(report.Rejections))

	return &Engine{
		opts:     opts,
		logger:   logger,
		entities: entities,
		layout:   timeline.NewLayout(entities, opts.Layout),
		report:   report,
	}
}

// Report returns the summary of the entity build.
func (e *Engine) Report() timeline.BuildReport {
	return e.report
}

// Init attaches the engine to a surface, draws the first frame, subscribes to
// events and starts ticking. events and ticks may be nil for hosts that call
// Dispatch and Tick themselves.
func (e *Engine) Init(surface Surface, events EventSource, ticks TickSource) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if e.surface != nil {
		return ErrAlreadyInitialized
	}
	if surface == nil {
		return ErrNoSurface
	}
	size := surface.Size()
	if size.Empty() {
		return fmt.Errorf("init engine on %vx%v surface: %w", size.Width, size.Height, ErrEmptySurface)
	}

	e.surface = surface
	e.size = size
	e.machine = interaction.New(e.opts.Interaction, e.initialViewport(), size.Width)

	if err := e.Tick(); err != nil {
		e.release()
		return err
	}

	if events != nil {
		e.unsubscribe = events.Subscribe(e.handle)
	}
	if ticks != nil {
		if err := ticks.Start(e.tick); err != nil {
			e.release()
			return fmt.Errorf("start tick source: %w", err)
		}
		e.ticks = ticks
	}

	e.logger.Info("engine initialized",
		"width", size.Width,
		"height", size.Height,
		"pixel_ratio", size.PixelRatio,
		"entities", len(e.entities))
	return nil
}

func (e *Engine) initialViewport() scale.Viewport {
	if e.opts.Initial != nil {
		v := *e.opts.Initial
		v.Clamp(e.opts.Interaction.Domain)
		return v
	}

	var midpoints []float64
	for _, ent := range e.entities {
		if ent.Role == timeline.RoleArtifact {
			midpoints = append(midpoints, ent.Interval.Midpoint)
		}
	}
	return scale.Fit(midpoints, e.opts.Interaction.Domain, e.opts.Interaction.MinSpan)
}

// Tick re-projects the frame and draws it. Nothing is drawn while the host
// reports the surface hidden or empty.
func (e *Engine) Tick() error {
	if err := e.check(); err != nil {
		return err
	}
	if e.hidden || e.size.Empty() {
		return nil
	}

	f := e.project()
	e.frame = f
	e.machine.SetFrame(f)

	if err := e.surface.Draw(f); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

func (e *Engine) tick() {
	if err := e.Tick(); err != nil && !errors.Is(err, ErrDestroyed) {
		e.logger.Error("tick failed", "error", err)
	}
}

func (e *Engine) handle(ev Event) {
	if err := e.Dispatch(ev); err != nil && !errors.Is(err, ErrDestroyed) {
		e.logger.Warn("event dropped", "type", ev.Type, "error", err)
	}
}

func (e *Engine) project() *projector.Frame {
	cursorX, cursorVisible := e.machine.Cursor()
	return projector.Project(projector.Input{
		Entities:      e.entities,
		Layout:        e.layout,
		Viewport:      e.machine.Viewport(),
		Size:          projector.Size{Width: e.size.Width, Height: e.size.Height},
		Hovered:       e.machine.Hovered(),
		Tooltip:       e.machine.Tooltip(),
		CursorX:       cursorX,
		CursorVisible: cursorVisible,
		Options:       e.opts.Projector,
	})
}

// Frame returns the last drawn frame, or nil before the first draw.
func (e *Engine) Frame() *projector.Frame {
	return e.frame
}

// State returns the current display summary.
func (e *Engine) State() (StateSnapshot, error) {
	if err := e.check(); err != nil {
		return StateSnapshot{}, err
	}

	v := e.machine.Viewport()
	f := e.project()
	return StateSnapshot{
		ViewportStart:        int(math.Round(v.Start)),
		ViewportEnd:          int(math.Round(v.End)),
		ZoomLevel:            int(f.Level.Level),
		VisibleEntityCount:   f.VisibleArtifacts,
		VisibleLandmarkCount: f.VisibleSpans,
	}, nil
}

// Viewport returns the live viewport.
func (e *Engine) Viewport() (scale.Viewport, error) {
	if err := e.check(); err != nil {
		return scale.Viewport{}, err
	}
	return e.machine.Viewport(), nil
}

// SetViewport replaces the live viewport, clamped to the domain.
func (e *Engine) SetViewport(v scale.Viewport) error {
	if err := e.check(); err != nil {
		return err
	}
	e.machine.SetViewport(v)
	return nil
}

const (
	zoomInFactor  = 1.5
	zoomOutFactor = 0.67
)

// ZoomIn zooms in by a fixed factor around the surface center.
func (e *Engine) ZoomIn() error {
	return e.zoomCentered(zoomInFactor)
}

// ZoomOut zooms out by a fixed factor around the surface center.
func (e *Engine) ZoomOut() error {
	return e.zoomCentered(zoomOutFactor)
}

func (e *Engine) zoomCentered(factor float64) error {
	if err := e.check(); err != nil {
		return err
	}
	e.machine.Zoom(factor, e.size.Width/2)
	return nil
}

// Destroy unsubscribes from the event source and stops the tick source.
// Every later call on the engine returns ErrDestroyed.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.release()
	e.logger.Info("engine destroyed")
}

func (e *Engine) release() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.ticks != nil {
		e.ticks.Stop()
		e.ticks = nil
	}
	e.surface = nil
}

func (e *Engine) check() error {
	if e.destroyed {
		return ErrDestroyed
	}
	if e.surface == nil {
		return ErrNotInitialized
	}
	return nil
}

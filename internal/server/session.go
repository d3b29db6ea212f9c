package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"eracanvas/internal/engine"
	"eracanvas/internal/render"
	"eracanvas/internal/timeline"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the registry is full.
	ErrTooManySessions = errors.New("too many open sessions")
	// ErrRateLimited is returned when a session posts events too fast.
	ErrRateLimited = errors.New("event rate exceeded")
	// ErrClosed is returned by a registry after Close.
	ErrClosed = errors.New("session registry closed")
)

// RegistryOptions configures the sessions a registry opens.
type RegistryOptions struct {
	Engine       engine.Options
	Theme        render.Theme
	TickInterval time.Duration // zero disables background ticks
	MaxSessions  int
	SessionTTL   time.Duration // zero keeps idle sessions forever
	EventRate    float64
	EventBurst   int
	Logger       *slog.Logger
}

// Registry owns the open sessions.
type Registry struct {
	artifacts []timeline.Artifact
	landmarks []timeline.Landmark
	opts      RegistryOptions
	base      *slog.Logger
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewRegistry returns an empty registry serving the given records.
func NewRegistry(artifacts []timeline.Artifact, landmarks []timeline.Landmark, opts RegistryOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		artifacts: artifacts,
		landmarks: landmarks,
		opts:      opts,
		base:      logger,
		logger:    logger.With("component", "sessions"),
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Create opens a session drawing on a canvas of the given size.
func (r *Registry) Create(size engine.Size) (*Session, error) {
	if size.PixelRatio <= 0 {
		size.PixelRatio = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if r.opts.MaxSessions > 0 && len(r.sessions) >= r.opts.MaxSessions {
		return nil, ErrTooManySessions
	}

	limit := rate.Inf
	if r.opts.EventRate > 0 {
		limit = rate.Limit(r.opts.EventRate)
	}

	id := uuid.NewString()
	s := &Session{
		ID:       id,
		canvas:   render.NewCanvas(size, r.opts.Theme),
		loop:     engine.NewLoop(r.opts.TickInterval),
		limiter:  rate.NewLimiter(limit, r.opts.EventBurst),
		lastSeen: r.now(),
	}

	opts := r.opts.Engine
	opts.Logger = r.base.With("session", id)
	opts.Navigate = func(basePath, itemID string) {
		s.navigate = engine.ItemPath(basePath, itemID)
	}

	s.stage = engine.NewStage(s.canvas)
	if err := s.stage.Mount(engine.New(r.artifacts, r.landmarks, opts), s.loop, s.loop); err != nil {
		s.loop.Stop()
		return nil, fmt.Errorf("open session: %w", err)
	}

	r.sessions[id] = s
	r.logger.Info("session opened", "session", id, "width", size.Width, "height", size.Height)
	return s, nil
}

// Get returns an open session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = r.now()
	return s, nil
}

// Delete closes and forgets a session.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	r.logger.Info("session closed", "session", id)
	return s.close(ctx)
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes the sessions idle for longer than the TTL and returns how
// many it closed.
func (r *Registry) Sweep(ctx context.Context) int {
	if r.opts.SessionTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if r.now().Sub(s.lastSeen) > r.opts.SessionTTL {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		if err := s.close(ctx); err != nil {
			r.logger.Warn("closing expired session", "session", s.ID, "error", err)
		}
	}
	if len(expired) > 0 {
		r.logger.Info("expired sessions closed", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps expired sessions until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close closes every session. Later calls to Create fail with ErrClosed.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		errs = append(errs, s.close(ctx))
	}
	return errors.Join(errs...)
}

// Ready reports whether the registry accepts new sessions.
func (r *Registry) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed
}

// Session is one engine drawing on its own canvas. All engine access runs on
// the session loop.
type Session struct {
	ID string

	canvas  *render.Canvas
	loop    *engine.Loop
	stage   *engine.Stage
	limiter *rate.Limiter

	lastSeen time.Time // guarded by Registry.mu

	// navigate is only touched on the loop goroutine.
	navigate string
}

// EventResult is the outcome of one dispatched event.
type EventResult struct {
	State    engine.StateSnapshot `json:"state"`
	Navigate string               `json:"navigate,omitempty"`
}

// Dispatch applies ev, redraws and returns the new state. A selection made
// by the event is reported as the item path to navigate to.
func (s *Session) Dispatch(ctx context.Context, ev engine.Event) (EventResult, error) {
	if !s.limiter.Allow() {
		return EventResult{}, ErrRateLimited
	}
	if ev.Type == engine.Resize {
		size := s.canvas.Size()
		if ev.Width > 0 && ev.Height > 0 {
			size.Width, size.Height = ev.Width, ev.Height
		}
		if ev.PixelRatio > 0 {
			size.PixelRatio = ev.PixelRatio
		}
		s.canvas.Resize(size)
	}

	var (
		res EventResult
		err error
	)
	doErr := s.loop.Do(ctx, func() {
		e := s.stage.Engine()
		if e == nil {
			err = engine.ErrDestroyed
			return
		}
		s.navigate = ""
		if err = e.Dispatch(ev); err != nil {
			return
		}
		if err = e.Tick(); err != nil {
			return
		}
		res.Navigate = s.navigate
		res.State, err = e.State()
	})
	if doErr != nil {
		return EventResult{}, doErr
	}
	return res, err
}

// State returns the engine state.
func (s *Session) State(ctx context.Context) (engine.StateSnapshot, error) {
	var (
		st  engine.StateSnapshot
		err error
	)
	doErr := s.loop.Do(ctx, func() {
		e := s.stage.Engine()
		if e == nil {
			err = engine.ErrDestroyed
			return
		}
		st, err = e.State()
	})
	if doErr != nil {
		return engine.StateSnapshot{}, doErr
	}
	return st, err
}

// Zoom zooms in or out around the canvas center and redraws.
func (s *Session) Zoom(ctx context.Context, in bool) (engine.StateSnapshot, error) {
	var (
		st  engine.StateSnapshot
		err error
	)
	doErr := s.loop.Do(ctx, func() {
		e := s.stage.Engine()
		if e == nil {
			err = engine.ErrDestroyed
			return
		}
		if in {
			err = e.ZoomIn()
		} else {
			err = e.ZoomOut()
		}
		if err != nil {
			return
		}
		if err = e.Tick(); err != nil {
			return
		}
		st, err = e.State()
	})
	if doErr != nil {
		return engine.StateSnapshot{}, doErr
	}
	return st, err
}

// Frame returns the last drawn SVG document.
func (s *Session) Frame() []byte {
	return s.canvas.SVG()
}

// close destroys the engine, which also stops the loop, and waits for the
// loop to exit.
func (s *Session) close(ctx context.Context) error {
	err := s.loop.Do(ctx, s.stage.Unmount)
	if errors.Is(err, engine.ErrLoopStopped) {
		err = nil
	}
	s.loop.Stop()

	select {
	case <-s.loop.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

package engine

// Stage owns one surface and at most one engine drawing on it. Mounting a new
// engine first destroys the previous one, so two engines never share the
// surface or its event listeners.
type Stage struct {
	surface Surface
	engine  *Engine
}

// NewStage returns an empty stage for surface.
func NewStage(surface Surface) *Stage {
	return &Stage{surface: surface}
}

// Mount destroys the current engine, if any, and initializes e on the stage's
// surface. On error the stage is left empty.
func (s *Stage) Mount(e *Engine, events EventSource, ticks TickSource) error {
	s.Unmount()
	if err := e.Init(s.surface, events, ticks); err != nil {
		return err
	}
	s.engine = e
	return nil
}

// Engine returns the mounted engine or nil.
func (s *Stage) Engine() *Engine {
	return s.engine
}

// Unmount destroys the mounted engine.
func (s *Stage) Unmount() {
	if s.engine != nil {
		s.engine.Destroy()
		s.engine = nil
	}
}

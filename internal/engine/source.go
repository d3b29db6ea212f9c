package engine

import "sync"

// Feed is an EventSource the host pushes events into with Emit. Handlers run
// synchronously on the emitting goroutine.
type Feed struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func(Event)
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{handlers: make(map[int]func(Event))}
}

// Subscribe registers handler until the returned function is called.
func (f *Feed) Subscribe(handler func(Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	f.handlers[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.handlers, id)
			f.mu.Unlock()
		})
	}
}

// Emit delivers ev to every subscriber.
func (f *Feed) Emit(ev Event) {
	f.mu.Lock()
	handlers := make([]func(Event), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Subscribers returns the number of active subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// ManualTicks is a TickSource fired explicitly by the host, for batch
// rendering and tests.
type ManualTicks struct {
	mu   sync.Mutex
	tick func()
}

// Start records the tick callback.
func (m *ManualTicks) Start(tick func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tick != nil {
		return ErrTicking
	}
	m.tick = tick
	return nil
}

// Stop forgets the tick callback.
func (m *ManualTicks) Stop() {
	m.mu.Lock()
	m.tick = nil
	m.mu.Unlock()
}

// Fire calls the tick callback once and reports whether one was registered.
func (m *ManualTicks) Fire() bool {
	m.mu.Lock()
	tick := m.tick
	m.mu.Unlock()

	if tick == nil {
		return false
	}
	tick()
	return true
}

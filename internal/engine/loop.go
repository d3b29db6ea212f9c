package engine

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrTicking is returned by Start when the source is already running.
	ErrTicking = errors.New("tick source already started")
	// ErrLoopStopped is returned when posting to a stopped loop.
	ErrLoopStopped = errors.New("loop stopped")
)

var (
	_ EventSource = (*Loop)(nil)
	_ TickSource  = (*Loop)(nil)
	_ EventSource = (*Feed)(nil)
	_ TickSource  = (*ManualTicks)(nil)
)

// Loop runs ticks and events on a single goroutine. It is the EventSource
// and TickSource of an engine whose input arrives concurrently: hosts Post
// events and run queries with Do, and the loop goroutine is the only one
// that ever touches the engine.
type Loop struct {
	interval time.Duration
	inbox    chan func()

	mu      sync.Mutex
	handler func(Event)
	started bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewLoop returns a loop ticking every interval. A zero interval never
// ticks on its own.
func NewLoop(interval time.Duration) *Loop {
	return &Loop{
		interval: interval,
		inbox:    make(chan func(), 64),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Subscribe sets the handler events are delivered to. A loop serves a single
// engine, so a new subscription replaces the previous one.
func (l *Loop) Subscribe(handler func(Event)) func() {
	l.mu.Lock()
	l.handler = handler
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.handler = nil
			l.mu.Unlock()
		})
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start(tick func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return ErrTicking
	}
	l.started = true

	go l.run(tick)
	return nil
}

func (l *Loop) run(tick func()) {
	defer close(l.done)

	var ticks <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-l.stop:
			return
		case fn := <-l.inbox:
			fn()
		case <-ticks:
			if tick != nil {
				tick()
			}
		}
	}
}

// Stop signals the loop goroutine to exit. It does not wait, so it is safe
// to call from inside the loop; use Done to wait.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues ev for the subscribed handler.
func (l *Loop) Post(ctx context.Context, ev Event) error {
	return l.enqueue(ctx, func() {
		l.mu.Lock()
		h := l.handler
		l.mu.Unlock()
		if h != nil {
			h(ev)
		}
	})
}

// Do runs fn on the loop goroutine after everything queued before it and
// waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.enqueue(ctx, func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// fn may have stopped the loop itself.
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) enqueue(ctx context.Context, fn func()) error {
	select {
	case <-l.stop:
		return ErrLoopStopped
	default:
	}

	select {
	case l.inbox <- fn:
		return nil
	case <-l.stop:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

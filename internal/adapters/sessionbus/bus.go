// Package sessionbus provides the in-process session-change publisher.
//
// The auth service publishes one event per sign-in/sign-out; the auth-state
// store behind /auth/watch subscribes. Events are keyed by session ID and
// subscriptions are scoped to one session, so a browser only ever hears
// about its own session. Delivery is per-subscriber ordered and never drops
// intermediate events: each subscriber gets its own queue drained by a
// dedicated goroutine, so a slow consumer cannot stall the publisher or
// reorder anyone else's view.
package sessionbus

import (
	"context"
	"sync"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

// Bus is an in-memory ports.SessionEvents implementation.
type Bus struct {
	mu      sync.Mutex
	seq     uint64
	current map[string]*domainauth.Session
	subs    map[int]*subscriber
	nextID  int
	closed  bool
}

type subscriber struct {
	sessionID string

	mu       sync.Mutex
	cond     *sync.Cond
	pending  []domainauth.SessionEvent
	stopped  bool
	stopOnce sync.Once
	quit     chan struct{}
	out      chan domainauth.SessionEvent
}

var _ ports.SessionEvents = (*Bus)(nil)

// New constructs an empty Bus with no live sessions.
func New() *Bus {
	return &Bus{
		current: make(map[string]*domainauth.Session),
		subs:    make(map[int]*subscriber),
	}
}

// Publish records the new state of one session and fans it out, in publish
// order, to the subscribers watching that session. A nil session marks the
// session as ended.
func (b *Bus) Publish(_ context.Context, sessionID string, session *domainauth.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.seq++
	if session != nil {
		b.current[sessionID] = session
	} else {
		delete(b.current, sessionID)
	}
	ev := domainauth.SessionEvent{SessionID: sessionID, Session: session, Seq: b.seq}
	for _, s := range b.subs {
		if s.sessionID == sessionID {
			s.enqueue(ev)
		}
	}
}

// Subscribe registers a consumer scoped to one session. The returned
// channel first delivers that session's current state and then every
// subsequent change to it. The cancel function is idempotent and releases
// the subscription.
func (b *Bus) Subscribe(sessionID string) (<-chan domainauth.SessionEvent, func()) {
	s := &subscriber{
		sessionID: sessionID,
		quit:      make(chan struct{}),
		out:       make(chan domainauth.SessionEvent),
	}
	s.cond = sync.NewCond(&s.mu)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	closed := b.closed
	if !closed {
		b.subs[id] = s
	}
	// Seed with the session's current state so consumers never wait for
	// the next change to learn where things stand. Enqueued while still
	// holding b.mu: a concurrent Publish cannot slip its event in ahead
	// of the seed.
	s.enqueue(domainauth.SessionEvent{
		SessionID: sessionID,
		Session:   b.current[sessionID],
		Seq:       b.seq,
	})
	b.mu.Unlock()

	go s.drain()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		s.stop()
	}
	if closed {
		cancel()
	}
	return s.out, cancel
}

// Close tears the bus down; subsequent publishes are ignored and all
// subscriber channels are closed. Safe to call more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[int]*subscriber)
	b.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

func (s *subscriber) enqueue(ev domainauth.SessionEvent) {
	s.mu.Lock()
	if !s.stopped {
		s.pending = append(s.pending, ev)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *subscriber) stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.cond.Signal()
		s.mu.Unlock()
		close(s.quit)
	})
}

// drain delivers queued events to the out channel in order until stopped.
// Only drain closes out, so receivers can safely range over it.
func (s *subscriber) drain() {
	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.stopped {
			s.cond.Wait()
		}
		if s.stopped && len(s.pending) == 0 {
			s.mu.Unlock()
			close(s.out)
			return
		}
		ev := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.quit:
			close(s.out)
			return
		}
	}
}

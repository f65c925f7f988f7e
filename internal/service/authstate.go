package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

// AuthStateStoreOptions groups dependencies for AuthStateStore.
type AuthStateStoreOptions struct {
	// SessionID scopes the store to one session's change feed.
	SessionID string
	Roles     ports.RoleRecords
	Events    ports.SessionEvents
	// SignOut is invoked by Logout to terminate the session at the source.
	// The store never mutates its own state on logout; the resulting
	// session-change event does. Optional.
	SignOut func(ctx context.Context) error
	Logger  *slog.Logger
}

// AuthStateStore tracks the authentication state of a single session,
// derived from its change feed: the session itself, its resolved role,
// and whether the first change is still being resolved. Each store
// instance is independent; tearing one down never affects another.
//
// Role lookups run concurrently with the event feed. Every event carries
// a sequence number, and a lookup result is applied only while its event
// is still the newest one seen, so a slow lookup can never clobber the
// state of a later sign-in or sign-out.
type AuthStateStore struct {
	sessionID string
	roles     ports.RoleRecords
	events    ports.SessionEvents
	signOut   func(ctx context.Context) error
	logger    *slog.Logger

	mu        sync.Mutex
	state     domainauth.AuthState
	latestSeq uint64
	watchers  map[chan domainauth.AuthState]struct{}

	initialized bool
	tornDown    bool
	cancelSub   func()
	lookupCtx   context.Context
	cancelCtx   context.CancelFunc
	done        chan struct{}
}

// NewAuthStateStore constructs an AuthStateStore. The store is inert until
// Initialize is called.
func NewAuthStateStore(opts AuthStateStoreOptions) (*AuthStateStore, error) {
	if opts.SessionID == "" {
		return nil, errors.New("auth state store: SessionID is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("auth state store: Roles is required")
	}
	if opts.Events == nil {
		return nil, errors.New("auth state store: Events is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthStateStore{
		sessionID: opts.SessionID,
		roles:     opts.Roles,
		events:    opts.Events,
		signOut:   opts.SignOut,
		logger:    logger,
		state:     domainauth.AuthState{Resolving: true},
		watchers:  make(map[chan domainauth.AuthState]struct{}),
	}, nil
}

// Initialize subscribes to the session-change feed and starts resolving.
// The state stays Resolving until the first event, including its role
// lookup, has been fully processed. Calling Initialize again is a no-op
// beyond a warning log.
func (s *AuthStateStore) Initialize() {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		s.logger.Warn("auth state store initialized after teardown; ignoring")
		return
	}
	if s.initialized {
		s.mu.Unlock()
		s.logger.Warn("auth state store initialized twice; ignoring")
		return
	}
	s.initialized = true
	s.lookupCtx, s.cancelCtx = context.WithCancel(context.Background())
	s.done = make(chan struct{})
	s.mu.Unlock()

	ch, cancel := s.events.Subscribe(s.sessionID)

	s.mu.Lock()
	s.cancelSub = cancel
	s.mu.Unlock()

	go s.consume(ch)
}

func (s *AuthStateStore) consume(ch <-chan domainauth.SessionEvent) {
	defer close(s.done)
	for ev := range ch {
		s.handleSessionChange(ev)
	}
}

// handleSessionChange records the event as the newest seen and resolves
// its role. Sign-outs apply immediately; sign-ins apply after the role
// lookup returns, and only if no newer event has arrived in the meantime.
func (s *AuthStateStore) handleSessionChange(ev domainauth.SessionEvent) {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return
	}
	s.latestSeq = ev.Seq
	s.mu.Unlock()

	if ev.Session == nil {
		s.apply(ev.Seq, domainauth.AuthState{})
		return
	}

	sess := *ev.Session
	go func() {
		role := s.lookupRole(sess.UserID)
		sess.Role = role
		s.apply(ev.Seq, domainauth.AuthState{Session: &sess, Role: role})
	}()
}

// lookupRole resolves the role record for a user. Failures degrade to an
// unassigned role so a flaky role backend cannot block sign-in.
func (s *AuthStateStore) lookupRole(userID string) domainauth.Role {
	role, err := s.roles.GetRole(s.lookupCtx, userID)
	if err != nil {
		if !errors.Is(err, ports.ErrRoleRecordNotFound) && !errors.Is(err, context.Canceled) {
			s.logger.Warn("role lookup failed; treating role as unassigned",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		}
		return domainauth.RoleUnassigned
	}
	return role
}

// apply installs next as the current state if seq is still the newest
// event seen, then fans the state out to watchers. Stale results are
// dropped.
func (s *AuthStateStore) apply(seq uint64, next domainauth.AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tornDown || seq != s.latestSeq {
		return
	}
	next.Resolving = false
	s.state = next
	for ch := range s.watchers {
		// Latest-wins per watcher: replace any unread state.
		select {
		case ch <- next:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- next
		}
	}
}

// State returns the current auth state.
func (s *AuthStateStore) State() domainauth.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Watch registers a watcher for state changes. The channel delivers the
// most recent unread state; intermediate states may be skipped. The
// returned cancel function is idempotent.
func (s *AuthStateStore) Watch() (<-chan domainauth.AuthState, func()) {
	ch := make(chan domainauth.AuthState, 1)

	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			if _, ok := s.watchers[ch]; ok {
				delete(s.watchers, ch)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Logout terminates the session at the source. The store's own state is
// not touched here; the sign-out lands as a session-change event like any
// other, keeping a single code path for state transitions.
func (s *AuthStateStore) Logout(ctx context.Context) error {
	if s.signOut == nil {
		return errors.New("auth state store: sign-out is not configured")
	}
	if err := s.signOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Teardown cancels the subscription and pending role lookups. It is
// idempotent and safe to call before Initialize. After teardown the state
// is frozen and watcher channels are closed.
func (s *AuthStateStore) Teardown() {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return
	}
	s.tornDown = true
	cancelSub := s.cancelSub
	cancelCtx := s.cancelCtx
	done := s.done
	for ch := range s.watchers {
		delete(s.watchers, ch)
		close(ch)
	}
	s.mu.Unlock()

	if cancelSub != nil {
		cancelSub()
	}
	if cancelCtx != nil {
		cancelCtx()
	}
	if done != nil {
		<-done
	}
}

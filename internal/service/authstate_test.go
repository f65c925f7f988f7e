package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoohub/zookeeper-hub/internal/adapters/sessionbus"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/ports"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond

	// watchedSession is the session every test store is scoped to.
	watchedSession = "sess-1"
)

// fakeRoles is a controllable RoleRecords double. A gate channel per user
// blocks the lookup until released, which lets tests interleave slow
// lookups with later session changes.
type fakeRoles struct {
	mu    sync.Mutex
	roles map[string]domainauth.Role
	gates map[string]chan struct{}
	err   error
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		roles: make(map[string]domainauth.Role),
		gates: make(map[string]chan struct{}),
	}
}

func (f *fakeRoles) set(userID string, role domainauth.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = role
}

// gate makes lookups for userID block until the returned func is called.
func (f *fakeRoles) gate(userID string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[userID] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeRoles) GetRole(ctx context.Context, userID string) (domainauth.Role, error) {
	f.mu.Lock()
	gate := f.gates[userID]
	err := f.err
	role, ok := f.roles[userID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domainauth.RoleUnassigned, ctx.Err()
		}
	}
	if err != nil {
		return domainauth.RoleUnassigned, err
	}
	if !ok {
		return domainauth.RoleUnassigned, ports.ErrRoleRecordNotFound
	}
	return role, nil
}

func sessionFor(userID string) *domainauth.Session {
	return &domainauth.Session{
		ID:        watchedSession,
		UserID:    userID,
		Email:     userID + "@zoo.example",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func newTestStore(t *testing.T, roles ports.RoleRecords, bus *sessionbus.Bus) *AuthStateStore {
	t.Helper()
	store, err := NewAuthStateStore(AuthStateStoreOptions{
		SessionID: watchedSession,
		Roles:     roles,
		Events:    bus,
	})
	require.NoError(t, err)
	t.Cleanup(store.Teardown)
	return store
}

func waitResolved(t *testing.T, store *AuthStateStore) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !store.State().Resolving
	}, waitFor, tick, "store never finished resolving")
}

func TestNewAuthStateStore_Validation(t *testing.T) {
	_, err := NewAuthStateStore(AuthStateStoreOptions{Roles: newFakeRoles(), Events: sessionbus.New()})
	assert.Error(t, err)

	_, err = NewAuthStateStore(AuthStateStoreOptions{SessionID: "s1", Events: sessionbus.New()})
	assert.Error(t, err)

	_, err = NewAuthStateStore(AuthStateStoreOptions{SessionID: "s1", Roles: newFakeRoles()})
	assert.Error(t, err)
}

func TestStore_ResolvingUntilFirstEvent(t *testing.T) {
	bus := sessionbus.New()
	store := newTestStore(t, newFakeRoles(), bus)

	st := store.State()
	assert.True(t, st.Resolving)
	assert.Nil(t, st.Session)
	assert.Equal(t, domainauth.RoleUnassigned, st.Role)

	store.Initialize()
	waitResolved(t, store)

	st = store.State()
	assert.Nil(t, st.Session)
	assert.Equal(t, domainauth.RoleUnassigned, st.Role)
}

func TestStore_InitializeTwiceIsNoop(t *testing.T) {
	bus := sessionbus.New()
	store := newTestStore(t, newFakeRoles(), bus)

	store.Initialize()
	store.Initialize()
	waitResolved(t, store)
	assert.Nil(t, store.State().Session)
}

func TestStore_SignInResolvesRole(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.set("u-1", domainauth.RoleVet)
	store := newTestStore(t, roles, bus)
	store.Initialize()
	waitResolved(t, store)

	bus.Publish(context.Background(), watchedSession, sessionFor("u-1"))

	require.Eventually(t, func() bool {
		st := store.State()
		return st.Session != nil && st.Role == domainauth.RoleVet
	}, waitFor, tick)

	st := store.State()
	assert.Equal(t, "u-1", st.Session.UserID)
	assert.Equal(t, domainauth.RoleVet, st.Session.Role)
}

func TestStore_IgnoresOtherSessions(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.set("alice", domainauth.RoleAdmin)
	store := newTestStore(t, roles, bus)
	store.Initialize()
	waitResolved(t, store)

	// Someone else signing in elsewhere must never surface here.
	other := sessionFor("alice")
	other.ID = "sess-other"
	bus.Publish(context.Background(), "sess-other", other)

	time.Sleep(50 * time.Millisecond)
	st := store.State()
	assert.Nil(t, st.Session)
	assert.Equal(t, domainauth.RoleUnassigned, st.Role)
}

func TestStore_MissingRoleRecordMeansUnassigned(t *testing.T) {
	bus := sessionbus.New()
	store := newTestStore(t, newFakeRoles(), bus)
	store.Initialize()
	waitResolved(t, store)

	bus.Publish(context.Background(), watchedSession, sessionFor("stranger"))

	require.Eventually(t, func() bool {
		return store.State().Session != nil
	}, waitFor, tick)
	assert.Equal(t, domainauth.RoleUnassigned, store.State().Role)
}

func TestStore_RoleLookupFailureFailsOpen(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.err = errors.New("role backend down")
	store := newTestStore(t, roles, bus)
	store.Initialize()
	waitResolved(t, store)

	bus.Publish(context.Background(), watchedSession, sessionFor("u-1"))

	require.Eventually(t, func() bool {
		return store.State().Session != nil
	}, waitFor, tick)
	st := store.State()
	assert.Equal(t, domainauth.RoleUnassigned, st.Role)
	assert.Equal(t, "u-1", st.Session.UserID)
}

func TestStore_SlowLookupDiscardedAfterNewerSignIn(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.set("slow", domainauth.RoleAdmin)
	roles.set("fast", domainauth.RoleResearcher)
	release := roles.gate("slow")
	store := newTestStore(t, roles, bus)
	store.Initialize()
	waitResolved(t, store)

	bus.Publish(context.Background(), watchedSession, sessionFor("slow"))
	bus.Publish(context.Background(), watchedSession, sessionFor("fast"))

	require.Eventually(t, func() bool {
		st := store.State()
		return st.Session != nil && st.Session.UserID == "fast"
	}, waitFor, tick)

	release()

	// The slow lookup belongs to a superseded sign-in; its result must
	// never replace the newer state.
	time.Sleep(50 * time.Millisecond)
	st := store.State()
	assert.Equal(t, "fast", st.Session.UserID)
	assert.Equal(t, domainauth.RoleResearcher, st.Role)
}

func TestStore_SlowLookupDiscardedAfterSignOut(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.set("u-1", domainauth.RoleAdmin)
	release := roles.gate("u-1")
	store := newTestStore(t, roles, bus)
	store.Initialize()
	waitResolved(t, store)

	bus.Publish(context.Background(), watchedSession, sessionFor("u-1"))
	bus.Publish(context.Background(), watchedSession, nil)

	require.Eventually(t, func() bool {
		st := store.State()
		return !st.Resolving && st.Session == nil
	}, waitFor, tick)

	release()

	time.Sleep(50 * time.Millisecond)
	st := store.State()
	assert.Nil(t, st.Session)
	assert.Equal(t, domainauth.RoleUnassigned, st.Role)
}

func TestStore_LogoutDelegatesToSignOut(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.set("u-1", domainauth.RoleZookeeper)

	var signOutCalls int
	store, err := NewAuthStateStore(AuthStateStoreOptions{
		SessionID: watchedSession,
		Roles:     roles,
		Events:    bus,
		SignOut: func(ctx context.Context) error {
			signOutCalls++
			bus.Publish(ctx, watchedSession, nil)
			return nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(store.Teardown)
	store.Initialize()
	waitResolved(t, store)

	bus.Publish(context.Background(), watchedSession, sessionFor("u-1"))
	require.Eventually(t, func() bool {
		return store.State().Session != nil
	}, waitFor, tick)

	require.NoError(t, store.Logout(context.Background()))
	assert.Equal(t, 1, signOutCalls)

	require.Eventually(t, func() bool {
		return store.State().Session == nil
	}, waitFor, tick)
}

func TestStore_LogoutWithoutSignOutConfigured(t *testing.T) {
	store := newTestStore(t, newFakeRoles(), sessionbus.New())
	assert.Error(t, store.Logout(context.Background()))
}

func TestStore_LogoutPropagatesSignOutError(t *testing.T) {
	boom := errors.New("session backend down")
	store, err := NewAuthStateStore(AuthStateStoreOptions{
		SessionID: watchedSession,
		Roles:     newFakeRoles(),
		Events:    sessionbus.New(),
		SignOut:   func(context.Context) error { return boom },
	})
	require.NoError(t, err)
	t.Cleanup(store.Teardown)

	assert.ErrorIs(t, store.Logout(context.Background()), boom)
}

func TestStore_TeardownIsIdempotent(t *testing.T) {
	bus := sessionbus.New()
	store := newTestStore(t, newFakeRoles(), bus)
	store.Initialize()
	waitResolved(t, store)

	store.Teardown()
	store.Teardown()

	// Frozen after teardown: later events change nothing.
	bus.Publish(context.Background(), watchedSession, sessionFor("late"))
	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, store.State().Session)
}

func TestStore_TeardownBeforeInitialize(t *testing.T) {
	store := newTestStore(t, newFakeRoles(), sessionbus.New())
	store.Teardown()
	store.Initialize()

	st := store.State()
	assert.True(t, st.Resolving)
	assert.Nil(t, st.Session)
}

func TestStore_InstancesAreIsolated(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.set("u-1", domainauth.RoleAdmin)

	a := newTestStore(t, roles, bus)
	b := newTestStore(t, roles, bus)
	a.Initialize()
	b.Initialize()
	waitResolved(t, a)
	waitResolved(t, b)

	a.Teardown()
	bus.Publish(context.Background(), watchedSession, sessionFor("u-1"))

	require.Eventually(t, func() bool {
		return b.State().Session != nil
	}, waitFor, tick)
	assert.Nil(t, a.State().Session)
}

func TestStore_WatchDeliversChanges(t *testing.T) {
	bus := sessionbus.New()
	roles := newFakeRoles()
	roles.set("u-1", domainauth.RoleVet)
	store := newTestStore(t, roles, bus)
	store.Initialize()
	waitResolved(t, store)

	ch, cancel := store.Watch()
	defer cancel()

	bus.Publish(context.Background(), watchedSession, sessionFor("u-1"))

	select {
	case st := <-ch:
		require.NotNil(t, st.Session)
		assert.Equal(t, domainauth.RoleVet, st.Role)
	case <-time.After(waitFor):
		t.Fatal("no state delivered to watcher")
	}

	cancel()
	cancel() // idempotent
}

func TestStore_WatchAfterTeardownIsClosed(t *testing.T) {
	store := newTestStore(t, newFakeRoles(), sessionbus.New())
	store.Teardown()

	ch, cancel := store.Watch()
	defer cancel()
	_, open := <-ch
	assert.False(t, open)
}

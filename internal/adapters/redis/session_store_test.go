package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client), mr
}

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-1",
		Email:     "keeper@zoo.example",
		Role:      domainauth.RoleZookeeper,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sess-1")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, domainauth.RoleZookeeper, got.Role)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_SaveRejectsEmptyOrExpired(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domainauth.Session{}))

	expired := testSession("sess-exp")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	assert.Error(t, store.Save(ctx, expired))
}

func TestSessionStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_TTLExpiryEvicts(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sess-ttl")
	sess.ExpiresAt = time.Now().Add(time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "sess-ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_DeleteMissingIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Delete(context.Background(), "absent"))
	assert.NoError(t, store.Delete(context.Background(), ""))
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStoreWithPrefix(client, "test:sess:")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSession("s1")))

	assert.True(t, mr.Exists("test:sess:s1"))
}

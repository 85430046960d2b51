package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/ports"
	"github.com/iynfluencer/creator-service/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID: id,
		Identity: domainauth.Identity{
			UserID:    "user-123",
			CreatorID: "creator-9",
			Email:     "user@example.com",
		},
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := testSession("digest-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "digest-1")
	require.NoError(t, err)
	assert.Equal(t, sess.Identity, got.Identity)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	ttl, err := client.TTL(ctx, DefaultSessionPrefix+"digest-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 29*time.Minute)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))

	_, err := store.Get(context.Background(), "non-existent")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("digest-del", time.Minute)))
	require.NoError(t, store.Delete(ctx, "digest-del"))

	_, err := store.Get(ctx, "digest-del")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_RejectsInvalid(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, testSession("", time.Minute)))
	assert.Error(t, store.Save(ctx, testSession("digest-old", -time.Minute)))
}

func TestSessionStore_DropsExpiredIdentity(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "test:identity:")
	ctx := context.Background()

	sess := testSession("digest-exp", time.Minute)
	sess.Identity.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Save(ctx, sess))

	_, err := store.Get(ctx, "digest-exp")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	n, err := client.Exists(ctx, "test:identity:digest-exp").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/ports"
)

func TestStaticAuthenticator(t *testing.T) {
	a := NewStaticAuthenticator(map[string]domainauth.Identity{"tok": {UserID: "u-1"}})
	ctx := context.Background()

	id, err := a.Authenticate(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)

	_, err = a.Authenticate(ctx, "other")
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Equal(t, 2, a.Calls())
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	sess := domainauth.Session{ID: "s1", Identity: domainauth.Identity{UserID: "u"}, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u", got.Identity.UserID)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	assert.Error(t, store.Save(ctx, domainauth.Session{}))
}

package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore implementations on a cache miss.
var ErrSessionNotFound = errors.New("session not found")

// Authenticator resolves a bearer token into the caller's identity.
// The user service owns tokens; this service never verifies them itself.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domainauth.Identity, error)
}

// SessionStore caches resolved identities keyed by a token digest.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator = (*StaticAuthenticator)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
)

// ErrUnknownToken is returned by StaticAuthenticator for tokens it was not given.
var ErrUnknownToken = errors.New("unknown token")

// StaticAuthenticator resolves tokens from a fixed table and counts lookups.
type StaticAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, token string) (domainauth.Identity, error)

	mu     sync.Mutex
	tokens map[string]domainauth.Identity
	calls  int
}

// NewStaticAuthenticator creates an authenticator that knows the given tokens.
func NewStaticAuthenticator(tokens map[string]domainauth.Identity) *StaticAuthenticator {
	if tokens == nil {
		tokens = make(map[string]domainauth.Identity)
	}
	return &StaticAuthenticator{tokens: tokens}
}

func (m *StaticAuthenticator) Authenticate(ctx context.Context, token string) (domainauth.Identity, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	id, ok := m.tokens[token]
	if !ok {
		return domainauth.Identity{}, ErrUnknownToken
	}
	return id, nil
}

// Calls reports how many times Authenticate ran.
func (m *StaticAuthenticator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of cached sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

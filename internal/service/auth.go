package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/ports"
)

// DefaultIdentityTTL bounds how long a resolved token is trusted without
// asking the user service again.
const DefaultIdentityTTL = time.Minute

var errMissingToken = apperrors.Unauthorized("You are not authorized! Please Sign in.")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Authenticator ports.Authenticator // Required: USER_AUTH
	Sessions      ports.SessionStore  // Optional: identity cache
	TTL           time.Duration       // Optional: cache lifetime, DefaultIdentityTTL when zero
	Logger        *slog.Logger        // Optional
	Now           func() time.Time    // Optional
}

// AuthService resolves bearer tokens into identities.
type AuthService struct {
	authenticator ports.Authenticator
	sessions      ports.SessionStore
	ttl           time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Authenticator == nil {
		return nil, errors.New("Authenticator is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultIdentityTTL
	}
	return &AuthService{
		authenticator: opts.Authenticator,
		sessions:      opts.Sessions,
		ttl:           ttl,
		logger:        componentLogger(opts.Logger, "auth_service"),
		now:           clock(opts.Now),
	}, nil
}

// MustNewAuthService constructs a new AuthService and panics on error.
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create AuthService: %v", err))
	}
	return svc
}

// Resolve returns the identity behind token, from cache when possible.
// A "Bearer " prefix is accepted and stripped.
func (s *AuthService) Resolve(ctx context.Context, token string) (domainauth.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return domainauth.Identity{}, errMissingToken
	}
	key := tokenKey(token)

	if s.sessions != nil {
		sess, err := s.sessions.Get(ctx, key)
		switch {
		case err == nil && !sess.Expired(s.now()):
			return sess.Identity, nil
		case err == nil, errors.Is(err, ports.ErrSessionNotFound):
			// miss or stale entry
		default:
			s.logger.WarnContext(ctx, "identity cache read failed", "error", err)
		}
	}

	identity, err := s.authenticator.Authenticate(ctx, token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	s.remember(ctx, key, identity)
	return identity, nil
}

// Invalidate drops the cached identity for token.
func (s *AuthService) Invalidate(ctx context.Context, token string) error {
	if s.sessions == nil {
		return nil
	}
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if err := s.sessions.Delete(ctx, tokenKey(token)); err != nil {
		return fmt.Errorf("invalidate identity: %w", err)
	}
	return nil
}

func (s *AuthService) remember(ctx context.Context, key string, identity domainauth.Identity) {
	if s.sessions == nil {
		return
	}
	expires := s.now().Add(s.ttl)
	if !identity.ExpiresAt.IsZero() && identity.ExpiresAt.Before(expires) {
		expires = identity.ExpiresAt
	}
	if !expires.After(s.now()) {
		return
	}
	sess := domainauth.Session{ID: key, Identity: identity, ExpiresAt: expires}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "identity cache write failed", "error", err)
	}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package httpx

import (
	"context"
	"io"
	"log/slog"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
)

// identityKey and loggerKey are unexported context key types to avoid collisions across packages.
type (
	identityKey struct{}
	loggerKey   struct{}
)

// SetIdentityInContext returns a child context that carries the caller's identity.
func SetIdentityInContext(ctx context.Context, id domainauth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// GetIdentityFromContext returns the identity stored by RequireIdentity.
func GetIdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domainauth.Identity)
	return id, ok
}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return discardLogger
}

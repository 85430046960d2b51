package remote

import (
	"context"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/domain/rpc"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/ports"
)

var _ ports.Authenticator = (*UserClient)(nil)

// UserClient resolves bearer tokens through the user service.
type UserClient struct {
	caller Caller
}

// NewUserClient creates a client sending through caller.
func NewUserClient(caller Caller) *UserClient {
	return &UserClient{caller: caller}
}

// Authenticate exchanges token for the caller's identity. A rejected token is
// Unauthorized with the user service's message.
func (c *UserClient) Authenticate(ctx context.Context, token string) (domainauth.Identity, error) {
	var id domainauth.Identity
	err := call(ctx, c.caller, rpc.CmdUserAuth, map[string]string{"token": token}, &id)
	if apperrors.IsRemoteRejected(err) {
		return domainauth.Identity{}, apperrors.Unauthorized(apperrors.PublicMessage(err))
	}
	if err != nil {
		return domainauth.Identity{}, err
	}
	if id.UserID == "" {
		return domainauth.Identity{}, apperrors.Unauthorized("You are not authorized! Please Sign in.")
	}
	return id, nil
}

// Package remote adapts the request/reply transport into the typed service
// clients the core depends on.
package remote

import (
	"context"
	"fmt"

	"github.com/iynfluencer/creator-service/internal/domain/rpc"
)

// Caller sends one command and returns the reply envelope.
// The Redis RPCClient is the production implementation.
type Caller interface {
	Call(ctx context.Context, cmd string, payload any) (rpc.Envelope, error)
}

// call sends cmd and decodes a successful reply into dst. A status:false reply
// is returned as RemoteRejected.
func call(ctx context.Context, c Caller, cmd string, payload, dst any) error {
	env, err := c.Call(ctx, cmd, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return env.Into(dst)
}

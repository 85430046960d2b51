package remote

import (
	"context"
	"time"

	"github.com/iynfluencer/creator-service/internal/domain/rpc"
	"github.com/iynfluencer/creator-service/internal/observability/metrics"
	"github.com/iynfluencer/creator-service/internal/observability/statsd"
)

// InstrumentedCaller records the outcome and latency of every call.
type InstrumentedCaller struct {
	next Caller
	sink statsd.Sink
	now  func() time.Time
}

// Instrument wraps next. A nil sink returns next unchanged.
func Instrument(next Caller, sink statsd.Sink) Caller {
	if sink == nil {
		return next
	}
	return &InstrumentedCaller{next: next, sink: sink, now: time.Now}
}

// Call forwards to the wrapped caller. A rejected envelope counts as an error.
func (c *InstrumentedCaller) Call(ctx context.Context, cmd string, payload any) (rpc.Envelope, error) {
	start := c.now()
	env, err := c.next.Call(ctx, cmd, payload)
	outcome := err
	if outcome == nil {
		outcome = env.Err()
	}
	metrics.EmitRemoteCall(c.sink, cmd, c.now().Sub(start), outcome)
	return env, err
}

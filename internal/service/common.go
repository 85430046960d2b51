package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
)

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger.With("component", component)
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return now
}

// eventSink publishes after the state change is durable. Publishing is
// best-effort: a failure is logged and never undoes the change.
type eventSink struct {
	publisher core.EventPublisher
	logger    *slog.Logger
}

func (e eventSink) publish(ctx context.Context, events ...model.Event) {
	if e.publisher == nil || len(events) == 0 {
		return
	}
	if err := e.publisher.Publish(ctx, events...); err != nil {
		e.logger.WarnContext(ctx, "publish events failed", "type", events[0].Type, "error", err)
	}
}

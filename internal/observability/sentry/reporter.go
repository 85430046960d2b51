// Package sentry reports unexpected errors to Sentry.
package sentry

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	obserrors "github.com/iynfluencer/creator-service/internal/observability/errors"
)

// Config holds the client options. An empty DSN disables reporting.
type Config struct {
	DSN         string
	Environment string
	Release     string
	ServerName  string
}

// Reporter captures errors on a private hub. The zero value and a nil
// *Reporter are valid and drop everything.
type Reporter struct {
	hub    *sentry.Hub
	logger *slog.Logger
}

// New creates a Reporter for cfg.
func New(cfg Config, logger *slog.Logger) (*Reporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DSN == "" {
		return &Reporter{logger: logger}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		ServerName:       cfg.ServerName,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}
	return NewWithClient(client, logger), nil
}

// NewWithClient creates a Reporter over an existing client.
func NewWithClient(client *sentry.Client, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		logger: logger,
	}
}

// Enabled reports whether events are sent.
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// Capture reports err with tags. The error class is always attached.
func (r *Reporter) Capture(ctx context.Context, err error, tags map[string]string) {
	if !r.Enabled() || err == nil {
		return
	}
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_class", obserrors.Classify(err))
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		scope.SetContext("request", sentry.Context{"canceled": ctx.Err() != nil})
		if id := hub.CaptureException(err); id == nil && r.logger != nil {
			r.logger.DebugContext(ctx, "sentry dropped event", "error", err)
		}
	})
}

// Flush waits up to timeout for buffered events to be sent.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}

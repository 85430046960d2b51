package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/iynfluencer/creator-service/internal/core"
	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/observability/metrics"
	"github.com/iynfluencer/creator-service/internal/observability/statsd"
)

// IdentityResolver turns the Authorization header into the caller's identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domainauth.Identity, error)
}

// CreatorChecker confirms a creator profile exists.
type CreatorChecker interface {
	Exists(ctx context.Context, creatorID string) (*model.Creator, error)
}

// Logging returns a middleware that logs HTTP requests and records request metrics.
// The logger is also placed on the request context for error rendering.
func Logging(logger *slog.Logger, sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			req := r.WithContext(withLogger(r.Context(), logger))
			next.ServeHTTP(ww, req)

			elapsed := time.Since(start)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", elapsed),
			)
			// the mux records the matched pattern on the request it was given
			route := req.Pattern
			if route == "" {
				route = "unmatched"
			}
			metrics.EmitRequest(sink, route, ww.status, elapsed)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics, logs them and
// forwards them to the error reporter when one is configured.
func Recover(logger *slog.Logger, reporter core.ErrorReporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", rec),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					if reporter != nil {
						reporter.Capture(r.Context(), fmt.Errorf("panic: %v", rec), map[string]string{
							"route": r.Pattern,
						})
					}
					WriteError(w, r, apperrors.Internal("internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireIdentity resolves the Authorization header. Requests without a
// resolvable token get 401.
func RequireIdentity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if apperrors.GetCode(err) == "" {
					loggerFrom(r.Context()).WarnContext(r.Context(), "identity resolution failed", "error", err)
					err = apperrors.Unauthorized("You are not authorized! Please Sign in.")
				}
				WriteError(w, r, err)
				return
			}
			ctx := SetIdentityInContext(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCreator admits only callers whose creator profile exists.
// It must run after RequireIdentity.
func RequireCreator(checker CreatorChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentityFromContext(r.Context())
			if !ok {
				WriteError(w, r, apperrors.Unauthorized("You are not authorized! Please Sign in."))
				return
			}
			if _, err := checker.Exists(r.Context(), identity.CreatorID); err != nil {
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

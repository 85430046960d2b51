package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/mocks"
)

type resolverFunc func(ctx context.Context, token string) (domainauth.Identity, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (domainauth.Identity, error) {
	return f(ctx, token)
}

type checkerFunc func(ctx context.Context, creatorID string) (*model.Creator, error)

func (f checkerFunc) Exists(ctx context.Context, creatorID string) (*model.Creator, error) {
	return f(ctx, creatorID)
}

type countingSink struct {
	mu     sync.Mutex
	counts map[string][]map[string]string
}

func (s *countingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = make(map[string][]map[string]string)
	}
	s.counts[name] = append(s.counts[name], tags)
}

func (s *countingSink) Timing(string, time.Duration, map[string]string) {}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireIdentity(t *testing.T) {
	t.Parallel()

	var seen domainauth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetIdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	resolver := resolverFunc(func(_ context.Context, token string) (domainauth.Identity, error) {
		switch token {
		case "Bearer good":
			return domainauth.Identity{UserID: "u-1"}, nil
		case "Bearer rejected":
			return domainauth.Identity{}, apperrors.Unauthorized("Session expired")
		}
		return domainauth.Identity{}, errors.New("user service unreachable")
	})
	h := RequireIdentity(resolver)(next)

	tests := []struct {
		token   string
		status  int
		message string
	}{
		{"Bearer good", http.StatusOK, ""},
		{"Bearer rejected", http.StatusUnauthorized, "Session expired"},
		{"Bearer other", http.StatusUnauthorized, "You are not authorized! Please Sign in."},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", tt.token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, tt.status, rec.Code, tt.token)
		if tt.message != "" {
			assert.Contains(t, rec.Body.String(), tt.message)
		}
	}
	assert.Equal(t, "u-1", seen.UserID)
}

func TestRequireCreator(t *testing.T) {
	t.Parallel()
	checker := checkerFunc(func(_ context.Context, id string) (*model.Creator, error) {
		if id == "c-1" {
			return &model.Creator{CreatorID: id}, nil
		}
		return nil, apperrors.NotFound("Creator not found")
	})
	h := RequireCreator(checker)(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no identity on the context")

	for id, want := range map[string]int{"c-1": http.StatusOK, "c-2": http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(SetIdentityInContext(req.Context(), domainauth.Identity{CreatorID: id}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, id)
	}
}

func TestRecover_ReportsPanics(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockErrorReporter(ctrl)
	reporter.EXPECT().Capture(gomock.Any(), gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, err error, _ map[string]string) {
			assert.Contains(t, err.Error(), "kaboom")
		})

	h := Recover(discardLogger, reporter)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestLogging_RecordsRoutePattern(t *testing.T) {
	t.Parallel()
	sink := &countingSink{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs/{id}/single", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Logging(discardLogger, sink)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/jobs/j-1/single", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere/at/all", nil))

	require.Len(t, sink.counts["http.request"], 2)
	assert.Equal(t, "GET /jobs/{id}/single", sink.counts["http.request"][0]["route"])
	assert.Equal(t, "4xx", sink.counts["http.request"][0]["status"])
	assert.Equal(t, "unmatched", sink.counts["http.request"][1]["route"])
}

func TestChain_Order(t *testing.T) {
	t.Parallel()
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(okHandler), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second"}, order)
}

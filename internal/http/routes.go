package httpx

import (
	"log/slog"
	"net/http"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/observability/statsd"
	"github.com/iynfluencer/creator-service/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs     *service.JobService
	Hires    *service.HireService
	Creators *service.CreatorService
	Auth     IdentityResolver

	// Optional
	Reporter    core.ErrorReporter
	Metrics     statsd.Sink
	Logger      *slog.Logger
	Compression *CompressionConfig

	// MaxLimit caps the page size a client may ask for.
	MaxLimit int
}

// guards builds the per-route middleware stacks.
type guards struct {
	signedIn func(http.Handler) http.Handler
	creator  func(http.Handler) http.Handler
}

func (g guards) user(h http.HandlerFunc) http.Handler {
	return g.signedIn(h)
}

func (g guards) iam(h http.HandlerFunc) http.Handler {
	return Chain(h, g.signedIn, g.creator)
}

// NewRouter creates the REST router with logging, panic recovery and
// optional compression applied to every route.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = discardLogger
	}
	mux := http.NewServeMux()

	g := guards{
		signedIn: RequireIdentity(services.Auth),
		creator:  RequireCreator(services.Creators),
	}
	creators := &CreatorHandlers{Svc: services.Creators, Hires: services.Hires, MaxLimit: services.MaxLimit}
	jobs := &JobHandlers{Svc: services.Jobs, MaxLimit: services.MaxLimit}
	hires := &HireHandlers{Svc: services.Hires, MaxLimit: services.MaxLimit}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerCreatorRoutes(mux, creators, g)
	registerMeRoutes(mux, creators, jobs, hires, g)
	registerJobRoutes(mux, jobs, g)

	mws := []func(http.Handler) http.Handler{
		Logging(logger, services.Metrics),
		Recover(logger, services.Reporter),
	}
	if services.Compression != nil {
		cfg := *services.Compression
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		mws = append(mws, Compression(cfg))
	}
	return Chain(mux, mws...)
}

func registerCreatorRoutes(mux *http.ServeMux, h *CreatorHandlers, g guards) {
	mux.Handle("GET /{$}", http.HandlerFunc(h.List))
	mux.Handle("GET /{id}/single", http.HandlerFunc(h.GetOne))
	mux.Handle("GET /admin/campaign", g.user(h.AdminList))
	mux.Handle("GET /admin/campaign/user/{userId}", g.user(h.ListByUser))
	mux.Handle("GET /admin/transaction/{id}", g.user(h.Transactions))
}

func registerMeRoutes(mux *http.ServeMux, c *CreatorHandlers, j *JobHandlers, h *HireHandlers, g guards) {
	// creating the profile is the one /me route open to users without one
	mux.Handle("POST /me", g.user(c.Create))
	mux.Handle("GET /me", g.iam(c.GetMe))
	mux.Handle("PATCH /me", g.iam(c.UpdateMe))

	mux.Handle("POST /me/jobs", g.iam(j.Create))
	mux.Handle("GET /me/jobs", g.iam(j.ListMine))
	mux.Handle("GET /me/jobs/{id}/single", g.iam(j.GetMine))
	mux.Handle("PATCH /me/jobs/{id}/single", g.iam(j.UpdateMine))
	mux.Handle("DELETE /me/jobs/{id}/single", g.iam(j.DeleteMine))
	mux.Handle("PATCH /me/jobs/{id}/complete", g.iam(j.Complete))
	mux.Handle("POST /me/jobs/request/send", g.iam(j.SendRequest))

	mux.Handle("POST /me/hired/bid/{id}", g.iam(h.HireBid))
	mux.Handle("GET /me/hired", g.iam(h.ListMine))
	mux.Handle("GET /me/hired/{id}/single", g.iam(h.GetMine))
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers, g guards) {
	mux.Handle("GET /jobs", g.user(h.ListOpen))
	mux.Handle("GET /jobs/influencer", g.user(h.ListForInfluencer))
	mux.Handle("GET /jobs/{id}/single", g.user(h.GetOne))
	mux.Handle("GET /jobs/all", g.user(h.ListAll))
}

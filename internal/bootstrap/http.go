package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iynfluencer/creator-service/config"
	httpx "github.com/iynfluencer/creator-service/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown; listen failures are
// delivered on errCh when it is non-nil.
func StartHTTPServer(cfg *HTTPServerConfig, errCh chan<- error) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: cfg.Services,
		HTTP:     appCfg.HTTP,
		MaxLimit: appCfg.Query.MaxLimit,
	})

	return startServer(logger, handler, appCfg.HTTP.Addr, errCh)
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services ServiceContainer
	HTTP     config.HTTPConfig
	MaxLimit int
}

func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	services := httpx.RouterServices{
		Jobs:     cfg.Services.Jobs,
		Hires:    cfg.Services.Hires,
		Creators: cfg.Services.Creators,
		Reporter: cfg.Services.Observability.errorReporter(),
		Metrics:  cfg.Services.Observability.metricsSink(),
		Logger:   cfg.Logger,
		MaxLimit: cfg.MaxLimit,
	}
	// Assign through the nil check so a missing service stays a nil interface.
	if cfg.Services.Auth != nil {
		services.Auth = cfg.Services.Auth
	}
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		services.Compression = &httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: cfg.Logger}
	}
	return httpx.NewRouter(services)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}

package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/iynfluencer/creator-service/config"
	redisadapter "github.com/iynfluencer/creator-service/internal/adapters/redis"
	"github.com/iynfluencer/creator-service/internal/ports"
	"github.com/iynfluencer/creator-service/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth          config.AuthConfig
	Authenticator ports.Authenticator
	RedisClient   redis.UniversalClient
	Logger        *slog.Logger
}

// BuildAuthService creates the auth service over the user service.
// Resolved identities are cached in Redis when a client is available and
// the cache TTL is positive. Returns nil without an authenticator.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.Authenticator == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: no authenticator configured")
		}
		return nil
	}

	opts := service.AuthServiceOptions{
		Authenticator: cfg.Authenticator,
		TTL:           cfg.Auth.CacheTTL,
		Logger:        cfg.Logger,
	}

	switch {
	case !cfg.Auth.CacheEnabled():
		if cfg.Logger != nil {
			cfg.Logger.Info("identity cache disabled", "reason", "ttl is zero")
		}
	case cfg.RedisClient == nil:
		if cfg.Logger != nil {
			cfg.Logger.Warn("identity cache disabled: redis client not configured")
		}
	default:
		opts.Sessions = redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Auth.CachePrefix)
	}

	svc, err := service.NewAuthService(opts)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("failed to build auth service", "error", err)
		}
		return nil
	}
	return svc
}

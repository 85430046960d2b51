package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iynfluencer/creator-service/config"
	"github.com/iynfluencer/creator-service/internal/adapters/kafka"
	redisadapter "github.com/iynfluencer/creator-service/internal/adapters/redis"
	"github.com/iynfluencer/creator-service/internal/adapters/remote"
	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/data"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	"github.com/iynfluencer/creator-service/internal/domain/rpc"
	"github.com/iynfluencer/creator-service/internal/observability/sentry"
	"github.com/iynfluencer/creator-service/internal/observability/statsd"
	"github.com/iynfluencer/creator-service/internal/rpcapi"
	"github.com/iynfluencer/creator-service/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs          *service.JobService
	Hires         *service.HireService
	Creators      *service.CreatorService
	Auth          *service.AuthService
	Observability ObservabilityContainer

	closers []namedCloser
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Reporter    *sentry.Reporter
	MetricsSink *statsd.Client
	Events      core.EventPublisher
}

type namedCloser struct {
	name  string
	close func() error
}

// Close releases the adapters NewServices opened, newest first.
func (c *ServiceContainer) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].close(); err != nil {
			logger.Error("close "+c.closers[i].name+" failed", "error", err)
		}
	}
	c.closers = nil
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	Mongo       *MongoHandle
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Jobs     *data.JobRepo
	Hires    *data.HireRepo
	Creators *data.CreatorRepo
	Tx       *data.MongoTransactor
	Bids     core.BidLedger
}

// remoteClients groups the request/reply clients for the other services.
type remoteClients struct {
	Users       *remote.UserClient
	Influencers *remote.InfluencerClient
	Payments    *remote.PaymentClient
	Bids        *remote.BidCommands
}

// outboundCommands lists the commands whose replies the client subscribes to
// at startup.
func outboundCommands(mode config.BidsMode) []string {
	cmds := []string{
		rpc.CmdUserAuth,
		rpc.CmdAcceptBid,
		rpc.CmdCreateJobRequest,
		rpc.CmdPayBid,
		rpc.CmdSuspendedInfluencer,
		rpc.CmdMarkComplete,
	}
	if mode == config.BidsModeRemote {
		cmds = append(cmds, rpc.CmdDeclineBids, rpc.CmdHireBid)
	}
	return cmds
}

// buildObservability configures error reporting, metrics and the event sink.
// Each adapter degrades to a no-op when it is not configured or fails to start.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) (ObservabilityContainer, []namedCloser) {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}
	var closers []namedCloser

	reporter, err := sentry.New(sentry.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		ServerName:  cfg.Sentry.ServerName,
	}, obsLogger)
	if err != nil {
		obsLogger.Error("failed to initialise sentry client", "error", err)
		reporter = nil
	}
	if reporter.Enabled() {
		closers = append(closers, namedCloser{name: "sentry", close: func() error {
			reporter.Flush(2 * time.Second)
			return nil
		}})
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, clientErr := statsd.New(statsd.Config{
			Address:    cfg.Metrics.StatsdAddress,
			Prefix:     cfg.Metrics.Prefix,
			GlobalTags: map[string]string{"service": cfg.Sentry.ServerName},
			Logger:     obsLogger,
		})
		if clientErr != nil {
			obsLogger.Error("failed to initialise statsd client", "error", clientErr)
		} else {
			metricsSink = client
			closers = append(closers, namedCloser{name: "statsd", close: client.Close})
		}
	}

	var events core.EventPublisher = kafka.NewLogPublisher(obsLogger)
	if cfg.Events.KafkaEnabled() {
		pub, pubErr := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
			Timeout: cfg.Events.Timeout,
			Logger:  obsLogger,
		})
		if pubErr != nil {
			obsLogger.Error("failed to initialise kafka publisher; events will only be logged", "error", pubErr)
		} else {
			events = pub
			closers = append(closers, namedCloser{name: "kafka publisher", close: pub.Close})
		}
	}

	return ObservabilityContainer{
		Reporter:    reporter,
		MetricsSink: metricsSink,
		Events:      events,
	}, closers
}

// metricsSink returns the sink as an interface, nil when metrics are off.
func (o ObservabilityContainer) metricsSink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// errorReporter returns the reporter as an interface, nil when sentry is off.
func (o ObservabilityContainer) errorReporter() core.ErrorReporter {
	if !o.Reporter.Enabled() {
		return nil
	}
	return o.Reporter
}

func newQueryBuilder(cfg config.QueryConfig) (*query.Builder, error) {
	translator, err := query.NewTranslator(cfg.FilterMode)
	if err != nil {
		return nil, fmt.Errorf("query filter mode: %w", err)
	}
	return query.NewBuilder(query.BuilderOptions{
		Registry:   query.DefaultRegistry(),
		Translator: translator,
		MaxLimit:   cfg.MaxLimit,
		Consistent: cfg.ConsistentCount,
	}), nil
}

func newRemoteClients(caller remote.Caller) remoteClients {
	return remoteClients{
		Users:       remote.NewUserClient(caller),
		Influencers: remote.NewInfluencerClient(caller),
		Payments:    remote.NewPaymentClient(caller),
		Bids:        remote.NewBidCommands(caller),
	}
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(mongo *MongoHandle, builder *query.Builder, clients remoteClients, cfg config.RemoteConfig, logger *slog.Logger) *serviceRepositories {
	repos := &serviceRepositories{
		Jobs:     data.NewJobRepo(mongo.DB, builder),
		Hires:    data.NewHireRepo(mongo.DB, builder),
		Creators: data.NewCreatorRepo(mongo.DB, builder),
		Tx:       data.NewMongoTransactor(mongo.Client, logger),
	}
	if cfg.BidsMode == config.BidsModeRemote {
		repos.Bids = clients.Bids
	} else {
		repos.Bids = data.NewBidLedger(mongo.DB)
	}
	return repos
}

// DomainServicesOptions carries what buildDomainServices wires together.
type DomainServicesOptions struct {
	Repos         *serviceRepositories
	Clients       remoteClients
	Observability ObservabilityContainer
	Config        *config.AppConfig
	RedisClient   redis.UniversalClient
	Logger        *slog.Logger
}

// buildDomainServices wires business services using repositories and observability adapters.
func buildDomainServices(opts *DomainServicesOptions) ServiceContainer {
	if opts == nil {
		return ServiceContainer{}
	}
	svcLogger := opts.Logger
	if svcLogger == nil {
		svcLogger = slog.Default()
	}
	appCfg := opts.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	repos := opts.Repos
	obs := opts.Observability

	jobs := service.MustNewJobService(service.JobServiceOptions{
		Repo:        repos.Jobs,
		Hires:       repos.Hires,
		Influencers: opts.Clients.Influencers,
		Events:      obs.Events,
		Logger:      svcLogger,
	})
	hires := service.MustNewHireService(service.HireServiceOptions{
		Jobs:        repos.Jobs,
		Hires:       repos.Hires,
		Bids:        repos.Bids,
		Tx:          repos.Tx,
		Influencers: opts.Clients.Influencers,
		Payments:    opts.Clients.Payments,
		Events:      obs.Events,
		Reporter:    obs.errorReporter(),
		Metrics:     obs.metricsSink(),
		Logger:      svcLogger,
	})
	creators := service.MustNewCreatorService(service.CreatorServiceOptions{
		Repo:   repos.Creators,
		Tx:     repos.Tx,
		Events: obs.Events,
		Logger: svcLogger,
	})
	auth := BuildAuthService(AuthConfig{
		Auth:          appCfg.Auth,
		Authenticator: opts.Clients.Users,
		RedisClient:   opts.RedisClient,
		Logger:        svcLogger,
	})

	return ServiceContainer{
		Jobs:          jobs,
		Hires:         hires,
		Creators:      creators,
		Auth:          auth,
		Observability: obs,
	}
}

// NewServices builds the service graph. The returned container owns the
// RPC client and observability adapters; release them with Close.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.Mongo == nil || deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("mongo and redis are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	builder, err := newQueryBuilder(cfg.Query)
	if err != nil {
		return ServiceContainer{}, err
	}

	obs, closers := buildObservability(logger, cfg.Observability)

	rpcClient, err := redisadapter.NewRPCClient(ctx, deps.RedisClient, redisadapter.RPCClientOptions{
		Timeout:  cfg.Remote.Timeout,
		Commands: outboundCommands(cfg.Remote.BidsMode),
		Logger:   logger,
	})
	if err != nil {
		container := ServiceContainer{closers: closers}
		container.Close(logger)
		return ServiceContainer{}, fmt.Errorf("start rpc client: %w", err)
	}
	closers = append(closers, namedCloser{name: "rpc client", close: rpcClient.Close})

	clients := newRemoteClients(remote.Instrument(rpcClient, obs.metricsSink()))
	repos := buildRepositories(deps.Mongo, builder, clients, cfg.Remote, logger)

	container := buildDomainServices(&DomainServicesOptions{
		Repos:         repos,
		Clients:       clients,
		Observability: obs,
		Config:        cfg,
		RedisClient:   deps.RedisClient,
		Logger:        logger,
	})
	container.closers = closers
	if container.Auth == nil && cfg.IsHTTPServerEnabled() {
		container.Close(logger)
		return ServiceContainer{}, errors.New("http server requires the auth service")
	}

	logger.Info("services initialised",
		"bids_mode", cfg.Remote.BidsMode,
		"filter_mode", cfg.Query.FilterMode,
		"kafka", cfg.Observability.Events.KafkaEnabled(),
		"sentry", obs.Reporter.Enabled(),
		"metrics", obs.MetricsSink != nil,
	)
	return container, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	}, deps.errCh)
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil && ctx.Err() == nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

// newRPCBackgroundService answers GET_JOB, HIRE_INFLUENCER and
// SUSPENDED_CREATOR for the other marketplace services.
func newRPCBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeRPC,
		name: "rpc server",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil || deps.cfg.RedisClient == nil {
				return errors.New("rpc server requires a redis client")
			}
			server := redisadapter.NewRPCServer(deps.cfg.RedisClient, deps.logger)
			rpcapi.Register(server, &rpcapi.Handlers{
				Jobs:     deps.cfg.Services.Jobs,
				Hires:    deps.cfg.Services.Hires,
				Creators: deps.cfg.Services.Creators,
			})
			return server.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newRPCBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		quit:        quit,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	quit        <-chan os.Signal
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
	waitTimeout time.Duration
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops the HTTP server, then waits for background services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		// The service context is already canceled; shut down on a fresh one.
		if err := ShutdownHTTPServer(context.Background(), cfg.httpServer, cfg.logger); err != nil {
			return err
		}
	}

	timeout := cfg.waitTimeout
	if timeout <= 0 {
		timeout = shutdownWaitTimeout
	}
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, timeout, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, timeout time.Duration, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(timeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}

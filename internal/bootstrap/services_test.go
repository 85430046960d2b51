package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iynfluencer/creator-service/config"
	"github.com/iynfluencer/creator-service/internal/adapters/kafka"
	"github.com/iynfluencer/creator-service/internal/domain/rpc"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorChannelCapacity(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{name: "no services enabled", want: 0},
		{name: "http only", modes: []config.ServiceMode{config.ServiceModeHTTP}, want: 1},
		{name: "http and rpc", modes: []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeRPC}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			if got := errorChannelCapacity(enabled); got != tt.want {
				t.Fatalf("errorChannelCapacity(%v) = %d, want %d", tt.modes, got, tt.want)
			}
			if got := errorChannelBufferSize(enabled); got != tt.want+1 {
				t.Fatalf("errorChannelBufferSize(%v) = %d, want %d", tt.modes, got, tt.want+1)
			}
		})
	}
}

func TestOutboundCommands(t *testing.T) {
	direct := outboundCommands(config.BidsModeDirect)
	assert.Contains(t, direct, rpc.CmdUserAuth)
	assert.Contains(t, direct, rpc.CmdPayBid)
	assert.NotContains(t, direct, rpc.CmdDeclineBids)

	remote := outboundCommands(config.BidsModeRemote)
	assert.Contains(t, remote, rpc.CmdDeclineBids)
	assert.Contains(t, remote, rpc.CmdHireBid)
}

func TestBuildObservability_Disabled(t *testing.T) {
	obs, closers := buildObservability(discard(), config.ObservabilityConfig{})

	assert.Empty(t, closers)
	assert.False(t, obs.Reporter.Enabled())
	assert.Nil(t, obs.errorReporter())
	assert.Nil(t, obs.metricsSink())
	assert.IsType(t, &kafka.LogPublisher{}, obs.Events)
}

func TestNewQueryBuilder(t *testing.T) {
	_, err := newQueryBuilder(config.QueryConfig{FilterMode: "token", MaxLimit: 10})
	require.NoError(t, err)

	_, err = newQueryBuilder(config.QueryConfig{FilterMode: "telepathy"})
	assert.Error(t, err)
}

func TestNewServices_RequiresInfrastructure(t *testing.T) {
	_, err := NewServices(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewServices(context.Background(), &ServiceDeps{Config: &config.AppConfig{}})
	assert.Error(t, err)
}

func TestBuildHTTPHandler_ServesHealth(t *testing.T) {
	h := buildHTTPHandler(httpHandlerConfig{
		Logger:   discard(),
		HTTP:     config.HTTPConfig{CompressionEnabled: true, CompressionLevel: 5},
		MaxLimit: 20,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLaunchBackground_ReportsFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := &serviceStartupDeps{
		ctx:             ctx,
		logger:          discard(),
		enabledServices: map[config.ServiceMode]bool{config.ServiceModeRPC: true},
		errCh:           make(chan error, 1),
	}
	boom := errors.New("subscribe failed")

	done := launchBackground(ctx, deps, backgroundService{
		mode:  config.ServiceModeRPC,
		name:  "rpc server",
		start: func(context.Context) error { return boom },
	})
	require.NotNil(t, done)
	<-done

	select {
	case err := <-deps.errCh:
		assert.ErrorIs(t, err, boom)
	default:
		t.Fatal("expected the failure on the error channel")
	}

	skipped := launchBackground(ctx, deps, backgroundService{mode: config.ServiceModeHTTP, name: "off"})
	assert.Nil(t, skipped)
}

func TestWaitForShutdown(t *testing.T) {
	t.Run("signal stops background services", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			<-ctx.Done()
			close(done)
		}()
		quit := make(chan os.Signal, 1)
		quit <- os.Interrupt

		err := waitForShutdown(shutdownConfig{
			ctx:         ctx,
			cancel:      cancel,
			quit:        quit,
			errCh:       make(chan error),
			logger:      discard(),
			backgrounds: []backgroundServiceHandle{{mode: config.ServiceModeRPC, name: "rpc server", done: done}},
			waitTimeout: time.Second,
		})
		require.NoError(t, err)
		assert.Error(t, ctx.Err())
	})

	t.Run("service error is returned", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		boom := errors.New("rpc server failed")
		errCh <- boom

		err := waitForShutdown(shutdownConfig{
			ctx:         ctx,
			cancel:      cancel,
			quit:        make(chan os.Signal),
			errCh:       errCh,
			logger:      discard(),
			waitTimeout: 10 * time.Millisecond,
		})
		assert.ErrorIs(t, err, boom)
		assert.Error(t, ctx.Err())
	})
}

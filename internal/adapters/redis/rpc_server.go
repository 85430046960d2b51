package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/iynfluencer/creator-service/internal/domain/rpc"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// DefaultServerConcurrency bounds the number of requests handled at once.
const DefaultServerConcurrency = 32

// Handler serves one command. A returned error is sent back as a
// status:false envelope carrying the error's public message.
type Handler func(ctx context.Context, data json.RawMessage) (any, error)

// RPCServer answers requests published on the channels of its registered commands.
type RPCServer struct {
	client      redis.UniversalClient
	logger      *slog.Logger
	concurrency int

	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRPCServer creates a server with no handlers.
func NewRPCServer(client redis.UniversalClient, logger *slog.Logger) *RPCServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RPCServer{
		client:      client,
		logger:      logger.With("component", "rpc_server"),
		concurrency: DefaultServerConcurrency,
		handlers:    make(map[string]Handler),
	}
}

// Handle registers h for cmd. Registering after Run has started has no effect
// on the running subscription.
func (s *RPCServer) Handle(cmd string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[cmd] = h
}

// Commands lists the registered command names.
func (s *RPCServer) Commands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmds := make([]string, 0, len(s.handlers))
	for cmd := range s.handlers {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// Run subscribes and serves until ctx is canceled. In-flight requests finish
// before Run returns.
func (s *RPCServer) Run(ctx context.Context) error {
	cmds := s.Commands()
	if len(cmds) == 0 {
		return errors.New("rpc server has no handlers")
	}
	channels := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		channels = append(channels, rpc.Channel(cmd))
	}

	sub := s.client.Subscribe(ctx, channels...)
	defer func() {
		if err := sub.Close(); err != nil {
			s.logger.Warn("close subscription", "error", err)
		}
	}()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.logger.InfoContext(ctx, "rpc server listening", "commands", cmds)

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return nil
		case msg, ok := <-msgs:
			if !ok {
				_ = g.Wait()
				return nil
			}
			g.Go(func() error {
				s.serve(context.WithoutCancel(ctx), msg.Channel, msg.Payload)
				return nil
			})
		}
	}
}

func (s *RPCServer) serve(ctx context.Context, channel, payload string) {
	var req rpc.Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		s.logger.WarnContext(ctx, "discarding malformed request", "channel", channel, "error", err)
		return
	}

	env := s.invoke(ctx, req)
	if req.ID == "" {
		// Event-style message: nobody waits for a reply.
		return
	}

	body, err := json.Marshal(rpc.Reply{ID: req.ID, Response: &env, IsDisposed: true})
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal reply", "cmd", req.Pattern.Cmd, "error", err)
		return
	}
	if err := s.client.Publish(ctx, rpc.ReplyChannel(req.Pattern.Cmd), body).Err(); err != nil {
		s.logger.ErrorContext(ctx, "publish reply", "cmd", req.Pattern.Cmd, "id", req.ID, "error", err)
	}
}

func (s *RPCServer) invoke(ctx context.Context, req rpc.Request) (env rpc.Envelope) {
	s.mu.RLock()
	h, ok := s.handlers[req.Pattern.Cmd]
	s.mu.RUnlock()
	if !ok {
		return rpc.Fail("unknown command " + req.Pattern.Cmd)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "handler panic", "cmd", req.Pattern.Cmd, "panic", r)
			env = rpc.Fail("internal server error")
		}
	}()

	out, err := h(ctx, req.Data)
	if err != nil {
		if apperrors.GetCode(err) == "" {
			s.logger.ErrorContext(ctx, "handler failed", "cmd", req.Pattern.Cmd, "error", err)
		}
		return rpc.Fail(apperrors.PublicMessage(err))
	}
	env, err = rpc.OK(out)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode reply", "cmd", req.Pattern.Cmd, "error", err)
		return rpc.Fail("internal server error")
	}
	return env
}

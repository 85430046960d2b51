package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iynfluencer/creator-service/internal/domain/rpc"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// DefaultCallTimeout bounds a call when the caller's context has no deadline.
const DefaultCallTimeout = 10 * time.Second

// ErrClientClosed is returned by Call after Close.
var ErrClientClosed = errors.New("rpc client closed")

// RPCClientOptions configures an RPCClient.
type RPCClientOptions struct {
	// Timeout caps every call. Zero means DefaultCallTimeout.
	Timeout time.Duration
	// Commands are subscribed up front; others subscribe on first use, and that
	// first call waits for the server to confirm the subscription.
	Commands []string
	Logger   *slog.Logger
}

// RPCClient publishes requests and waits for replies over Redis pub/sub.
// All reply channels share one subscription; replies are routed to the
// waiting call by correlation id.
type RPCClient struct {
	client  redis.UniversalClient
	sub     *redis.PubSub
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]chan rpc.Reply
	// subscribed maps a reply channel to a chan closed once the server has
	// confirmed the subscription.
	subscribed map[string]chan struct{}
	closed     bool
	done       chan struct{}
}

// NewRPCClient subscribes to the reply channels of opts.Commands and starts
// the reply dispatcher.
func NewRPCClient(ctx context.Context, client redis.UniversalClient, opts RPCClientOptions) (*RPCClient, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCallTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &RPCClient{
		client:     client,
		timeout:    opts.Timeout,
		logger:     opts.Logger.With("component", "rpc_client"),
		pending:    make(map[string]chan rpc.Reply),
		subscribed: make(map[string]chan struct{}),
		done:       make(chan struct{}),
	}

	channels := make([]string, 0, len(opts.Commands))
	for _, cmd := range opts.Commands {
		ch := rpc.ReplyChannel(cmd)
		channels = append(channels, ch)
		confirmed := make(chan struct{})
		close(confirmed)
		c.subscribed[ch] = confirmed
	}
	c.sub = client.Subscribe(ctx, channels...)
	if len(channels) > 0 {
		// One SUBSCRIBE covers every channel, so the first confirmation means
		// all of them are live and the first call cannot miss its reply.
		if _, err := c.sub.Receive(ctx); err != nil {
			_ = c.sub.Close()
			return nil, fmt.Errorf("subscribe reply channels: %w", err)
		}
	}

	go c.dispatch()
	return c, nil
}

// Call publishes payload as cmd and decodes the reply envelope.
// A status:false reply is returned as the envelope, not as an error.
func (c *RPCClient) Call(ctx context.Context, cmd string, payload any) (rpc.Envelope, error) {
	if err := c.ensureSubscribed(ctx, cmd); err != nil {
		return rpc.Envelope{}, err
	}

	id := uuid.NewString()
	req, err := rpc.NewRequest(cmd, id, payload)
	if err != nil {
		return rpc.Envelope{}, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return rpc.Envelope{}, fmt.Errorf("marshal %s request: %w", cmd, err)
	}

	replyCh, err := c.register(id)
	if err != nil {
		return rpc.Envelope{}, err
	}
	defer c.unregister(id)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	receivers, err := c.client.Publish(ctx, rpc.Channel(cmd), body).Result()
	if err != nil {
		return rpc.Envelope{}, fmt.Errorf("publish %s: %w", cmd, err)
	}
	if receivers == 0 {
		return rpc.Envelope{}, apperrors.Internalf("no service is listening for %s", cmd)
	}

	select {
	case reply := <-replyCh:
		return reply.Envelope()
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return rpc.Envelope{}, &apperrors.AppError{
				Code:    apperrors.ErrCodeTimeout,
				Message: "Remote service did not answer in time.",
				Cause:   fmt.Errorf("%s: %w", cmd, ctx.Err()),
			}
		}
		return rpc.Envelope{}, apperrors.MapDBError(ctx.Err())
	case <-c.done:
		return rpc.Envelope{}, ErrClientClosed
	}
}

// Close stops the dispatcher and releases the subscription.
func (c *RPCClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()
	return c.sub.Close()
}

// ensureSubscribed subscribes to the reply channel of cmd if needed and blocks
// until the server confirms it. A request published before that point could
// be answered before the subscription exists and the reply would be lost.
func (c *RPCClient) ensureSubscribed(ctx context.Context, cmd string) error {
	ch := rpc.ReplyChannel(cmd)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	confirmed, ok := c.subscribed[ch]
	if !ok {
		confirmed = make(chan struct{})
		if err := c.sub.Subscribe(ctx, ch); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("subscribe %s: %w", ch, err)
		}
		c.subscribed[ch] = confirmed
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	select {
	case <-confirmed:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("subscribe %s: %w", ch, apperrors.MapDBError(ctx.Err()))
	case <-c.done:
		return ErrClientClosed
	}
}

// confirm marks the reply channel as live. Resubscriptions after a reconnect
// confirm channels that are already live and are ignored.
func (c *RPCClient) confirm(ch string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	confirmed, ok := c.subscribed[ch]
	if !ok {
		return
	}
	select {
	case <-confirmed:
	default:
		close(confirmed)
	}
}

func (c *RPCClient) register(id string) (chan rpc.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	ch := make(chan rpc.Reply, 1)
	c.pending[id] = ch
	return ch, nil
}

func (c *RPCClient) unregister(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *RPCClient) dispatch() {
	for msg := range c.sub.ChannelWithSubscriptions() {
		switch m := msg.(type) {
		case *redis.Subscription:
			if m.Kind == "subscribe" {
				c.confirm(m.Channel)
			}
		case *redis.Message:
			c.deliver(m.Payload)
		}
	}
}

// deliver routes one reply payload to its waiting call. Replies for calls that
// already gave up are dropped.
func (c *RPCClient) deliver(payload string) {
	var reply rpc.Reply
	if err := json.Unmarshal([]byte(payload), &reply); err != nil {
		c.logger.Warn("discarding malformed reply", "error", err)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[reply.ID]
	if ok {
		delete(c.pending, reply.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("reply without waiting call", "id", reply.ID)
		return
	}
	ch <- reply
}

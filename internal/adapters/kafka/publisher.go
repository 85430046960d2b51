// Package kafka publishes domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
)

var (
	_ core.EventPublisher = (*Publisher)(nil)
	_ core.EventPublisher = (*LogPublisher)(nil)
)

// DefaultPublishTimeout bounds one Publish call.
const DefaultPublishTimeout = 5 * time.Second

// Writer is the subset of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	Brokers []string
	Topic   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Publisher writes events as JSON messages keyed by the event key, so events
// about one job or creator keep their order within a partition.
type Publisher struct {
	writer  Writer
	timeout time.Duration
	logger  *slog.Logger
}

// NewPublisher creates a publisher with a synchronous kafka.Writer.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(w, cfg.Timeout, cfg.Logger), nil
}

// NewPublisherWithWriter creates a publisher over an existing writer.
func NewPublisherWithWriter(w Writer, timeout time.Duration, logger *slog.Logger) *Publisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{writer: w, timeout: timeout, logger: logger.With("component", "kafka_publisher")}
}

// Publish writes events in one batch.
func (p *Publisher) Publish(ctx context.Context, events ...model.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.Key),
			Value: value,
			Time:  ev.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(ev.Type)},
				{Key: "event-id", Value: []byte(ev.ID)},
			},
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events: %w", len(msgs), err)
	}
	p.logger.DebugContext(ctx, "events published", "count", len(msgs))
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// LogPublisher logs events instead of sending them. It is used when no
// brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "event_log")}
}

// Publish logs each event at info level.
func (p *LogPublisher) Publish(ctx context.Context, events ...model.Event) error {
	for _, ev := range events {
		p.logger.InfoContext(ctx, "domain event", "type", ev.Type, "key", ev.Key, "id", ev.ID)
	}
	return nil
}

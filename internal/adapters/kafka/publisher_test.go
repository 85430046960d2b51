package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iynfluencer/creator-service/internal/domain/model"
)

type recordingWriter struct {
	mu       sync.Mutex
	msgs     []kafka.Message
	err      error
	deadline bool
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, w.deadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisherWithWriter(w, time.Second, nil)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ev := model.NewEvent(model.EventJobHired, "job-1", map[string]string{"hiredId": "h-1"}, now)
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.True(t, w.deadline)
	assert.Equal(t, "job-1", string(msg.Key))
	assert.Equal(t, now, msg.Time)
	assert.Equal(t, "job.hired", header(msg, "event-type"))
	assert.Equal(t, ev.ID, header(msg, "event-id"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "job.hired", decoded["type"])
	assert.Equal(t, map[string]any{"hiredId": "h-1"}, decoded["payload"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_NoEventsIsNoop(t *testing.T) {
	w := &recordingWriter{err: errors.New("should not be called")}
	require.NoError(t, NewPublisherWithWriter(w, 0, nil).Publish(context.Background()))
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := NewPublisherWithWriter(&recordingWriter{err: boom}, 0, nil)
	err := p.Publish(context.Background(), model.NewEvent(model.EventJobCreated, "j", nil, time.Now()))
	assert.ErrorIs(t, err, boom)
}

func TestNewPublisher_RequiresConfig(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{Topic: "t"})
	assert.Error(t, err)
	_, err = NewPublisher(PublisherConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)

	p, err := NewPublisher(PublisherConfig{Brokers: []string{"localhost:9092"}, Topic: "creator-service.events"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestLogPublisher(t *testing.T) {
	assert.NoError(t, NewLogPublisher(nil).Publish(context.Background(),
		model.NewEvent(model.EventCreatorCreated, "c-1", nil, time.Now())))
}

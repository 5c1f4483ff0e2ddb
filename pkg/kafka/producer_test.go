package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
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

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriters("staymi.events", writer, nil)

	msg, err := NewMessage().
		WithKey("order-1").
		WithEventType("order.paid").
		WithValue(map[string]string{"order_id": "order-1"}).
		Build()
	require.NoError(t, err)

	var seenTopic string
	producer.Use(func(ctx context.Context, m Message, next func(context.Context, Message) error) error {
		seenTopic = m.Topic
		return next(ctx, m)
	})

	require.NoError(t, producer.Publish(context.Background(), msg))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "order-1", string(writer.messages[0].Key))
	assert.Equal(t, "order.paid", header(writer.messages[0], HeaderEventType))
	assert.NotEmpty(t, header(writer.messages[0], HeaderEventID))
	assert.Equal(t, "staymi.events", seenTopic)
}

func TestProducer_PublishValidation(t *testing.T) {
	producer := NewProducerWithWriters("staymi.events", &fakeWriter{}, nil)

	err := producer.Publish(context.Background(), Message{Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = producer.Publish(context.Background(), Message{Key: "k"})
	assert.ErrorIs(t, err, ErrEmptyValue)

	require.NoError(t, producer.Close())
	err = producer.Publish(context.Background(), Message{Key: "k", Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestProducer_FailedPublishGoesToDLQ(t *testing.T) {
	writeErr := errors.New("leader not available")
	writer := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	producer := NewProducerWithWriters("staymi.events", writer, dlq)

	msg, err := NewMessage().WithKey("sub-1").WithValue("payload").Build()
	require.NoError(t, err)

	err = producer.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "staymi.events", header(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, writeErr.Error(), header(dlq.messages[0], HeaderDLQError))
	assert.Empty(t, msg.Headers[HeaderDLQError], "caller's headers must not be mutated")
}

func TestMessageBuilder_EncodeFailure(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrEncodeValue)
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"staymi/pkg/kafka"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	messages []kafka.Message
	err      error
}

func (f *fakeProducer) Publish(_ context.Context, msg kafka.Message) error {
	f.messages = append(f.messages, msg)
	return f.err
}

func TestKafkaPublisher_BuildsEnvelope(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewKafkaPublisher(producer, "staymi-api", logger.Discard())

	ctx := logger.WithRequestID(context.Background(), "req-12345678")
	pub.Publish(ctx, model.EventOrderPaid, "order-1", map[string]string{"order_id": "order-1"})

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "order-1", msg.Key)
	assert.Equal(t, model.EventOrderPaid, msg.GetEventType())
	assert.Equal(t, "req-12345678", msg.GetCorrelationID())
	assert.Equal(t, "staymi-api", msg.Headers[kafka.HeaderSource])

	var event model.Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, model.EventOrderPaid, event.Type)
	assert.Equal(t, msg.GetEventID(), event.EventID)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestKafkaPublisher_SwallowsErrors(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	pub := NewKafkaPublisher(producer, "staymi-api", logger.Discard())

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), model.EventOrderCreated, "order-2", nil)
	})

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), model.EventOrderCreated, "order-3", func() {})
	})
	assert.Len(t, producer.messages, 1, "unencodable payloads never reach the producer")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Publish(context.Background(), model.EventOrderCreated, "a", nil)
	r.Publish(context.Background(), model.EventOrderPaid, "a", nil)
	assert.Equal(t, []string{model.EventOrderCreated, model.EventOrderPaid}, r.Types())
}

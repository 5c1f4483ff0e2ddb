// Package events publishes domain events after a state change has committed.
package events

import (
	"context"
	"time"

	"staymi/pkg/kafka"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/google/uuid"
)

const SchemaVersion = "1"

// Publisher is best-effort: a failed publish is logged and never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data any)
}

// MessageProducer is the subset of kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	producer MessageProducer
	source   string
	log      *logger.Logger
	now      func() time.Time
}

func NewKafkaPublisher(producer MessageProducer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, key string, data any) {
	event := model.Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now(),
		Data:       data,
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(eventType).
		WithCorrelationID(logger.RequestID(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		p.log.Ctx(ctx).Error("Failed to build event", "type", eventType, "key", key, "error", err)
		return
	}

	// Events go out after the HTTP answer is decided; the request context may
	// already be cancelled.
	if err := p.producer.Publish(context.WithoutCancel(ctx), msg); err != nil {
		p.log.Ctx(ctx).Error("Failed to publish event", "type", eventType, "key", key, "error", err)
	}
}

type noopPublisher struct {
	log *logger.Logger
}

// NewNoopPublisher is used when no Kafka brokers are configured.
func NewNoopPublisher(log *logger.Logger) Publisher {
	return &noopPublisher{log: log}
}

func (p *noopPublisher) Publish(ctx context.Context, eventType, key string, _ any) {
	p.log.Ctx(ctx).Debug("Event publishing disabled", "type", eventType, "key", key)
}

// Recorder keeps published events in memory. Tests use it to assert on events.
type Recorder struct {
	Events []model.Event
	Keys   []string
}

func (r *Recorder) Publish(_ context.Context, eventType, key string, data any) {
	r.Events = append(r.Events, model.Event{Type: eventType, Data: data})
	r.Keys = append(r.Keys, key)
}

func (r *Recorder) Types() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

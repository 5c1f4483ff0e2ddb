package kafka_middleware

import (
	"context"
	"time"

	"staymi/pkg/kafka"
	"staymi/pkg/logger"
)

// LoggingProducerMiddleware logs every publish with its outcome and duration
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"correlation_id", msg.GetCorrelationID(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Error("Failed to publish kafka message", append(attrs, "error", err)...)
			return err
		}
		log.Debug("Published kafka message", attrs...)
		return nil
	}
}

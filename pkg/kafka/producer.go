package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafka_config "staymi/pkg/kafka/config"
	"staymi/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// MessageWriter is the part of kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer wraps kafka-go writer with middleware and an optional dead letter topic
type Producer struct {
	writer     MessageWriter
	dlqWriter  MessageWriter
	topic      string
	middleware []ProducerMiddleware
	closed     bool
	mu         sync.RWMutex
}

// ProducerMiddleware allows intercepting publish operations
type ProducerMiddleware func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error

func NewProducer(cfg *kafka_config.Config, log *logger.Logger) (*Producer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	compression := compressionCodec(cfg.ProducerCompression)
	errorLogger := kafka.LoggerFunc(func(msg string, args ...any) {
		log.Error("kafka writer error", "detail", fmt.Sprintf(msg, args...))
	})
	silent := kafka.LoggerFunc(func(string, ...any) {})

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{}, // same aggregate id, same partition
		RequiredAcks: requiredAcks(cfg.ProducerRequireAcks),
		Compression:  compression,
		MaxAttempts:  cfg.ProducerMaxAttempts,
		BatchTimeout: cfg.ProducerBatchTimeout,
		Async:        cfg.ProducerAsync,
		Logger:       silent,
		ErrorLogger:  errorLogger,
	}

	var dlqWriter MessageWriter
	if cfg.EventsDLQTopic != "" {
		dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.EventsDLQTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  compression,
			MaxAttempts:  3,
			Logger:       silent,
			ErrorLogger:  errorLogger,
		}
	}

	return NewProducerWithWriters(cfg.EventsTopic, writer, dlqWriter), nil
}

// NewProducerWithWriters builds a producer over already configured writers.
func NewProducerWithWriters(topic string, writer, dlqWriter MessageWriter) *Producer {
	return &Producer{
		writer:     writer,
		dlqWriter:  dlqWriter,
		topic:      topic,
		middleware: make([]ProducerMiddleware, 0),
	}
}

func compressionCodec(name string) compress.Compression {
	switch name {
	case "none":
		return compress.None
	case "gzip":
		return compress.Gzip
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.Snappy
	}
}

func requiredAcks(acks int) kafka.RequiredAcks {
	switch acks {
	case 0:
		return kafka.RequireNone
	case 1:
		return kafka.RequireOne
	default:
		return kafka.RequireAll
	}
}

func (p *Producer) Topic() string {
	return p.topic
}

// Use adds middleware to the producer
func (p *Producer) Use(middleware ProducerMiddleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware)
}

func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	chain := p.middleware
	p.mu.RUnlock()

	if msg.Key == "" {
		return ErrEmptyKey
	}
	if len(msg.Value) == 0 {
		return ErrEmptyValue
	}
	if msg.Topic == "" {
		msg.Topic = p.topic
	}

	handler := p.publishInternal
	for i := len(chain) - 1; i >= 0; i-- {
		middleware := chain[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return middleware(ctx, m, next)
		}
	}

	return handler(ctx, msg)
}

func (p *Producer) publishInternal(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, toKafkaMessage(msg, msg.Timestamp))
	if err != nil && p.dlqWriter != nil {
		if dlqErr := p.sendToDLQ(ctx, msg, err); dlqErr != nil {
			return fmt.Errorf("failed to send to DLQ: %v (original error: %w)", dlqErr, err)
		}
	}
	return err
}

func (p *Producer) sendToDLQ(ctx context.Context, msg Message, originalErr error) error {
	headers := make(map[string]string, len(msg.Headers)+3)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = p.topic
	headers[HeaderDLQError] = originalErr.Error()
	headers[HeaderDLQTimestamp] = time.Now().UTC().Format(time.RFC3339)
	msg.Headers = headers

	return p.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg, time.Now()))
}

func toKafkaMessage(msg Message, ts time.Time) kafka.Message {
	kafkaMsg := kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Time:  ts,
	}
	for k, v := range msg.Headers {
		kafkaMsg.Headers = append(kafkaMsg.Headers, kafka.Header{
			Key:   k,
			Value: []byte(v),
		})
	}
	return kafkaMsg
}

// Close closes the producer and releases resources
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}

package kafka_config

import "time"

const (
	// Empty means events are not published
	DefaultKafkaBrokers = ""

	DefaultEventsTopic    = "staymi.events"
	DefaultEventsDLQTopic = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
)

package middleware

import (
	"context"
	"encoding/json"
	"time"

	"staymi/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const redisIdempotencyPrefix = "staymi:idempotency:"

// RedisIdempotencyStore shares cached responses between API replicas.
type RedisIdempotencyStore struct {
	client    *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
	log       *logger.Logger
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		ttl:       ttl,
		opTimeout: 2 * time.Second,
		log:       log,
	}
}

// Get treats a Redis failure as a miss so the request still goes through.
func (s *RedisIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, redisIdempotencyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Idempotency lookup failed", "error", err)
		}
		return nil, false
	}

	var cached CachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warn("Discarding corrupt idempotency entry", "error", err)
		return nil, false
	}
	return &cached, true
}

func (s *RedisIdempotencyStore) Set(key string, response *CachedResponse) {
	response.CreatedAt = time.Now()
	raw, err := json.Marshal(response)
	if err != nil {
		s.log.Warn("Failed to encode idempotency entry", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	// SetNX keeps the first answer when two replicas race on the same key.
	if err := s.client.SetNX(ctx, redisIdempotencyPrefix+key, raw, s.ttl).Err(); err != nil {
		s.log.Warn("Failed to store idempotency entry", "error", err)
	}
}

// Stop is a no-op: the Redis client is owned and closed by pkg/client.
func (s *RedisIdempotencyStore) Stop() {}

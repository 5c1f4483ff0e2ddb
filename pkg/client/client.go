package client

import (
	"context"
	"time"

	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(mongoURI).
		SetRegistry(mongodb.Registry())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int, connTimeout time.Duration) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: connTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", "error", err, "addr", addr)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	c.Redis = client
}

func (c *Client) GracefulShutdown(log *logger.Logger, timeout time.Duration) {
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis", "error", err)
		}
	}
}

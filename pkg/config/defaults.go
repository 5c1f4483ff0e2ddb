package config

import "time"

const (
	ServiceAPI     = "staymi-api"
	ServiceMigrate = "staymi-migrate"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staymi"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisDB = 0

	DefaultPort = "8080"

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultMaxUploadSize  = 5 * 1024 * 1024 // 5MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCORSAllowedOrigins = "*"

	DefaultJWTTTL    = 24 * time.Hour
	DefaultJWTIssuer = "staymi"
	MinJWTSecretLen  = 32

	DefaultPayPalBaseURL   = "https://api-m.sandbox.paypal.com"
	DefaultPayPalReturnURL = "http://localhost:8080/api/v1/paypal/return"
	DefaultPayPalCancelURL = "http://localhost:3000/checkout/cancelled"
	DefaultPayPalBrandName = "StayMi"
	DefaultPayPalTimeout   = 20 * time.Second

	DefaultCurrency         = "USD"
	DefaultMaxStayNights    = 30
	DefaultPendingOrderTTL  = 30 * time.Minute
	DefaultInventoryLockTTL = 30 * time.Second
	DefaultOrderSweepPeriod = time.Minute

	DefaultSubscriptionPlusPrice = "9.99"
	DefaultSubscriptionProPrice  = "19.99"
	DefaultSubscriptionPeriod    = 30 * 24 * time.Hour

	DefaultPageSize        = 10
	DefaultPaginationLimit = 100

	DefaultLogLevel = "info"
)

package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize  = "MAX_UPLOAD_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTTTL    = "JWT_TTL"
	EnvJWTIssuer = "JWT_ISSUER"

	EnvPayPalClientID     = "PAYPAL_CLIENT_ID"
	EnvPayPalClientSecret = "PAYPAL_CLIENT_SECRET"
	EnvPayPalBaseURL      = "PAYPAL_BASE_URL"
	EnvPayPalReturnURL    = "PAYPAL_RETURN_URL"
	EnvPayPalCancelURL    = "PAYPAL_CANCEL_URL"
	EnvPayPalBrandName    = "PAYPAL_BRAND_NAME"
	EnvPayPalTimeout      = "PAYPAL_TIMEOUT"

	EnvDefaultCurrency  = "DEFAULT_CURRENCY"
	EnvMaxStayNights    = "MAX_STAY_NIGHTS"
	EnvPendingOrderTTL  = "PENDING_ORDER_TTL"
	EnvInventoryLockTTL = "INVENTORY_LOCK_TTL"
	EnvOrderSweepPeriod = "ORDER_SWEEP_INTERVAL"

	EnvSubscriptionPlusPrice = "SUBSCRIPTION_PLUS_PRICE"
	EnvSubscriptionProPrice  = "SUBSCRIPTION_PRO_PRICE"
	EnvSubscriptionPeriod    = "SUBSCRIPTION_PERIOD"

	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"
)

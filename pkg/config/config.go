package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"staymi/pkg/client"
	kafka_config "staymi/pkg/kafka/config"
	"staymi/pkg/logger"

	"github.com/shopspring/decimal"
)

type Config struct {
	ServiceName string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Kafka *kafka_config.Config

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int
	MaxUploadSize  int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CORSAllowedOrigins []string

	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string

	PayPalClientID     string
	PayPalClientSecret string
	PayPalBaseURL      string
	PayPalReturnURL    string
	PayPalCancelURL    string
	PayPalBrandName    string
	PayPalTimeout      time.Duration

	DefaultCurrency  string
	MaxStayNights    int
	PendingOrderTTL  time.Duration
	InventoryLockTTL time.Duration
	OrderSweepPeriod time.Duration

	SubscriptionPlusPrice decimal.Decimal
	SubscriptionProPrice  decimal.Decimal
	SubscriptionPeriod    time.Duration

	AdminEmail    string
	AdminPassword string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads the environment without validating it.
func FromEnv(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Kafka: kafka_config.Load(),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		MaxUploadSize:  getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),
		JWTTTL:    getEnvDuration(EnvJWTTTL, DefaultJWTTTL),
		JWTIssuer: getEnvStr(EnvJWTIssuer, DefaultJWTIssuer),

		PayPalClientID:     getEnvStr(EnvPayPalClientID, ""),
		PayPalClientSecret: getEnvStr(EnvPayPalClientSecret, ""),
		PayPalBaseURL:      getEnvStr(EnvPayPalBaseURL, DefaultPayPalBaseURL),
		PayPalReturnURL:    getEnvStr(EnvPayPalReturnURL, DefaultPayPalReturnURL),
		PayPalCancelURL:    getEnvStr(EnvPayPalCancelURL, DefaultPayPalCancelURL),
		PayPalBrandName:    getEnvStr(EnvPayPalBrandName, DefaultPayPalBrandName),
		PayPalTimeout:      getEnvDuration(EnvPayPalTimeout, DefaultPayPalTimeout),

		DefaultCurrency:  strings.ToUpper(getEnvStr(EnvDefaultCurrency, DefaultCurrency)),
		MaxStayNights:    getEnvNum(EnvMaxStayNights, DefaultMaxStayNights),
		PendingOrderTTL:  getEnvDuration(EnvPendingOrderTTL, DefaultPendingOrderTTL),
		InventoryLockTTL: getEnvDuration(EnvInventoryLockTTL, DefaultInventoryLockTTL),
		OrderSweepPeriod: getEnvDuration(EnvOrderSweepPeriod, DefaultOrderSweepPeriod),

		SubscriptionPlusPrice: getEnvDecimal(EnvSubscriptionPlusPrice, DefaultSubscriptionPlusPrice),
		SubscriptionProPrice:  getEnvDecimal(EnvSubscriptionProPrice, DefaultSubscriptionProPrice),
		SubscriptionPeriod:    getEnvDuration(EnvSubscriptionPeriod, DefaultSubscriptionPeriod),

		AdminEmail:    getEnvStr(EnvAdminEmail, ""),
		AdminPassword: getEnvStr(EnvAdminPassword, ""),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects only when REDIS_ADDR is configured.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://.+`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	positiveDurations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"JWTTTL", cfg.JWTTTL},
		{"PayPalTimeout", cfg.PayPalTimeout},
		{"PendingOrderTTL", cfg.PendingOrderTTL},
		{"InventoryLockTTL", cfg.InventoryLockTTL},
		{"OrderSweepPeriod", cfg.OrderSweepPeriod},
		{"SubscriptionPeriod", cfg.SubscriptionPeriod},
	}
	for _, d := range positiveDurations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxUploadSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxUploadSize must be positive, got: %d", cfg.MaxUploadSize))
	}
	if cfg.MaxStayNights <= 0 {
		errors = append(errors, fmt.Sprintf("MaxStayNights must be positive, got: %d", cfg.MaxStayNights))
	}
	if !regexp.MustCompile(`^[A-Z]{3}$`).MatchString(cfg.DefaultCurrency) {
		errors = append(errors, fmt.Sprintf("DefaultCurrency must be an ISO 4217 code, got: %s", cfg.DefaultCurrency))
	}

	if !cfg.SubscriptionPlusPrice.IsPositive() {
		errors = append(errors, fmt.Sprintf("SubscriptionPlusPrice must be positive, got: %s", cfg.SubscriptionPlusPrice))
	}
	if cfg.SubscriptionProPrice.LessThan(cfg.SubscriptionPlusPrice) {
		errors = append(errors, fmt.Sprintf("SubscriptionProPrice (%s) must be >= SubscriptionPlusPrice (%s)", cfg.SubscriptionProPrice, cfg.SubscriptionPlusPrice))
	}

	if cfg.ServiceName == ServiceAPI {
		if len(cfg.JWTSecret) < MinJWTSecretLen {
			errors = append(errors, fmt.Sprintf("JWTSecret must be at least %d characters", MinJWTSecretLen))
		}
		if cfg.PayPalClientID == "" || cfg.PayPalClientSecret == "" {
			errors = append(errors, "PayPalClientID and PayPalClientSecret are required")
		}
		for name, raw := range map[string]string{
			"PayPalBaseURL":   cfg.PayPalBaseURL,
			"PayPalReturnURL": cfg.PayPalReturnURL,
			"PayPalCancelURL": cfg.PayPalCancelURL,
		} {
			if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
				errors = append(errors, fmt.Sprintf("%s must be an absolute URL, got: %s", name, raw))
			}
		}
	}

	if cfg.Kafka != nil {
		errors = append(errors, cfg.Kafka.Validate()...)
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.Kafka.Brokers,
		"kafka_events_topic", cfg.Kafka.EventsTopic,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"max_upload_size", cfg.MaxUploadSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"jwt_secret_set", cfg.JWTSecret != "",
		"jwt_ttl", cfg.JWTTTL,
		"paypal_base_url", cfg.PayPalBaseURL,
		"paypal_credentials_set", cfg.PayPalClientID != "" && cfg.PayPalClientSecret != "",
		"default_currency", cfg.DefaultCurrency,
		"max_stay_nights", cfg.MaxStayNights,
		"pending_order_ttl", cfg.PendingOrderTTL,
		"order_sweep_interval", cfg.OrderSweepPeriod,
		"subscription_plus_price", cfg.SubscriptionPlusPrice.String(),
		"subscription_pro_price", cfg.SubscriptionProPrice.String(),
		"subscription_period", cfg.SubscriptionPeriod,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(getEnvStr(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvDecimal falls back when the value does not parse.
func getEnvDecimal(key, fallback string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultPageSize
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"staymi/internal/health"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	"staymi/pkg/contracts"
	"staymi/pkg/docs"
	"staymi/pkg/kafka"
	"staymi/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter
	producer         *kafka.Producer
	orderSweeper     *OrderSweeper
	healthHandler    http.Handler
	docsHandler      http.Handler
	appHttpHandler   http.Handler
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp wires every module and prepares the HTTP server.
func (a *Application) SetApp() error {
	cfg := a.cfg
	handlers, err := a.buildHandlers(cfg)
	if err != nil {
		return err
	}

	a.setHealthHandler(cfg)
	if err := a.setDocsHandler(cfg, handlers); err != nil {
		return err
	}
	a.setAppHandler(cfg, handlers)
	a.setAppServer()
	return nil
}

func (a *Application) setHealthHandler(cfg *config.Config) {
	var cache health.Pinger
	if cfg.Client.Redis != nil {
		cache = health.RedisPinger(cfg.Client.Redis)
	}

	healthRouter := httprouter.New()
	health.NewHandler(health.MongoPinger(cfg.Client.Mongo), cache, cfg.Log).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setDocsHandler(cfg *config.Config, handlers []contracts.Handler) error {
	var routes []contracts.Route
	for _, h := range handlers {
		if documented, ok := h.(contracts.Documented); ok {
			routes = append(routes, documented.Routes()...)
		}
	}

	sw := docs.Build(docs.Info{
		Title:       "StayMi API",
		Version:     "1.0",
		Description: "Hotel booking with member pricing, add-on products and PayPal checkout.",
	}, routes)
	if err := docs.Register(sw); err != nil {
		return err
	}

	a.docsHandler = middleware.Recovery(cfg.Log)(docs.Handler())
	cfg.Log.Info("API documentation configured", "routes", len(routes))
	return nil
}

func (a *Application) setAppHandler(cfg *config.Config, handlers []contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	if cfg.Client.Redis != nil {
		a.idempotencyStore = middleware.NewRedisIdempotencyStore(cfg.Client.Redis, cfg.IdempotencyTTL, cfg.Log)
	} else {
		a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	}
	a.rateLimiter = middleware.NewClientRateLimiter(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		middleware.DefaultClientKey,
		cfg.Log,
	)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)

	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.Idempotency(a.idempotencyStore, "")(appHttpHandler)
	appHttpHandler = middleware.Authenticate(tokens, cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.RequestTimeout(cfg.RequestTimeout)(appHttpHandler)
	appHttpHandler = middleware.ClientRateLimit(a.rateLimiter)(appHttpHandler)
	appHttpHandler = middleware.ContentTypeValidation(cfg.Log, middleware.ContentTypeJSON, middleware.ContentTypeMultipart)(appHttpHandler)
	appHttpHandler = middleware.MaxRequestSize(int64(cfg.MaxRequestSize), int64(cfg.MaxUploadSize))(appHttpHandler)
	appHttpHandler = middleware.CORS(cfg.CORSAllowedOrigins)(appHttpHandler)
	appHttpHandler = middleware.SecureHeaders()(appHttpHandler)
	appHttpHandler = middleware.RequestLogging(cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.Recovery(cfg.Log)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	cfg.Log.Info("Application endpoints configured with full security middleware stack")
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/swagger/", a.docsHandler)
	mux.Handle("/", a.appHttpHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	a.orderSweeper.Start()
	a.cfg.Log.Info("Unpaid order sweeper started", "interval", a.cfg.OrderSweepPeriod)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()
	a.orderSweeper.Stop()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.Log.Info("Server stopped gracefully")
}

package health

import (
	"context"
	"net/http"
	"time"

	httputil "staymi/pkg/http"
	"staymi/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readyTimeout = 2 * time.Second

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

// Pinger is one dependency the service needs to be ready.
type Pinger func(ctx context.Context) error

func MongoPinger(client *mongo.Client) Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}

func RedisPinger(client *redis.Client) Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

type Handler struct {
	database Pinger
	cache    Pinger
	log      *logger.Logger
}

// NewHandler checks the database on /ready, and the cache when cache is not nil.
func NewHandler(database, cache Pinger, log *logger.Logger) *Handler {
	return &Handler{
		database: database,
		cache:    cache,
		log:      log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	resp := Response{Status: "ready", Database: "ok"}
	status := http.StatusOK

	if err := h.database(ctx); err != nil {
		h.log.Error("Database health check failed", "error", err, "path", r.URL.Path)
		resp.Database = "error"
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache(ctx); err != nil {
			h.log.Error("Cache health check failed", "error", err, "path", r.URL.Path)
			resp.Cache = "error"
			status = http.StatusServiceUnavailable
		}
	}
	if status != http.StatusOK {
		resp.Status = "unavailable"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"staymi/pkg/auth"
	"staymi/pkg/logger"
)

// ClientKeyExtractor names the bucket a request is counted against.
type ClientKeyExtractor func(r *http.Request) string

// ClientRateLimiter is a sliding-window limiter keyed per caller.
type ClientRateLimiter struct {
	mu           sync.Mutex
	requests     map[string][]time.Time
	limit        int
	window       time.Duration
	keyExtractor ClientKeyExtractor
	log          *logger.Logger
	stopCh       chan struct{}
	stopOnce     sync.Once
	now          func() time.Time
}

func NewClientRateLimiter(limit int, window time.Duration, extractor ClientKeyExtractor, log *logger.Logger) *ClientRateLimiter {
	if extractor == nil {
		extractor = DefaultClientKey
	}
	limiter := &ClientRateLimiter{
		requests:     make(map[string][]time.Time),
		limit:        limit,
		window:       window,
		keyExtractor: extractor,
		log:          log,
		stopCh:       make(chan struct{}),
		now:          time.Now,
	}

	go limiter.cleanup()

	return limiter
}

func (rl *ClientRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := rl.now()
			rl.mu.Lock()
			for key, timestamps := range rl.requests {
				if len(timestamps) == 0 || now.Sub(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ClientRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow records a hit for key and reports whether it is within the limit.
// The second value is how long until the oldest hit leaves the window.
func (rl *ClientRateLimiter) Allow(key string) (bool, time.Duration) {
	if key == "" {
		return true, 0
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[key]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false, rl.window - now.Sub(valid[0])
	}

	rl.requests[key] = append(valid, now)
	return true, 0
}

func ClientRateLimit(limiter *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.keyExtractor(r)

			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", logger.RequestID(r.Context()),
					"client", key,
					"path", r.URL.Path,
				)
				seconds := int(retryAfter.Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				writeJSONError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultClientKey counts authenticated callers by principal and everybody else by IP.
func DefaultClientKey(r *http.Request) string {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		return string(p.Role) + ":" + p.ID
	}
	return "ip:" + ClientIP(r)
}

func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"staymi/pkg/auth"
	"staymi/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	principal *auth.Principal
}

func (s stubTokens) Parse(token string) (*auth.Principal, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.principal, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	principal := &auth.Principal{ID: "u1", Role: auth.RoleUser}
	var seen *auth.Principal
	handler := Authenticate(stubTokens{principal: principal}, logger.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = auth.PrincipalFrom(r.Context())
		}),
	)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantSeen   bool
	}{
		{"anonymous", "", http.StatusOK, false},
		{"valid", "Bearer good", http.StatusOK, true},
		{"lowercase scheme", "bearer good", http.StatusOK, true},
		{"invalid", "Bearer bad", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSeen, seen != nil)
		})
	}
}

func TestRequireRole(t *testing.T) {
	handle := RequireRole(auth.RoleStore, auth.RoleAdmin)(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})

	run := func(p *auth.Principal) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/store/hotels", nil)
		if p != nil {
			req = req.WithContext(auth.WithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		handle(rec, req, nil)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run(nil))
	assert.Equal(t, http.StatusForbidden, run(&auth.Principal{ID: "u", Role: auth.RoleUser}))
	assert.Equal(t, http.StatusNoContent, run(&auth.Principal{ID: "s", Role: auth.RoleStore, BrandID: "b"}))
	assert.Equal(t, http.StatusNoContent, run(&auth.Principal{ID: "a", Role: auth.RoleAdmin}))
}

func TestClientRateLimiter_SlidingWindow(t *testing.T) {
	limiter := NewClientRateLimiter(2, time.Minute, nil, logger.Discard())
	defer limiter.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("ip:1.2.3.4")
	assert.True(t, ok)
	ok, _ = limiter.Allow("ip:1.2.3.4")
	assert.True(t, ok)
	ok, retry := limiter.Allow("ip:1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	ok, _ = limiter.Allow("ip:5.6.7.8")
	assert.True(t, ok, "other clients have their own bucket")

	now = now.Add(61 * time.Second)
	ok, _ = limiter.Allow("ip:1.2.3.4")
	assert.True(t, ok, "window slid past the old hits")
}

func TestClientRateLimit_Responds429(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, nil, logger.Discard())
	defer limiter.Stop()
	handler := ClientRateLimit(limiter)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hotels", nil)
	req.RemoteAddr = "10.0.0.1:4000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:5555"
	assert.Equal(t, "192.168.1.10", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	var calls int32
	handler := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"call":` + string(rune('0'+n)) + `}`))
	}))

	send := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
		req.Header.Set(HeaderIdempotencyKey, "key-1")
		req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{ID: userID, Role: auth.RoleUser}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send("u1")
	second := send("u1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	send("u2")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "keys are scoped per caller")
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	var calls int32
	handler := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
		req.Header.Set(HeaderIdempotencyKey, "retry-me")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestContentTypeValidation(t *testing.T) {
	handler := ContentTypeValidation(logger.Discard(), ContentTypeJSON, ContentTypeMultipart)(okHandler())

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"multipart", http.MethodPost, "x", "multipart/form-data; boundary=abc", http.StatusOK},
		{"text", http.MethodPatch, "x", "text/plain", http.StatusUnsupportedMediaType},
		{"bodyless post", http.MethodPost, "", "", http.StatusOK},
		{"get", http.MethodGet, "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/orders", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://staymi.app"})(okHandler())

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	preflight.Header.Set("Origin", "https://staymi.app")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://staymi.app", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	other := httptest.NewRequest(http.MethodGet, "/api/v1/hotels", nil)
	other.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestRequestTimeout(t *testing.T) {
	handler := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	handler := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "trace-abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "trace-abc-123", seen)
	assert.Equal(t, "trace-abc-123", rec.Header().Get(HeaderRequestID))
}

func TestMaxRequestSize(t *testing.T) {
	handler := MaxRequestSize(8, 64)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 16)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	upload := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 16)))
	upload.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, upload)
	assert.Equal(t, http.StatusOK, rec.Code)
}

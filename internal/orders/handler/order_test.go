package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"staymi/internal/orders/service"
	"staymi/pkg/auth"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderService embeds the interface; tests set only the funcs they reach.
type mockOrderService struct {
	service.OrderService

	createFunc  func(ctx context.Context, principal *auth.Principal, req *model.CreateOrderRequest) (*model.Order, error)
	captureFunc func(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error)
	listAllFunc func(ctx context.Context, status string, limit int, offset int64) ([]*model.Order, int64, error)
}

func (m *mockOrderService) Create(ctx context.Context, principal *auth.Principal, req *model.CreateOrderRequest) (*model.Order, error) {
	return m.createFunc(ctx, principal, req)
}

func (m *mockOrderService) Capture(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error) {
	return m.captureFunc(ctx, principal, id)
}

func (m *mockOrderService) ListAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Order, int64, error) {
	return m.listAllFunc(ctx, status, limit, offset)
}

func serve(h *OrderHandler, req *http.Request, principal *auth.Principal) *httptest.ResponseRecorder {
	router := httprouter.New()
	h.RegisterRoutes(router)
	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var traveller = &auth.Principal{ID: "u1", Role: auth.RoleUser}

func TestCreate_Returns201(t *testing.T) {
	var got *model.CreateOrderRequest
	svc := &mockOrderService{
		createFunc: func(ctx context.Context, principal *auth.Principal, req *model.CreateOrderRequest) (*model.Order, error) {
			got = req
			return &model.Order{ID: "o1", UserID: principal.ID, Status: model.OrderPending, ApprovalURL: "https://paypal.example/approve"}, nil
		},
	}
	h := NewOrderHandler(svc, logger.Discard())

	body := `{"room_plan_id":"65f1a2b3c4d5e6f7a8b9c0b1","check_in":"2026-11-01","check_out":"2026-11-03","guests":2,"contact_name":"Ana","contact_email":"ana@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req, traveller)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, got.Guests)

	var resp struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "o1", resp.Data.ID)
	assert.Equal(t, "https://paypal.example/approve", resp.Data.ApprovalURL)
}

func TestCreate_StoreCannotBook(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{}, logger.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req, &auth.Principal{ID: "s1", Role: auth.RoleStore, BrandID: "b1"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCapture_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"declined", apperrors.PaymentRequired("Payment was not completed"), http.StatusPaymentRequired},
		{"not pending", apperrors.Conflict("Order is cancelled"), http.StatusConflict},
		{"gateway down", apperrors.BadGateway("PayPal", nil), http.StatusBadGateway},
		{"ok", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			svc := &mockOrderService{
				captureFunc: func(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error) {
					gotID = id
					if tt.err != nil {
						return nil, tt.err
					}
					return &model.Order{ID: id, Status: model.OrderPaid}, nil
				},
			}
			h := NewOrderHandler(svc, logger.Discard())

			rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/orders/id/o42/capture", nil), traveller)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "o42", gotID)
		})
	}
}

func TestListAll_PassesStatus(t *testing.T) {
	var gotStatus string
	svc := &mockOrderService{
		listAllFunc: func(ctx context.Context, status string, limit int, offset int64) ([]*model.Order, int64, error) {
			gotStatus = status
			return []*model.Order{}, 0, nil
		},
	}
	h := NewOrderHandler(svc, logger.Discard())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders?status=paid", nil), &auth.Principal{ID: "a1", Role: auth.RoleAdmin})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paid", gotStatus)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil), traveller)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"staymi/internal/payments/paypal"
	"staymi/internal/payments/repository"
	"staymi/pkg/auth"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/events"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPaymentRepository struct {
	createFunc           func(ctx context.Context, p *model.Payment) error
	findByIDFunc         func(ctx context.Context, id string) (*model.Payment, error)
	findByProviderFunc   func(ctx context.Context, providerOrderID string) (*model.Payment, error)
	findFunc             func(ctx context.Context, f repository.Filter, limit int, offset int64) ([]*model.Payment, int64, error)
	setProviderOrderFunc func(ctx context.Context, id, providerOrderID, providerStatus, approvalURL string) error
	markCompletedFunc    func(ctx context.Context, id, captureID, providerStatus string, at time.Time) (bool, error)
	markFailedFunc       func(ctx context.Context, id, providerStatus, reason string) (bool, error)
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	p.ID = "pay-1"
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockPaymentRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*model.Payment, error) {
	if m.findByProviderFunc != nil {
		return m.findByProviderFunc(ctx, providerOrderID)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockPaymentRepository) Find(ctx context.Context, f repository.Filter, limit int, offset int64) ([]*model.Payment, int64, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, f, limit, offset)
	}
	return []*model.Payment{}, 0, nil
}

func (m *mockPaymentRepository) SetProviderOrder(ctx context.Context, id, providerOrderID, providerStatus, approvalURL string) error {
	if m.setProviderOrderFunc != nil {
		return m.setProviderOrderFunc(ctx, id, providerOrderID, providerStatus, approvalURL)
	}
	return nil
}

func (m *mockPaymentRepository) MarkCompleted(ctx context.Context, id, captureID, providerStatus string, at time.Time) (bool, error) {
	if m.markCompletedFunc != nil {
		return m.markCompletedFunc(ctx, id, captureID, providerStatus, at)
	}
	return true, nil
}

func (m *mockPaymentRepository) MarkFailed(ctx context.Context, id, providerStatus, reason string) (bool, error) {
	if m.markFailedFunc != nil {
		return m.markFailedFunc(ctx, id, providerStatus, reason)
	}
	return true, nil
}

type mockGateway struct {
	createFunc  func(ctx context.Context, in paypal.CreateOrderInput) (*paypal.Order, error)
	captureFunc func(ctx context.Context, orderID, requestID string) (*paypal.Order, error)
	getFunc     func(ctx context.Context, orderID string) (*paypal.Order, error)
}

func (m *mockGateway) CreateOrder(ctx context.Context, in paypal.CreateOrderInput) (*paypal.Order, error) {
	return m.createFunc(ctx, in)
}

func (m *mockGateway) CaptureOrder(ctx context.Context, orderID, requestID string) (*paypal.Order, error) {
	return m.captureFunc(ctx, orderID, requestID)
}

func (m *mockGateway) GetOrder(ctx context.Context, orderID string) (*paypal.Order, error) {
	return m.getFunc(ctx, orderID)
}

func completedOrder(value, currency string) *paypal.Order {
	order := &paypal.Order{ID: "PP-1", Status: paypal.StatusCompleted}
	order.PurchaseUnits = []paypal.PurchaseUnit{{}}
	order.PurchaseUnits[0].Payments = &struct {
		Captures []paypal.Capture `json:"captures"`
	}{Captures: []paypal.Capture{{
		ID:     "CAP-1",
		Status: paypal.StatusCompleted,
		Amount: paypal.Money{CurrencyCode: currency, Value: value},
	}}}
	return order
}

func newService(repo *mockPaymentRepository, gw *mockGateway) *paymentService {
	return NewPaymentService(repo, gw, &events.Recorder{}, logger.Discard()).(*paymentService)
}

func pendingPayment() *model.Payment {
	return &model.Payment{
		ID:              "pay-1",
		UserID:          "u1",
		Purpose:         model.PurposeOrder,
		ReferenceID:     "order-1",
		ProviderOrderID: "PP-1",
		Amount:          decimal.RequireFromString("250.00"),
		Currency:        "USD",
		Status:          model.PaymentCreated,
	}
}

func TestInitiate_Success(t *testing.T) {
	var linked string
	repo := &mockPaymentRepository{
		setProviderOrderFunc: func(_ context.Context, id, providerOrderID, _, approvalURL string) error {
			linked = providerOrderID
			assert.Equal(t, "https://paypal.test/approve", approvalURL)
			return nil
		},
	}
	gw := &mockGateway{createFunc: func(_ context.Context, in paypal.CreateOrderInput) (*paypal.Order, error) {
		assert.Equal(t, "create-pay-1", in.RequestID)
		assert.Equal(t, "order-1", in.ReferenceID)
		return &paypal.Order{
			ID:     "PP-9",
			Status: paypal.StatusCreated,
			Links:  []paypal.Link{{Rel: "approve", Href: "https://paypal.test/approve"}},
		}, nil
	}}

	payment, err := newService(repo, gw).Initiate(context.Background(), InitiateInput{
		UserID:      "u1",
		Purpose:     model.PurposeOrder,
		ReferenceID: "order-1",
		Amount:      decimal.RequireFromString("120.00"),
		Currency:    "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, "PP-9", linked)
	assert.Equal(t, model.PaymentCreated, payment.Status)
	assert.Equal(t, "https://paypal.test/approve", payment.ApprovalURL)
}

func TestInitiate_GatewayFailure(t *testing.T) {
	var failed bool
	repo := &mockPaymentRepository{
		markFailedFunc: func(context.Context, string, string, string) (bool, error) {
			failed = true
			return true, nil
		},
	}
	gw := &mockGateway{createFunc: func(context.Context, paypal.CreateOrderInput) (*paypal.Order, error) {
		return nil, errors.New("connection refused")
	}}

	payment, err := newService(repo, gw).Initiate(context.Background(), InitiateInput{ReferenceID: "order-1"})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBadGateway))
	assert.True(t, failed)
	require.NotNil(t, payment)
	assert.Equal(t, model.PaymentFailed, payment.Status)
}

func TestCapture(t *testing.T) {
	tests := []struct {
		name          string
		capture       func(ctx context.Context, orderID, requestID string) (*paypal.Order, error)
		get           func(ctx context.Context, orderID string) (*paypal.Order, error)
		wantCompleted bool
		wantCode      string
		wantReason    string
	}{
		{
			name: "completed with matching amount",
			capture: func(context.Context, string, string) (*paypal.Order, error) {
				return completedOrder("250.00", "USD"), nil
			},
			wantCompleted: true,
		},
		{
			name: "amount mismatch",
			capture: func(context.Context, string, string) (*paypal.Order, error) {
				return completedOrder("25.00", "USD"), nil
			},
			wantReason: "captured 25.00 USD, expected 250.00 USD",
		},
		{
			name: "already captured is reconciled",
			capture: func(context.Context, string, string) (*paypal.Order, error) {
				return nil, &paypal.APIError{StatusCode: 422, Details: []paypal.ErrorDetail{{Issue: paypal.IssueAlreadyCaptured}}}
			},
			get: func(context.Context, string) (*paypal.Order, error) {
				return completedOrder("250", "USD"), nil
			},
			wantCompleted: true,
		},
		{
			name: "not approved leaves state alone",
			capture: func(context.Context, string, string) (*paypal.Order, error) {
				return nil, &paypal.APIError{StatusCode: 422, Details: []paypal.ErrorDetail{{Issue: paypal.IssueOrderNotApproved}}}
			},
			wantCode: apperrors.CodePaymentRequired,
		},
		{
			name: "upstream outage",
			capture: func(context.Context, string, string) (*paypal.Order, error) {
				return nil, &paypal.APIError{StatusCode: http.StatusServiceUnavailable}
			},
			wantCode: apperrors.CodeBadGateway,
		},
		{
			name: "declined instrument",
			capture: func(context.Context, string, string) (*paypal.Order, error) {
				return nil, &paypal.APIError{StatusCode: 422, Name: "UNPROCESSABLE_ENTITY", Message: "instrument declined"}
			},
			wantReason: "instrument declined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&mockPaymentRepository{}, &mockGateway{captureFunc: tt.capture, getFunc: tt.get})

			result, err := svc.Capture(context.Background(), pendingPayment())

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCompleted, result.Completed)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, result.FailureReason)
			}
		})
	}
}

func TestCapture_AlreadySettledSkipsGateway(t *testing.T) {
	svc := newService(&mockPaymentRepository{}, &mockGateway{})
	payment := pendingPayment()
	payment.Status = model.PaymentCompleted
	payment.CaptureID = "CAP-7"

	result, err := svc.Capture(context.Background(), payment)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, "CAP-7", result.CaptureID)
}

func TestRecordCapture(t *testing.T) {
	var completedID string
	repo := &mockPaymentRepository{
		markCompletedFunc: func(_ context.Context, id, captureID, _ string, _ time.Time) (bool, error) {
			completedID = id
			assert.Equal(t, "CAP-1", captureID)
			return true, nil
		},
	}
	svc := newService(repo, &mockGateway{})

	payment := pendingPayment()
	require.NoError(t, svc.RecordCapture(context.Background(), payment, &CaptureResult{Completed: true, CaptureID: "CAP-1"}))
	assert.Equal(t, "pay-1", completedID)
	assert.Equal(t, model.PaymentCompleted, payment.Status)
	assert.NotNil(t, payment.CapturedAt)

	failed := pendingPayment()
	require.NoError(t, svc.RecordCapture(context.Background(), failed, &CaptureResult{FailureReason: "declined"}))
	assert.Equal(t, model.PaymentFailed, failed.Status)
	assert.Equal(t, "declined", failed.FailureReason)
}

func TestGetByID_HidesOtherUsersPayments(t *testing.T) {
	repo := &mockPaymentRepository{findByIDFunc: func(context.Context, string) (*model.Payment, error) {
		return pendingPayment(), nil
	}}
	svc := newService(repo, &mockGateway{})

	_, err := svc.GetByID(context.Background(), &auth.Principal{ID: "u2", Role: auth.RoleUser}, "pay-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	p, err := svc.GetByID(context.Background(), &auth.Principal{ID: "admin", Role: auth.RoleAdmin}, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, "pay-1", p.ID)
}

type stubReconciler struct {
	seen *model.Payment
}

func (s *stubReconciler) ReconcilePayment(_ context.Context, p *model.Payment) (*model.PaymentReturn, error) {
	s.seen = p
	return &model.PaymentReturn{Payment: p}, nil
}

func TestHandleReturn_DispatchesByPurpose(t *testing.T) {
	repo := &mockPaymentRepository{findByProviderFunc: func(_ context.Context, token string) (*model.Payment, error) {
		assert.Equal(t, "PP-1", token)
		p := pendingPayment()
		p.Purpose = model.PurposeSubscription
		return p, nil
	}}
	svc := newService(repo, &mockGateway{})

	orders, subs := &stubReconciler{}, &stubReconciler{}
	svc.RegisterReconciler(model.PurposeOrder, orders)
	svc.RegisterReconciler(model.PurposeSubscription, subs)

	result, err := svc.HandleReturn(context.Background(), "PP-1")
	require.NoError(t, err)
	assert.Nil(t, orders.seen)
	require.NotNil(t, subs.seen)
	assert.Equal(t, "pay-1", result.Payment.ID)

	_, err = svc.HandleReturn(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
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
)

const providerName = "PayPal"

// InitiateInput describes what a new payment pays for.
type InitiateInput struct {
	UserID      string
	Purpose     model.PaymentPurpose
	ReferenceID string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// CaptureResult is the settled outcome of a capture attempt. A result is only
// returned for terminal answers; transient failures come back as errors.
type CaptureResult struct {
	Completed      bool
	CaptureID      string
	ProviderStatus string
	FailureReason  string
}

// Reconciler settles whatever a payment paid for after PayPal redirects the payer back.
type Reconciler interface {
	ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.PaymentReturn, error)
}

type PaymentService interface {
	Initiate(ctx context.Context, in InitiateInput) (*model.Payment, error)
	Capture(ctx context.Context, payment *model.Payment) (*CaptureResult, error)
	RecordCapture(ctx context.Context, payment *model.Payment, result *CaptureResult) error
	PublishOutcome(ctx context.Context, payment *model.Payment)

	FindByID(ctx context.Context, id string) (*model.Payment, error)
	GetByID(ctx context.Context, principal *auth.Principal, id string) (*model.Payment, error)
	List(ctx context.Context, principal *auth.Principal, limit int, offset int64) ([]*model.Payment, int64, error)
	ListAll(ctx context.Context, filter repository.Filter, limit int, offset int64) ([]*model.Payment, int64, error)

	RegisterReconciler(purpose model.PaymentPurpose, r Reconciler)
	HandleReturn(ctx context.Context, providerOrderID string) (*model.PaymentReturn, error)
}

type paymentService struct {
	repo      repository.PaymentRepository
	gateway   paypal.Gateway
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time

	mu          sync.RWMutex
	reconcilers map[model.PaymentPurpose]Reconciler
}

func NewPaymentService(
	repo repository.PaymentRepository,
	gateway paypal.Gateway,
	publisher events.Publisher,
	log *logger.Logger,
) PaymentService {
	return &paymentService{
		repo:        repo,
		gateway:     gateway,
		publisher:   publisher,
		log:         log,
		now:         mongodb.Now,
		reconcilers: make(map[model.PaymentPurpose]Reconciler),
	}
}

// Initiate stores a created payment and opens the matching PayPal order. When
// PayPal refuses, the payment is kept as failed and returned with a 502 so the
// caller can link it.
func (s *paymentService) Initiate(ctx context.Context, in InitiateInput) (*model.Payment, error) {
	payment := &model.Payment{
		UserID:      in.UserID,
		Purpose:     in.Purpose,
		ReferenceID: in.ReferenceID,
		Provider:    model.ProviderPayPal,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Status:      model.PaymentCreated,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		s.log.Ctx(ctx).Error("Failed to store payment", "reference_id", in.ReferenceID, "error", err)
		return nil, apperrors.Internal("Failed to create payment", err)
	}

	order, err := s.gateway.CreateOrder(ctx, paypal.CreateOrderInput{
		ReferenceID: in.ReferenceID,
		Description: in.Description,
		Amount:      in.Amount,
		Currency:    in.Currency,
		RequestID:   "create-" + payment.ID,
	})
	if err != nil {
		s.log.Ctx(ctx).Error("PayPal order creation failed",
			"payment_id", payment.ID,
			"reference_id", in.ReferenceID,
			"error", err,
		)
		if _, markErr := s.repo.MarkFailed(ctx, payment.ID, "", err.Error()); markErr != nil {
			s.log.Ctx(ctx).Error("Failed to mark payment failed", "payment_id", payment.ID, "error", markErr)
		}
		payment.Status = model.PaymentFailed
		payment.FailureReason = err.Error()
		return payment, apperrors.BadGateway(providerName, err)
	}

	payment.ProviderOrderID = order.ID
	payment.ProviderStatus = order.Status
	payment.ApprovalURL = order.ApprovalURL()
	if err := s.repo.SetProviderOrder(ctx, payment.ID, order.ID, order.Status, payment.ApprovalURL); err != nil {
		s.log.Ctx(ctx).Error("Failed to link PayPal order", "payment_id", payment.ID, "paypal_order_id", order.ID, "error", err)
		return nil, apperrors.Internal("Failed to create payment", err)
	}

	s.log.Ctx(ctx).Info("Payment initiated",
		"payment_id", payment.ID,
		"purpose", payment.Purpose,
		"reference_id", payment.ReferenceID,
		"paypal_order_id", order.ID,
		"amount", payment.Amount.StringFixed(2),
		"currency", payment.Currency,
	)
	return payment, nil
}

// Capture asks PayPal to capture the payment. It does not write anything: the
// caller persists the result together with its own state change.
func (s *paymentService) Capture(ctx context.Context, payment *model.Payment) (*CaptureResult, error) {
	switch payment.Status {
	case model.PaymentCompleted:
		return &CaptureResult{Completed: true, CaptureID: payment.CaptureID, ProviderStatus: payment.ProviderStatus}, nil
	case model.PaymentFailed:
		return &CaptureResult{ProviderStatus: payment.ProviderStatus, FailureReason: payment.FailureReason}, nil
	}
	if payment.ProviderOrderID == "" {
		return &CaptureResult{FailureReason: "payment has no PayPal order"}, nil
	}

	order, err := s.gateway.CaptureOrder(ctx, payment.ProviderOrderID, "capture-"+payment.ID)
	switch {
	case err == nil:
	case paypal.IsAlreadyCaptured(err):
		s.log.Ctx(ctx).Info("PayPal order already captured, reconciling", "payment_id", payment.ID)
		order, err = s.gateway.GetOrder(ctx, payment.ProviderOrderID)
		if err != nil {
			return nil, apperrors.BadGateway(providerName, err)
		}
	case paypal.IsNotApproved(err):
		return nil, apperrors.PaymentRequired("Payment has not been approved by the payer yet")
	case paypal.IsTransient(err):
		s.log.Ctx(ctx).Warn("PayPal capture failed transiently", "payment_id", payment.ID, "error", err)
		return nil, apperrors.BadGateway(providerName, err)
	default:
		var apiErr *paypal.APIError
		if !errors.As(err, &apiErr) {
			return nil, apperrors.BadGateway(providerName, err)
		}
		s.log.Ctx(ctx).Warn("PayPal refused capture", "payment_id", payment.ID, "error", err)
		return &CaptureResult{ProviderStatus: apiErr.Name, FailureReason: apiErr.Message}, nil
	}

	return s.evaluate(payment, order), nil
}

// evaluate accepts a capture only when PayPal completed it for the exact amount.
func (s *paymentService) evaluate(payment *model.Payment, order *paypal.Order) *CaptureResult {
	capture := order.Capture()
	if order.Status != paypal.StatusCompleted || capture == nil {
		return &CaptureResult{ProviderStatus: order.Status, FailureReason: "order is " + order.Status}
	}
	if capture.Status != paypal.StatusCompleted {
		return &CaptureResult{
			CaptureID:      capture.ID,
			ProviderStatus: capture.Status,
			FailureReason:  "capture is " + capture.Status,
		}
	}
	if expected := paypal.NewMoney(payment.Amount, payment.Currency); !capture.Amount.Equal(expected) {
		return &CaptureResult{
			CaptureID:      capture.ID,
			ProviderStatus: capture.Status,
			FailureReason: fmt.Sprintf("captured %s %s, expected %s %s",
				capture.Amount.Value, capture.Amount.CurrencyCode, expected.Value, expected.CurrencyCode),
		}
	}
	return &CaptureResult{Completed: true, CaptureID: capture.ID, ProviderStatus: capture.Status}
}

// RecordCapture persists result on the payment. It runs inside the caller's
// transaction and updates payment in place.
func (s *paymentService) RecordCapture(ctx context.Context, payment *model.Payment, result *CaptureResult) error {
	if result.Completed {
		at := s.now()
		if _, err := s.repo.MarkCompleted(ctx, payment.ID, result.CaptureID, result.ProviderStatus, at); err != nil {
			return fmt.Errorf("failed to complete payment %s: %w", payment.ID, err)
		}
		if payment.Status != model.PaymentCompleted {
			payment.CapturedAt = &at
		}
		payment.Status = model.PaymentCompleted
		payment.CaptureID = result.CaptureID
		payment.ProviderStatus = result.ProviderStatus
		return nil
	}

	if _, err := s.repo.MarkFailed(ctx, payment.ID, result.ProviderStatus, result.FailureReason); err != nil {
		return fmt.Errorf("failed to fail payment %s: %w", payment.ID, err)
	}
	payment.Status = model.PaymentFailed
	payment.ProviderStatus = result.ProviderStatus
	payment.FailureReason = result.FailureReason
	return nil
}

func (s *paymentService) PublishOutcome(ctx context.Context, payment *model.Payment) {
	switch payment.Status {
	case model.PaymentCompleted:
		s.publisher.Publish(ctx, model.EventPaymentCompleted, payment.ID, payment)
	case model.PaymentFailed:
		s.publisher.Publish(ctx, model.EventPaymentFailed, payment.ID, payment)
	}
}

func (s *paymentService) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Payment", id)
		}
		if errors.Is(err, mongodb.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid payment ID format")
		}
		s.log.Ctx(ctx).Error("Failed to get payment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve payment", err)
	}
	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, principal *auth.Principal, id string) (*model.Payment, error) {
	payment, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if principal.Role != auth.RoleAdmin && payment.UserID != principal.ID {
		return nil, apperrors.NotFoundWithID("Payment", id)
	}
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, principal *auth.Principal, limit int, offset int64) ([]*model.Payment, int64, error) {
	return s.ListAll(ctx, repository.Filter{UserID: principal.ID}, limit, offset)
}

func (s *paymentService) ListAll(ctx context.Context, filter repository.Filter, limit int, offset int64) ([]*model.Payment, int64, error) {
	payments, total, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		s.log.Ctx(ctx).Error("Failed to list payments", "user_id", filter.UserID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve payments", err)
	}
	return payments, total, nil
}

func (s *paymentService) RegisterReconciler(purpose model.PaymentPurpose, r Reconciler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcilers[purpose] = r
}

// HandleReturn settles the payment PayPal redirected the payer back for.
func (s *paymentService) HandleReturn(ctx context.Context, providerOrderID string) (*model.PaymentReturn, error) {
	if providerOrderID == "" {
		return nil, apperrors.InvalidInput("token query parameter is required")
	}

	payment, err := s.repo.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Payment", providerOrderID)
		}
		s.log.Ctx(ctx).Error("Failed to find payment by PayPal order", "paypal_order_id", providerOrderID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve payment", err)
	}

	s.mu.RLock()
	reconciler, ok := s.reconcilers[payment.Purpose]
	s.mu.RUnlock()
	if !ok {
		s.log.Ctx(ctx).Error("No reconciler registered", "purpose", payment.Purpose, "payment_id", payment.ID)
		return nil, apperrors.Internal("Payment cannot be reconciled", nil)
	}

	return reconciler.ReconcilePayment(ctx, payment)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentservice "staymi/internal/payments/service"
	"staymi/internal/subscriptions/repository"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/events"
	"staymi/pkg/logger"
	"staymi/pkg/model"
	"staymi/pkg/validation"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

// AccountChecker rejects users whose account was disabled or removed after
// their token was issued.
type AccountChecker interface {
	EnsureActive(ctx context.Context, userID string) error
}

type SubscriptionService interface {
	Plans() []model.SubscriptionPlan
	Me(ctx context.Context, principal *auth.Principal) (*model.EffectiveSubscription, error)
	EffectiveTier(ctx context.Context, userID string) (model.SubscriptionTier, error)

	Subscribe(ctx context.Context, principal *auth.Principal, req *model.SubscribeRequest) (*model.Subscription, error)
	Capture(ctx context.Context, principal *auth.Principal, id string) (*model.Subscription, error)
	Cancel(ctx context.Context, principal *auth.Principal, id string) (*model.Subscription, error)

	ListMine(ctx context.Context, principal *auth.Principal, limit int, offset int64) ([]*model.Subscription, int64, error)
	ListAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Subscription, int64, error)

	ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.PaymentReturn, error)
}

type subscriptionService struct {
	repo      repository.SubscriptionRepository
	accounts  AccountChecker
	payments  paymentservice.PaymentService
	txManager mongodb.TransactionManager
	publisher events.Publisher
	validate  *validation.Validator
	cfg       *config.Config
	now       func() time.Time
}

func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	accounts AccountChecker,
	payments paymentservice.PaymentService,
	txManager mongodb.TransactionManager,
	publisher events.Publisher,
	validate *validation.Validator,
	cfg *config.Config,
) SubscriptionService {
	return &subscriptionService{
		repo:      repo,
		accounts:  accounts,
		payments:  payments,
		txManager: txManager,
		publisher: publisher,
		validate:  validate,
		cfg:       cfg,
		now:       mongodb.Now,
	}
}

func (s *subscriptionService) Plans() []model.SubscriptionPlan {
	days := int(s.cfg.SubscriptionPeriod.Hours() / 24)
	return []model.SubscriptionPlan{
		{
			Tier: model.TierFree, Name: "Free", Price: decimal.Zero, Currency: s.cfg.DefaultCurrency,
			Benefits: []string{"Standard room rates"},
		},
		{
			Tier: model.TierPlus, Name: "Plus", Price: s.cfg.SubscriptionPlusPrice, Currency: s.cfg.DefaultCurrency, PeriodDays: days,
			Benefits: []string{"Plus member rates on participating room plans"},
		},
		{
			Tier: model.TierPro, Name: "Pro", Price: s.cfg.SubscriptionProPrice, Currency: s.cfg.DefaultCurrency, PeriodDays: days,
			Benefits: []string{"Pro member rates on participating room plans", "Falls back to Plus rates where no Pro rate is set"},
		},
	}
}

func (s *subscriptionService) priceOf(tier model.SubscriptionTier) decimal.Decimal {
	if tier == model.TierPro {
		return s.cfg.SubscriptionProPrice
	}
	return s.cfg.SubscriptionPlusPrice
}

func (s *subscriptionService) effective(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.repo.FindEffective(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, nil
		}
		return nil, s.repoError(ctx, err, "")
	}
	return sub, nil
}

func (s *subscriptionService) Me(ctx context.Context, principal *auth.Principal) (*model.EffectiveSubscription, error) {
	sub, err := s.effective(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &model.EffectiveSubscription{Tier: model.TierFree}, nil
	}
	return &model.EffectiveSubscription{Tier: sub.Tier, Subscription: sub}, nil
}

func (s *subscriptionService) EffectiveTier(ctx context.Context, userID string) (model.SubscriptionTier, error) {
	sub, err := s.effective(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return model.TierFree, nil
	}
	return sub.Tier, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, principal *auth.Principal, req *model.SubscribeRequest) (*model.Subscription, error) {
	log := s.cfg.Log.Ctx(ctx)
	if err := s.validate.Struct(req); err != nil {
		return nil, validation.ToAppError(err)
	}
	if req.Tier == model.TierFree {
		return nil, validation.ToAppError(validation.Fail("tier", "free needs no subscription"))
	}
	if err := s.accounts.EnsureActive(ctx, principal.ID); err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		UserID:   principal.ID,
		Tier:     req.Tier,
		Status:   model.SubscriptionPending,
		Price:    s.priceOf(req.Tier),
		Currency: s.cfg.DefaultCurrency,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, s.repoError(ctx, err, "")
	}

	payment, err := s.payments.Initiate(ctx, paymentservice.InitiateInput{
		UserID:      principal.ID,
		Purpose:     model.PurposeSubscription,
		ReferenceID: sub.ID,
		Amount:      sub.Price,
		Currency:    sub.Currency,
		Description: fmt.Sprintf("StayMi %s membership", req.Tier),
	})
	if err != nil {
		if payment != nil {
			if linkErr := s.repo.SetPayment(ctx, sub.ID, payment.ID, ""); linkErr != nil {
				log.Error("Failed to link failed payment", "subscription_id", sub.ID, "error", linkErr)
			}
		}
		if _, markErr := s.repo.MarkPaymentFailed(ctx, sub.ID); markErr != nil {
			log.Error("Failed to mark subscription failed", "subscription_id", sub.ID, "error", markErr)
		}
		return nil, err
	}

	if err := s.repo.SetPayment(ctx, sub.ID, payment.ID, payment.ApprovalURL); err != nil {
		log.Error("Failed to link payment", "subscription_id", sub.ID, "payment_id", payment.ID, "error", err)
		return nil, apperrors.Internal("Failed to open payment", err)
	}
	sub.PaymentID = payment.ID
	sub.ApprovalURL = payment.ApprovalURL

	log.Info("Subscription requested", "subscription_id", sub.ID, "tier", sub.Tier, "payment_id", payment.ID)
	return sub, nil
}

func (s *subscriptionService) Capture(ctx context.Context, principal *auth.Principal, id string) (*model.Subscription, error) {
	sub, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	switch sub.Status {
	case model.SubscriptionActive:
		return sub, nil
	case model.SubscriptionPending:
	default:
		return nil, apperrors.Conflict("Subscription is " + string(sub.Status))
	}

	sub, payment, err := s.settle(ctx, sub)
	if err != nil {
		return nil, err
	}
	if sub.Status != model.SubscriptionActive {
		return nil, apperrors.PaymentRequired("Payment was not completed").WithDetails(map[string]any{
			"subscription_id": sub.ID,
			"reason":          payment.FailureReason,
		})
	}
	return sub, nil
}

// settle captures the subscription's payment. A completed capture activates
// it for one period, stacked on top of a running subscription of the same
// tier (cancelled ones included until they expire), and retires every other
// subscription of the user.
func (s *subscriptionService) settle(ctx context.Context, sub *model.Subscription) (*model.Subscription, *model.Payment, error) {
	if sub.PaymentID == "" {
		return nil, nil, apperrors.Conflict("Subscription has no payment to capture")
	}
	payment, err := s.payments.FindByID(ctx, sub.PaymentID)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.payments.Capture(ctx, payment)
	if err != nil {
		return nil, nil, err
	}

	var transitioned bool
	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		transitioned = false
		if err := s.payments.RecordCapture(sessCtx, payment, result); err != nil {
			return err
		}
		if !result.Completed {
			ok, err := s.repo.MarkPaymentFailed(sessCtx, sub.ID)
			transitioned = ok
			return err
		}

		now := s.now()
		from := now
		current, err := s.repo.FindLatestRunning(sessCtx, sub.UserID, sub.Tier, now)
		switch {
		case err == nil:
			if current.ExpiresAt != nil && current.ExpiresAt.After(now) {
				from = *current.ExpiresAt
			}
		case !errors.Is(err, mongodb.ErrNotFound):
			return err
		}

		ok, err := s.repo.Activate(sessCtx, sub.ID, now, from.Add(s.cfg.SubscriptionPeriod))
		if err != nil || !ok {
			return err
		}
		transitioned = true
		_, err = s.repo.SupersedeOthers(sessCtx, sub.UserID, sub.ID)
		return err
	})
	if err != nil {
		return nil, nil, s.repoError(ctx, err, sub.ID)
	}

	updated, err := s.repo.FindByID(ctx, sub.ID)
	if err != nil {
		return nil, nil, s.repoError(ctx, err, sub.ID)
	}
	if !transitioned {
		return updated, payment, nil
	}

	s.payments.PublishOutcome(ctx, payment)
	if updated.Status == model.SubscriptionActive {
		s.cfg.Log.Ctx(ctx).Info("Subscription activated",
			"subscription_id", updated.ID,
			"tier", updated.Tier,
			"expires_at", updated.ExpiresAt,
		)
		s.publisher.Publish(ctx, model.EventSubscriptionActivated, updated.ID, updated)
	}
	return updated, payment, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, principal *auth.Principal, id string) (*model.Subscription, error) {
	sub, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != model.SubscriptionActive {
		return nil, apperrors.Conflict("Only active subscriptions can be cancelled")
	}

	ok, err := s.repo.Cancel(ctx, sub.ID, s.now())
	if err != nil {
		return nil, s.repoError(ctx, err, id)
	}
	if !ok {
		return nil, apperrors.Conflict("Only active subscriptions can be cancelled")
	}

	updated, err := s.repo.FindByID(ctx, sub.ID)
	if err != nil {
		return nil, s.repoError(ctx, err, id)
	}
	s.cfg.Log.Ctx(ctx).Info("Subscription cancelled", "subscription_id", id, "expires_at", updated.ExpiresAt)
	s.publisher.Publish(ctx, model.EventSubscriptionCancelled, id, updated)
	return updated, nil
}

func (s *subscriptionService) owned(ctx context.Context, principal *auth.Principal, id string) (*model.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError(ctx, err, id)
	}
	if sub.UserID != principal.ID {
		return nil, apperrors.NotFoundWithID("Subscription", id)
	}
	return sub, nil
}

func (s *subscriptionService) ListMine(ctx context.Context, principal *auth.Principal, limit int, offset int64) ([]*model.Subscription, int64, error) {
	return s.find(ctx, repository.Filter{UserID: principal.ID}, limit, offset)
}

func (s *subscriptionService) ListAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Subscription, int64, error) {
	filter := repository.Filter{Status: model.SubscriptionStatus(status)}
	switch filter.Status {
	case "", model.SubscriptionPending, model.SubscriptionActive, model.SubscriptionCancelled,
		model.SubscriptionSuperseded, model.SubscriptionFailed:
	default:
		return nil, 0, apperrors.InvalidInput("Unknown subscription status: " + status)
	}
	return s.find(ctx, filter, limit, offset)
}

func (s *subscriptionService) find(ctx context.Context, filter repository.Filter, limit int, offset int64) ([]*model.Subscription, int64, error) {
	subs, total, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, s.repoError(ctx, err, "")
	}
	return subs, total, nil
}

func (s *subscriptionService) ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.PaymentReturn, error) {
	sub, err := s.repo.FindByID(ctx, payment.ReferenceID)
	if err != nil {
		return nil, s.repoError(ctx, err, payment.ReferenceID)
	}
	if sub.Status != model.SubscriptionPending || sub.PaymentID != payment.ID {
		return &model.PaymentReturn{Payment: payment, Subscription: sub}, nil
	}

	sub, settled, err := s.settle(ctx, sub)
	if err != nil {
		return nil, err
	}
	return &model.PaymentReturn{Payment: settled, Subscription: sub}, nil
}

func (s *subscriptionService) repoError(ctx context.Context, err error, id string) error {
	return mapRepoError(ctx, s.cfg.Log, err, id)
}

func mapRepoError(ctx context.Context, log *logger.Logger, err error, id string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, mongodb.ErrNotFound):
		return apperrors.NotFoundWithID("Subscription", id)
	case errors.Is(err, mongodb.ErrInvalidID):
		return apperrors.InvalidInput("Invalid subscription ID format")
	}
	log.Ctx(ctx).Error("Subscription operation failed", "subscription_id", id, "error", err)
	return apperrors.Internal("Failed to access subscription", err)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionTier string

const (
	TierFree SubscriptionTier = "free"
	TierPlus SubscriptionTier = "plus"
	TierPro  SubscriptionTier = "pro"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierPlus, TierPro:
		return true
	}
	return false
}

type SubscriptionStatus string

const (
	SubscriptionPending    SubscriptionStatus = "pending"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionCancelled  SubscriptionStatus = "cancelled"
	SubscriptionSuperseded SubscriptionStatus = "superseded"
	SubscriptionFailed     SubscriptionStatus = "payment_failed"
)

type Subscription struct {
	ID          string             `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Tier        SubscriptionTier   `json:"tier" bson:"tier"`
	Status      SubscriptionStatus `json:"status" bson:"status"`
	Price       decimal.Decimal    `json:"price" bson:"price"`
	Currency    string             `json:"currency" bson:"currency"`
	PaymentID   string             `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	ApprovalURL string             `json:"approval_url,omitempty" bson:"approval_url,omitempty"`
	StartedAt   *time.Time         `json:"started_at,omitempty" bson:"started_at,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Grants reports whether the subscription still confers its tier at now.
// Cancelled subscriptions keep their benefits until they expire.
func (s *Subscription) Grants(now time.Time) bool {
	if s.Status != SubscriptionActive && s.Status != SubscriptionCancelled {
		return false
	}
	return s.ExpiresAt != nil && s.ExpiresAt.After(now)
}

type SubscriptionPlan struct {
	Tier       SubscriptionTier `json:"tier"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	Currency   string           `json:"currency"`
	PeriodDays int              `json:"period_days"`
	Benefits   []string         `json:"benefits"`
}

type SubscribeRequest struct {
	Tier SubscriptionTier `json:"tier" validate:"required,oneof=free plus pro"`
}

// EffectiveSubscription is what a user currently enjoys. Subscription is nil on free.
type EffectiveSubscription struct {
	Tier         SubscriptionTier `json:"tier"`
	Subscription *Subscription    `json:"subscription,omitempty"`
}

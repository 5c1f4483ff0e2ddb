package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentPurpose string

const (
	PurposeOrder        PaymentPurpose = "order"
	PurposeSubscription PaymentPurpose = "subscription"
)

type PaymentStatus string

const (
	PaymentCreated   PaymentStatus = "created"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

const ProviderPayPal = "paypal"

// Payment mirrors one PayPal order. ReferenceID points at the order or
// subscription named by Purpose.
type Payment struct {
	ID              string          `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          string          `json:"user_id" bson:"user_id"`
	Purpose         PaymentPurpose  `json:"purpose" bson:"purpose"`
	ReferenceID     string          `json:"reference_id" bson:"reference_id"`
	Provider        string          `json:"provider" bson:"provider"`
	ProviderOrderID string          `json:"provider_order_id,omitempty" bson:"provider_order_id,omitempty"`
	CaptureID       string          `json:"capture_id,omitempty" bson:"capture_id,omitempty"`
	Amount          decimal.Decimal `json:"amount" bson:"amount"`
	Currency        string          `json:"currency" bson:"currency"`
	Status          PaymentStatus   `json:"status" bson:"status"`
	ProviderStatus  string          `json:"provider_status,omitempty" bson:"provider_status,omitempty"`
	FailureReason   string          `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	ApprovalURL     string          `json:"approval_url,omitempty" bson:"approval_url,omitempty"`
	CapturedAt      *time.Time      `json:"captured_at,omitempty" bson:"captured_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" bson:"updated_at"`
}

// PaymentReturn is the answer to a PayPal redirect: the settled payment and
// the state of whatever it paid for.
type PaymentReturn struct {
	Payment      *Payment      `json:"payment"`
	Order        *Order        `json:"order,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

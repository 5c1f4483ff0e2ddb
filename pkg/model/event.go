package model

import "time"

const (
	EventOrderCreated          = "order.created"
	EventOrderPaid             = "order.paid"
	EventOrderPaymentFailed    = "order.payment_failed"
	EventOrderCancelled        = "order.cancelled"
	EventOrderExpired          = "order.expired"
	EventPaymentCompleted      = "payment.completed"
	EventPaymentFailed         = "payment.failed"
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// Event is the envelope published for every domain event.
type Event struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

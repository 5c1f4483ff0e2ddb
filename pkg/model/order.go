package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending       OrderStatus = "pending"
	OrderPaid          OrderStatus = "paid"
	OrderCancelled     OrderStatus = "cancelled"
	OrderPaymentFailed OrderStatus = "payment_failed"
)

// Order is a room booking with an optional add-on product, stored in order_room_product.
type Order struct {
	ID              string      `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          string      `json:"user_id" bson:"user_id"`
	HotelID         string      `json:"hotel_id" bson:"hotel_id"`
	BrandID         string      `json:"brand_id" bson:"brand_id"`
	RoomPlanID      string      `json:"room_plan_id" bson:"room_plan_id"`
	RoomTypeID      string      `json:"room_type_id" bson:"room_type_id"`
	CheckIn         string      `json:"check_in" bson:"check_in"`
	CheckOut        string      `json:"check_out" bson:"check_out"`
	Nights          int         `json:"nights" bson:"nights"`
	Guests          int         `json:"guests" bson:"guests"`
	ProductPlanID   string      `json:"product_plan_id,omitempty" bson:"product_plan_id,omitempty"`
	ProductQuantity int         `json:"product_quantity,omitempty" bson:"product_quantity,omitempty"`
	Pricing         `bson:",inline"`
	ContactName     string      `json:"contact_name" bson:"contact_name"`
	ContactEmail    string      `json:"contact_email" bson:"contact_email"`
	ContactPhone    string      `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
	Note            string      `json:"note,omitempty" bson:"note,omitempty"`
	Status          OrderStatus `json:"status" bson:"status"`
	PaymentID       string      `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	PayPalOrderID   string      `json:"paypal_order_id,omitempty" bson:"paypal_order_id,omitempty"`
	ApprovalURL     string      `json:"approval_url,omitempty" bson:"approval_url,omitempty"`
	PaidAt          *time.Time  `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

// HoldsInventory reports whether the order still occupies a room at now.
// Pending orders release their hold once they are older than pendingTTL.
func (o *Order) HoldsInventory(now time.Time, pendingTTL time.Duration) bool {
	switch o.Status {
	case OrderPaid:
		return true
	case OrderPending:
		return now.Sub(o.CreatedAt) < pendingTTL
	}
	return false
}

// Pricing is the priced breakdown of a stay, shared by quotes and orders.
type Pricing struct {
	NightlyRate      decimal.Decimal  `json:"nightly_rate" bson:"nightly_rate"`
	ProductUnitPrice decimal.Decimal  `json:"product_unit_price" bson:"product_unit_price"`
	BaseNightlyRate  decimal.Decimal  `json:"base_nightly_rate" bson:"base_nightly_rate"`
	RoomAmount       decimal.Decimal  `json:"room_amount" bson:"room_amount"`
	ProductAmount    decimal.Decimal  `json:"product_amount" bson:"product_amount"`
	DiscountAmount   decimal.Decimal  `json:"discount_amount" bson:"discount_amount"`
	TotalAmount      decimal.Decimal  `json:"total_amount" bson:"total_amount"`
	Currency         string           `json:"currency" bson:"currency"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" bson:"subscription_tier"`
}

// CreateOrderRequest is the body of both the quote and the order endpoints.
type CreateOrderRequest struct {
	RoomPlanID      string `json:"room_plan_id" validate:"required,mongodb"`
	CheckIn         string `json:"check_in" validate:"required,date"`
	CheckOut        string `json:"check_out" validate:"required,date"`
	Guests          int    `json:"guests" validate:"required,min=1,max=20"`
	ProductPlanID   string `json:"product_plan_id,omitempty" validate:"omitempty,mongodb"`
	ProductQuantity int    `json:"product_quantity,omitempty" validate:"required_with=ProductPlanID,omitempty,min=1,max=20"`
	ContactName     string `json:"contact_name" validate:"required,min=2,max=100"`
	ContactEmail    string `json:"contact_email" validate:"required,email,max=254"`
	ContactPhone    string `json:"contact_phone,omitempty" validate:"omitempty,e164"`
	Note            string `json:"note,omitempty" validate:"max=1000"`
}

type Quote struct {
	RoomPlanID      string `json:"room_plan_id"`
	HotelID         string `json:"hotel_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Nights          int    `json:"nights"`
	Guests          int    `json:"guests"`
	ProductPlanID   string `json:"product_plan_id,omitempty"`
	ProductQuantity int    `json:"product_quantity,omitempty"`
	Pricing
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomPlan is a sellable rate for one room type. PlusPrice and ProPrice are the
// discounted nightly rates for subscribers; nil means the tier pays Price.
type RoomPlan struct {
	ID                string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID           string           `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomTypeID        string           `json:"room_type_id" bson:"room_type_id" validate:"required,mongodb"`
	Name              string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description       string           `json:"description,omitempty" bson:"description" validate:"max=2000"`
	Price             decimal.Decimal  `json:"price" bson:"price" validate:"decimal_gt=0"`
	PlusPrice         *decimal.Decimal `json:"plus_price,omitempty" bson:"plus_price,omitempty" validate:"omitempty,decimal_gt=0"`
	ProPrice          *decimal.Decimal `json:"pro_price,omitempty" bson:"pro_price,omitempty" validate:"omitempty,decimal_gt=0"`
	Currency          string           `json:"currency" bson:"currency" validate:"required,currency"`
	BreakfastIncluded bool             `json:"breakfast_included" bson:"breakfast_included"`
	Refundable        bool             `json:"refundable" bson:"refundable"`
	MinNights         int              `json:"min_nights" bson:"min_nights" validate:"min=1,max=30"`
	Active            bool             `json:"active" bson:"active"`
	CreatedAt         time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" bson:"updated_at"`
}

// PriceFor returns the nightly rate a subscriber of tier pays. A missing tier
// price falls back to the next cheaper tier's price: pro to plus to base.
func (p *RoomPlan) PriceFor(tier SubscriptionTier) decimal.Decimal {
	switch tier {
	case TierPro:
		if p.ProPrice != nil {
			return *p.ProPrice
		}
		if p.PlusPrice != nil {
			return *p.PlusPrice
		}
	case TierPlus:
		if p.PlusPrice != nil {
			return *p.PlusPrice
		}
	}
	return p.Price
}

type RoomPlanUpdate struct {
	Name              *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description       *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price             *decimal.Decimal `json:"price,omitempty" validate:"omitempty,decimal_gt=0"`
	PlusPrice         *decimal.Decimal `json:"plus_price,omitempty" validate:"omitempty,decimal_gt=0"`
	ProPrice          *decimal.Decimal `json:"pro_price,omitempty" validate:"omitempty,decimal_gt=0"`
	ClearPlusPrice    bool             `json:"clear_plus_price,omitempty"`
	ClearProPrice     bool             `json:"clear_pro_price,omitempty"`
	BreakfastIncluded *bool            `json:"breakfast_included,omitempty"`
	Refundable        *bool            `json:"refundable,omitempty"`
	MinNights         *int             `json:"min_nights,omitempty" validate:"omitempty,min=1,max=30"`
	Active            *bool            `json:"active,omitempty"`
}

// ProductPlan is an add-on sold with a stay. Stock nil means unlimited.
type ProductPlan struct {
	ID          string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID     string          `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Name        string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description,omitempty" bson:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" bson:"price" validate:"decimal_gt=0"`
	Currency    string          `json:"currency" bson:"currency" validate:"required,currency"`
	Stock       *int            `json:"stock,omitempty" bson:"stock,omitempty" validate:"omitempty,min=0"`
	Active      bool            `json:"active" bson:"active"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

type ProductPlanUpdate struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,decimal_gt=0"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	ClearStock  bool             `json:"clear_stock,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

package service

import (
	"staymi/pkg/model"

	"github.com/shopspring/decimal"
)

const amountPlaces = 2

// ComputePrice prices a stay of nights on plan for a subscriber of tier, plus
// quantity units of product when product is not nil. Every amount is rounded
// half-up to cents.
func ComputePrice(plan *model.RoomPlan, nights int, tier model.SubscriptionTier, product *model.ProductPlan, quantity int) model.Pricing {
	n := decimal.NewFromInt(int64(nights))
	base := plan.Price.Round(amountPlaces)
	rate := plan.PriceFor(tier).Round(amountPlaces)

	pricing := model.Pricing{
		NightlyRate:      rate,
		BaseNightlyRate:  base,
		RoomAmount:       rate.Mul(n).Round(amountPlaces),
		DiscountAmount:   base.Sub(rate).Mul(n).Round(amountPlaces),
		ProductUnitPrice: decimal.Zero,
		ProductAmount:    decimal.Zero,
		Currency:         plan.Currency,
		SubscriptionTier: tier,
	}
	if product != nil && quantity > 0 {
		pricing.ProductUnitPrice = product.Price.Round(amountPlaces)
		pricing.ProductAmount = pricing.ProductUnitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(amountPlaces)
	}
	pricing.TotalAmount = pricing.RoomAmount.Add(pricing.ProductAmount)
	return pricing
}

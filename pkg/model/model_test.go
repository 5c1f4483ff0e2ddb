package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRoomPlan_PriceFor(t *testing.T) {
	tests := []struct {
		name string
		plan RoomPlan
		tier SubscriptionTier
		want string
	}{
		{"free pays base", RoomPlan{Price: *dec("100"), PlusPrice: dec("90"), ProPrice: dec("80")}, TierFree, "100"},
		{"plus pays plus", RoomPlan{Price: *dec("100"), PlusPrice: dec("90"), ProPrice: dec("80")}, TierPlus, "90"},
		{"pro pays pro", RoomPlan{Price: *dec("100"), PlusPrice: dec("90"), ProPrice: dec("80")}, TierPro, "80"},
		{"pro falls back to plus", RoomPlan{Price: *dec("100"), PlusPrice: dec("90")}, TierPro, "90"},
		{"pro falls back to base", RoomPlan{Price: *dec("100")}, TierPro, "100"},
		{"plus ignores pro price", RoomPlan{Price: *dec("100"), ProPrice: dec("80")}, TierPlus, "100"},
		{"unknown tier pays base", RoomPlan{Price: *dec("100"), PlusPrice: dec("90")}, SubscriptionTier("gold"), "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.plan.PriceFor(tt.tier)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("PriceFor(%s) = %s, want %s", tt.tier, got, tt.want)
			}
		})
	}
}

func TestOrder_HoldsInventory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Minute

	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{"paid always holds", Order{Status: OrderPaid, CreatedAt: now.Add(-48 * time.Hour)}, true},
		{"fresh pending holds", Order{Status: OrderPending, CreatedAt: now.Add(-10 * time.Minute)}, true},
		{"stale pending released", Order{Status: OrderPending, CreatedAt: now.Add(-31 * time.Minute)}, false},
		{"cancelled released", Order{Status: OrderCancelled, CreatedAt: now}, false},
		{"failed released", Order{Status: OrderPaymentFailed, CreatedAt: now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.HoldsInventory(now, ttl); got != tt.want {
				t.Errorf("HoldsInventory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscription_Grants(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Second)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"active and unexpired", Subscription{Status: SubscriptionActive, ExpiresAt: &future}, true},
		{"cancelled keeps benefits", Subscription{Status: SubscriptionCancelled, ExpiresAt: &future}, true},
		{"active but expired", Subscription{Status: SubscriptionActive, ExpiresAt: &past}, false},
		{"pending never grants", Subscription{Status: SubscriptionPending, ExpiresAt: &future}, false},
		{"superseded never grants", Subscription{Status: SubscriptionSuperseded, ExpiresAt: &future}, false},
		{"missing expiry", Subscription{Status: SubscriptionActive}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.Grants(now); got != tt.want {
				t.Errorf("Grants() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscriptionTier_Valid(t *testing.T) {
	for _, tier := range []SubscriptionTier{TierFree, TierPlus, TierPro} {
		if !tier.Valid() {
			t.Errorf("%s should be valid", tier)
		}
	}
	if SubscriptionTier("gold").Valid() {
		t.Error("gold should be invalid")
	}
}

package service

import (
	"context"
	"testing"

	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryReserveStock(t *testing.T) {
	stock := func(n int) *int { return &n }

	tests := []struct {
		name      string
		product   *model.ProductPlan
		available bool
		wantCalls int
		wantCode  string
	}{
		{name: "unlimited product", product: &model.ProductPlan{ID: "p1"}, available: true},
		{name: "stock taken", product: &model.ProductPlan{ID: "p1", Stock: stock(3)}, available: true, wantCalls: 1},
		{name: "sold out", product: &model.ProductPlan{ID: "p1", Name: "Spa", Stock: stock(0)}, available: false, wantCalls: 1, wantCode: apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			products := &mockProductPlanRepository{
				decrementStockFunc: func(ctx context.Context, id string, quantity int) (bool, error) {
					calls++
					return tt.available, nil
				},
			}
			inv := NewInventory(HotelRepositories{ProductPlans: products}, logger.Discard())

			err := inv.ReserveStock(context.Background(), tt.product, 2)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasCode(err, tt.wantCode))
		})
	}
}

func TestInventoryRestoreStock_SkipsEmptyProduct(t *testing.T) {
	restored := false
	inv := NewInventory(HotelRepositories{ProductPlans: &mockProductPlanRepository{
		restoreStockFunc: func(ctx context.Context, id string, quantity int) error {
			restored = true
			return nil
		},
	}}, logger.Discard())

	require.NoError(t, inv.RestoreStock(context.Background(), "", 1))
	assert.False(t, restored)

	require.NoError(t, inv.RestoreStock(context.Background(), "p1", 1))
	assert.True(t, restored)
}

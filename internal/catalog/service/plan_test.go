package service

import (
	"context"
	"testing"

	"staymi/pkg/auth"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roomType1 = "65f1a2b3c4d5e6f708192a04"

func newPlanFixture(roomPlans *mockRoomPlanRepository) PlanService {
	hotels := newHotelFixture().svc
	roomTypes := &mockRoomTypeRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.RoomType, error) {
			return &model.RoomType{ID: id, HotelID: hotel1, Name: "Double"}, nil
		},
	}
	return NewPlanService(hotels, roomTypes, roomPlans, &mockProductPlanRepository{}, testValidator(), testConfig())
}

func TestCreateRoomPlan_Defaults(t *testing.T) {
	var stored *model.RoomPlan
	svc := newPlanFixture(&mockRoomPlanRepository{
		createFunc: func(ctx context.Context, plan *model.RoomPlan) error {
			stored = plan
			return nil
		},
	})

	plan := &model.RoomPlan{
		HotelID:    "ignored",
		RoomTypeID: roomType1,
		Name:       "  flexible   rate ",
		Price:      decimal.RequireFromString("150"),
		Active:     true,
	}
	require.NoError(t, svc.CreateRoomPlan(context.Background(), storeOf(brandA), hotel1, plan))

	require.NotNil(t, stored)
	assert.Equal(t, hotel1, stored.HotelID)
	assert.Equal(t, "EUR", stored.Currency, "currency follows the hotel's country")
	assert.Equal(t, 1, stored.MinNights)
}

func TestCreateRoomPlan_RoomTypeFromOtherHotel(t *testing.T) {
	hotels := newHotelFixture().svc
	roomTypes := &mockRoomTypeRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.RoomType, error) {
			return &model.RoomType{ID: id, HotelID: "65f1a2b3c4d5e6f708192aff"}, nil
		},
	}
	svc := NewPlanService(hotels, roomTypes, &mockRoomPlanRepository{}, &mockProductPlanRepository{}, testValidator(), testConfig())

	err := svc.CreateRoomPlan(context.Background(), storeOf(brandA), hotel1, &model.RoomPlan{
		RoomTypeID: roomType1,
		Name:       "Saver",
		Price:      decimal.RequireFromString("90"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestGetRoomPlan_InactiveIsHidden(t *testing.T) {
	svc := newPlanFixture(&mockRoomPlanRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.RoomPlan, error) {
			return &model.RoomPlan{ID: id, HotelID: hotel1, Active: false}, nil
		},
	})

	_, err := svc.GetRoomPlan(context.Background(), "65f1a2b3c4d5e6f708192a05")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdateRoomPlan_ClearTierPrice(t *testing.T) {
	plus := decimal.RequireFromString("100")
	stored := &model.RoomPlan{
		ID: "65f1a2b3c4d5e6f708192a05", HotelID: hotel1, RoomTypeID: roomType1, Name: "Flexible",
		Price: decimal.RequireFromString("120"), PlusPrice: &plus,
		Currency: "EUR", MinNights: 1, Active: true,
	}
	var written *model.RoomPlanUpdate
	svc := newPlanFixture(&mockRoomPlanRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.RoomPlan, error) {
			cp := *stored
			return &cp, nil
		},
		updateFunc: func(ctx context.Context, id string, updates *model.RoomPlanUpdate) error {
			written = updates
			if updates.ClearPlusPrice {
				stored.PlusPrice = nil
			}
			return nil
		},
	})

	admin := &auth.Principal{ID: "admin", Role: auth.RoleAdmin}
	plan, err := svc.UpdateRoomPlan(context.Background(), admin, stored.ID, &model.RoomPlanUpdate{ClearPlusPrice: true})

	require.NoError(t, err)
	assert.Nil(t, plan.PlusPrice)
	require.NotNil(t, written)
	assert.Nil(t, written.Price, "untouched fields are not rewritten")
}

func TestUpdateRoomPlan_RejectsInvalidMerge(t *testing.T) {
	updated := false
	svc := newPlanFixture(&mockRoomPlanRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.RoomPlan, error) {
			return &model.RoomPlan{
				ID: id, HotelID: hotel1, RoomTypeID: roomType1, Name: "Flexible",
				Price: decimal.RequireFromString("120"), Currency: "EUR", MinNights: 1, Active: true,
			}, nil
		},
		updateFunc: func(ctx context.Context, id string, updates *model.RoomPlanUpdate) error {
			updated = true
			return nil
		},
	})

	nights := 0
	_, err := svc.UpdateRoomPlan(context.Background(), storeOf(brandA), "65f1a2b3c4d5e6f708192a05", &model.RoomPlanUpdate{MinNights: &nights})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.False(t, updated)
}

// A rename must not write back the stock it read: checkouts may have taken
// units in between.
func TestUpdateProductPlan_RenameLeavesStockAlone(t *testing.T) {
	stock := 10
	stored := &model.ProductPlan{
		ID: "65f1a2b3c4d5e6f708192a06", HotelID: hotel1, Name: "Breakfast",
		Price: decimal.RequireFromString("18"), Currency: "EUR", Stock: &stock, Active: true,
	}
	var written *model.ProductPlanUpdate
	products := &mockProductPlanRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.ProductPlan, error) {
			cp := *stored
			left := *stored.Stock
			cp.Stock = &left
			return &cp, nil
		},
		updateFunc: func(ctx context.Context, id string, updates *model.ProductPlanUpdate) error {
			written = updates
			// a checkout reserves two units between the read and the write
			*stored.Stock -= 2
			if updates.Name != nil {
				stored.Name = *updates.Name
			}
			return nil
		},
	}
	svc := NewPlanService(newHotelFixture().svc, &mockRoomTypeRepository{}, &mockRoomPlanRepository{}, products, testValidator(), testConfig())

	name := " Continental   breakfast "
	plan, err := svc.UpdateProductPlan(context.Background(), storeOf(brandA), stored.ID, &model.ProductPlanUpdate{Name: &name})
	require.NoError(t, err)

	require.NotNil(t, written)
	assert.Nil(t, written.Stock)
	assert.False(t, written.ClearStock)
	assert.Equal(t, "Continental breakfast", *written.Name)
	require.NotNil(t, plan.Stock)
	assert.Equal(t, 8, *plan.Stock)
}

func TestUpdateProductPlan_Restock(t *testing.T) {
	var written *model.ProductPlanUpdate
	products := &mockProductPlanRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.ProductPlan, error) {
			return &model.ProductPlan{
				ID: id, HotelID: hotel1, Name: "Breakfast",
				Price: decimal.RequireFromString("18"), Currency: "EUR", Active: true,
			}, nil
		},
		updateFunc: func(ctx context.Context, id string, updates *model.ProductPlanUpdate) error {
			written = updates
			return nil
		},
	}
	svc := NewPlanService(newHotelFixture().svc, &mockRoomTypeRepository{}, &mockRoomPlanRepository{}, products, testValidator(), testConfig())

	negative := -1
	_, err := svc.UpdateProductPlan(context.Background(), storeOf(brandA), "65f1a2b3c4d5e6f708192a06", &model.ProductPlanUpdate{Stock: &negative})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Nil(t, written)

	stock := 25
	_, err = svc.UpdateProductPlan(context.Background(), storeOf(brandA), "65f1a2b3c4d5e6f708192a06", &model.ProductPlanUpdate{Stock: &stock})
	require.NoError(t, err)
	require.NotNil(t, written)
	assert.Equal(t, 25, *written.Stock)
}

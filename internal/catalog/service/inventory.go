package service

import (
	"context"

	"staymi/internal/catalog/repository"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"
)

// Inventory is the read and stock view of the catalog that checkout uses.
type Inventory struct {
	hotels       repository.HotelRepository
	roomTypes    repository.RoomTypeRepository
	rooms        repository.RoomRepository
	roomPlans    repository.RoomPlanRepository
	productPlans repository.ProductPlanRepository
	log          *logger.Logger
}

func NewInventory(repos HotelRepositories, log *logger.Logger) *Inventory {
	return &Inventory{
		hotels:       repos.Hotels,
		roomTypes:    repos.RoomTypes,
		rooms:        repos.Rooms,
		roomPlans:    repos.RoomPlans,
		productPlans: repos.ProductPlans,
		log:          log,
	}
}

func (i *Inventory) Hotel(ctx context.Context, id string) (*model.Hotel, error) {
	hotel, err := i.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, i.log, err, "Hotel", id)
	}
	return hotel, nil
}

func (i *Inventory) RoomType(ctx context.Context, id string) (*model.RoomType, error) {
	roomType, err := i.roomTypes.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, i.log, err, "Room type", id)
	}
	return roomType, nil
}

func (i *Inventory) RoomPlan(ctx context.Context, id string) (*model.RoomPlan, error) {
	plan, err := i.roomPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, i.log, err, "Room plan", id)
	}
	return plan, nil
}

func (i *Inventory) ProductPlan(ctx context.Context, id string) (*model.ProductPlan, error) {
	plan, err := i.productPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, i.log, err, "Product plan", id)
	}
	return plan, nil
}

func (i *Inventory) CountAvailableRooms(ctx context.Context, roomTypeID string) (int64, error) {
	count, err := i.rooms.CountAvailable(ctx, roomTypeID)
	if err != nil {
		return 0, repoError(ctx, i.log, err, "Room", "")
	}
	return count, nil
}

// ReserveStock takes quantity units of a limited product. Unlimited products
// are left untouched.
func (i *Inventory) ReserveStock(ctx context.Context, product *model.ProductPlan, quantity int) error {
	if product.Stock == nil || quantity <= 0 {
		return nil
	}
	ok, err := i.productPlans.DecrementStock(ctx, product.ID, quantity)
	if err != nil {
		return repoError(ctx, i.log, err, "Product plan", product.ID)
	}
	if !ok {
		return apperrors.Conflict("Not enough stock left for " + product.Name).WithDetails(map[string]any{
			"product_plan_id": product.ID,
			"requested":       quantity,
		})
	}
	return nil
}

func (i *Inventory) RestoreStock(ctx context.Context, productPlanID string, quantity int) error {
	if productPlanID == "" || quantity <= 0 {
		return nil
	}
	if err := i.productPlans.RestoreStock(ctx, productPlanID, quantity); err != nil {
		return repoError(ctx, i.log, err, "Product plan", productPlanID)
	}
	return nil
}

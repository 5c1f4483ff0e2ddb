package service

import (
	"context"

	"staymi/internal/catalog/repository"
	"staymi/internal/catalog/validator"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/locale"
	"staymi/pkg/model"
	"staymi/pkg/sanitizer"
)

type PlanService interface {
	ListRoomPlans(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomPlan, int64, error)
	GetRoomPlan(ctx context.Context, id string) (*model.RoomPlan, error)
	CreateRoomPlan(ctx context.Context, principal *auth.Principal, hotelID string, plan *model.RoomPlan) error
	UpdateRoomPlan(ctx context.Context, principal *auth.Principal, id string, updates *model.RoomPlanUpdate) (*model.RoomPlan, error)
	DeleteRoomPlan(ctx context.Context, principal *auth.Principal, id string) error

	ListProductPlans(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.ProductPlan, int64, error)
	GetProductPlan(ctx context.Context, id string) (*model.ProductPlan, error)
	CreateProductPlan(ctx context.Context, principal *auth.Principal, hotelID string, plan *model.ProductPlan) error
	UpdateProductPlan(ctx context.Context, principal *auth.Principal, id string, updates *model.ProductPlanUpdate) (*model.ProductPlan, error)
	DeleteProductPlan(ctx context.Context, principal *auth.Principal, id string) error
}

type planService struct {
	hotels       HotelService
	roomTypes    repository.RoomTypeRepository
	roomPlans    repository.RoomPlanRepository
	productPlans repository.ProductPlanRepository
	validator    *validator.CatalogValidator
	cfg          *config.Config
}

func NewPlanService(
	hotels HotelService,
	roomTypes repository.RoomTypeRepository,
	roomPlans repository.RoomPlanRepository,
	productPlans repository.ProductPlanRepository,
	validator *validator.CatalogValidator,
	cfg *config.Config,
) PlanService {
	return &planService{
		hotels:       hotels,
		roomTypes:    roomTypes,
		roomPlans:    roomPlans,
		productPlans: productPlans,
		validator:    validator,
		cfg:          cfg,
	}
}

func (s *planService) ListRoomPlans(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomPlan, int64, error) {
	if _, err := s.hotels.GetPublic(ctx, hotelID); err != nil {
		return nil, 0, err
	}
	plans, total, err := s.roomPlans.FindByHotel(ctx, hotelID, true, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Room plan", "")
	}
	return plans, total, nil
}

// GetRoomPlan is the public view: inactive plans do not exist for buyers.
func (s *planService) GetRoomPlan(ctx context.Context, id string) (*model.RoomPlan, error) {
	plan, err := s.roomPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Room plan", id)
	}
	if !plan.Active {
		return nil, apperrors.NotFoundWithID("Room plan", id)
	}
	return plan, nil
}

func (s *planService) CreateRoomPlan(ctx context.Context, principal *auth.Principal, hotelID string, plan *model.RoomPlan) error {
	hotel, err := s.hotels.Authorize(ctx, principal, hotelID)
	if err != nil {
		return err
	}

	plan.ID = ""
	plan.HotelID = hotelID
	plan.Name = sanitizer.NormalizeName(plan.Name)
	plan.Description = sanitizer.TrimAndNormalize(plan.Description)
	plan.Currency = sanitizer.NormalizeCode(plan.Currency)
	if plan.Currency == "" {
		plan.Currency = locale.CurrencyFor(hotel.Country, s.cfg.DefaultCurrency)
	}
	if plan.MinNights == 0 {
		plan.MinNights = 1
	}

	if err := s.validator.ValidateRoomPlan(plan); err != nil {
		return invalid(ctx, s.cfg.Log, "room plan", err)
	}
	if err := checkRoomType(ctx, s.cfg.Log, s.roomTypes, hotelID, plan.RoomTypeID); err != nil {
		return err
	}

	if err := s.roomPlans.Create(ctx, plan); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room plan", "")
	}

	s.cfg.Log.Ctx(ctx).Info("Room plan created",
		"id", plan.ID,
		"hotel_id", hotelID,
		"room_type_id", plan.RoomTypeID,
		"price", plan.Price.StringFixed(2),
		"currency", plan.Currency,
	)
	return nil
}

func (s *planService) UpdateRoomPlan(ctx context.Context, principal *auth.Principal, id string, updates *model.RoomPlanUpdate) (*model.RoomPlan, error) {
	plan, err := s.roomPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Room plan", id)
	}
	if _, err := s.hotels.Authorize(ctx, principal, plan.HotelID); err != nil {
		return nil, err
	}

	if updates.Name != nil {
		plan.Name = sanitizer.NormalizeName(*updates.Name)
	}
	if updates.Description != nil {
		plan.Description = sanitizer.TrimAndNormalize(*updates.Description)
	}
	if updates.Price != nil {
		plan.Price = *updates.Price
	}
	if updates.ClearPlusPrice {
		plan.PlusPrice = nil
	} else if updates.PlusPrice != nil {
		plan.PlusPrice = updates.PlusPrice
	}
	if updates.ClearProPrice {
		plan.ProPrice = nil
	} else if updates.ProPrice != nil {
		plan.ProPrice = updates.ProPrice
	}
	if updates.BreakfastIncluded != nil {
		plan.BreakfastIncluded = *updates.BreakfastIncluded
	}
	if updates.Refundable != nil {
		plan.Refundable = *updates.Refundable
	}
	if updates.MinNights != nil {
		plan.MinNights = *updates.MinNights
	}
	if updates.Active != nil {
		plan.Active = *updates.Active
	}

	if err := s.validator.ValidateRoomPlan(plan); err != nil {
		return nil, invalid(ctx, s.cfg.Log, "room plan", err)
	}
	if updates.Name != nil {
		updates.Name = &plan.Name
	}
	if updates.Description != nil {
		updates.Description = &plan.Description
	}
	if err := s.roomPlans.Update(ctx, id, updates); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Room plan", id)
	}
	updated, err := s.roomPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Room plan", id)
	}

	s.cfg.Log.Ctx(ctx).Info("Room plan updated", "id", id, "active", updated.Active)
	return updated, nil
}

func (s *planService) DeleteRoomPlan(ctx context.Context, principal *auth.Principal, id string) error {
	plan, err := s.roomPlans.FindByID(ctx, id)
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room plan", id)
	}
	if _, err := s.hotels.Authorize(ctx, principal, plan.HotelID); err != nil {
		return err
	}
	if err := s.roomPlans.Delete(ctx, id); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room plan", id)
	}
	s.cfg.Log.Ctx(ctx).Info("Room plan deleted", "id", id)
	return nil
}

func (s *planService) ListProductPlans(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.ProductPlan, int64, error) {
	if _, err := s.hotels.GetPublic(ctx, hotelID); err != nil {
		return nil, 0, err
	}
	plans, total, err := s.productPlans.FindByHotel(ctx, hotelID, true, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Product plan", "")
	}
	return plans, total, nil
}

func (s *planService) GetProductPlan(ctx context.Context, id string) (*model.ProductPlan, error) {
	plan, err := s.productPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Product plan", id)
	}
	if !plan.Active {
		return nil, apperrors.NotFoundWithID("Product plan", id)
	}
	return plan, nil
}

func (s *planService) CreateProductPlan(ctx context.Context, principal *auth.Principal, hotelID string, plan *model.ProductPlan) error {
	hotel, err := s.hotels.Authorize(ctx, principal, hotelID)
	if err != nil {
		return err
	}

	plan.ID = ""
	plan.HotelID = hotelID
	plan.Name = sanitizer.NormalizeName(plan.Name)
	plan.Description = sanitizer.TrimAndNormalize(plan.Description)
	plan.Currency = sanitizer.NormalizeCode(plan.Currency)
	if plan.Currency == "" {
		plan.Currency = locale.CurrencyFor(hotel.Country, s.cfg.DefaultCurrency)
	}

	if err := s.validator.ValidateProductPlan(plan); err != nil {
		return invalid(ctx, s.cfg.Log, "product plan", err)
	}
	if err := s.productPlans.Create(ctx, plan); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Product plan", "")
	}

	s.cfg.Log.Ctx(ctx).Info("Product plan created", "id", plan.ID, "hotel_id", hotelID, "price", plan.Price.StringFixed(2))
	return nil
}

func (s *planService) UpdateProductPlan(ctx context.Context, principal *auth.Principal, id string, updates *model.ProductPlanUpdate) (*model.ProductPlan, error) {
	plan, err := s.productPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Product plan", id)
	}
	if _, err := s.hotels.Authorize(ctx, principal, plan.HotelID); err != nil {
		return nil, err
	}

	if updates.Name != nil {
		plan.Name = sanitizer.NormalizeName(*updates.Name)
	}
	if updates.Description != nil {
		plan.Description = sanitizer.TrimAndNormalize(*updates.Description)
	}
	if updates.Price != nil {
		plan.Price = *updates.Price
	}
	if updates.ClearStock {
		plan.Stock = nil
	} else if updates.Stock != nil {
		plan.Stock = updates.Stock
	}
	if updates.Active != nil {
		plan.Active = *updates.Active
	}

	if err := s.validator.ValidateProductPlan(plan); err != nil {
		return nil, invalid(ctx, s.cfg.Log, "product plan", err)
	}
	if updates.Name != nil {
		updates.Name = &plan.Name
	}
	if updates.Description != nil {
		updates.Description = &plan.Description
	}
	if err := s.productPlans.Update(ctx, id, updates); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Product plan", id)
	}
	updated, err := s.productPlans.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Product plan", id)
	}

	s.cfg.Log.Ctx(ctx).Info("Product plan updated", "id", id, "active", updated.Active)
	return updated, nil
}

func (s *planService) DeleteProductPlan(ctx context.Context, principal *auth.Principal, id string) error {
	plan, err := s.productPlans.FindByID(ctx, id)
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "Product plan", id)
	}
	if _, err := s.hotels.Authorize(ctx, principal, plan.HotelID); err != nil {
		return err
	}
	if err := s.productPlans.Delete(ctx, id); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Product plan", id)
	}
	s.cfg.Log.Ctx(ctx).Info("Product plan deleted", "id", id)
	return nil
}

package service

import (
	"context"

	"staymi/internal/catalog/repository"
	"staymi/internal/catalog/validator"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/locale"
	"staymi/pkg/model"
	"staymi/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// OrderCounter reports orders that still hold a hotel's inventory.
type OrderCounter interface {
	CountActiveByHotel(ctx context.Context, hotelID string) (int64, error)
}

// ImageDeleter removes stored image files.
type ImageDeleter interface {
	Delete(ctx context.Context, id string) error
}

type HotelService interface {
	ListPublic(ctx context.Context, filter repository.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error)
	GetPublic(ctx context.Context, id string) (*model.Hotel, error)
	ListForStore(ctx context.Context, principal *auth.Principal, brandID string, limit int, offset int64) ([]*model.Hotel, int64, error)
	Create(ctx context.Context, principal *auth.Principal, hotel *model.Hotel) error
	Update(ctx context.Context, principal *auth.Principal, id string, updates *model.HotelUpdate) (*model.Hotel, error)
	Delete(ctx context.Context, principal *auth.Principal, id string) error

	// Authorize loads a hotel the principal may manage.
	Authorize(ctx context.Context, principal *auth.Principal, id string) (*model.Hotel, error)
	AttachImage(ctx context.Context, principal *auth.Principal, hotelID string, image model.HotelImage) error
	DetachImage(ctx context.Context, principal *auth.Principal, hotelID, imageID string) error
}

type HotelRepositories struct {
	Hotels       repository.HotelRepository
	RoomTypes    repository.RoomTypeRepository
	Rooms        repository.RoomRepository
	RoomPlans    repository.RoomPlanRepository
	ProductPlans repository.ProductPlanRepository
}

type hotelService struct {
	repos     HotelRepositories
	orders    OrderCounter
	images    ImageDeleter
	txManager mongodb.TransactionManager
	validator *validator.CatalogValidator
	cfg       *config.Config
}

func NewHotelService(
	repos HotelRepositories,
	orders OrderCounter,
	images ImageDeleter,
	txManager mongodb.TransactionManager,
	validator *validator.CatalogValidator,
	cfg *config.Config,
) HotelService {
	return &hotelService{
		repos:     repos,
		orders:    orders,
		images:    images,
		txManager: txManager,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *hotelService) ListPublic(ctx context.Context, filter repository.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error) {
	filter.Status = model.HotelStatusActive
	filter.City = sanitizer.NormalizeCity(filter.City)
	filter.Country = sanitizer.NormalizeCode(filter.Country)

	hotels, total, err := s.repos.Hotels.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Hotel", "")
	}
	return hotels, total, nil
}

// GetPublic hides inactive hotels from anonymous callers.
func (s *hotelService) GetPublic(ctx context.Context, id string) (*model.Hotel, error) {
	hotel, err := s.repos.Hotels.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Hotel", id)
	}
	if !hotel.IsActive() {
		return nil, apperrors.NotFoundWithID("Hotel", id)
	}
	return hotel, nil
}

func (s *hotelService) ListForStore(ctx context.Context, principal *auth.Principal, brandID string, limit int, offset int64) ([]*model.Hotel, int64, error) {
	filter := repository.HotelFilter{BrandID: principal.BrandID}
	if principal.Role == auth.RoleAdmin {
		filter.BrandID = brandID
	}

	hotels, total, err := s.repos.Hotels.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Hotel", "")
	}
	return hotels, total, nil
}

func (s *hotelService) Create(ctx context.Context, principal *auth.Principal, hotel *model.Hotel) error {
	if principal.Role == auth.RoleStore {
		hotel.BrandID = principal.BrandID
	}
	if err := authorizeBrand(principal, hotel.BrandID); err != nil {
		return err
	}

	hotel.ID = ""
	hotel.Images = nil
	s.sanitize(hotel)
	if hotel.Status == "" {
		hotel.Status = model.HotelStatusActive
	}
	if hotel.TimeZone == "" {
		hotel.TimeZone = locale.TimezoneFor(hotel.Country)
	}

	if err := s.validator.ValidateHotel(hotel); err != nil {
		return invalid(ctx, s.cfg.Log, "hotel", err)
	}

	if err := s.repos.Hotels.Create(ctx, hotel); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Hotel", "")
	}

	s.cfg.Log.Ctx(ctx).Info("Hotel created",
		"id", hotel.ID,
		"brand_id", hotel.BrandID,
		"name", hotel.Name,
		"city", hotel.City,
		"timezone", hotel.TimeZone,
	)
	return nil
}

func (s *hotelService) Update(ctx context.Context, principal *auth.Principal, id string, updates *model.HotelUpdate) (*model.Hotel, error) {
	hotel, err := s.Authorize(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		hotel.Name = *updates.Name
	}
	if updates.Description != nil {
		hotel.Description = *updates.Description
	}
	if updates.Address != nil {
		hotel.Address = *updates.Address
	}
	if updates.City != nil {
		hotel.City = *updates.City
	}
	if updates.Country != nil {
		hotel.Country = *updates.Country
		if updates.TimeZone == nil {
			hotel.TimeZone = locale.TimezoneFor(hotel.Country)
		}
	}
	if updates.TimeZone != nil {
		hotel.TimeZone = *updates.TimeZone
	}
	if updates.Stars != nil {
		hotel.Stars = *updates.Stars
	}
	if updates.Amenities != nil {
		hotel.Amenities = *updates.Amenities
	}
	if updates.CheckInTime != nil {
		hotel.CheckInTime = *updates.CheckInTime
	}
	if updates.CheckOutTime != nil {
		hotel.CheckOutTime = *updates.CheckOutTime
	}
	if updates.Status != nil {
		hotel.Status = *updates.Status
	}
	s.sanitize(hotel)

	if err := s.validator.ValidateHotel(hotel); err != nil {
		return nil, invalid(ctx, s.cfg.Log, "hotel", err)
	}

	if err := s.repos.Hotels.Update(ctx, id, hotelChanges(hotel, updates)); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Hotel", id)
	}
	updated, err := s.repos.Hotels.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Hotel", id)
	}

	s.cfg.Log.Ctx(ctx).Info("Hotel updated", "id", id, "status", updated.Status)
	return updated, nil
}

// hotelChanges picks the sanitized values of the fields the request touched.
func hotelChanges(h *model.Hotel, updates *model.HotelUpdate) *model.HotelUpdate {
	changes := &model.HotelUpdate{}
	if updates.Name != nil {
		changes.Name = &h.Name
	}
	if updates.Description != nil {
		changes.Description = &h.Description
	}
	if updates.Address != nil {
		changes.Address = &h.Address
	}
	if updates.City != nil {
		changes.City = &h.City
	}
	if updates.Country != nil {
		changes.Country = &h.Country
		changes.TimeZone = &h.TimeZone
	}
	if updates.TimeZone != nil {
		changes.TimeZone = &h.TimeZone
	}
	if updates.Stars != nil {
		changes.Stars = &h.Stars
	}
	if updates.Amenities != nil {
		changes.Amenities = &h.Amenities
	}
	if updates.CheckInTime != nil {
		changes.CheckInTime = &h.CheckInTime
	}
	if updates.CheckOutTime != nil {
		changes.CheckOutTime = &h.CheckOutTime
	}
	if updates.Status != nil {
		changes.Status = &h.Status
	}
	return changes
}

// Delete removes a hotel and its rooms, room types and plans. Hotels with
// pending or paid orders are kept.
func (s *hotelService) Delete(ctx context.Context, principal *auth.Principal, id string) error {
	hotel, err := s.Authorize(ctx, principal, id)
	if err != nil {
		return err
	}

	active, err := s.orders.CountActiveByHotel(ctx, id)
	if err != nil {
		s.cfg.Log.Ctx(ctx).Error("Failed to count hotel orders", "id", id, "error", err)
		return apperrors.Internal("Failed to delete hotel", err)
	}
	if active > 0 {
		return apperrors.Conflict("Hotel has pending or paid orders and cannot be deleted").
			WithDetails(map[string]any{"active_orders": active})
	}

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repos.Rooms.DeleteByHotel(sessCtx, id); err != nil {
			return err
		}
		if _, err := s.repos.RoomPlans.DeleteByHotel(sessCtx, id); err != nil {
			return err
		}
		if _, err := s.repos.ProductPlans.DeleteByHotel(sessCtx, id); err != nil {
			return err
		}
		if _, err := s.repos.RoomTypes.DeleteByHotel(sessCtx, id); err != nil {
			return err
		}
		return s.repos.Hotels.Delete(sessCtx, id)
	})
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "Hotel", id)
	}

	for _, img := range hotel.Images {
		if err := s.images.Delete(ctx, img.ID); err != nil {
			s.cfg.Log.Ctx(ctx).Warn("Failed to delete hotel image", "hotel_id", id, "image_id", img.ID, "error", err)
		}
	}

	s.cfg.Log.Ctx(ctx).Info("Hotel deleted", "id", id, "brand_id", hotel.BrandID)
	return nil
}

func (s *hotelService) Authorize(ctx context.Context, principal *auth.Principal, id string) (*model.Hotel, error) {
	hotel, err := s.repos.Hotels.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Hotel", id)
	}
	if err := authorizeBrand(principal, hotel.BrandID); err != nil {
		return nil, err
	}
	return hotel, nil
}

func (s *hotelService) AttachImage(ctx context.Context, principal *auth.Principal, hotelID string, image model.HotelImage) error {
	if _, err := s.Authorize(ctx, principal, hotelID); err != nil {
		return err
	}
	if err := s.repos.Hotels.AddImage(ctx, hotelID, image); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Hotel", hotelID)
	}
	return nil
}

func (s *hotelService) DetachImage(ctx context.Context, principal *auth.Principal, hotelID, imageID string) error {
	if _, err := s.Authorize(ctx, principal, hotelID); err != nil {
		return err
	}
	removed, err := s.repos.Hotels.RemoveImage(ctx, hotelID, imageID)
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "Hotel", hotelID)
	}
	if !removed {
		return apperrors.NotFoundWithID("Image", imageID)
	}
	return nil
}

func (s *hotelService) sanitize(h *model.Hotel) {
	h.Name = sanitizer.NormalizeName(h.Name)
	h.Description = sanitizer.TrimAndNormalize(h.Description)
	h.Address = sanitizer.TrimAndNormalize(h.Address)
	h.City = sanitizer.NormalizeCity(h.City)
	h.Country = sanitizer.NormalizeCode(h.Country)
	h.Amenities = sanitizer.NormalizeAmenities(h.Amenities)
	h.CheckInTime = sanitizer.TrimAndNormalize(h.CheckInTime)
	h.CheckOutTime = sanitizer.TrimAndNormalize(h.CheckOutTime)
}

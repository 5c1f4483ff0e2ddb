package service

import (
	"context"
	"errors"

	"staymi/internal/catalog/repository"
	"staymi/internal/catalog/validator"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"
	"staymi/pkg/sanitizer"
	"staymi/pkg/validation"
)

type RoomService interface {
	ListRoomTypes(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, int64, error)
	CreateRoomType(ctx context.Context, principal *auth.Principal, hotelID string, roomType *model.RoomType) error
	UpdateRoomType(ctx context.Context, principal *auth.Principal, id string, updates *model.RoomTypeUpdate) (*model.RoomType, error)
	DeleteRoomType(ctx context.Context, principal *auth.Principal, id string) error

	ListRooms(ctx context.Context, principal *auth.Principal, hotelID string, limit int, offset int64) ([]*model.HotelRoom, int64, error)
	CreateRoom(ctx context.Context, principal *auth.Principal, hotelID string, room *model.HotelRoom) error
	UpdateRoom(ctx context.Context, principal *auth.Principal, id string, updates *model.HotelRoomUpdate) (*model.HotelRoom, error)
	DeleteRoom(ctx context.Context, principal *auth.Principal, id string) error
}

type roomService struct {
	hotels    HotelService
	roomTypes repository.RoomTypeRepository
	rooms     repository.RoomRepository
	roomPlans repository.RoomPlanRepository
	validator *validator.CatalogValidator
	cfg       *config.Config
}

func NewRoomService(
	hotels HotelService,
	roomTypes repository.RoomTypeRepository,
	rooms repository.RoomRepository,
	roomPlans repository.RoomPlanRepository,
	validator *validator.CatalogValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		hotels:    hotels,
		roomTypes: roomTypes,
		rooms:     rooms,
		roomPlans: roomPlans,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) ListRoomTypes(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, int64, error) {
	if _, err := s.hotels.GetPublic(ctx, hotelID); err != nil {
		return nil, 0, err
	}
	roomTypes, total, err := s.roomTypes.FindByHotel(ctx, hotelID, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Room type", "")
	}
	return roomTypes, total, nil
}

func (s *roomService) CreateRoomType(ctx context.Context, principal *auth.Principal, hotelID string, roomType *model.RoomType) error {
	if _, err := s.hotels.Authorize(ctx, principal, hotelID); err != nil {
		return err
	}

	roomType.ID = ""
	roomType.HotelID = hotelID
	sanitizeRoomType(roomType)

	if err := s.validator.ValidateRoomType(roomType); err != nil {
		return invalid(ctx, s.cfg.Log, "room type", err)
	}
	if err := s.roomTypes.Create(ctx, roomType); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room type", "")
	}

	s.cfg.Log.Ctx(ctx).Info("Room type created", "id", roomType.ID, "hotel_id", hotelID, "capacity", roomType.Capacity)
	return nil
}

func (s *roomService) UpdateRoomType(ctx context.Context, principal *auth.Principal, id string, updates *model.RoomTypeUpdate) (*model.RoomType, error) {
	roomType, err := s.authorizeRoomType(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		roomType.Name = *updates.Name
	}
	if updates.Description != nil {
		roomType.Description = *updates.Description
	}
	if updates.Capacity != nil {
		roomType.Capacity = *updates.Capacity
	}
	if updates.BedType != nil {
		roomType.BedType = *updates.BedType
	}
	if updates.SizeSqm != nil {
		roomType.SizeSqm = *updates.SizeSqm
	}
	if updates.Amenities != nil {
		roomType.Amenities = *updates.Amenities
	}
	sanitizeRoomType(roomType)

	if err := s.validator.ValidateRoomType(roomType); err != nil {
		return nil, invalid(ctx, s.cfg.Log, "room type", err)
	}
	if err := s.roomTypes.Save(ctx, roomType); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Room type", id)
	}
	return roomType, nil
}

// DeleteRoomType refuses while rooms or plans still reference the type.
func (s *roomService) DeleteRoomType(ctx context.Context, principal *auth.Principal, id string) error {
	if _, err := s.authorizeRoomType(ctx, principal, id); err != nil {
		return err
	}

	rooms, err := s.rooms.CountByRoomType(ctx, id)
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room type", id)
	}
	plans, err := s.roomPlans.CountByRoomType(ctx, id)
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room type", id)
	}
	if rooms > 0 || plans > 0 {
		return apperrors.Conflict("Room type is still in use").WithDetails(map[string]any{
			"rooms":      rooms,
			"room_plans": plans,
		})
	}

	if err := s.roomTypes.Delete(ctx, id); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room type", id)
	}
	s.cfg.Log.Ctx(ctx).Info("Room type deleted", "id", id)
	return nil
}

func (s *roomService) ListRooms(ctx context.Context, principal *auth.Principal, hotelID string, limit int, offset int64) ([]*model.HotelRoom, int64, error) {
	if _, err := s.hotels.Authorize(ctx, principal, hotelID); err != nil {
		return nil, 0, err
	}
	rooms, total, err := s.rooms.FindByHotel(ctx, hotelID, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Room", "")
	}
	return rooms, total, nil
}

func (s *roomService) CreateRoom(ctx context.Context, principal *auth.Principal, hotelID string, room *model.HotelRoom) error {
	if _, err := s.hotels.Authorize(ctx, principal, hotelID); err != nil {
		return err
	}

	room.ID = ""
	room.HotelID = hotelID
	room.RoomNumber = sanitizer.TrimAndNormalize(room.RoomNumber)
	if room.Status == "" {
		room.Status = model.RoomStatusAvailable
	}

	if err := s.validator.ValidateRoom(room); err != nil {
		return invalid(ctx, s.cfg.Log, "room", err)
	}
	if err := checkRoomType(ctx, s.cfg.Log, s.roomTypes, hotelID, room.RoomTypeID); err != nil {
		return err
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return roomError(ctx, s, err, "")
	}

	s.cfg.Log.Ctx(ctx).Info("Room created", "id", room.ID, "hotel_id", hotelID, "room_number", room.RoomNumber)
	return nil
}

func (s *roomService) UpdateRoom(ctx context.Context, principal *auth.Principal, id string, updates *model.HotelRoomUpdate) (*model.HotelRoom, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Room", id)
	}
	if _, err := s.hotels.Authorize(ctx, principal, room.HotelID); err != nil {
		return nil, err
	}

	if updates.RoomTypeID != nil && *updates.RoomTypeID != room.RoomTypeID {
		if err := checkRoomType(ctx, s.cfg.Log, s.roomTypes, room.HotelID, *updates.RoomTypeID); err != nil {
			return nil, err
		}
		room.RoomTypeID = *updates.RoomTypeID
	}
	if updates.RoomNumber != nil {
		room.RoomNumber = sanitizer.TrimAndNormalize(*updates.RoomNumber)
	}
	if updates.Floor != nil {
		room.Floor = *updates.Floor
	}
	if updates.Status != nil {
		room.Status = *updates.Status
	}

	if err := s.validator.ValidateRoom(room); err != nil {
		return nil, invalid(ctx, s.cfg.Log, "room", err)
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, roomError(ctx, s, err, id)
	}
	return room, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, principal *auth.Principal, id string) error {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room", id)
	}
	if _, err := s.hotels.Authorize(ctx, principal, room.HotelID); err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		return repoError(ctx, s.cfg.Log, err, "Room", id)
	}
	s.cfg.Log.Ctx(ctx).Info("Room deleted", "id", id, "hotel_id", room.HotelID)
	return nil
}

func (s *roomService) authorizeRoomType(ctx context.Context, principal *auth.Principal, id string) (*model.RoomType, error) {
	roomType, err := s.roomTypes.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Room type", id)
	}
	if _, err := s.hotels.Authorize(ctx, principal, roomType.HotelID); err != nil {
		return nil, err
	}
	return roomType, nil
}

// checkRoomType makes sure roomTypeID exists and belongs to hotelID.
func checkRoomType(ctx context.Context, log *logger.Logger, roomTypes repository.RoomTypeRepository, hotelID, roomTypeID string) error {
	roomType, err := roomTypes.FindByID(ctx, roomTypeID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return validation.ToAppError(validation.Fail("room_type_id", "room type does not exist"))
		}
		return repoError(ctx, log, err, "Room type", roomTypeID)
	}
	if roomType.HotelID != hotelID {
		return validation.ToAppError(validation.Fail("room_type_id", "room type belongs to another hotel"))
	}
	return nil
}

func roomError(ctx context.Context, s *roomService, err error, id string) error {
	if errors.Is(err, mongodb.ErrDuplicate) {
		return apperrors.Conflict("Room number already exists in this hotel")
	}
	return repoError(ctx, s.cfg.Log, err, "Room", id)
}

func sanitizeRoomType(rt *model.RoomType) {
	rt.Name = sanitizer.NormalizeName(rt.Name)
	rt.Description = sanitizer.TrimAndNormalize(rt.Description)
	rt.BedType = sanitizer.NormalizeLabel(rt.BedType)
	rt.Amenities = sanitizer.NormalizeAmenities(rt.Amenities)
}

package service

import (
	"context"

	"staymi/internal/catalog/repository"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockHotelRepository struct {
	createFunc      func(ctx context.Context, hotel *model.Hotel) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Hotel, error)
	findFunc        func(ctx context.Context, filter repository.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error)
	updateFunc      func(ctx context.Context, id string, updates *model.HotelUpdate) error
	removeImageFunc func(ctx context.Context, hotelID, imageID string) (bool, error)
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, hotel)
	}
	hotel.ID = "65f1a2b3c4d5e6f708192a00"
	return nil
}

func (m *mockHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockHotelRepository) Find(ctx context.Context, filter repository.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return []*model.Hotel{}, 0, nil
}

func (m *mockHotelRepository) Update(ctx context.Context, id string, updates *model.HotelUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockHotelRepository) AddImage(ctx context.Context, hotelID string, image model.HotelImage) error {
	return nil
}

func (m *mockHotelRepository) RemoveImage(ctx context.Context, hotelID, imageID string) (bool, error) {
	if m.removeImageFunc != nil {
		return m.removeImageFunc(ctx, hotelID, imageID)
	}
	return true, nil
}

func (m *mockHotelRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockRoomTypeRepository struct {
	findByIDFunc      func(ctx context.Context, id string) (*model.RoomType, error)
	deleteFunc        func(ctx context.Context, id string) error
	deleteByHotelFunc func(ctx context.Context, hotelID string) (int64, error)
}

func (m *mockRoomTypeRepository) Create(ctx context.Context, roomType *model.RoomType) error {
	roomType.ID = "65f1a2b3c4d5e6f708192a10"
	return nil
}

func (m *mockRoomTypeRepository) FindByID(ctx context.Context, id string) (*model.RoomType, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockRoomTypeRepository) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, int64, error) {
	return []*model.RoomType{}, 0, nil
}

func (m *mockRoomTypeRepository) Save(ctx context.Context, roomType *model.RoomType) error {
	return nil
}

func (m *mockRoomTypeRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRoomTypeRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	if m.deleteByHotelFunc != nil {
		return m.deleteByHotelFunc(ctx, hotelID)
	}
	return 0, nil
}

type mockRoomRepository struct {
	createFunc          func(ctx context.Context, room *model.HotelRoom) error
	findByIDFunc        func(ctx context.Context, id string) (*model.HotelRoom, error)
	saveFunc            func(ctx context.Context, room *model.HotelRoom) error
	countByRoomTypeFunc func(ctx context.Context, roomTypeID string) (int64, error)
	deleteByHotelFunc   func(ctx context.Context, hotelID string) (int64, error)
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.HotelRoom) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.HotelRoom, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockRoomRepository) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.HotelRoom, int64, error) {
	return []*model.HotelRoom{}, 0, nil
}

func (m *mockRoomRepository) Save(ctx context.Context, room *model.HotelRoom) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, room)
	}
	return nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockRoomRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	if m.deleteByHotelFunc != nil {
		return m.deleteByHotelFunc(ctx, hotelID)
	}
	return 0, nil
}

func (m *mockRoomRepository) CountByRoomType(ctx context.Context, roomTypeID string) (int64, error) {
	if m.countByRoomTypeFunc != nil {
		return m.countByRoomTypeFunc(ctx, roomTypeID)
	}
	return 0, nil
}

func (m *mockRoomRepository) CountAvailable(ctx context.Context, roomTypeID string) (int64, error) {
	return 0, nil
}

type mockRoomPlanRepository struct {
	createFunc   func(ctx context.Context, plan *model.RoomPlan) error
	findByIDFunc func(ctx context.Context, id string) (*model.RoomPlan, error)
	updateFunc   func(ctx context.Context, id string, updates *model.RoomPlanUpdate) error

	countByRoomTypeFunc func(ctx context.Context, roomTypeID string) (int64, error)
}

func (m *mockRoomPlanRepository) Create(ctx context.Context, plan *model.RoomPlan) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, plan)
	}
	return nil
}

func (m *mockRoomPlanRepository) FindByID(ctx context.Context, id string) (*model.RoomPlan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockRoomPlanRepository) FindByHotel(ctx context.Context, hotelID string, activeOnly bool, limit int, offset int64) ([]*model.RoomPlan, int64, error) {
	return []*model.RoomPlan{}, 0, nil
}

func (m *mockRoomPlanRepository) Update(ctx context.Context, id string, updates *model.RoomPlanUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockRoomPlanRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockRoomPlanRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return 0, nil
}

func (m *mockRoomPlanRepository) CountByRoomType(ctx context.Context, roomTypeID string) (int64, error) {
	if m.countByRoomTypeFunc != nil {
		return m.countByRoomTypeFunc(ctx, roomTypeID)
	}
	return 0, nil
}

type mockBrandRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Brand, error)
	saveFunc     func(ctx context.Context, brand *model.Brand) error
}

func (m *mockBrandRepository) Create(ctx context.Context, brand *model.Brand) error {
	return nil
}

func (m *mockBrandRepository) FindByID(ctx context.Context, id string) (*model.Brand, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockBrandRepository) FindByName(ctx context.Context, name string) (*model.Brand, error) {
	return nil, mongodb.ErrNotFound
}

func (m *mockBrandRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Brand, int64, error) {
	return []*model.Brand{}, 0, nil
}

func (m *mockBrandRepository) Save(ctx context.Context, brand *model.Brand) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, brand)
	}
	return nil
}

type mockProductPlanRepository struct {
	findByIDFunc       func(ctx context.Context, id string) (*model.ProductPlan, error)
	updateFunc         func(ctx context.Context, id string, updates *model.ProductPlanUpdate) error
	decrementStockFunc func(ctx context.Context, id string, quantity int) (bool, error)
	restoreStockFunc   func(ctx context.Context, id string, quantity int) error
}

func (m *mockProductPlanRepository) Create(ctx context.Context, plan *model.ProductPlan) error {
	return nil
}

func (m *mockProductPlanRepository) FindByID(ctx context.Context, id string) (*model.ProductPlan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockProductPlanRepository) FindByHotel(ctx context.Context, hotelID string, activeOnly bool, limit int, offset int64) ([]*model.ProductPlan, int64, error) {
	return []*model.ProductPlan{}, 0, nil
}

func (m *mockProductPlanRepository) Update(ctx context.Context, id string, updates *model.ProductPlanUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockProductPlanRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockProductPlanRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return 0, nil
}

func (m *mockProductPlanRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	if m.decrementStockFunc != nil {
		return m.decrementStockFunc(ctx, id, quantity)
	}
	return true, nil
}

func (m *mockProductPlanRepository) RestoreStock(ctx context.Context, id string, quantity int) error {
	if m.restoreStockFunc != nil {
		return m.restoreStockFunc(ctx, id, quantity)
	}
	return nil
}

type mockOrderCounter struct {
	active int64
}

func (m *mockOrderCounter) CountActiveByHotel(ctx context.Context, hotelID string) (int64, error) {
	return m.active, nil
}

type mockImageDeleter struct {
	deleted []string
}

func (m *mockImageDeleter) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// inlineTransactions runs the callback directly without a server session.
type inlineTransactions struct {
	calls int
}

func (m *inlineTransactions) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	m.calls++
	return fn(mongo.NewSessionContext(ctx, nil))
}

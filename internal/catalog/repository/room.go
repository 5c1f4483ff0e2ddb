package repository

import (
	"context"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.HotelRoom) error
	FindByID(ctx context.Context, id string) (*model.HotelRoom, error)
	FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.HotelRoom, int64, error)
	Save(ctx context.Context, room *model.HotelRoom) error
	Delete(ctx context.Context, id string) error
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
	CountByRoomType(ctx context.Context, roomTypeID string) (int64, error)
	CountAvailable(ctx context.Context, roomTypeID string) (int64, error)
}

type mongoRoomRepository struct {
	*mongodb.Store[model.HotelRoom]
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		Store: mongodb.NewStore[model.HotelRoom](db, HotelRoomsCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.HotelRoom) error {
	now := mongodb.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	id, err := r.Insert(ctx, room)
	if err != nil {
		return err
	}
	room.ID = id
	return nil
}

func (r *mongoRoomRepository) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.HotelRoom, int64, error) {
	return r.FindPage(ctx, bson.M{"hotel_id": hotelID}, bson.D{{Key: "floor", Value: 1}, {Key: "room_number", Value: 1}}, limit, offset)
}

func (r *mongoRoomRepository) Save(ctx context.Context, room *model.HotelRoom) error {
	room.UpdatedAt = mongodb.Now()
	return r.ReplaceByID(ctx, room.ID, room)
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}

func (r *mongoRoomRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return r.DeleteMany(ctx, bson.M{"hotel_id": hotelID})
}

func (r *mongoRoomRepository) CountByRoomType(ctx context.Context, roomTypeID string) (int64, error) {
	return r.Count(ctx, bson.M{"room_type_id": roomTypeID})
}

// CountAvailable counts the sellable rooms of a type. Rooms under maintenance are excluded.
func (r *mongoRoomRepository) CountAvailable(ctx context.Context, roomTypeID string) (int64, error) {
	return r.Count(ctx, bson.M{"room_type_id": roomTypeID, "status": model.RoomStatusAvailable})
}

package repository

import (
	"context"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type RoomTypeRepository interface {
	Create(ctx context.Context, roomType *model.RoomType) error
	FindByID(ctx context.Context, id string) (*model.RoomType, error)
	FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, int64, error)
	Save(ctx context.Context, roomType *model.RoomType) error
	Delete(ctx context.Context, id string) error
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
}

type mongoRoomTypeRepository struct {
	*mongodb.Store[model.RoomType]
}

func NewMongoRoomTypeRepository(cfg *config.Config) RoomTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomTypeRepository{
		Store: mongodb.NewStore[model.RoomType](db, RoomTypesCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoRoomTypeRepository) Create(ctx context.Context, roomType *model.RoomType) error {
	now := mongodb.Now()
	roomType.CreatedAt = now
	roomType.UpdatedAt = now

	id, err := r.Insert(ctx, roomType)
	if err != nil {
		return err
	}
	roomType.ID = id
	return nil
}

func (r *mongoRoomTypeRepository) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.RoomType, int64, error) {
	return r.FindPage(ctx, bson.M{"hotel_id": hotelID}, bsonSort("name", 1), limit, offset)
}

func (r *mongoRoomTypeRepository) Save(ctx context.Context, roomType *model.RoomType) error {
	roomType.UpdatedAt = mongodb.Now()
	return r.ReplaceByID(ctx, roomType.ID, roomType)
}

func (r *mongoRoomTypeRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}

func (r *mongoRoomTypeRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return r.DeleteMany(ctx, bson.M{"hotel_id": hotelID})
}

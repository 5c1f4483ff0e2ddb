package repository

import (
	"context"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	FindByID(ctx context.Context, id string) (*model.Brand, error)
	FindByName(ctx context.Context, name string) (*model.Brand, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Brand, int64, error)
	Save(ctx context.Context, brand *model.Brand) error
}

type mongoBrandRepository struct {
	*mongodb.Store[model.Brand]
}

func NewMongoBrandRepository(cfg *config.Config) BrandRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBrandRepository{
		Store: mongodb.NewStore[model.Brand](db, BrandsCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoBrandRepository) Create(ctx context.Context, brand *model.Brand) error {
	now := mongodb.Now()
	brand.CreatedAt = now
	brand.UpdatedAt = now

	id, err := r.Insert(ctx, brand)
	if err != nil {
		return err
	}
	brand.ID = id
	return nil
}

func (r *mongoBrandRepository) FindByName(ctx context.Context, name string) (*model.Brand, error) {
	return r.FindOne(ctx, bson.M{"name": name})
}

func (r *mongoBrandRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Brand, int64, error) {
	return r.FindPage(ctx, bson.M{}, bson.D{{Key: "name", Value: 1}}, limit, offset)
}

func (r *mongoBrandRepository) Save(ctx context.Context, brand *model.Brand) error {
	brand.UpdatedAt = mongodb.Now()
	return r.ReplaceByID(ctx, brand.ID, brand)
}

package repository

import (
	"context"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type StoreUserRepository interface {
	Create(ctx context.Context, user *model.StoreUser) error
	FindByID(ctx context.Context, id string) (*model.StoreUser, error)
	FindByEmail(ctx context.Context, email string) (*model.StoreUser, error)
	FindAll(ctx context.Context, search string, limit int, offset int64) ([]*model.StoreUser, int64, error)
	SetBrand(ctx context.Context, id, brandID string) error
}

type mongoStoreUserRepository struct {
	*mongodb.Store[model.StoreUser]
}

func NewMongoStoreUserRepository(cfg *config.Config) StoreUserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStoreUserRepository{
		Store: mongodb.NewStore[model.StoreUser](db, StoreUsersCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoStoreUserRepository) Create(ctx context.Context, user *model.StoreUser) error {
	now := mongodb.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	id, err := r.Insert(ctx, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *mongoStoreUserRepository) FindByEmail(ctx context.Context, email string) (*model.StoreUser, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *mongoStoreUserRepository) FindAll(ctx context.Context, search string, limit int, offset int64) ([]*model.StoreUser, int64, error) {
	return r.FindPage(ctx, searchFilter(search, "email", "name"),
		bson.D{{Key: "created_at", Value: -1}}, limit, offset)
}

func (r *mongoStoreUserRepository) SetBrand(ctx context.Context, id, brandID string) error {
	return r.UpdateByID(ctx, id, bson.M{"$set": bson.M{"brand_id": brandID, "updated_at": mongodb.Now()}})
}

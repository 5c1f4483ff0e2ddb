package repository

import (
	"context"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type AdminUserRepository interface {
	Create(ctx context.Context, admin *model.AdminUser) error
	FindByID(ctx context.Context, id string) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.AdminUser, int64, error)
	Delete(ctx context.Context, id string) error
}

type mongoAdminUserRepository struct {
	*mongodb.Store[model.AdminUser]
}

func NewMongoAdminUserRepository(cfg *config.Config) AdminUserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAdminUserRepository{
		Store: mongodb.NewStore[model.AdminUser](db, AdminUsersCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoAdminUserRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	admin.CreatedAt = mongodb.Now()

	id, err := r.Insert(ctx, admin)
	if err != nil {
		return err
	}
	admin.ID = id
	return nil
}

func (r *mongoAdminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *mongoAdminUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.AdminUser, int64, error) {
	return r.FindPage(ctx, bson.M{}, bson.D{{Key: "created_at", Value: 1}}, limit, offset)
}

func (r *mongoAdminUserRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}

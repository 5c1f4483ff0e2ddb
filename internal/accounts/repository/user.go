package repository

import (
	"context"
	"regexp"
	"strings"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	UsersCollection      = "users"
	StoreUsersCollection = "store_users"
	AdminUsersCollection = "admin_users"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context, search string, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, id string, updates *model.UserUpdate) error
	SetStatus(ctx context.Context, id string, status model.UserStatus) error
	Delete(ctx context.Context, id string) error
}

type mongoUserRepository struct {
	*mongodb.Store[model.User]
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		Store: mongodb.NewStore[model.User](db, UsersCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
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

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

// FindAll pages through users, optionally matching search against e-mail and names.
func (r *mongoUserRepository) FindAll(ctx context.Context, search string, limit int, offset int64) ([]*model.User, int64, error) {
	return r.FindPage(ctx, searchFilter(search, "email", "first_name", "last_name"),
		bson.D{{Key: "created_at", Value: -1}}, limit, offset)
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, updates *model.UserUpdate) error {
	set := bson.M{"updated_at": mongodb.Now()}
	if updates.FirstName != nil {
		set["first_name"] = *updates.FirstName
	}
	if updates.LastName != nil {
		set["last_name"] = *updates.LastName
	}
	if updates.Phone != nil {
		set["phone"] = *updates.Phone
	}
	return r.UpdateByID(ctx, id, bson.M{"$set": set})
}

func (r *mongoUserRepository) SetStatus(ctx context.Context, id string, status model.UserStatus) error {
	return r.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status, "updated_at": mongodb.Now()}})
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}

func searchFilter(search string, fields ...string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return bson.M{}
	}
	pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return bson.M{"$or": or}
}

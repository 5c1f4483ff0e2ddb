package repository

import (
	"context"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type RoomPlanRepository interface {
	Create(ctx context.Context, plan *model.RoomPlan) error
	FindByID(ctx context.Context, id string) (*model.RoomPlan, error)
	FindByHotel(ctx context.Context, hotelID string, activeOnly bool, limit int, offset int64) ([]*model.RoomPlan, int64, error)
	// Update writes only the fields present in updates.
	Update(ctx context.Context, id string, updates *model.RoomPlanUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
	CountByRoomType(ctx context.Context, roomTypeID string) (int64, error)
}

type ProductPlanRepository interface {
	Create(ctx context.Context, plan *model.ProductPlan) error
	FindByID(ctx context.Context, id string) (*model.ProductPlan, error)
	FindByHotel(ctx context.Context, hotelID string, activeOnly bool, limit int, offset int64) ([]*model.ProductPlan, int64, error)
	// Update writes only the fields present in updates. Stock is touched only
	// when the update sets or clears it, never from a stale read.
	Update(ctx context.Context, id string, updates *model.ProductPlanUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByHotel(ctx context.Context, hotelID string) (int64, error)
	DecrementStock(ctx context.Context, id string, quantity int) (bool, error)
	RestoreStock(ctx context.Context, id string, quantity int) error
}

type mongoRoomPlanRepository struct {
	*mongodb.Store[model.RoomPlan]
}

func NewMongoRoomPlanRepository(cfg *config.Config) RoomPlanRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomPlanRepository{
		Store: mongodb.NewStore[model.RoomPlan](db, RoomPlansCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoRoomPlanRepository) Create(ctx context.Context, plan *model.RoomPlan) error {
	now := mongodb.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	id, err := r.Insert(ctx, plan)
	if err != nil {
		return err
	}
	plan.ID = id
	return nil
}

func (r *mongoRoomPlanRepository) FindByHotel(ctx context.Context, hotelID string, activeOnly bool, limit int, offset int64) ([]*model.RoomPlan, int64, error) {
	return r.FindPage(ctx, hotelPlans(hotelID, activeOnly), bsonSort("price", 1), limit, offset)
}

func (r *mongoRoomPlanRepository) Update(ctx context.Context, id string, updates *model.RoomPlanUpdate) error {
	set := bson.M{"updated_at": mongodb.Now()}
	unset := bson.M{}
	if updates.Name != nil {
		set["name"] = *updates.Name
	}
	if updates.Description != nil {
		set["description"] = *updates.Description
	}
	if updates.Price != nil {
		set["price"] = *updates.Price
	}
	if updates.ClearPlusPrice {
		unset["plus_price"] = ""
	} else if updates.PlusPrice != nil {
		set["plus_price"] = *updates.PlusPrice
	}
	if updates.ClearProPrice {
		unset["pro_price"] = ""
	} else if updates.ProPrice != nil {
		set["pro_price"] = *updates.ProPrice
	}
	if updates.BreakfastIncluded != nil {
		set["breakfast_included"] = *updates.BreakfastIncluded
	}
	if updates.Refundable != nil {
		set["refundable"] = *updates.Refundable
	}
	if updates.MinNights != nil {
		set["min_nights"] = *updates.MinNights
	}
	if updates.Active != nil {
		set["active"] = *updates.Active
	}
	return r.UpdateByID(ctx, id, setUnset(set, unset))
}

func (r *mongoRoomPlanRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}

func (r *mongoRoomPlanRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return r.DeleteMany(ctx, bson.M{"hotel_id": hotelID})
}

func (r *mongoRoomPlanRepository) CountByRoomType(ctx context.Context, roomTypeID string) (int64, error) {
	return r.Count(ctx, bson.M{"room_type_id": roomTypeID})
}

type mongoProductPlanRepository struct {
	*mongodb.Store[model.ProductPlan]
}

func NewMongoProductPlanRepository(cfg *config.Config) ProductPlanRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProductPlanRepository{
		Store: mongodb.NewStore[model.ProductPlan](db, ProductPlansCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoProductPlanRepository) Create(ctx context.Context, plan *model.ProductPlan) error {
	now := mongodb.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	id, err := r.Insert(ctx, plan)
	if err != nil {
		return err
	}
	plan.ID = id
	return nil
}

func (r *mongoProductPlanRepository) FindByHotel(ctx context.Context, hotelID string, activeOnly bool, limit int, offset int64) ([]*model.ProductPlan, int64, error) {
	return r.FindPage(ctx, hotelPlans(hotelID, activeOnly), bsonSort("name", 1), limit, offset)
}

func (r *mongoProductPlanRepository) Update(ctx context.Context, id string, updates *model.ProductPlanUpdate) error {
	set := bson.M{"updated_at": mongodb.Now()}
	unset := bson.M{}
	if updates.Name != nil {
		set["name"] = *updates.Name
	}
	if updates.Description != nil {
		set["description"] = *updates.Description
	}
	if updates.Price != nil {
		set["price"] = *updates.Price
	}
	if updates.ClearStock {
		unset["stock"] = ""
	} else if updates.Stock != nil {
		set["stock"] = *updates.Stock
	}
	if updates.Active != nil {
		set["active"] = *updates.Active
	}
	return r.UpdateByID(ctx, id, setUnset(set, unset))
}

func (r *mongoProductPlanRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}

func (r *mongoProductPlanRepository) DeleteByHotel(ctx context.Context, hotelID string) (int64, error) {
	return r.DeleteMany(ctx, bson.M{"hotel_id": hotelID})
}

// DecrementStock takes quantity units when at least that many are left. False
// means the stock was insufficient. Plans without a stock field are unlimited
// and never match.
func (r *mongoProductPlanRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	oid, err := mongodb.ObjectID(id)
	if err != nil {
		return false, err
	}
	result, err := r.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}, "$set": bson.M{"updated_at": mongodb.Now()}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// RestoreStock gives quantity units back to a limited plan.
func (r *mongoProductPlanRepository) RestoreStock(ctx context.Context, id string, quantity int) error {
	oid, err := mongodb.ObjectID(id)
	if err != nil {
		return err
	}
	_, err = r.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$type": "number"}},
		bson.M{"$inc": bson.M{"stock": quantity}, "$set": bson.M{"updated_at": mongodb.Now()}},
	)
	return err
}

func setUnset(set, unset bson.M) bson.M {
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func hotelPlans(hotelID string, activeOnly bool) bson.M {
	q := bson.M{"hotel_id": hotelID}
	if activeOnly {
		q["active"] = true
	}
	return q
}

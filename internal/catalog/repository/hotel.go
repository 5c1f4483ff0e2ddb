package repository

import (
	"context"
	"regexp"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type HotelFilter struct {
	BrandID string
	City    string
	Country string
	Status  model.HotelStatus
}

func (f HotelFilter) bson() bson.M {
	q := bson.M{}
	if f.BrandID != "" {
		q["brand_id"] = f.BrandID
	}
	if f.City != "" {
		q["city"] = bson.M{"$regex": "^" + regexp.QuoteMeta(f.City) + "$", "$options": "i"}
	}
	if f.Country != "" {
		q["country"] = f.Country
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	Find(ctx context.Context, filter HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error)
	// Update writes only the fields present in updates. Images are changed
	// through AddImage and RemoveImage alone.
	Update(ctx context.Context, id string, updates *model.HotelUpdate) error
	AddImage(ctx context.Context, hotelID string, image model.HotelImage) error
	RemoveImage(ctx context.Context, hotelID, imageID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type mongoHotelRepository struct {
	*mongodb.Store[model.Hotel]
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHotelRepository{
		Store: mongodb.NewStore[model.Hotel](db, HotelsCollection, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	now := mongodb.Now()
	hotel.CreatedAt = now
	hotel.UpdatedAt = now
	if hotel.Images == nil {
		hotel.Images = []model.HotelImage{}
	}

	id, err := r.Insert(ctx, hotel)
	if err != nil {
		return err
	}
	hotel.ID = id
	return nil
}

func (r *mongoHotelRepository) Find(ctx context.Context, filter HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error) {
	return r.FindPage(ctx, filter.bson(), newestFirst, limit, offset)
}

func (r *mongoHotelRepository) Update(ctx context.Context, id string, updates *model.HotelUpdate) error {
	set := bson.M{"updated_at": mongodb.Now()}
	fields := []struct {
		key   string
		value *string
	}{
		{"name", updates.Name},
		{"description", updates.Description},
		{"address", updates.Address},
		{"city", updates.City},
		{"country", updates.Country},
		{"time_zone", updates.TimeZone},
		{"check_in_time", updates.CheckInTime},
		{"check_out_time", updates.CheckOutTime},
	}
	for _, f := range fields {
		if f.value != nil {
			set[f.key] = *f.value
		}
	}
	if updates.Stars != nil {
		set["stars"] = *updates.Stars
	}
	if updates.Amenities != nil {
		set["amenities"] = *updates.Amenities
	}
	if updates.Status != nil {
		set["status"] = *updates.Status
	}
	return r.UpdateByID(ctx, id, bson.M{"$set": set})
}

func (r *mongoHotelRepository) AddImage(ctx context.Context, hotelID string, image model.HotelImage) error {
	return r.UpdateByID(ctx, hotelID, bson.M{
		"$push": bson.M{"images": image},
		"$set":  bson.M{"updated_at": mongodb.Now()},
	})
}

// RemoveImage pulls imageID from the hotel. False means the hotel had no such image.
func (r *mongoHotelRepository) RemoveImage(ctx context.Context, hotelID, imageID string) (bool, error) {
	oid, err := mongodb.ObjectID(hotelID)
	if err != nil {
		return false, err
	}
	result, err := r.UpdateOne(ctx,
		bson.M{"_id": oid, "images.id": imageID},
		bson.M{
			"$pull": bson.M{"images": bson.M{"id": imageID}},
			"$set":  bson.M{"updated_at": mongodb.Now()},
		},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoHotelRepository) Delete(ctx context.Context, id string) error {
	return r.DeleteByID(ctx, id)
}

func bsonSort(field string, order int) bson.D {
	return bson.D{{Key: field, Value: order}}
}

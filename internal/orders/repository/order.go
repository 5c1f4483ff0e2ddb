package repository

import (
	"context"
	"time"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

const CollectionName = "order_room_product"

type Filter struct {
	UserID  string
	HotelID string
	Status  model.OrderStatus
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.HotelID != "" {
		q["hotel_id"] = f.HotelID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	Find(ctx context.Context, filter Filter, limit int, offset int64) ([]*model.Order, int64, error)

	// CountOverlapping counts orders of the room type whose stay overlaps
	// [checkIn, checkOut) and that still hold a room: paid, or pending and
	// created after pendingSince. The order excludeID is not counted.
	CountOverlapping(ctx context.Context, roomTypeID, checkIn, checkOut string, pendingSince time.Time, excludeID string) (int64, error)
	CountActiveByHotel(ctx context.Context, hotelID string) (int64, error)

	SetPayment(ctx context.Context, id, paymentID, paypalOrderID, approvalURL string) error
	MarkPaid(ctx context.Context, id string, at time.Time) (bool, error)
	MarkPaymentFailed(ctx context.Context, id string) (bool, error)
	Cancel(ctx context.Context, id string, at time.Time) (bool, error)

	// FindStalePending lists pending orders created at or before cutoff,
	// oldest first.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*model.Order, error)
	// Expire cancels a pending order created at or before cutoff. False means
	// it was settled, cancelled or still inside its hold.
	Expire(ctx context.Context, id string, cutoff, at time.Time) (bool, error)
}

type mongoOrderRepository struct {
	*mongodb.Store[model.Order]
	pendingTTL time.Duration
}

func NewMongoOrderRepository(cfg *config.Config) OrderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOrderRepository{
		Store:      mongodb.NewStore[model.Order](db, CollectionName, cfg.ReadTimeout, cfg.WriteTimeout),
		pendingTTL: cfg.PendingOrderTTL,
	}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	now := mongodb.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	id, err := r.Insert(ctx, order)
	if err != nil {
		return err
	}
	order.ID = id
	return nil
}

func (r *mongoOrderRepository) Find(ctx context.Context, filter Filter, limit int, offset int64) ([]*model.Order, int64, error) {
	return r.FindPage(ctx, filter.bson(), bson.D{{Key: "created_at", Value: -1}}, limit, offset)
}

func holdingInventory(pendingSince time.Time) bson.A {
	return bson.A{
		bson.M{"status": model.OrderPaid},
		bson.M{"status": model.OrderPending, "created_at": bson.M{"$gt": pendingSince}},
	}
}

// Dates are stored as YYYY-MM-DD, so string comparison orders them.
func (r *mongoOrderRepository) CountOverlapping(ctx context.Context, roomTypeID, checkIn, checkOut string, pendingSince time.Time, excludeID string) (int64, error) {
	filter := bson.M{
		"room_type_id": roomTypeID,
		"check_in":     bson.M{"$lt": checkOut},
		"check_out":    bson.M{"$gt": checkIn},
		"$or":          holdingInventory(pendingSince),
	}
	if excludeID != "" {
		oid, err := mongodb.ObjectID(excludeID)
		if err != nil {
			return 0, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}
	return r.Count(ctx, filter)
}

func (r *mongoOrderRepository) CountActiveByHotel(ctx context.Context, hotelID string) (int64, error) {
	return r.Count(ctx, bson.M{
		"hotel_id": hotelID,
		"$or":      holdingInventory(mongodb.Now().Add(-r.pendingTTL)),
	})
}

func (r *mongoOrderRepository) SetPayment(ctx context.Context, id, paymentID, paypalOrderID, approvalURL string) error {
	return r.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"payment_id":      paymentID,
		"paypal_order_id": paypalOrderID,
		"approval_url":    approvalURL,
		"updated_at":      mongodb.Now(),
	}})
}

// MarkPaid moves a pending order to paid. False means it was no longer pending.
func (r *mongoOrderRepository) MarkPaid(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.fromPending(ctx, id, model.OrderPaid, bson.M{"paid_at": at})
}

func (r *mongoOrderRepository) MarkPaymentFailed(ctx context.Context, id string) (bool, error) {
	return r.fromPending(ctx, id, model.OrderPaymentFailed, bson.M{})
}

func (r *mongoOrderRepository) Cancel(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.fromPending(ctx, id, model.OrderCancelled, bson.M{"cancelled_at": at})
}

func (r *mongoOrderRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*model.Order, error) {
	return r.Store.Find(ctx,
		bson.M{"status": model.OrderPending, "created_at": bson.M{"$lte": cutoff}},
		bson.D{{Key: "created_at", Value: 1}},
		limit, 0,
	)
}

func (r *mongoOrderRepository) Expire(ctx context.Context, id string, cutoff, at time.Time) (bool, error) {
	return r.transition(ctx, id, bson.M{"created_at": bson.M{"$lte": cutoff}}, model.OrderCancelled, bson.M{"cancelled_at": at})
}

func (r *mongoOrderRepository) fromPending(ctx context.Context, id string, to model.OrderStatus, set bson.M) (bool, error) {
	return r.transition(ctx, id, bson.M{}, to, set)
}

func (r *mongoOrderRepository) transition(ctx context.Context, id string, where bson.M, to model.OrderStatus, set bson.M) (bool, error) {
	oid, err := mongodb.ObjectID(id)
	if err != nil {
		return false, err
	}

	where["_id"] = oid
	where["status"] = model.OrderPending
	set["status"] = to
	set["updated_at"] = mongodb.Now()

	result, err := r.UpdateOne(ctx, where, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

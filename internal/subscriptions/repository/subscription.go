package repository

import (
	"context"
	"time"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "subscriptions"

type Filter struct {
	UserID string
	Status model.SubscriptionStatus
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	FindByID(ctx context.Context, id string) (*model.Subscription, error)
	Find(ctx context.Context, filter Filter, limit int, offset int64) ([]*model.Subscription, int64, error)

	// FindEffective returns the newest active or cancelled subscription of
	// the user that has not expired at now.
	FindEffective(ctx context.Context, userID string, now time.Time) (*model.Subscription, error)
	// FindLatestRunning returns the subscription of tier that runs the longest
	// past now. Cancelled subscriptions count until they expire.
	FindLatestRunning(ctx context.Context, userID string, tier model.SubscriptionTier, now time.Time) (*model.Subscription, error)

	SetPayment(ctx context.Context, id, paymentID, approvalURL string) error
	Activate(ctx context.Context, id string, startedAt, expiresAt time.Time) (bool, error)
	MarkPaymentFailed(ctx context.Context, id string) (bool, error)
	Cancel(ctx context.Context, id string, at time.Time) (bool, error)
	// SupersedeOthers retires every other active or cancelled subscription of the user.
	SupersedeOthers(ctx context.Context, userID, keepID string) (int64, error)
}

type mongoSubscriptionRepository struct {
	*mongodb.Store[model.Subscription]
}

func NewMongoSubscriptionRepository(cfg *config.Config) SubscriptionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSubscriptionRepository{
		Store: mongodb.NewStore[model.Subscription](db, CollectionName, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoSubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	now := mongodb.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	id, err := r.Insert(ctx, sub)
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}

func (r *mongoSubscriptionRepository) Find(ctx context.Context, filter Filter, limit int, offset int64) ([]*model.Subscription, int64, error) {
	return r.FindPage(ctx, filter.bson(), bson.D{{Key: "created_at", Value: -1}}, limit, offset)
}

func (r *mongoSubscriptionRepository) FindEffective(ctx context.Context, userID string, now time.Time) (*model.Subscription, error) {
	return r.FindOne(ctx,
		bson.M{
			"user_id":    userID,
			"status":     bson.M{"$in": bson.A{model.SubscriptionActive, model.SubscriptionCancelled}},
			"expires_at": bson.M{"$gt": now},
		},
		options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}}),
	)
}

func (r *mongoSubscriptionRepository) FindLatestRunning(ctx context.Context, userID string, tier model.SubscriptionTier, now time.Time) (*model.Subscription, error) {
	return r.FindOne(ctx,
		bson.M{
			"user_id":    userID,
			"tier":       tier,
			"status":     bson.M{"$in": bson.A{model.SubscriptionActive, model.SubscriptionCancelled}},
			"expires_at": bson.M{"$gt": now},
		},
		options.FindOne().SetSort(bson.D{{Key: "expires_at", Value: -1}}),
	)
}

func (r *mongoSubscriptionRepository) SetPayment(ctx context.Context, id, paymentID, approvalURL string) error {
	return r.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"payment_id":   paymentID,
		"approval_url": approvalURL,
		"updated_at":   mongodb.Now(),
	}})
}

func (r *mongoSubscriptionRepository) Activate(ctx context.Context, id string, startedAt, expiresAt time.Time) (bool, error) {
	return r.transition(ctx, id, model.SubscriptionPending, model.SubscriptionActive, bson.M{
		"started_at": startedAt,
		"expires_at": expiresAt,
	})
}

func (r *mongoSubscriptionRepository) MarkPaymentFailed(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, model.SubscriptionPending, model.SubscriptionFailed, bson.M{})
}

func (r *mongoSubscriptionRepository) Cancel(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.transition(ctx, id, model.SubscriptionActive, model.SubscriptionCancelled, bson.M{"cancelled_at": at})
}

func (r *mongoSubscriptionRepository) SupersedeOthers(ctx context.Context, userID, keepID string) (int64, error) {
	oid, err := mongodb.ObjectID(keepID)
	if err != nil {
		return 0, err
	}
	return r.UpdateMany(ctx,
		bson.M{
			"_id":     bson.M{"$ne": oid},
			"user_id": userID,
			"status":  bson.M{"$in": bson.A{model.SubscriptionActive, model.SubscriptionCancelled}},
		},
		bson.M{"$set": bson.M{"status": model.SubscriptionSuperseded, "updated_at": mongodb.Now()}},
	)
}

func (r *mongoSubscriptionRepository) transition(ctx context.Context, id string, from, to model.SubscriptionStatus, set bson.M) (bool, error) {
	oid, err := mongodb.ObjectID(id)
	if err != nil {
		return false, err
	}

	set["status"] = to
	set["updated_at"] = mongodb.Now()

	result, err := r.UpdateOne(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

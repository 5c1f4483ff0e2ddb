package repository

import (
	"context"
	"time"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "payments"

type Filter struct {
	UserID  string
	Status  model.PaymentStatus
	Purpose model.PaymentPurpose
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Purpose != "" {
		q["purpose"] = f.Purpose
	}
	return q
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*model.Payment, error)
	Find(ctx context.Context, filter Filter, limit int, offset int64) ([]*model.Payment, int64, error)
	SetProviderOrder(ctx context.Context, id, providerOrderID, providerStatus, approvalURL string) error
	MarkCompleted(ctx context.Context, id, captureID, providerStatus string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id, providerStatus, reason string) (bool, error)
}

type mongoPaymentRepository struct {
	*mongodb.Store[model.Payment]
}

func NewMongoPaymentRepository(cfg *config.Config) PaymentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPaymentRepository{
		Store: mongodb.NewStore[model.Payment](db, CollectionName, cfg.ReadTimeout, cfg.WriteTimeout),
	}
}

func (r *mongoPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	now := mongodb.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	id, err := r.Insert(ctx, payment)
	if err != nil {
		return err
	}
	payment.ID = id
	return nil
}

func (r *mongoPaymentRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*model.Payment, error) {
	return r.FindOne(ctx, bson.M{"provider": model.ProviderPayPal, "provider_order_id": providerOrderID})
}

func (r *mongoPaymentRepository) Find(ctx context.Context, filter Filter, limit int, offset int64) ([]*model.Payment, int64, error) {
	return r.FindPage(ctx, filter.bson(), bson.D{{Key: "created_at", Value: -1}}, limit, offset)
}

func (r *mongoPaymentRepository) SetProviderOrder(ctx context.Context, id, providerOrderID, providerStatus, approvalURL string) error {
	return r.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"provider_order_id": providerOrderID,
		"provider_status":   providerStatus,
		"approval_url":      approvalURL,
		"updated_at":        mongodb.Now(),
	}})
}

// MarkCompleted moves a created payment to completed. False means the payment
// had already left the created state.
func (r *mongoPaymentRepository) MarkCompleted(ctx context.Context, id, captureID, providerStatus string, at time.Time) (bool, error) {
	return r.transition(ctx, id, model.PaymentCompleted, bson.M{
		"capture_id":      captureID,
		"provider_status": providerStatus,
		"captured_at":     at,
	})
}

func (r *mongoPaymentRepository) MarkFailed(ctx context.Context, id, providerStatus, reason string) (bool, error) {
	return r.transition(ctx, id, model.PaymentFailed, bson.M{
		"provider_status": providerStatus,
		"failure_reason":  reason,
	})
}

func (r *mongoPaymentRepository) transition(ctx context.Context, id string, to model.PaymentStatus, set bson.M) (bool, error) {
	oid, err := mongodb.ObjectID(id)
	if err != nil {
		return false, err
	}

	set["status"] = to
	set["updated_at"] = mongodb.Now()

	var result *mongo.UpdateResult
	result, err = r.UpdateOne(ctx,
		bson.M{"_id": oid, "status": model.PaymentCreated},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

package mongo

import (
	"context"
	"fmt"

	accountsrepo "staymi/internal/accounts/repository"
	catalogrepo "staymi/internal/catalog/repository"
	"staymi/internal/migrations/mongo/validators"
	ordersrepo "staymi/internal/orders/repository"
	paymentsrepo "staymi/internal/payments/repository"
	subscriptionsrepo "staymi/internal/subscriptions/repository"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	uniqueEmail = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	StoreUsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "brand_id", Value: 1}}},
	}

	BrandsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}

	HotelsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "brand_id", Value: 1}}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "country", Value: 1},
			{Key: "city", Value: 1},
		}},
	}

	RoomTypesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "hotel_id", Value: 1}}},
	}

	HotelRoomsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "hotel_id", Value: 1}, {Key: "room_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "room_type_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	RoomPlansIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "hotel_id", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "room_type_id", Value: 1}}},
	}

	ProductPlansIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "hotel_id", Value: 1}, {Key: "active", Value: 1}}},
	}

	OrdersIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "room_type_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "check_in", Value: 1},
			{Key: "check_out", Value: 1},
		}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "hotel_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	PaymentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider_order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "reference_id", Value: 1}, {Key: "purpose", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	SubscriptionsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "expires_at", Value: -1},
		}},
	}

	// The TTL monitor reaps locks whose holder died before releasing them.
	LocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		accountsrepo.UsersCollection:      {Indexes: uniqueEmail, Validator: validators.UserValidator},
		accountsrepo.StoreUsersCollection: {Indexes: StoreUsersIndexes, Validator: validators.StoreUserValidator},
		accountsrepo.AdminUsersCollection: {Indexes: uniqueEmail, Validator: validators.AdminUserValidator},

		catalogrepo.BrandsCollection:       {Indexes: BrandsIndexes, Validator: validators.BrandValidator},
		catalogrepo.HotelsCollection:       {Indexes: HotelsIndexes, Validator: validators.HotelValidator},
		catalogrepo.RoomTypesCollection:    {Indexes: RoomTypesIndexes, Validator: validators.RoomTypeValidator},
		catalogrepo.HotelRoomsCollection:   {Indexes: HotelRoomsIndexes, Validator: validators.HotelRoomValidator},
		catalogrepo.RoomPlansCollection:    {Indexes: RoomPlansIndexes, Validator: validators.RoomPlanValidator},
		catalogrepo.ProductPlansCollection: {Indexes: ProductPlansIndexes, Validator: validators.ProductPlanValidator},

		ordersrepo.CollectionName:        {Indexes: OrdersIndexes, Validator: validators.OrderValidator},
		paymentsrepo.CollectionName:      {Indexes: PaymentsIndexes, Validator: validators.PaymentValidator},
		subscriptionsrepo.CollectionName: {Indexes: SubscriptionsIndexes, Validator: validators.SubscriptionValidator},

		mongodb.LocksCollection: {Indexes: LocksIndexes},
	}
}

// RunMigration creates every StayMi collection with its schema validator and
// indexes. It is safe to run repeatedly.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "staymi_test"
	ConnectionTimeout   = 10 * time.Second
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanDatabase empties every collection but keeps validators and indexes
// created by the migration job.
func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collections, err := m.Database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		t.Fatalf("failed to list collections: %v", err)
	}

	for _, name := range collections {
		if strings.HasPrefix(name, "system.") {
			continue
		}
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.D{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

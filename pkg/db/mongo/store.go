package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the shared CRUD base for one collection. Entity repositories embed it
// and add their own queries on top.
type Store[T any] struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewStore[T any](db *mongo.Database, collection string, readTimeout, writeTimeout time.Duration) *Store[T] {
	return &Store[T]{
		collection:   db.Collection(collection),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (s *Store[T]) Collection() *mongo.Collection {
	return s.collection
}

// WithTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext is returned unchanged: wrapping it would detach the operation
// from the session and break transaction semantics.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *Store[T]) ReadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, s.readTimeout)
}

func (s *Store[T]) WriteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, s.writeTimeout)
}

func ObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return oid, nil
}

func ObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := ObjectID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

// Now is the timestamp stored on documents. Mongo keeps millisecond precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Insert stores doc and returns the generated id as a hex string.
func (s *Store[T]) Insert(ctx context.Context, doc *T) (string, error) {
	ctx, cancel := s.WriteContext(ctx)
	defer cancel()

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return "", fmt.Errorf("failed to insert into %s: %w", s.collection.Name(), err)
	}

	switch id := result.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := ObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.FindOne(ctx, bson.M{"_id": oid})
}

func (s *Store[T]) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*T, error) {
	ctx, cancel := s.ReadContext(ctx)
	defer cancel()

	var doc T
	if err := s.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find in %s: %w", s.collection.Name(), err)
	}
	return &doc, nil
}

// Find returns the documents matching filter. A zero limit means no limit.
func (s *Store[T]) Find(ctx context.Context, filter any, sort bson.D, limit int, offset int64) ([]*T, error) {
	ctx, cancel := s.ReadContext(ctx)
	defer cancel()

	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.collection.Name(), err)
	}
	return docs, nil
}

func (s *Store[T]) Count(ctx context.Context, filter any) (int64, error) {
	ctx, cancel := s.ReadContext(ctx)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.collection.Name(), err)
	}
	return count, nil
}

// FindPage runs the page query and the total count concurrently.
func (s *Store[T]) FindPage(ctx context.Context, filter any, sort bson.D, limit int, offset int64) ([]*T, int64, error) {
	var (
		wg       sync.WaitGroup
		docs     []*T
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = s.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		docs, findErr = s.Find(ctx, filter, sort, limit, offset)
	}()
	wg.Wait()

	if countErr != nil {
		return nil, 0, countErr
	}
	if findErr != nil {
		return nil, 0, findErr
	}
	return docs, total, nil
}

// UpdateByID applies update to one document. ErrNotFound when nothing matched.
func (s *Store[T]) UpdateByID(ctx context.Context, id string, update any) error {
	oid, err := ObjectID(id)
	if err != nil {
		return err
	}
	result, err := s.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store[T]) UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error) {
	ctx, cancel := s.WriteContext(ctx)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("failed to update %s: %w", s.collection.Name(), err)
	}
	return result, nil
}

func (s *Store[T]) UpdateMany(ctx context.Context, filter, update any) (int64, error) {
	ctx, cancel := s.WriteContext(ctx)
	defer cancel()

	result, err := s.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", s.collection.Name(), err)
	}
	return result.ModifiedCount, nil
}

func (s *Store[T]) DeleteByID(ctx context.Context, id string) error {
	oid, err := ObjectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := s.WriteContext(ctx)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.collection.Name(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store[T]) DeleteMany(ctx context.Context, filter any) (int64, error) {
	ctx, cancel := s.WriteContext(ctx)
	defer cancel()

	result, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", s.collection.Name(), err)
	}
	return result.DeletedCount, nil
}

// ReplaceByID overwrites the stored document with doc and keeps its _id.
// Fields that are omitted from doc are removed from the stored document.
func (s *Store[T]) ReplaceByID(ctx context.Context, id string, doc *T) error {
	oid, err := ObjectID(id)
	if err != nil {
		return err
	}

	raw, err := bson.MarshalWithRegistry(Registry(), doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", s.collection.Name(), err)
	}
	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to encode %s document: %w", s.collection.Name(), err)
	}
	replacement := make(bson.D, 0, len(fields))
	for _, f := range fields {
		if f.Key != "_id" {
			replacement = append(replacement, f)
		}
	}

	ctx, cancel := s.WriteContext(ctx)
	defer cancel()

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": oid}, replacement)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("failed to replace in %s: %w", s.collection.Name(), err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

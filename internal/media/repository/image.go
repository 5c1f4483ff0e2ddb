package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BucketName is the GridFS bucket holding hotel images.
const BucketName = "hotel_images"

type imageMetadata struct {
	HotelID     string `bson:"hotel_id"`
	ContentType string `bson:"content_type"`
}

// ImageStream is an open image download. Callers must Close it.
type ImageStream struct {
	io.ReadCloser
	File model.ImageFile
}

type ImageRepository interface {
	Upload(ctx context.Context, file *model.ImageFile, content io.Reader) error
	Open(ctx context.Context, id string) (*ImageStream, error)
	Delete(ctx context.Context, id string) error
}

type gridFSImageRepository struct {
	db           *mongo.Database
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewGridFSImageRepository(cfg *config.Config) ImageRepository {
	return &gridFSImageRepository{
		db:           cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

func (r *gridFSImageRepository) bucket() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(r.db, options.GridFSBucket().SetName(BucketName))
}

// deadline is the earlier of the context deadline and now+timeout. GridFS
// streams take deadlines instead of contexts.
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

func (r *gridFSImageRepository) Upload(ctx context.Context, file *model.ImageFile, content io.Reader) error {
	bucket, err := r.bucket()
	if err != nil {
		return fmt.Errorf("failed to open bucket: %w", err)
	}
	if err := bucket.SetWriteDeadline(deadline(ctx, r.writeTimeout)); err != nil {
		return err
	}

	opts := options.GridFSUpload().SetMetadata(imageMetadata{
		HotelID:     file.HotelID,
		ContentType: file.ContentType,
	})
	id, err := bucket.UploadFromStream(file.Filename, content, opts)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	file.ID = id.Hex()
	file.UploadedAt = mongodb.Now()
	return nil
}

func (r *gridFSImageRepository) Open(ctx context.Context, id string) (*ImageStream, error) {
	oid, err := mongodb.ObjectID(id)
	if err != nil {
		return nil, err
	}

	bucket, err := r.bucket()
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	if err := bucket.SetReadDeadline(deadline(ctx, r.readTimeout)); err != nil {
		return nil, err
	}

	stream, err := bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, mongodb.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	f := stream.GetFile()
	var meta imageMetadata
	if len(f.Metadata) > 0 {
		if err := bson.Unmarshal(f.Metadata, &meta); err != nil {
			_ = stream.Close()
			return nil, fmt.Errorf("failed to decode image metadata: %w", err)
		}
	}

	return &ImageStream{
		ReadCloser: stream,
		File: model.ImageFile{
			ID:          id,
			HotelID:     meta.HotelID,
			Filename:    f.Name,
			ContentType: meta.ContentType,
			Size:        f.Length,
			UploadedAt:  f.UploadDate,
		},
	}, nil
}

func (r *gridFSImageRepository) Delete(ctx context.Context, id string) error {
	oid, err := mongodb.ObjectID(id)
	if err != nil {
		return err
	}

	bucket, err := r.bucket()
	if err != nil {
		return fmt.Errorf("failed to open bucket: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	if err := bucket.DeleteContext(ctx, oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return mongodb.ErrNotFound
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

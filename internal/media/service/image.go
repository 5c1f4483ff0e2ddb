package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	catalogservice "staymi/internal/catalog/service"
	"staymi/internal/media/repository"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/model"

	"github.com/gabriel-vasile/mimetype"
)

// ImagePathPrefix is where stored images are served from.
const ImagePathPrefix = "/api/v1/images/id/"

// AllowedTypes are the image formats hotels may upload.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

type ImageService interface {
	Upload(ctx context.Context, principal *auth.Principal, hotelID, filename string, content io.Reader) (*model.HotelImage, error)
	Remove(ctx context.Context, principal *auth.Principal, hotelID, imageID string) error
	Open(ctx context.Context, id string) (*repository.ImageStream, error)
}

type imageService struct {
	repo   repository.ImageRepository
	hotels catalogservice.HotelService
	cfg    *config.Config
}

func NewImageService(repo repository.ImageRepository, hotels catalogservice.HotelService, cfg *config.Config) ImageService {
	return &imageService{
		repo:   repo,
		hotels: hotels,
		cfg:    cfg,
	}
}

func (s *imageService) Upload(ctx context.Context, principal *auth.Principal, hotelID, filename string, content io.Reader) (*model.HotelImage, error) {
	if _, err := s.hotels.Authorize(ctx, principal, hotelID); err != nil {
		return nil, err
	}

	limit := int64(s.cfg.MaxUploadSize)
	data, err := io.ReadAll(io.LimitReader(content, limit+1))
	if err != nil {
		return nil, apperrors.InvalidInput("Failed to read uploaded file")
	}
	if int64(len(data)) > limit {
		return nil, apperrors.New(apperrors.CodeBadRequest,
			fmt.Sprintf("Image exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
	}
	if len(data) == 0 {
		return nil, apperrors.InvalidInput("Uploaded file is empty")
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), AllowedTypes...) {
		s.cfg.Log.Ctx(ctx).Warn("Rejected image upload", "hotel_id", hotelID, "detected", mime.String())
		return nil, apperrors.New(apperrors.CodeBadRequest,
			"Only JPEG, PNG and WebP images are accepted", http.StatusUnsupportedMediaType).
			WithDetails(map[string]any{"detected": mime.String()})
	}

	file := &model.ImageFile{
		HotelID:     hotelID,
		Filename:    imageName(filename, mime),
		ContentType: mime.String(),
		Size:        int64(len(data)),
	}
	if err := s.repo.Upload(ctx, file, bytes.NewReader(data)); err != nil {
		s.cfg.Log.Ctx(ctx).Error("Failed to store image", "hotel_id", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to store image", err)
	}

	image := model.HotelImage{ID: file.ID, URL: ImagePathPrefix + file.ID}
	if err := s.hotels.AttachImage(ctx, principal, hotelID, image); err != nil {
		if delErr := s.repo.Delete(ctx, file.ID); delErr != nil {
			s.cfg.Log.Ctx(ctx).Warn("Failed to remove orphaned image", "image_id", file.ID, "error", delErr)
		}
		return nil, err
	}

	s.cfg.Log.Ctx(ctx).Info("Hotel image uploaded",
		"hotel_id", hotelID,
		"image_id", file.ID,
		"content_type", file.ContentType,
		"size", file.Size,
	)
	return &image, nil
}

func (s *imageService) Remove(ctx context.Context, principal *auth.Principal, hotelID, imageID string) error {
	if err := s.hotels.DetachImage(ctx, principal, hotelID, imageID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, imageID); err != nil && !errors.Is(err, mongodb.ErrNotFound) {
		s.cfg.Log.Ctx(ctx).Warn("Failed to delete image file", "image_id", imageID, "error", err)
	}
	s.cfg.Log.Ctx(ctx).Info("Hotel image removed", "hotel_id", hotelID, "image_id", imageID)
	return nil
}

func (s *imageService) Open(ctx context.Context, id string) (*repository.ImageStream, error) {
	stream, err := s.repo.Open(ctx, id)
	switch {
	case err == nil:
		return stream, nil
	case errors.Is(err, mongodb.ErrNotFound):
		return nil, apperrors.NotFoundWithID("Image", id)
	case errors.Is(err, mongodb.ErrInvalidID):
		return nil, apperrors.InvalidInput("Invalid image ID format")
	}
	s.cfg.Log.Ctx(ctx).Error("Failed to open image", "image_id", id, "error", err)
	return nil, apperrors.Internal("Failed to read image", err)
}

// imageName keeps the client's base name but always uses the detected extension.
func imageName(filename string, mime *mimetype.MIME) string {
	base := filepath.Base(strings.TrimSpace(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	return base + mime.Extension()
}

package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	catalogrepo "staymi/internal/catalog/repository"
	"staymi/internal/media/repository"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type mockImageRepository struct {
	uploaded []*model.ImageFile
	deleted  []string
}

func (m *mockImageRepository) Upload(ctx context.Context, file *model.ImageFile, content io.Reader) error {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return err
	}
	file.ID = "65f1a2b3c4d5e6f708192a99"
	m.uploaded = append(m.uploaded, file)
	return nil
}

func (m *mockImageRepository) Open(ctx context.Context, id string) (*repository.ImageStream, error) {
	return nil, nil
}

func (m *mockImageRepository) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// stubHotels implements only what the image service calls.
type stubHotels struct {
	authorizeErr error
	attachErr    error
	attached     []model.HotelImage
}

func (s *stubHotels) ListPublic(ctx context.Context, filter catalogrepo.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error) {
	return nil, 0, nil
}

func (s *stubHotels) GetPublic(ctx context.Context, id string) (*model.Hotel, error) {
	return nil, nil
}

func (s *stubHotels) ListForStore(ctx context.Context, principal *auth.Principal, brandID string, limit int, offset int64) ([]*model.Hotel, int64, error) {
	return nil, 0, nil
}

func (s *stubHotels) Create(ctx context.Context, principal *auth.Principal, hotel *model.Hotel) error {
	return nil
}

func (s *stubHotels) Update(ctx context.Context, principal *auth.Principal, id string, updates *model.HotelUpdate) (*model.Hotel, error) {
	return nil, nil
}

func (s *stubHotels) Delete(ctx context.Context, principal *auth.Principal, id string) error {
	return nil
}

func (s *stubHotels) Authorize(ctx context.Context, principal *auth.Principal, id string) (*model.Hotel, error) {
	if s.authorizeErr != nil {
		return nil, s.authorizeErr
	}
	return &model.Hotel{ID: id}, nil
}

func (s *stubHotels) AttachImage(ctx context.Context, principal *auth.Principal, hotelID string, image model.HotelImage) error {
	if s.attachErr != nil {
		return s.attachErr
	}
	s.attached = append(s.attached, image)
	return nil
}

func (s *stubHotels) DetachImage(ctx context.Context, principal *auth.Principal, hotelID, imageID string) error {
	return nil
}

func newImageService(repo *mockImageRepository, hotels *stubHotels) ImageService {
	return NewImageService(repo, hotels, &config.Config{Log: logger.Discard(), MaxUploadSize: 1024})
}

var store = &auth.Principal{ID: "s1", Role: auth.RoleStore, BrandID: "b1"}

func TestUpload_AcceptsPNG(t *testing.T) {
	repo := &mockImageRepository{}
	hotels := &stubHotels{}
	svc := newImageService(repo, hotels)

	image, err := svc.Upload(context.Background(), store, "h1", "../../lobby.jpeg", bytes.NewReader(pngHeader))

	require.NoError(t, err)
	require.Len(t, repo.uploaded, 1)
	assert.Equal(t, "image/png", repo.uploaded[0].ContentType)
	assert.Equal(t, "lobby.png", repo.uploaded[0].Filename)
	assert.Equal(t, ImagePathPrefix+"65f1a2b3c4d5e6f708192a99", image.URL)
	assert.Len(t, hotels.attached, 1)
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		content    []byte
		wantStatus int
	}{
		{"plain text", []byte("definitely not an image"), http.StatusUnsupportedMediaType},
		{"too large", append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...), http.StatusRequestEntityTooLarge},
		{"empty", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockImageRepository{}
			svc := newImageService(repo, &stubHotels{})

			_, err := svc.Upload(context.Background(), store, "h1", "x.png", bytes.NewReader(tt.content))

			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, apperrors.AsAppError(err).StatusCode())
			assert.Empty(t, repo.uploaded)
		})
	}
}

func TestUpload_ForbiddenBeforeReading(t *testing.T) {
	repo := &mockImageRepository{}
	svc := newImageService(repo, &stubHotels{authorizeErr: apperrors.Forbidden("Resource belongs to another brand")})

	body := strings.NewReader("unread")
	_, err := svc.Upload(context.Background(), store, "h1", "x.png", body)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.Equal(t, 6, body.Len(), "body must not be consumed")
}

func TestUpload_AttachFailureRemovesFile(t *testing.T) {
	repo := &mockImageRepository{}
	svc := newImageService(repo, &stubHotels{attachErr: apperrors.NotFound("Hotel")})

	_, err := svc.Upload(context.Background(), store, "h1", "x.png", bytes.NewReader(pngHeader))

	require.Error(t, err)
	assert.Equal(t, []string{"65f1a2b3c4d5e6f708192a99"}, repo.deleted)
}

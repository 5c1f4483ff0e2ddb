package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"staymi/internal/catalog/repository"
	"staymi/internal/catalog/validator"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/logger"
	"staymi/pkg/model"
	"staymi/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	brandA = "65f1a2b3c4d5e6f708192a01"
	brandB = "65f1a2b3c4d5e6f708192a02"
	hotel1 = "65f1a2b3c4d5e6f708192a03"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:             logger.Discard(),
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		DefaultCurrency: "USD",
	}
}

func testValidator() *validator.CatalogValidator {
	return validator.NewCatalogValidator(validation.New(logger.Discard()))
}

func storeOf(brandID string) *auth.Principal {
	return &auth.Principal{ID: "store-user", Role: auth.RoleStore, BrandID: brandID}
}

func sampleHotel() *model.Hotel {
	return &model.Hotel{
		ID:           hotel1,
		BrandID:      brandA,
		Name:         "Seaside Inn",
		Address:      "1 Harbour Road",
		City:         "Nice",
		Country:      "FR",
		TimeZone:     "Europe/Paris",
		CheckInTime:  "15:00",
		CheckOutTime: "11:00",
		Status:       model.HotelStatusActive,
		Images:       []model.HotelImage{{ID: "img-1", URL: "/api/v1/images/id/img-1"}},
	}
}

type hotelFixture struct {
	hotels *mockHotelRepository
	orders *mockOrderCounter
	images *mockImageDeleter
	tx     *inlineTransactions
	svc    HotelService
}

func newHotelFixture() *hotelFixture {
	f := &hotelFixture{
		hotels: &mockHotelRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Hotel, error) {
				return sampleHotel(), nil
			},
		},
		orders: &mockOrderCounter{},
		images: &mockImageDeleter{},
		tx:     &inlineTransactions{},
	}
	repos := HotelRepositories{
		Hotels:       f.hotels,
		RoomTypes:    &mockRoomTypeRepository{},
		Rooms:        &mockRoomRepository{},
		RoomPlans:    &mockRoomPlanRepository{},
		ProductPlans: &mockProductPlanRepository{},
	}
	f.svc = NewHotelService(repos, f.orders, f.images, f.tx, testValidator(), testConfig())
	return f
}

func TestHotelCreate_StoreIsPinnedToItsBrand(t *testing.T) {
	f := newHotelFixture()

	hotel := sampleHotel()
	hotel.ID = ""
	hotel.BrandID = brandB
	hotel.TimeZone = ""
	hotel.Country = "jp"
	hotel.Status = ""

	require.NoError(t, f.svc.Create(context.Background(), storeOf(brandA), hotel))

	assert.Equal(t, brandA, hotel.BrandID)
	assert.Equal(t, "JP", hotel.Country)
	assert.Equal(t, "Asia/Tokyo", hotel.TimeZone)
	assert.Equal(t, model.HotelStatusActive, hotel.Status)
	assert.Empty(t, hotel.Images, "images are only attached through uploads")
	assert.NotEmpty(t, hotel.ID)
}

func TestHotelCreate_ValidationFailure(t *testing.T) {
	f := newHotelFixture()

	hotel := sampleHotel()
	hotel.CheckInTime = "25:99"

	err := f.svc.Create(context.Background(), storeOf(brandA), hotel)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperrors.AsAppError(err).StatusCode())
}

func TestHotelUpdate_OtherBrandForbidden(t *testing.T) {
	f := newHotelFixture()
	saved := false
	f.hotels.updateFunc = func(ctx context.Context, id string, updates *model.HotelUpdate) error {
		saved = true
		return nil
	}

	name := "Stolen Hotel"
	_, err := f.svc.Update(context.Background(), storeOf(brandB), hotel1, &model.HotelUpdate{Name: &name})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.False(t, saved)
}

func TestHotelUpdate_CountryChangeReinfersTimezone(t *testing.T) {
	f := newHotelFixture()
	var written *model.HotelUpdate
	f.hotels.updateFunc = func(ctx context.Context, id string, updates *model.HotelUpdate) error {
		written = updates
		return nil
	}

	country := "us"
	_, err := f.svc.Update(context.Background(), &auth.Principal{ID: "admin", Role: auth.RoleAdmin}, hotel1, &model.HotelUpdate{Country: &country})

	require.NoError(t, err)
	require.NotNil(t, written)
	assert.Equal(t, "US", *written.Country)
	assert.Equal(t, "America/New_York", *written.TimeZone)
}

// An update writes only what the request touched, so images attached or
// removed since the hotel was read survive, and the answer is the stored hotel.
func TestHotelUpdate_WritesOnlyRequestedFields(t *testing.T) {
	f := newHotelFixture()
	stored := sampleHotel()
	f.hotels.findByIDFunc = func(ctx context.Context, id string) (*model.Hotel, error) {
		cp := *stored
		return &cp, nil
	}
	var written *model.HotelUpdate
	f.hotels.updateFunc = func(ctx context.Context, id string, updates *model.HotelUpdate) error {
		written = updates
		stored.Name = *updates.Name
		// another request attaches an image between the read and the write
		stored.Images = append(stored.Images, model.HotelImage{ID: "img-2"})
		return nil
	}

	name := "  Seaside   Inn & Spa "
	hotel, err := f.svc.Update(context.Background(), storeOf(brandA), hotel1, &model.HotelUpdate{Name: &name})
	require.NoError(t, err)

	require.NotNil(t, written)
	assert.Equal(t, &model.HotelUpdate{Name: written.Name}, written, "only the name is written")
	assert.Equal(t, "Seaside Inn & Spa", *written.Name)
	assert.Len(t, hotel.Images, 2)
}

func TestHotelUpdate_StarsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		stars int
	}{
		{"above five", 7},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHotelFixture()
			saved := false
			f.hotels.updateFunc = func(ctx context.Context, id string, updates *model.HotelUpdate) error {
				saved = true
				return nil
			}

			_, err := f.svc.Update(context.Background(), storeOf(brandA), hotel1, &model.HotelUpdate{Stars: &tt.stars})
			require.Error(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, apperrors.AsAppError(err).StatusCode())
			assert.False(t, saved)
		})
	}
}

func TestHotelCreate_StarsOutOfRange(t *testing.T) {
	f := newHotelFixture()
	hotel := sampleHotel()
	hotel.ID = ""
	hotel.Stars = 7

	err := f.svc.Create(context.Background(), storeOf(brandA), hotel)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperrors.AsAppError(err).StatusCode())
}

func TestHotelGetPublic_HidesInactive(t *testing.T) {
	f := newHotelFixture()
	f.hotels.findByIDFunc = func(ctx context.Context, id string) (*model.Hotel, error) {
		h := sampleHotel()
		h.Status = model.HotelStatusInactive
		return h, nil
	}

	_, err := f.svc.GetPublic(context.Background(), hotel1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestHotelListPublic_ForcesActiveFilter(t *testing.T) {
	f := newHotelFixture()
	var got repository.HotelFilter
	f.hotels.findFunc = func(ctx context.Context, filter repository.HotelFilter, limit int, offset int64) ([]*model.Hotel, int64, error) {
		got = filter
		return nil, 0, nil
	}

	_, _, err := f.svc.ListPublic(context.Background(), repository.HotelFilter{City: "  nice ", Country: "fr", Status: model.HotelStatusInactive}, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, model.HotelStatusActive, got.Status)
	assert.Equal(t, "FR", got.Country)
	assert.Equal(t, "nice", got.City)
}

func TestHotelDelete(t *testing.T) {
	t.Run("active orders block deletion", func(t *testing.T) {
		f := newHotelFixture()
		f.orders.active = 2

		err := f.svc.Delete(context.Background(), storeOf(brandA), hotel1)

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
		assert.Zero(t, f.tx.calls)
		assert.Empty(t, f.images.deleted)
	})

	t.Run("cascades and removes images", func(t *testing.T) {
		f := newHotelFixture()
		var deletedHotel string
		f.hotels.deleteFunc = func(ctx context.Context, id string) error {
			deletedHotel = id
			return nil
		}

		require.NoError(t, f.svc.Delete(context.Background(), storeOf(brandA), hotel1))

		assert.Equal(t, 1, f.tx.calls)
		assert.Equal(t, hotel1, deletedHotel)
		assert.Equal(t, []string{"img-1"}, f.images.deleted)
	})
}

func TestHotelDetachImage_Missing(t *testing.T) {
	f := newHotelFixture()
	f.hotels.removeImageFunc = func(ctx context.Context, hotelID, imageID string) (bool, error) {
		return false, nil
	}

	err := f.svc.DetachImage(context.Background(), storeOf(brandA), hotel1, "nope")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

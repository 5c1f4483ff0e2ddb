package testutil

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"staymi/pkg/model"

	"github.com/shopspring/decimal"
)

const Password = "correct-horse-battery"

func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@staymi.test", prefix, time.Now().UnixNano())
}

// SignupTraveller registers a guest account and returns its token.
func SignupTraveller(t *testing.T, client *Client) string {
	t.Helper()
	resp := client.POST(t, "/api/v1/auth/signup", model.SignupRequest{
		Email:     UniqueEmail("guest"),
		Password:  Password,
		FirstName: "Dana",
		LastName:  "Levi",
	})
	AssertStatusCode(t, resp, http.StatusCreated)

	var auth model.AuthResponse
	resp.Data(t, &auth)
	return auth.Token
}

// SignupStore registers a store account with a fresh brand and returns its token.
func SignupStore(t *testing.T, client *Client) string {
	t.Helper()
	resp := client.POST(t, "/api/v1/auth/store/signup", model.StoreSignupRequest{
		Email:     UniqueEmail("store"),
		Password:  Password,
		Name:      "Front Desk",
		BrandName: fmt.Sprintf("Harbor Stays %d", time.Now().UnixNano()),
	})
	AssertStatusCode(t, resp, http.StatusCreated)

	var auth model.AuthResponse
	resp.Data(t, &auth)
	return auth.Token
}

type HotelBuilder struct {
	hotel model.Hotel
}

func NewHotelBuilder() *HotelBuilder {
	return &HotelBuilder{
		hotel: model.Hotel{
			Name:         "Harbor View",
			Address:      "12 Quay Street",
			City:         "Lisbon",
			Country:      "PT",
			Stars:        4,
			Amenities:    []string{"wifi", "pool"},
			CheckInTime:  "15:00",
			CheckOutTime: "11:00",
		},
	}
}

func (b *HotelBuilder) WithCity(city string) *HotelBuilder {
	b.hotel.City = city
	return b
}

func (b *HotelBuilder) Build() model.Hotel {
	return b.hotel
}

// Inventory is a hotel with one bookable room type, one room and one plan.
type Inventory struct {
	Hotel    model.Hotel
	RoomType model.RoomType
	Room     model.HotelRoom
	Plan     model.RoomPlan
}

// SeedInventory creates a sellable hotel as the store behind store.
func SeedInventory(t *testing.T, store *Client, price decimal.Decimal) Inventory {
	t.Helper()
	var inv Inventory

	resp := store.POST(t, "/api/v1/store/hotels", NewHotelBuilder().Build())
	AssertStatusCode(t, resp, http.StatusCreated)
	resp.Data(t, &inv.Hotel)

	resp = store.POST(t, "/api/v1/store/hotels/id/"+inv.Hotel.ID+"/room-types", model.RoomType{
		Name:     "Double",
		Capacity: 2,
		BedType:  "queen",
	})
	AssertStatusCode(t, resp, http.StatusCreated)
	resp.Data(t, &inv.RoomType)

	resp = store.POST(t, "/api/v1/store/hotels/id/"+inv.Hotel.ID+"/rooms", model.HotelRoom{
		RoomTypeID: inv.RoomType.ID,
		RoomNumber: "101",
		Floor:      1,
	})
	AssertStatusCode(t, resp, http.StatusCreated)
	resp.Data(t, &inv.Room)

	resp = store.POST(t, "/api/v1/store/hotels/id/"+inv.Hotel.ID+"/room-plans", model.RoomPlan{
		RoomTypeID: inv.RoomType.ID,
		Name:       "Room only",
		Price:      price,
		Currency:   "EUR",
		MinNights:  1,
		Active:     true,
	})
	AssertStatusCode(t, resp, http.StatusCreated)
	resp.Data(t, &inv.Plan)

	return inv
}

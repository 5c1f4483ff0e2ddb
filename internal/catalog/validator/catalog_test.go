package validator

import (
	"errors"
	"testing"

	"staymi/pkg/logger"
	"staymi/pkg/model"
	"staymi/pkg/validation"

	"github.com/shopspring/decimal"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validPlan() *model.RoomPlan {
	return &model.RoomPlan{
		HotelID:    "65f1a2b3c4d5e6f708192a3b",
		RoomTypeID: "65f1a2b3c4d5e6f708192a3c",
		Name:       "Standard Double",
		Price:      decimal.RequireFromString("120.00"),
		Currency:   "USD",
		MinNights:  1,
		Active:     true,
	}
}

func TestValidateRoomPlan(t *testing.T) {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	v := NewCatalogValidator(validation.New(log))

	tests := []struct {
		name      string
		mutate    func(p *model.RoomPlan)
		wantField string
	}{
		{name: "valid base plan", mutate: func(p *model.RoomPlan) {}},
		{
			name: "valid tier prices",
			mutate: func(p *model.RoomPlan) {
				p.PlusPrice = price("110")
				p.ProPrice = price("100")
			},
		},
		{
			name:   "pro equal to plus is allowed",
			mutate: func(p *model.RoomPlan) { p.PlusPrice, p.ProPrice = price("100"), price("100") },
		},
		{name: "zero price", mutate: func(p *model.RoomPlan) { p.Price = decimal.Zero }, wantField: "price"},
		{name: "plus above price", mutate: func(p *model.RoomPlan) { p.PlusPrice = price("130") }, wantField: "plus_price"},
		{name: "pro above price", mutate: func(p *model.RoomPlan) { p.ProPrice = price("121") }, wantField: "pro_price"},
		{
			name:      "pro above plus",
			mutate:    func(p *model.RoomPlan) { p.PlusPrice, p.ProPrice = price("90"), price("95") },
			wantField: "pro_price",
		},
		{name: "negative plus", mutate: func(p *model.RoomPlan) { p.PlusPrice = price("-1") }, wantField: "plus_price"},
		{name: "unknown currency", mutate: func(p *model.RoomPlan) { p.Currency = "XYZ" }, wantField: "currency"},
		{name: "min nights too low", mutate: func(p *model.RoomPlan) { p.MinNights = 0 }, wantField: "min_nights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := validPlan()
			tt.mutate(plan)

			err := v.ValidateRoomPlan(plan)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verrs validation.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidateHotel_SameCheckInAndOut(t *testing.T) {
	v := NewCatalogValidator(validation.New(logger.Discard()))
	hotel := &model.Hotel{
		BrandID:      "65f1a2b3c4d5e6f708192a3b",
		Name:         "Harbour View",
		Address:      "1 Pier Road",
		City:         "taipei",
		Country:      "TW",
		TimeZone:     "Asia/Taipei",
		Amenities:    []string{},
		CheckInTime:  "15:00",
		CheckOutTime: "15:00",
		Status:       model.HotelStatusActive,
	}
	if err := v.ValidateHotel(hotel); err == nil {
		t.Fatal("expected an error when check-in and check-out times are equal")
	}

	hotel.CheckOutTime = "11:00"
	if err := v.ValidateHotel(hotel); err != nil {
		t.Fatalf("expected valid hotel, got %v", err)
	}
}

package model

import "time"

type HotelStatus string

const (
	HotelStatusActive   HotelStatus = "active"
	HotelStatusInactive HotelStatus = "inactive"
)

type HotelImage struct {
	ID  string `json:"id" bson:"id"`
	URL string `json:"url" bson:"url"`
}

type Hotel struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BrandID      string       `json:"brand_id" bson:"brand_id" validate:"required,mongodb"`
	Name         string       `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Description  string       `json:"description,omitempty" bson:"description" validate:"max=4000"`
	Address      string       `json:"address" bson:"address" validate:"required,min=2,max=200"`
	City         string       `json:"city" bson:"city" validate:"required,min=2,max=80"`
	Country      string       `json:"country" bson:"country" validate:"required,iso3166_1_alpha2"`
	TimeZone     string       `json:"time_zone" bson:"time_zone" validate:"required,timezone"`
	Stars        int          `json:"stars" bson:"stars" validate:"min=0,max=5"`
	Amenities    []string     `json:"amenities" bson:"amenities" validate:"max=50,dive,min=1,max=50"`
	Images       []HotelImage `json:"images" bson:"images"`
	CheckInTime  string       `json:"check_in_time" bson:"check_in_time" validate:"required,clock"`
	CheckOutTime string       `json:"check_out_time" bson:"check_out_time" validate:"required,clock"`
	Status       HotelStatus  `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

func (h *Hotel) IsActive() bool {
	return h.Status == HotelStatusActive
}

type HotelUpdate struct {
	Name         *string      `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description  *string      `json:"description,omitempty" validate:"omitempty,max=4000"`
	Address      *string      `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	City         *string      `json:"city,omitempty" validate:"omitempty,min=2,max=80"`
	Country      *string      `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	TimeZone     *string      `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	Stars        *int         `json:"stars,omitempty" validate:"omitempty,min=0,max=5"`
	Amenities    *[]string    `json:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	CheckInTime  *string      `json:"check_in_time,omitempty" validate:"omitempty,clock"`
	CheckOutTime *string      `json:"check_out_time,omitempty" validate:"omitempty,clock"`
	Status       *HotelStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

package model

import "time"

type RoomType struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID     string    `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" bson:"description" validate:"max=2000"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	BedType     string    `json:"bed_type,omitempty" bson:"bed_type" validate:"max=50"`
	SizeSqm     float64   `json:"size_sqm,omitempty" bson:"size_sqm" validate:"min=0,max=10000"`
	Amenities   []string  `json:"amenities" bson:"amenities" validate:"max=50,dive,min=1,max=50"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type RoomTypeUpdate struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Capacity    *int      `json:"capacity,omitempty" validate:"omitempty,min=1,max=20"`
	BedType     *string   `json:"bed_type,omitempty" validate:"omitempty,max=50"`
	SizeSqm     *float64  `json:"size_sqm,omitempty" validate:"omitempty,min=0,max=10000"`
	Amenities   *[]string `json:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
}

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// HotelRoom is one physical room. Only available rooms count as sellable inventory.
type HotelRoom struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID    string     `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomTypeID string     `json:"room_type_id" bson:"room_type_id" validate:"required,mongodb"`
	RoomNumber string     `json:"room_number" bson:"room_number" validate:"required,min=1,max=20"`
	Floor      int        `json:"floor" bson:"floor" validate:"min=-5,max=200"`
	Status     RoomStatus `json:"status" bson:"status" validate:"required,oneof=available maintenance"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

type HotelRoomUpdate struct {
	RoomTypeID *string     `json:"room_type_id,omitempty" validate:"omitempty,mongodb"`
	RoomNumber *string     `json:"room_number,omitempty" validate:"omitempty,min=1,max=20"`
	Floor      *int        `json:"floor,omitempty" validate:"omitempty,min=-5,max=200"`
	Status     *RoomStatus `json:"status,omitempty" validate:"omitempty,oneof=available maintenance"`
}

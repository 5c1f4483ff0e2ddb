package repository

const (
	BrandsCollection       = "brands"
	HotelsCollection       = "hotels"
	RoomTypesCollection    = "room_types"
	HotelRoomsCollection   = "hotel_rooms"
	RoomPlansCollection    = "room_plans"
	ProductPlansCollection = "product_plans"
)

var newestFirst = bsonSort("created_at", -1)

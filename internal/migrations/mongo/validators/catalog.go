package validators

import "go.mongodb.org/mongo-driver/bson"

var BrandValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "owner_id", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"name":        bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"description": bson.M{"bsonType": "string"},
			"logo_url":    bson.M{"bsonType": "string"},
			"owner_id":    bson.M{"bsonType": "string"},
			"created_at":  bson.M{"bsonType": "date"},
		},
	},
}

var HotelValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"brand_id", "name", "address", "city", "country", "time_zone", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":       bson.M{"bsonType": "objectId"},
			"brand_id":  bson.M{"bsonType": "string"},
			"name":      bson.M{"bsonType": "string"},
			"address":   bson.M{"bsonType": "string"},
			"city":      bson.M{"bsonType": "string"},
			"country":   bson.M{"bsonType": "string", "minLength": 2, "maxLength": 2},
			"time_zone": bson.M{"bsonType": "string"},
			"stars":     bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 5},
			"amenities": bson.M{
				"bsonType": []string{"array", "null"},
				"maxItems": 50,
				"items":    bson.M{"bsonType": "string"},
			},
			"images": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "url"},
				},
			},
			"check_in_time":  bson.M{"bsonType": "string"},
			"check_out_time": bson.M{"bsonType": "string"},
			"status":         bson.M{"enum": []string{"active", "inactive"}},
			"created_at":     bson.M{"bsonType": "date"},
		},
	},
}

var RoomTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"hotel_id", "name", "capacity", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"hotel_id":   bson.M{"bsonType": "string"},
			"name":       bson.M{"bsonType": "string"},
			"capacity":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 1, "maximum": 20},
			"size_sqm":   bson.M{"bsonType": []string{"double", "int", "long"}},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var HotelRoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"hotel_id", "room_type_id", "room_number", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "objectId"},
			"hotel_id":     bson.M{"bsonType": "string"},
			"room_type_id": bson.M{"bsonType": "string"},
			"room_number":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 20},
			"floor":        bson.M{"bsonType": []string{"int", "long"}},
			"status":       bson.M{"enum": []string{"available", "maintenance"}},
			"created_at":   bson.M{"bsonType": "date"},
		},
	},
}

var RoomPlanValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"hotel_id", "room_type_id", "name", "price", "currency", "min_nights", "active", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "objectId"},
			"hotel_id":     bson.M{"bsonType": "string"},
			"room_type_id": bson.M{"bsonType": "string"},
			"name":         bson.M{"bsonType": "string"},
			"price":        bson.M{"bsonType": "decimal"},
			"plus_price":   bson.M{"bsonType": "decimal"},
			"pro_price":    bson.M{"bsonType": "decimal"},
			"currency":     bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
			"min_nights":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"active":       bson.M{"bsonType": "bool"},
			"created_at":   bson.M{"bsonType": "date"},
		},
	},
}

var ProductPlanValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"hotel_id", "name", "price", "currency", "active", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"hotel_id":   bson.M{"bsonType": "string"},
			"name":       bson.M{"bsonType": "string"},
			"price":      bson.M{"bsonType": "decimal"},
			"currency":   bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
			"stock":      bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"active":     bson.M{"bsonType": "bool"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

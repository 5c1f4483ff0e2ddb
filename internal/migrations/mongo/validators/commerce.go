package validators

import "go.mongodb.org/mongo-driver/bson"

var OrderValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id", "hotel_id", "brand_id", "room_plan_id", "room_type_id",
			"check_in", "check_out", "nights", "guests", "total_amount", "currency", "status", "created_at",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":               bson.M{"bsonType": "objectId"},
			"user_id":           bson.M{"bsonType": "string"},
			"hotel_id":          bson.M{"bsonType": "string"},
			"brand_id":          bson.M{"bsonType": "string"},
			"room_plan_id":      bson.M{"bsonType": "string"},
			"room_type_id":      bson.M{"bsonType": "string"},
			"check_in":          bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"check_out":         bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"nights":            bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"guests":            bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"product_plan_id":   bson.M{"bsonType": "string"},
			"product_quantity":  bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"room_amount":       bson.M{"bsonType": "decimal"},
			"product_amount":    bson.M{"bsonType": "decimal"},
			"discount_amount":   bson.M{"bsonType": "decimal"},
			"total_amount":      bson.M{"bsonType": "decimal"},
			"currency":          bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
			"subscription_tier": bson.M{"enum": []string{"free", "plus", "pro"}},
			"status":            bson.M{"enum": []string{"pending", "paid", "payment_failed", "cancelled"}},
			"created_at":        bson.M{"bsonType": "date"},
		},
	},
}

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_id", "purpose", "reference_id", "provider", "amount", "currency", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":               bson.M{"bsonType": "objectId"},
			"user_id":           bson.M{"bsonType": "string"},
			"purpose":           bson.M{"enum": []string{"order", "subscription"}},
			"reference_id":      bson.M{"bsonType": "string"},
			"provider":          bson.M{"bsonType": "string"},
			"provider_order_id": bson.M{"bsonType": "string"},
			"capture_id":        bson.M{"bsonType": "string"},
			"amount":            bson.M{"bsonType": "decimal"},
			"currency":          bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
			"status":            bson.M{"enum": []string{"created", "completed", "failed"}},
			"created_at":        bson.M{"bsonType": "date"},
		},
	},
}

var SubscriptionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_id", "tier", "status", "price", "currency", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"user_id":    bson.M{"bsonType": "string"},
			"tier":       bson.M{"enum": []string{"plus", "pro"}},
			"status":     bson.M{"enum": []string{"pending", "active", "cancelled", "superseded", "payment_failed"}},
			"price":      bson.M{"bsonType": "decimal"},
			"currency":   bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
			"started_at": bson.M{"bsonType": "date"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "password_hash", "first_name", "last_name", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"email":         bson.M{"bsonType": "string", "maxLength": 254},
			"password_hash": bson.M{"bsonType": "string"},
			"first_name":    bson.M{"bsonType": "string"},
			"last_name":     bson.M{"bsonType": "string"},
			"phone":         bson.M{"bsonType": "string"},
			"status":        bson.M{"enum": []string{"active", "disabled"}},
			"created_at":    bson.M{"bsonType": "date"},
			"updated_at":    bson.M{"bsonType": "date"},
		},
	},
}

var StoreUserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "password_hash", "name", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"email":         bson.M{"bsonType": "string", "maxLength": 254},
			"password_hash": bson.M{"bsonType": "string"},
			"name":          bson.M{"bsonType": "string"},
			"brand_id":      bson.M{"bsonType": "string"},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}

var AdminUserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "password_hash", "name", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"email":         bson.M{"bsonType": "string", "maxLength": 254},
			"password_hash": bson.M{"bsonType": "string"},
			"name":          bson.M{"bsonType": "string"},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}

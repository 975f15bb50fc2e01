package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomTypes = []string{"standard", "deluxe", "suite"}

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "type", "price", "capacity", "is_available", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":               bson.M{"bsonType": "objectId"},
			"name":              bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"description":       bson.M{"bsonType": "string"},
			"short_description": bson.M{"bsonType": "string", "maxLength": 200},
			"type":              bson.M{"bsonType": "string", "enum": RoomTypes},
			"price":             bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
			"capacity":          bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"size":              bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"amenities": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},
			"images": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},
			"featured":        bson.M{"bsonType": "bool"},
			"discount":        bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0, "maximum": 100},
			"is_available":    bson.M{"bsonType": "bool"},
			"booking_version": bson.M{"bsonType": []string{"int", "long"}},
			"created_at":      bson.M{"bsonType": "date"},
			"updated_at":      bson.M{"bsonType": "date"},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"token_identifier", "subject", "name", "email", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":              bson.M{"bsonType": "objectId"},
			"token_identifier": bson.M{"bsonType": "string", "minLength": 3, "maxLength": 255},
			"subject":          bson.M{"bsonType": "string", "maxLength": 255},
			"issuer":           bson.M{"bsonType": "string"},
			"name":             bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"given_name":       bson.M{"bsonType": "string"},
			"family_name":      bson.M{"bsonType": "string"},
			"email":            bson.M{"bsonType": "string", "pattern": "^[^@\\s]+@[^@\\s]+$"},
			"email_verified":   bson.M{"bsonType": "bool"},
			// Empty when the profile carries no phone.
			"phone":          bson.M{"bsonType": "string", "pattern": "^(\\+[1-9][0-9]{6,14})?$"},
			"phone_verified": bson.M{"bsonType": "bool"},
			"picture_url":    bson.M{"bsonType": "string"},
			"created_at":     bson.M{"bsonType": "date"},
			"updated_at":     bson.M{"bsonType": "date"},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var FoodMenuValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"description",
			"price",
			"category",
			"is_available",
			"preparation_time",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"category": bson.M{
				"bsonType": "string",
				"enum":     MenuCategories,
			},

			"vegetarian": bson.M{
				"bsonType": "bool",
			},

			"is_available": bson.M{
				"bsonType": "bool",
			},

			"image": bson.M{
				"bsonType": "string",
			},

			"preparation_time": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var FoodOrderValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"booking_id",
			"items",
			"total_price",
			"status",
			"delivery_location",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"items": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 50,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"menu_item_id", "name", "quantity", "unit_price"},
					"properties": bson.M{
						"menu_item_id": bson.M{
							"bsonType":  "string",
							"minLength": 24,
							"maxLength": 24,
						},
						"name": bson.M{
							"bsonType": "string",
						},
						"quantity": bson.M{
							"bsonType": []string{"int", "long"},
							"minimum":  1,
							"maximum":  20,
						},
						"unit_price": bson.M{
							"bsonType": []string{"double", "int", "long", "decimal"},
							"minimum":  0,
						},
						"special_instructions": bson.M{
							"bsonType":  "string",
							"maxLength": 500,
						},
					},
				},
			},

			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     FoodOrderStatuses,
			},

			"delivery_location": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var MenuCategories = []string{
	"breakfast",
	"lunch",
	"dinner",
	"snacks",
	"beverages",
}

var FoodOrderStatuses = []string{
	"pending",
	"preparing",
	"ready",
	"delivered",
	"cancelled",
}

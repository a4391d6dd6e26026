package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name"},
		"additionalProperties": true,
		"properties": bson.M{
			"name":   bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"events": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
		},
	},
}

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"eventName", "serviceId"},
		"additionalProperties": true,
		"properties": bson.M{
			"eventName": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"serviceId": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
		},
	},
}

var PackageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"serviceId", "eventId", "name", "price"},
		"additionalProperties": true,
		"properties": bson.M{
			"serviceId": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"eventId":   bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"name":      bson.M{"bsonType": "string", "minLength": 1, "maxLength": 200},
			"price":     bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
		},
	},
}

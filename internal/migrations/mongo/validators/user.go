package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jayant413/contrashutter-backend/pkg/model"
)

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"fullname", "email", "contact", "password", "role", "createdAt"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "objectId"},
			"fullname": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":    bson.M{"bsonType": "string", "pattern": "^[^@\\s]+@[^@\\s]+$"},
			"contact":  bson.M{"bsonType": "string", "minLength": 1},
			"password": bson.M{"bsonType": "string", "minLength": 1},
			"role": bson.M{
				"enum": []any{model.RoleClient, model.RoleServiceProvider, model.RoleAdmin},
			},
			"status": bson.M{
				"enum": []any{model.PartnerStatusPending, model.PartnerStatusActive, model.PartnerStatusInactive},
			},
			"wishlist":  bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"createdAt": bson.M{"bsonType": "date"},
		},
	},
}

var PartnerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "partner", "status", "createdAt"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":     bson.M{"bsonType": "objectId"},
			"name":    bson.M{"bsonType": "string", "minLength": 1, "maxLength": 200},
			"partner": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"status": bson.M{
				"enum": []any{model.PartnerStatusPending, model.PartnerStatusActive, model.PartnerStatusInactive},
			},
			"createdAt": bson.M{"bsonType": "date"},
		},
	},
}

package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jayant413/contrashutter-backend/pkg/model"
)

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"booking_no", "userId", "package_details", "createdAt"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"booking_no": bson.M{"bsonType": "string", "minLength": 3},
			"ordered":    bson.M{"bsonType": "bool"},
			"userId":     bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"status": bson.M{
				"enum": []any{
					"",
					model.StatusBooked,
					model.StatusInProgress,
					model.StatusDeliverablesReady,
					model.StatusCompleted,
					model.StatusCancelled,
				},
			},
			"assignedStatus": bson.M{
				"enum": []any{
					"",
					model.AssignmentRequested,
					model.AssignmentAccepted,
					model.AssignmentCompleted,
					model.AssignmentRejected,
				},
			},
			"package_details": bson.M{
				"bsonType": "object",
				"required": []string{"name", "price"},
				"properties": bson.M{
					"name":  bson.M{"bsonType": "string"},
					"price": bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
				},
			},
			"payment_details": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"installment": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 3},
					"paidAmount":  bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
					"dueAmount":   bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
				},
			},
			"invoices":      bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"statusHistory": bson.M{"bsonType": "array"},
			"createdAt":     bson.M{"bsonType": "date"},
			"updatedAt":     bson.M{"bsonType": "date"},
		},
	},
}

var InvoiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"invoice_no", "bookingId", "paidAmount", "createdAt"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"invoice_no":  bson.M{"bsonType": "string", "minLength": 4},
			"bookingId":   bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"paymentType": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"paidAmount":  bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
			"dueAmount":   bson.M{"bsonType": []string{"double", "int", "long", "decimal"}, "minimum": 0},
			"paymentDate": bson.M{"bsonType": "date"},
			"createdAt":   bson.M{"bsonType": "date"},
		},
	},
}

package validator

import (
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

type BookingValidator struct {
	v *validation.Validator
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{v: validation.New(log)}
}

func (bv *BookingValidator) ValidateCreate(req *model.CreateBookingRequest) error {
	if err := bv.v.Struct(req); err != nil {
		return err
	}
	if req.PaymentDetails.PaymentType < 1 {
		return validation.ValidationErrors{{
			Field:   "payment_details.paymentType",
			Message: "payment_details.paymentType must be at least 1",
		}}
	}
	return nil
}

func (bv *BookingValidator) ValidateStatus(status string) error {
	return bv.v.Var("status", status, "required,booking_status")
}

func (bv *BookingValidator) ValidateAssignment(partnerID, assignedStatus string) error {
	if err := bv.v.Var("servicePartner", partnerID, "required,objectid"); err != nil {
		return err
	}
	return bv.v.Var("assignedStatus", assignedStatus, "required,assigned_status")
}

// ValidateAssignmentFields checks whichever of the assignment fields a full
// update carries.
func (bv *BookingValidator) ValidateAssignmentFields(partnerID, assignedStatus string) error {
	if err := bv.v.Var("servicePartner", partnerID, "omitempty,objectid"); err != nil {
		return err
	}
	return bv.v.Var("assignedStatus", assignedStatus, "omitempty,assigned_status")
}

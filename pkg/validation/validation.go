package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// AppError converts v into a 400 with one detail entry per field.
func (v ValidationErrors) AppError() *apperrors.AppError {
	details := make(map[string]any, len(v))
	for _, e := range v {
		details[e.Field] = e.Message
	}
	return apperrors.Validation(v.Error(), details)
}

// Validator wraps go-playground/validator with the domain tags registered.
type Validator struct {
	validate *validator.Validate
}

var customTags = map[string]validator.Func{
	"objectid":        validateObjectID,
	"booking_status":  oneOf(model.StatusBooked, model.StatusInProgress, model.StatusDeliverablesReady, model.StatusCompleted, model.StatusCancelled),
	"assigned_status": oneOf(model.AssignmentRequested, model.AssignmentAccepted, model.AssignmentCompleted, model.AssignmentRejected),
	"user_role":       oneOf(model.RoleClient, model.RoleServiceProvider, model.RoleAdmin),
	"partner_status":  oneOf(model.PartnerStatusPending, model.PartnerStatusActive, model.PartnerStatusInactive),
	"ticket_priority": oneOf(model.PriorityLow, model.PriorityMedium, model.PriorityHigh),
	"form_component":  oneOf(model.ComponentInput, model.ComponentSelect, model.ComponentTextarea),
}

func New(log *logger.Logger) *Validator {
	v := validator.New()

	for tag, fn := range customTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	// Report json names so messages match what clients sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v}
}

func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

// Var validates a single value against tag, reporting it under field.
func (v *Validator) Var(field string, value any, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			errs := translate(validationErrs)
			for i := range errs {
				errs[i].Field = field
				errs[i].Message = strings.Replace(errs[i].Message, "field", field, 1)
			}
			return errs
		}
		return err
	}
	return nil
}

func IsObjectID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

func oneOf(values ...string) validator.Func {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	}
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := err.Field()
		if field == "" {
			field = "field"
		}
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "objectid":
			message = fmt.Sprintf("%s must be a valid ObjectID", field)
		case "booking_status":
			message = fmt.Sprintf("%s must be one of: Booked, In Progress, Deliverables Ready, Completed, Cancelled", field)
		case "assigned_status":
			message = fmt.Sprintf("%s must be one of: Requested, Accepted, Completed, Rejected", field)
		case "user_role":
			message = fmt.Sprintf("%s must be one of: Client, Service Provider, Admin", field)
		case "partner_status":
			message = fmt.Sprintf("%s must be one of: Pending, Active, Inactive", field)
		case "ticket_priority":
			message = fmt.Sprintf("%s must be one of: Low, Medium, High", field)
		case "form_component":
			message = fmt.Sprintf("%s must be one of: input, select, textarea", field)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

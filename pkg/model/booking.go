package model

import "time"

const (
	StatusBooked            = "Booked"
	StatusInProgress        = "In Progress"
	StatusDeliverablesReady = "Deliverables Ready"
	StatusCompleted         = "Completed"
	StatusCancelled         = "Cancelled"
)

const (
	AssignmentRequested = "Requested"
	AssignmentAccepted  = "Accepted"
	AssignmentCompleted = "Completed"
	AssignmentRejected  = "Rejected"
)

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"

	PaymentTypeFull         = "Full Payment"
	PaymentTypeInstallments = "3 Installments"

	DefaultPaymentMethod = "Razorpay"
)

type BasicInfo struct {
	FullName             string `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Gender               string `json:"gender,omitempty" bson:"gender,omitempty"`
	DateOfBirth          *Date  `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Email                string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber          string `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	AlternatePhoneNumber string `json:"alternatePhoneNumber,omitempty" bson:"alternatePhoneNumber,omitempty"`
	AddressLine1         string `json:"addressLine1,omitempty" bson:"addressLine1,omitempty"`
	AddressLine2         string `json:"addressLine2,omitempty" bson:"addressLine2,omitempty"`
	City                 string `json:"city,omitempty" bson:"city,omitempty"`
	State                string `json:"state,omitempty" bson:"state,omitempty"`
	Pincode              string `json:"pincode,omitempty" bson:"pincode,omitempty"`
}

type EventDetails struct {
	EventName           string `json:"eventName,omitempty" bson:"eventName,omitempty"`
	EventDate           *Date  `json:"eventDate,omitempty" bson:"eventDate,omitempty"`
	EventStartTime      string `json:"eventStartTime,omitempty" bson:"eventStartTime,omitempty"`
	EventEndTime        string `json:"eventEndTime,omitempty" bson:"eventEndTime,omitempty"`
	VenueName           string `json:"venueName,omitempty" bson:"venueName,omitempty"`
	VenueAddressLine1   string `json:"venueAddressLine1,omitempty" bson:"venueAddressLine1,omitempty"`
	VenueAddressLine2   string `json:"venueAddressLine2,omitempty" bson:"venueAddressLine2,omitempty"`
	VenueCity           string `json:"venueCity,omitempty" bson:"venueCity,omitempty"`
	VenuePincode        string `json:"venuePincode,omitempty" bson:"venuePincode,omitempty"`
	NumberOfGuests      int    `json:"numberOfGuests,omitempty" bson:"numberOfGuests,omitempty" validate:"gte=0"`
	SpecialRequirements string `json:"specialRequirements,omitempty" bson:"specialRequirements,omitempty"`
}

type DeliveryAddress struct {
	SameAsClientAddress            bool   `json:"sameAsClientAddress,omitempty" bson:"sameAsClientAddress,omitempty"`
	RecipientName                  string `json:"recipientName,omitempty" bson:"recipientName,omitempty"`
	DeliveryAddressLine1           string `json:"deliveryAddressLine1,omitempty" bson:"deliveryAddressLine1,omitempty"`
	DeliveryAddressLine2           string `json:"deliveryAddressLine2,omitempty" bson:"deliveryAddressLine2,omitempty"`
	DeliveryCity                   string `json:"deliveryCity,omitempty" bson:"deliveryCity,omitempty"`
	DeliveryState                  string `json:"deliveryState,omitempty" bson:"deliveryState,omitempty"`
	DeliveryPincode                string `json:"deliveryPincode,omitempty" bson:"deliveryPincode,omitempty"`
	DeliveryContactNumber          string `json:"deliveryContactNumber,omitempty" bson:"deliveryContactNumber,omitempty"`
	AdditionalDeliveryInstructions string `json:"additionalDeliveryInstructions,omitempty" bson:"additionalDeliveryInstructions,omitempty"`
}

type PaymentDetails struct {
	Installment   int        `json:"installment" bson:"installment"`
	PayablePrice  float64    `json:"payablePrice" bson:"payablePrice"`
	PaidAmount    float64    `json:"paidAmount" bson:"paidAmount"`
	DueAmount     float64    `json:"dueAmount" bson:"dueAmount"`
	PaymentMethod string     `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentType   string     `json:"paymentType,omitempty" bson:"paymentType,omitempty"`
	PaymentStatus string     `json:"paymentStatus,omitempty" bson:"paymentStatus,omitempty"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
}

// PackageSnapshot is the package as it was when the booking was placed.
type PackageSnapshot struct {
	EventName      string        `json:"eventName,omitempty" bson:"eventName,omitempty"`
	ServiceName    string        `json:"serviceName,omitempty" bson:"serviceName,omitempty"`
	Name           string        `json:"name" bson:"name" validate:"required"`
	Price          float64       `json:"price" bson:"price" validate:"gt=0"`
	BookingPrice   float64       `json:"booking_price,omitempty" bson:"booking_price,omitempty"`
	CardDetails    []CardDetail  `json:"card_details,omitempty" bson:"card_details,omitempty"`
	PackageDetails []DetailBlock `json:"package_details,omitempty" bson:"package_details,omitempty"`
	BillDetails    []BillDetail  `json:"bill_details,omitempty" bson:"bill_details,omitempty"`
	Category       string        `json:"category,omitempty" bson:"category,omitempty"`
}

type StatusEntry struct {
	Status    string    `json:"status" bson:"status"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type AssignmentEntry struct {
	Status         string    `json:"status" bson:"status"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
	ServicePartner string    `json:"servicePartner,omitempty" bson:"servicePartner,omitempty"`
}

type Booking struct {
	ID                    string            `json:"_id,omitempty" bson:"_id,omitempty"`
	BookingNo             string            `json:"booking_no" bson:"booking_no"`
	Ordered               bool              `json:"ordered" bson:"ordered"`
	UserID                string            `json:"userId" bson:"userId"`
	BasicInfo             *BasicInfo        `json:"basic_info,omitempty" bson:"basic_info,omitempty"`
	FormDetails           map[string]any    `json:"form_details,omitempty" bson:"form_details,omitempty"`
	EventDetails          *EventDetails     `json:"event_details,omitempty" bson:"event_details,omitempty"`
	DeliveryAddress       *DeliveryAddress  `json:"delivery_address,omitempty" bson:"delivery_address,omitempty"`
	PaymentDetails        *PaymentDetails   `json:"payment_details,omitempty" bson:"payment_details,omitempty"`
	Invoices              []string          `json:"invoices" bson:"invoices"`
	PackageDetails        PackageSnapshot   `json:"package_details" bson:"package_details"`
	AssignedStatus        string            `json:"assignedStatus,omitempty" bson:"assignedStatus,omitempty"`
	ServicePartner        string            `json:"servicePartner,omitempty" bson:"servicePartner,omitempty"`
	AssignedStatusHistory []AssignmentEntry `json:"assignedStatusHistory" bson:"assignedStatusHistory"`
	Status                string            `json:"status" bson:"status"`
	StatusHistory         []StatusEntry     `json:"statusHistory" bson:"statusHistory"`
	AgreeToTerms          bool              `json:"agreeToTerms,omitempty" bson:"agreeToTerms,omitempty"`
	ConfirmBookingDetails bool              `json:"confirmBookingDetails,omitempty" bson:"confirmBookingDetails,omitempty"`
	CreatedAt             time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// BookingView is a booking with its references resolved, the shape the
// read endpoints return.
type BookingView struct {
	*Booking
	User           *User           `json:"userId"`
	ServicePartner *ServicePartner `json:"servicePartner"`
	Invoices       []*Invoice      `json:"invoices"`
}

// PaymentRequest is the payment_details object clients send. PaymentType
// carries the installment count and may arrive as a number or a string.
type PaymentRequest struct {
	PaymentType       FlexInt `json:"paymentType"`
	PaymentMethod     string  `json:"paymentMethod,omitempty"`
	RazorpayOrderID   string  `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string  `json:"razorpayPaymentId,omitempty"`
}

type CreateBookingRequest struct {
	BasicInfo             *BasicInfo       `json:"basic_info,omitempty" validate:"omitempty"`
	FormDetails           map[string]any   `json:"form_details,omitempty"`
	EventDetails          *EventDetails    `json:"event_details,omitempty" validate:"omitempty"`
	DeliveryAddress       *DeliveryAddress `json:"delivery_address,omitempty"`
	PaymentDetails        PaymentRequest   `json:"payment_details"`
	PackageDetails        PackageSnapshot  `json:"package_details" validate:"required"`
	AgreeToTerms          bool             `json:"agreeToTerms,omitempty"`
	ConfirmBookingDetails bool             `json:"confirmBookingDetails,omitempty"`
}

// PaymentPatch is payment_details as sent with a balance payment. Only the
// supplied fields overwrite the stored ones.
type PaymentPatch struct {
	Installment       *int     `json:"installment,omitempty"`
	PayablePrice      *float64 `json:"payablePrice,omitempty"`
	PaidAmount        *float64 `json:"paidAmount,omitempty"`
	DueAmount         *float64 `json:"dueAmount,omitempty"`
	PaymentMethod     string   `json:"paymentMethod,omitempty"`
	PaymentType       *string  `json:"paymentType,omitempty"`
	PaymentStatus     string   `json:"paymentStatus,omitempty"`
	RazorpayOrderID   string   `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string   `json:"razorpayPaymentId,omitempty"`
}

// BookingFields is the subset of a booking a full update may overwrite.
type BookingFields struct {
	BasicInfo             *BasicInfo       `json:"basic_info,omitempty" bson:"basic_info,omitempty"`
	FormDetails           map[string]any   `json:"form_details,omitempty" bson:"form_details,omitempty"`
	EventDetails          *EventDetails    `json:"event_details,omitempty" bson:"event_details,omitempty"`
	DeliveryAddress       *DeliveryAddress `json:"delivery_address,omitempty" bson:"delivery_address,omitempty"`
	PackageDetails        *PackageSnapshot `json:"package_details,omitempty" bson:"package_details,omitempty"`
	AgreeToTerms          *bool            `json:"agreeToTerms,omitempty" bson:"agreeToTerms,omitempty"`
	ConfirmBookingDetails *bool            `json:"confirmBookingDetails,omitempty" bson:"confirmBookingDetails,omitempty"`
}

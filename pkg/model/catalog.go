package model

type Service struct {
	ID     string   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name   string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Events []string `json:"events" bson:"events"`
}

// ServiceDetail is a service with its events populated.
type ServiceDetail struct {
	*Service
	Events []*Event `json:"events"`
}

// ServiceUpdate is one element of the bulk PUT /api/services body.
type ServiceUpdate struct {
	ID     string   `json:"_id" validate:"required,objectid"`
	Name   string   `json:"name" validate:"required,min=2,max=100"`
	Events []string `json:"events,omitempty" validate:"omitempty,dive,objectid"`
}

type Event struct {
	ID          string   `json:"_id,omitempty" bson:"_id,omitempty"`
	EventName   string   `json:"eventName" bson:"eventName" validate:"required,min=2,max=100"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	ServiceID   string   `json:"serviceId" bson:"serviceId" validate:"required,objectid"`
	FormID      string   `json:"formId,omitempty" bson:"formId,omitempty"`
	PackageIDs  []string `json:"packageIds" bson:"packageIds"`
	Image       string   `json:"image" bson:"image"`
}

// EventView is an event with its service populated.
type EventView struct {
	*Event
	ServiceID *Service `json:"serviceId"`
}

// EventDetail is an event with its packages populated.
type EventDetail struct {
	*Event
	PackageIDs []*Package `json:"packageIds"`
}

// EventUpdate leaves a field untouched when it is empty, or nil for Description.
type EventUpdate struct {
	EventName   string  `json:"eventName,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty"`
	ServiceID   string  `json:"serviceId,omitempty" validate:"omitempty,objectid"`
}

type CardDetail struct {
	ProductName string `json:"product_name,omitempty" bson:"product_name,omitempty"`
	Quantity    int    `json:"quantity,omitempty" bson:"quantity,omitempty"`
}

type DetailBlock struct {
	Title    string   `json:"title,omitempty" bson:"title,omitempty"`
	Subtitle []string `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
}

type BillDetail struct {
	Type   string  `json:"type,omitempty" bson:"type,omitempty"`
	Amount float64 `json:"amount,omitempty" bson:"amount,omitempty"`
}

type Package struct {
	ID             string        `json:"_id,omitempty" bson:"_id,omitempty"`
	ServiceID      string        `json:"serviceId" bson:"serviceId" validate:"required,objectid"`
	EventID        string        `json:"eventId" bson:"eventId" validate:"required,objectid"`
	Name           string        `json:"name" bson:"name" validate:"required,max=200"`
	Price          float64       `json:"price" bson:"price" validate:"required,gt=0"`
	BookingPrice   float64       `json:"booking_price" bson:"booking_price" validate:"gte=0"`
	CardDetails    []CardDetail  `json:"card_details" bson:"card_details"`
	PackageDetails []DetailBlock `json:"package_details" bson:"package_details"`
	BillDetails    []BillDetail  `json:"bill_details" bson:"bill_details"`
	Category       string        `json:"category,omitempty" bson:"category,omitempty"`
}

// PackageView is a package with its service and event populated. A dangling
// reference is served as null.
type PackageView struct {
	*Package
	ServiceID *Service `json:"serviceId"`
	EventID   *Event   `json:"eventId"`
}

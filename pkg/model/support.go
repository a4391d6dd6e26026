package model

import "time"

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"

	TicketOpen = "Open"
)

type SupportTicket struct {
	ID        string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Subject   string    `json:"subject" bson:"subject" validate:"required,max=200"`
	Message   string    `json:"message" bson:"message" validate:"required,max=5000"`
	Priority  string    `json:"priority" bson:"priority" validate:"required,ticket_priority"`
	UserID    string    `json:"userId" bson:"userId" validate:"required,objectid"`
	Status    string    `json:"status" bson:"status"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

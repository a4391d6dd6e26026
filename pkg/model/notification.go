package model

import "time"

type Notification struct {
	ID           string    `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID       string    `json:"userId" bson:"userId"`
	Title        string    `json:"title" bson:"title"`
	Message      string    `json:"message" bson:"message"`
	RedirectPath string    `json:"redirectPath" bson:"redirectPath"`
	Sender       string    `json:"sender,omitempty" bson:"sender,omitempty"`
	Read         bool      `json:"read" bson:"read"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

type NotificationRequest struct {
	ReceiverID   string `json:"receiverId,omitempty" validate:"omitempty,objectid"`
	Title        string `json:"title" validate:"required,max=200"`
	Message      string `json:"message" validate:"required,max=2000"`
	RedirectPath string `json:"redirectPath" validate:"omitempty,max=500"`
}

package model

import "time"

const (
	ComponentInput    = "input"
	ComponentSelect   = "select"
	ComponentTextarea = "textarea"
)

type FormField struct {
	Name      string   `json:"name" bson:"name" validate:"required"`
	Label     string   `json:"label" bson:"label" validate:"required"`
	Type      string   `json:"type" bson:"type" validate:"required"`
	Required  bool     `json:"required" bson:"required"`
	Component string   `json:"component" bson:"component" validate:"required,form_component"`
	Options   []string `json:"options,omitempty" bson:"options,omitempty"`
}

type Form struct {
	ID        string      `json:"_id,omitempty" bson:"_id,omitempty"`
	FormTitle string      `json:"formTitle" bson:"formTitle" validate:"required,max=200"`
	EventType string      `json:"eventType" bson:"eventType" validate:"required,objectid"`
	Fields    []FormField `json:"fields" bson:"fields" validate:"dive"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}

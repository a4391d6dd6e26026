// Package events defines the domain events the API emits after a booking commit
// and the publishers that carry them to Kafka.
package events

import (
	"context"
	"time"
)

const (
	BookingCreated         = "booking.created"
	BookingOrdered         = "booking.ordered"
	BookingPaymentRecorded = "booking.payment_recorded"
	BookingStatusChanged   = "booking.status_changed"
	BookingPartnerAssigned = "booking.partner_assigned"

	ContactSubmitted = "contact.submitted"

	SchemaVersion = "1"
	Source        = "contrashutter-api"
)

type BookingEvent struct {
	Type           string    `json:"type"`
	BookingID      string    `json:"booking_id"`
	BookingNo      string    `json:"booking_no"`
	UserID         string    `json:"user_id"`
	ClientEmail    string    `json:"client_email,omitempty"`
	ClientName     string    `json:"client_name,omitempty"`
	Status         string    `json:"status,omitempty"`
	AssignedStatus string    `json:"assigned_status,omitempty"`
	ServicePartner string    `json:"service_partner,omitempty"`
	PaidAmount     float64   `json:"paid_amount,omitempty"`
	DueAmount      float64   `json:"due_amount,omitempty"`
	InvoiceNo      string    `json:"invoice_no,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type ContactMessage struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Publisher interface {
	PublishBooking(ctx context.Context, event BookingEvent) error
	PublishContact(ctx context.Context, msg ContactMessage) error
	Close() error
}

// Enabled reports whether p actually delivers messages.
func Enabled(p Publisher) bool {
	_, noop := p.(NoopPublisher)
	return p != nil && !noop
}

type NoopPublisher struct{}

func (NoopPublisher) PublishBooking(context.Context, BookingEvent) error   { return nil }
func (NoopPublisher) PublishContact(context.Context, ContactMessage) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jayant413/contrashutter-backend/pkg/kafka"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
)

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	bookings messagePublisher
	contact  messagePublisher
}

func NewKafkaPublisher(bookings, contact *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{bookings: bookings, contact: contact}
}

func (p *KafkaPublisher) PublishBooking(ctx context.Context, event BookingEvent) error {
	return publish(ctx, p.bookings, event.BookingID, event.Type, event)
}

func (p *KafkaPublisher) PublishContact(ctx context.Context, msg ContactMessage) error {
	key := msg.Email
	if key == "" {
		key = uuid.NewString()
	}
	return publish(ctx, p.contact, key, ContactSubmitted, msg)
}

func publish(ctx context.Context, producer messagePublisher, key, eventType string, payload any) error {
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(logger.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s message: %w", eventType, err)
	}
	if err := producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return errors.Join(p.bookings.Close(), p.contact.Close())
}

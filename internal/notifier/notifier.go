// Package notifier turns domain events consumed from Kafka into outgoing mail.
package notifier

import (
	"context"
	"fmt"
	"strings"

	authservice "github.com/jayant413/contrashutter-backend/internal/auth/service"
	"github.com/jayant413/contrashutter-backend/pkg/events"
	"github.com/jayant413/contrashutter-backend/pkg/kafka"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/mailer"
)

type Notifier struct {
	mail       mailer.Sender
	adminEmail string
	log        *logger.Logger
}

func New(mail mailer.Sender, adminEmail string, log *logger.Logger) *Notifier {
	return &Notifier{mail: mail, adminEmail: adminEmail, log: log}
}

// HandleContact forwards a contact submission to the admin mailbox.
func (n *Notifier) HandleContact(ctx context.Context, msg kafka.Message) error {
	var contact events.ContactMessage
	if err := msg.DecodeValue(&contact); err != nil {
		return kafka.NewPermanentError("malformed contact message", err)
	}
	if n.adminEmail == "" {
		n.log.WithContext(ctx).Warn("Dropping contact message, no admin email configured", "event_id", msg.EventID())
		return nil
	}
	return n.send(ctx, msg, authservice.ContactMail(n.adminEmail, contact))
}

// HandleBooking emails the client about the booking events they care about.
// Events without a client email are skipped.
func (n *Notifier) HandleBooking(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("malformed booking event", err)
	}
	mail, ok := BookingMail(event)
	if !ok {
		n.log.WithContext(ctx).Debug("Booking event needs no mail", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}
	return n.send(ctx, msg, mail)
}

func (n *Notifier) send(ctx context.Context, msg kafka.Message, mail mailer.Message) error {
	if err := n.mail.Send(ctx, mail); err != nil {
		return kafka.NewTransientError("failed to send mail", err)
	}
	n.log.WithContext(ctx).Info("Mail sent", "event_id", msg.EventID(), "event_type", msg.EventType(), "to", strings.Join(mail.To, ","))
	return nil
}

// BookingMail renders the client mail for event. It reports false for event
// types that are not mailed or when the client email is unknown.
func BookingMail(event events.BookingEvent) (mailer.Message, bool) {
	if event.ClientEmail == "" {
		return mailer.Message{}, false
	}

	name := event.ClientName
	if name == "" {
		name = "there"
	}
	var subject, body string
	switch event.Type {
	case events.BookingCreated:
		subject = "Booking received: " + event.BookingNo
		body = fmt.Sprintf("Your booking %s has been received. We will contact you shortly to confirm the details.", event.BookingNo)
	case events.BookingStatusChanged:
		subject = "Booking " + event.BookingNo + " is now " + event.Status
		body = fmt.Sprintf("The status of your booking %s has been updated to %s.", event.BookingNo, event.Status)
	case events.BookingPaymentRecorded:
		subject = "Payment received for booking " + event.BookingNo
		body = fmt.Sprintf("We have received a payment of INR %.2f for booking %s.", event.PaidAmount, event.BookingNo)
		if event.InvoiceNo != "" {
			body += fmt.Sprintf(" Your invoice number is %s.", event.InvoiceNo)
		}
		if event.DueAmount > 0 {
			body += fmt.Sprintf(" The remaining amount due is INR %.2f.", event.DueAmount)
		}
	default:
		return mailer.Message{}, false
	}

	return mailer.Message{
		To:      []string{event.ClientEmail},
		Subject: subject,
		Text:    fmt.Sprintf("Hi %s,\n\n%s\n\nThank you for choosing Contrashutter.", name, body),
	}, true
}

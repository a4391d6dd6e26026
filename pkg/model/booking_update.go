package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type UpdateKind int

const (
	UpdateFull UpdateKind = iota
	UpdateOrdered
	UpdatePayment
	UpdateStatus
	UpdateAssignment
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateOrdered:
		return "ordered"
	case UpdatePayment:
		return "payment"
	case UpdateStatus:
		return "status"
	case UpdateAssignment:
		return "assignment"
	default:
		return "full"
	}
}

// BookingUpdate is a parsed PUT /api/bookings/:id body. Which branch applies
// depends on the keys present, checked in this order: ordered, payment_details,
// a lone status, exactly servicePartner+assignedStatus, anything else.
type BookingUpdate struct {
	Kind UpdateKind

	Ordered        bool
	Payment        *PaymentPatch
	Status         string
	ServicePartner string
	AssignedStatus string
	Fields         BookingFields
}

func ParseBookingUpdate(data []byte) (*BookingUpdate, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid booking update: %w", err)
	}

	update := &BookingUpdate{}
	if err := decodeOptional(raw, "payment_details", &update.Payment); err != nil {
		return nil, err
	}
	if err := decodeOptional(raw, "status", &update.Status); err != nil {
		return nil, err
	}
	if err := decodeOptional(raw, "servicePartner", &update.ServicePartner); err != nil {
		return nil, err
	}
	if err := decodeOptional(raw, "assignedStatus", &update.AssignedStatus); err != nil {
		return nil, err
	}

	if _, ok := raw["ordered"]; ok {
		update.Kind = UpdateOrdered
		if err := decodeOptional(raw, "ordered", &update.Ordered); err != nil {
			return nil, err
		}
		return update, nil
	}
	if update.Payment != nil {
		update.Kind = UpdatePayment
		return update, nil
	}
	if len(raw) == 1 && update.Status != "" {
		update.Kind = UpdateStatus
		return update, nil
	}
	if len(raw) == 2 && update.ServicePartner != "" && update.AssignedStatus != "" {
		update.Kind = UpdateAssignment
		return update, nil
	}

	update.Kind = UpdateFull
	if err := json.Unmarshal(data, &update.Fields); err != nil {
		return nil, fmt.Errorf("invalid booking update: %w", err)
	}
	return update, nil
}

func decodeOptional(raw map[string]json.RawMessage, key string, dst any) error {
	value, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

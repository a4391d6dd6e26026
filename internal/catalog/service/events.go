package service

import (
	"context"
	"errors"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

// CreateEvent stores the event and links it onto its service in one
// transaction. The image is written first and removed again if the
// transaction fails.
func (s *catalogService) CreateEvent(ctx context.Context, event *model.Event, image *blob.Upload) (*model.Event, error) {
	log := s.cfg.Log.WithContext(ctx)

	event.ID = ""
	event.EventName = sanitizer.TrimAndNormalize(event.EventName)
	event.FormID = ""
	event.PackageIDs = []string{}
	if err := s.validate(event, "Event name and serviceId are required"); err != nil {
		return nil, err
	}

	if _, err := s.services.FindByID(ctx, event.ServiceID); err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return nil, apperrors.InvalidInput("Service not found")
		}
		return nil, s.mapError(ctx, err, "Error creating event")
	}

	if image != nil {
		ref, err := s.images.Store(ctx, EventImageFolder, *image)
		if err != nil {
			log.Warn("Rejected event image", "service_id", event.ServiceID, "error", err)
			return nil, blob.AppError(err)
		}
		event.Image = ref
	}

	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		event.ID = ""
		if err := s.events.Create(txCtx, event); err != nil {
			return err
		}
		return s.services.AddEvent(txCtx, event.ServiceID, event.ID)
	})
	if err != nil {
		s.replaceImage(ctx, event.Image, "")
		return nil, s.mapError(ctx, err, "Error creating event")
	}
	s.invalidate(ctx)

	log.Info("Event created", "event_id", event.ID, "service_id", event.ServiceID)
	return event, nil
}

func (s *catalogService) ListEvents(ctx context.Context) ([]*model.EventView, error) {
	return cached(ctx, s, "events", func() ([]*model.EventView, error) {
		events, err := s.events.FindAll(ctx)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching events")
		}

		ids := make([]string, len(events))
		for i, e := range events {
			ids[i] = e.ServiceID
		}
		services, err := s.services.FindByIDs(ctx, sanitizer.UniqueStrings(ids))
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching events")
		}
		byID := make(map[string]*model.Service, len(services))
		for _, svc := range services {
			byID[svc.ID] = svc
		}

		views := make([]*model.EventView, len(events))
		for i, e := range events {
			views[i] = &model.EventView{Event: e, ServiceID: byID[e.ServiceID]}
		}
		return views, nil
	})
}

func (s *catalogService) GetEvent(ctx context.Context, id string) (*model.EventDetail, error) {
	if !validation.IsObjectID(id) {
		return nil, apperrors.InvalidInput("Invalid event ID format")
	}
	return cached(ctx, s, "event:"+id, func() (*model.EventDetail, error) {
		event, err := s.events.FindByID(ctx, id)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching event")
		}
		packages, err := s.packages.FindByIDs(ctx, event.PackageIDs)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching event")
		}
		return &model.EventDetail{Event: event, PackageIDs: packages}, nil
	})
}

func (s *catalogService) EventsByService(ctx context.Context, serviceID string) ([]*model.Event, error) {
	if !validation.IsObjectID(serviceID) {
		return nil, apperrors.InvalidInput("Invalid service ID format")
	}
	events, err := cached(ctx, s, "events:service:"+serviceID, func() ([]*model.Event, error) {
		events, err := s.events.FindByService(ctx, serviceID)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching events")
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, apperrors.NotFoundMessage("No events found for this service")
	}
	return events, nil
}

// UpdateEvent applies the present fields. A new image replaces the stored
// one, which is then deleted on a best-effort basis.
func (s *catalogService) UpdateEvent(ctx context.Context, id string, update *model.EventUpdate, image *blob.Upload) (*model.Event, error) {
	log := s.cfg.Log.WithContext(ctx)

	update.EventName = sanitizer.TrimAndNormalize(update.EventName)
	if err := s.validate(update, "Invalid event data"); err != nil {
		return nil, err
	}

	current, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error updating event")
	}

	var newImage string
	if image != nil {
		newImage, err = s.images.Store(ctx, EventImageFolder, *image)
		if err != nil {
			log.Warn("Rejected event image", "event_id", id, "error", err)
			return nil, blob.AppError(err)
		}
	}

	if err := s.events.Update(ctx, id, update, newImage); err != nil {
		s.replaceImage(ctx, newImage, "")
		return nil, s.mapError(ctx, err, "Error updating event")
	}
	if newImage != "" {
		s.replaceImage(ctx, current.Image, newImage)
	}
	s.invalidate(ctx)

	updated, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error updating event")
	}
	log.Info("Event updated", "event_id", id, "image_replaced", newImage != "")
	return updated, nil
}

func (s *catalogService) LinkForm(ctx context.Context, eventID, formID string) error {
	if err := s.events.SetForm(ctx, eventID, formID); err != nil {
		return s.mapError(ctx, err, "Error linking form")
	}
	return nil
}

func (s *catalogService) InvalidateCache(ctx context.Context) {
	s.invalidate(ctx)
}

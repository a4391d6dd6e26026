package service

import (
	"context"

	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

func (s *catalogService) CreateService(ctx context.Context, name string) (*model.Service, error) {
	svc := &model.Service{Name: sanitizer.TrimAndNormalize(name), Events: []string{}}
	if svc.Name == "" {
		return nil, apperrors.InvalidInput("Service name is required")
	}
	if err := s.validate(svc, "Service name is required"); err != nil {
		return nil, err
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, s.mapError(ctx, err, "Error creating service")
	}
	s.invalidate(ctx)

	s.cfg.Log.WithContext(ctx).Info("Service created", "service_id", svc.ID, "name", svc.Name)
	return svc, nil
}

func (s *catalogService) ListServices(ctx context.Context) ([]*model.ServiceDetail, error) {
	return cached(ctx, s, "services", func() ([]*model.ServiceDetail, error) {
		services, err := s.services.FindAll(ctx)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching services")
		}
		return s.populateServices(ctx, services)
	})
}

func (s *catalogService) GetService(ctx context.Context, id string) (*model.ServiceDetail, error) {
	if !validation.IsObjectID(id) {
		return nil, apperrors.InvalidInput("Invalid service ID format")
	}
	return cached(ctx, s, "service:"+id, func() (*model.ServiceDetail, error) {
		svc, err := s.services.FindByID(ctx, id)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching service")
		}
		details, err := s.populateServices(ctx, []*model.Service{svc})
		if err != nil {
			return nil, err
		}
		return details[0], nil
	})
}

// UpdateServices renames each listed service. A failing entry is logged and
// skipped so the rest of the batch still applies.
func (s *catalogService) UpdateServices(ctx context.Context, updates []model.ServiceUpdate) error {
	if len(updates) == 0 {
		return apperrors.InvalidInput("Invalid service update data")
	}
	log := s.cfg.Log.WithContext(ctx)

	var renamed int
	for _, u := range updates {
		u.Name = sanitizer.TrimAndNormalize(u.Name)
		if err := s.validator.Struct(&u); err != nil {
			log.Warn("Skipping invalid service update", "service_id", u.ID, "error", err)
			continue
		}
		if err := s.services.Rename(ctx, u.ID, u.Name); err != nil {
			log.Error("Error updating service", "service_id", u.ID, "error", err)
			continue
		}
		renamed++
	}
	s.invalidate(ctx)

	log.Info("Services updated", "requested", len(updates), "renamed", renamed)
	return nil
}

func (s *catalogService) populateServices(ctx context.Context, services []*model.Service) ([]*model.ServiceDetail, error) {
	var ids []string
	for _, svc := range services {
		ids = append(ids, svc.Events...)
	}
	events, err := s.events.FindByIDs(ctx, ids)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching services")
	}
	byID := make(map[string]*model.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	details := make([]*model.ServiceDetail, len(services))
	for i, svc := range services {
		detail := &model.ServiceDetail{Service: svc, Events: []*model.Event{}}
		for _, id := range svc.Events {
			if e, ok := byID[id]; ok {
				detail.Events = append(detail.Events, e)
			}
		}
		details[i] = detail
	}
	return details, nil
}

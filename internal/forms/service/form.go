package service

import (
	"context"
	"errors"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	formserrors "github.com/jayant413/contrashutter-backend/internal/forms/errors"
	"github.com/jayant413/contrashutter-backend/internal/forms/repository"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

// EventLinker records a form on its event. LinkForm runs inside the form's
// transaction; InvalidateCache runs only after that transaction commits.
type EventLinker interface {
	LinkForm(ctx context.Context, eventID, formID string) error
	InvalidateCache(ctx context.Context)
}

type FormService interface {
	// Upsert updates the form of req.EventType, or creates and links one.
	// created reports which of the two happened.
	Upsert(ctx context.Context, req *model.Form) (form *model.Form, created bool, err error)
	Update(ctx context.Context, id string, fields []model.FormField) (*model.Form, error)
	GetByEventType(ctx context.Context, eventType string) (*model.Form, error)
}

type formService struct {
	repo      repository.FormRepository
	events    EventLinker
	txManager mongotx.TransactionManager
	validator *validation.Validator
	cfg       *config.Config
}

func NewFormService(
	repo repository.FormRepository,
	events EventLinker,
	txManager mongotx.TransactionManager,
	validator *validation.Validator,
	cfg *config.Config,
) FormService {
	return &formService{
		repo:      repo,
		events:    events,
		txManager: txManager,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *formService) Upsert(ctx context.Context, req *model.Form) (*model.Form, bool, error) {
	log := s.cfg.Log.WithContext(ctx)

	req.FormTitle = sanitizer.TrimAndNormalize(req.FormTitle)
	if req.EventType == "" || req.Fields == nil {
		return nil, false, apperrors.InvalidInput("Missing required fields")
	}
	if err := s.validate(req, "Missing required fields"); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByEventType(ctx, req.EventType)
	switch {
	case err == nil:
		form, err := s.repo.Update(ctx, existing.ID, req.FormTitle, req.Fields)
		if err != nil {
			return nil, false, s.mapError(ctx, err, "Error creating form")
		}
		log.Info("Form updated", "form_id", form.ID, "event_id", req.EventType)
		return form, false, nil
	case !errors.Is(err, formserrors.ErrNotFound):
		return nil, false, s.mapError(ctx, err, "Error creating form")
	}

	form := &model.Form{FormTitle: req.FormTitle, EventType: req.EventType, Fields: req.Fields}
	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		form.ID = ""
		if err := s.repo.Create(txCtx, form); err != nil {
			return err
		}
		return s.events.LinkForm(txCtx, req.EventType, form.ID)
	})
	if err != nil {
		return nil, false, s.mapError(ctx, err, "Error creating form")
	}
	s.events.InvalidateCache(ctx)

	log.Info("Form created", "form_id", form.ID, "event_id", req.EventType)
	return form, true, nil
}

func (s *formService) Update(ctx context.Context, id string, fields []model.FormField) (*model.Form, error) {
	if fields == nil {
		return nil, apperrors.InvalidInput("Invalid fields data")
	}
	for i := range fields {
		if err := s.validate(&fields[i], "Invalid fields data"); err != nil {
			return nil, err
		}
	}

	form, err := s.repo.Update(ctx, id, "", fields)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error updating form")
	}
	s.cfg.Log.WithContext(ctx).Info("Form fields replaced", "form_id", id, "fields", len(fields))
	return form, nil
}

func (s *formService) GetByEventType(ctx context.Context, eventType string) (*model.Form, error) {
	form, err := s.repo.FindByEventType(ctx, eventType)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching form")
	}
	return form, nil
}

func (s *formService) mapError(ctx context.Context, err error, fallback string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, formserrors.ErrNotFound), errors.Is(err, formserrors.ErrInvalidID):
		return apperrors.NotFoundMessage("Form not found")
	case errors.Is(err, catalogerrors.ErrEventNotFound), errors.Is(err, catalogerrors.ErrInvalidID):
		return apperrors.NotFoundMessage("Event not found")
	default:
		s.cfg.Log.WithContext(ctx).Error(fallback, "error", err)
		return apperrors.Internal(fallback, err)
	}
}

func (s *formService) validate(v any, message string) error {
	if err := s.validator.Struct(v); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			appErr := verrs.AppError()
			appErr.Message = message
			return appErr
		}
		return apperrors.InvalidInput(message)
	}
	return nil
}

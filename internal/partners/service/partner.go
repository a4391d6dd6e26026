package service

import (
	"context"
	"errors"
	"fmt"

	notificationsservice "github.com/jayant413/contrashutter-backend/internal/notifications/service"
	partnerserrors "github.com/jayant413/contrashutter-backend/internal/partners/errors"
	"github.com/jayant413/contrashutter-backend/internal/partners/repository"
	userserrors "github.com/jayant413/contrashutter-backend/internal/users/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const (
	MsgDuplicate = "This Service Partner is already registered. Please use a different Service Partner."
	MsgNotFound  = "Service Partner not found"
)

// Owners is the slice of the user store that mirrors partner state.
type Owners interface {
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	SetPartner(ctx context.Context, id, partnerID, status string) error
	SetStatus(ctx context.Context, id, status string) error
}

type Notifier interface {
	Push(ctx context.Context, userID string, msg notificationsservice.Message) error
	NotifyAdmins(ctx context.Context, msg notificationsservice.Message) error
}

type PartnerService interface {
	Create(ctx context.Context, userID string, partner *model.ServicePartner) (*model.ServicePartner, error)
	List(ctx context.Context) ([]*model.PartnerView, error)
	GetByID(ctx context.Context, id string) (*model.PartnerView, error)
	GetByPartner(ctx context.Context, userID string) (*model.PartnerView, error)
	Update(ctx context.Context, id string, update *model.PartnerUpdate) (*model.ServicePartner, error)
	Delete(ctx context.Context, id string) error
}

type partnerService struct {
	repo      repository.PartnerRepository
	owners    Owners
	notifier  Notifier
	txManager mongotx.TransactionManager
	validator *validation.Validator
	cfg       *config.Config
}

func NewPartnerService(
	repo repository.PartnerRepository,
	owners Owners,
	notifier Notifier,
	txManager mongotx.TransactionManager,
	validator *validation.Validator,
	cfg *config.Config,
) PartnerService {
	return &partnerService{
		repo:      repo,
		owners:    owners,
		notifier:  notifier,
		txManager: txManager,
		validator: validator,
		cfg:       cfg,
	}
}

// Create registers a Pending partner profile for userID and points the user
// at it. Admins are told about the request afterwards.
func (s *partnerService) Create(ctx context.Context, userID string, partner *model.ServicePartner) (*model.ServicePartner, error) {
	log := s.cfg.Log.WithContext(ctx)

	if !validation.IsObjectID(userID) {
		return nil, apperrors.InvalidInput("Invalid user ID format")
	}
	partner.ID = ""
	partner.Partner = userID
	partner.Status = model.PartnerStatusPending
	normalize(partner)
	if err := s.validate(partner); err != nil {
		return nil, err
	}

	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		partner.ID = ""
		if err := s.repo.Create(txCtx, partner); err != nil {
			return err
		}
		return s.owners.SetPartner(txCtx, userID, partner.ID, model.PartnerStatusPending)
	})
	if err != nil {
		return nil, s.mapError(ctx, err, "Error creating service partner")
	}

	err = s.notifier.NotifyAdmins(ctx, notificationsservice.Message{
		Title:        "New Service Partner Request: " + partner.Name,
		Message:      "New service partner requested to join program",
		RedirectPath: "/admin/service-partners/" + partner.ID,
		Sender:       userID,
	})
	if err != nil {
		log.Warn("Failed to notify admins of partner request", "partner_id", partner.ID, "error", err)
	}

	log.Info("Service partner created", "partner_id", partner.ID, "user_id", userID)
	return partner, nil
}

func (s *partnerService) List(ctx context.Context) ([]*model.PartnerView, error) {
	partners, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching service partners")
	}
	return s.populate(ctx, partners)
}

func (s *partnerService) GetByID(ctx context.Context, id string) (*model.PartnerView, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching service partner")
	}
	return s.populateOne(ctx, partner)
}

func (s *partnerService) GetByPartner(ctx context.Context, userID string) (*model.PartnerView, error) {
	partner, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching service partner")
	}
	return s.populateOne(ctx, partner)
}

// Update applies the present fields. A status change is copied onto the
// owning user, who also gets a notification.
func (s *partnerService) Update(ctx context.Context, id string, update *model.PartnerUpdate) (*model.ServicePartner, error) {
	log := s.cfg.Log.WithContext(ctx)

	if update.ContactNumber != nil {
		*update.ContactNumber = sanitizer.NormalizePhone(*update.ContactNumber)
	}
	if update.Email != nil {
		*update.Email = sanitizer.NormalizeEmail(*update.Email)
	}
	if err := s.validate(update); err != nil {
		return nil, err
	}

	partner, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error updating service partner")
	}

	if update.Status != nil {
		s.mirrorStatus(ctx, partner, *update.Status, update.UpdatedBy)
	}

	log.Info("Service partner updated", "partner_id", id, "status_changed", update.Status != nil)
	return partner, nil
}

func (s *partnerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError(ctx, err, "Error deleting service partner")
	}
	s.cfg.Log.WithContext(ctx).Info("Service partner deleted", "partner_id", id)
	return nil
}

// mirrorStatus is best-effort: the partner document is already updated and a
// vanished owner is not an error.
func (s *partnerService) mirrorStatus(ctx context.Context, partner *model.ServicePartner, status, updatedBy string) {
	log := s.cfg.Log.WithContext(ctx)

	if err := s.owners.SetStatus(ctx, partner.Partner, status); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			log.Warn("Service partner owner missing", "partner_id", partner.ID, "user_id", partner.Partner)
			return
		}
		log.Error("Failed to mirror partner status", "partner_id", partner.ID, "error", err)
		return
	}

	sender := updatedBy
	if sender == "" {
		sender = partner.Partner
	}
	err := s.notifier.Push(ctx, partner.Partner, notificationsservice.Message{
		Title:        "Service Partner Status Updated",
		Message:      fmt.Sprintf("Your service partner status has been updated to %s", status),
		RedirectPath: "/profile",
		Sender:       sender,
	})
	if err != nil {
		log.Warn("Failed to notify partner of status change", "partner_id", partner.ID, "error", err)
	}
}

func (s *partnerService) populateOne(ctx context.Context, partner *model.ServicePartner) (*model.PartnerView, error) {
	views, err := s.populate(ctx, []*model.ServicePartner{partner})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *partnerService) populate(ctx context.Context, partners []*model.ServicePartner) ([]*model.PartnerView, error) {
	ids := make([]string, 0, len(partners))
	for _, p := range partners {
		if validation.IsObjectID(p.Partner) {
			ids = append(ids, p.Partner)
		}
	}
	owners, err := s.owners.FindByIDs(ctx, sanitizer.UniqueStrings(ids))
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching service partners")
	}
	byID := make(map[string]*model.User, len(owners))
	for _, u := range owners {
		byID[u.ID] = u
	}

	views := make([]*model.PartnerView, len(partners))
	for i, p := range partners {
		views[i] = &model.PartnerView{ServicePartner: p, Partner: byID[p.Partner]}
	}
	return views, nil
}

func (s *partnerService) mapError(ctx context.Context, err error, fallback string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, partnerserrors.ErrNotFound), errors.Is(err, partnerserrors.ErrInvalidID):
		return apperrors.NotFoundMessage(MsgNotFound)
	case errors.Is(err, partnerserrors.ErrDuplicate):
		return apperrors.InvalidInput(MsgDuplicate)
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundMessage("User not found")
	default:
		s.cfg.Log.WithContext(ctx).Error(fallback, "error", err)
		return apperrors.Internal(fallback, err)
	}
}

func (s *partnerService) validate(v any) error {
	if err := s.validator.Struct(v); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return verrs.AppError()
		}
		return apperrors.InvalidInput("Validation error: " + err.Error())
	}
	return nil
}

func normalize(p *model.ServicePartner) {
	p.Name = sanitizer.TrimAndNormalize(p.Name)
	p.ContactPerson = sanitizer.TrimAndNormalize(p.ContactPerson)
	p.ContactNumber = sanitizer.NormalizePhone(p.ContactNumber)
	p.Email = sanitizer.NormalizeEmail(p.Email)
}

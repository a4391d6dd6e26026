package service

import (
	"context"
	"errors"

	notificationsservice "github.com/jayant413/contrashutter-backend/internal/notifications/service"
	"github.com/jayant413/contrashutter-backend/internal/support/repository"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const ImageFolder = "support"

type ImageStore interface {
	Store(ctx context.Context, folder string, up blob.Upload) (string, error)
}

type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, msg notificationsservice.Message) error
}

type TicketService interface {
	CreateTicket(ctx context.Context, userID string, ticket *model.SupportTicket, image *blob.Upload) (*model.SupportTicket, error)
}

type ticketService struct {
	repo      repository.TicketRepository
	images    ImageStore
	notifier  AdminNotifier
	validator *validation.Validator
	cfg       *config.Config
}

func NewTicketService(
	repo repository.TicketRepository,
	images ImageStore,
	notifier AdminNotifier,
	validator *validation.Validator,
	cfg *config.Config,
) TicketService {
	return &ticketService{
		repo:      repo,
		images:    images,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *ticketService) CreateTicket(ctx context.Context, userID string, ticket *model.SupportTicket, image *blob.Upload) (*model.SupportTicket, error) {
	log := s.cfg.Log.WithContext(ctx)

	ticket.ID = ""
	ticket.UserID = userID
	ticket.Status = model.TicketOpen
	ticket.Subject = sanitizer.TrimAndNormalize(ticket.Subject)

	if err := s.validator.Struct(ticket); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			appErr := verrs.AppError()
			appErr.Message = "All fields are required"
			return nil, appErr
		}
		return nil, apperrors.InvalidInput("All fields are required")
	}

	if image != nil {
		ref, err := s.images.Store(ctx, ImageFolder, *image)
		if err != nil {
			log.Warn("Rejected support attachment", "user_id", userID, "error", err)
			return nil, blob.AppError(err)
		}
		ticket.Image = ref
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		log.Error("Failed to create support ticket", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to create support ticket", err)
	}

	err := s.notifier.NotifyAdmins(ctx, notificationsservice.Message{
		Title:        "New Support Ticket: " + ticket.Subject,
		Message:      ticket.Priority + " priority ticket raised",
		RedirectPath: "/admin/support/" + ticket.ID,
		Sender:       userID,
	})
	if err != nil {
		log.Warn("Failed to notify admins of support ticket", "ticket_id", ticket.ID, "error", err)
	}

	log.Info("Support ticket created", "ticket_id", ticket.ID, "priority", ticket.Priority)
	return ticket, nil
}

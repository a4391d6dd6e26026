package service

import (
	"context"
	"errors"

	notificationserrors "github.com/jayant413/contrashutter-backend/internal/notifications/errors"
	"github.com/jayant413/contrashutter-backend/internal/notifications/repository"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const (
	// TrimThreshold is the per-user count above which old entries are dropped.
	TrimThreshold = 100
	// KeepNewest is how many entries survive a trim.
	KeepNewest = 80
)

// Recipients resolves the users a notification fans out to.
type Recipients interface {
	AdminIDs(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, userID string) (bool, error)
}

// Message is the content of a notification before it is addressed.
type Message struct {
	Title        string
	Message      string
	RedirectPath string
	Sender       string
}

type NotificationService interface {
	Push(ctx context.Context, userID string, msg Message) error
	NotifyAdmins(ctx context.Context, msg Message) error
	Send(ctx context.Context, senderID string, req *model.NotificationRequest) error
	List(ctx context.Context, userID string, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) error
}

type notificationService struct {
	repo       repository.NotificationRepository
	recipients Recipients
	validator  *validation.Validator
	cfg        *config.Config
}

func NewNotificationService(
	repo repository.NotificationRepository,
	recipients Recipients,
	validator *validation.Validator,
	cfg *config.Config,
) NotificationService {
	return &notificationService{
		repo:       repo,
		recipients: recipients,
		validator:  validator,
		cfg:        cfg,
	}
}

// Push adds msg at the top of userID's list. It joins the caller's
// transaction when ctx carries one.
func (s *notificationService) Push(ctx context.Context, userID string, msg Message) error {
	if userID == "" {
		return nil
	}
	if err := s.repo.Insert(ctx, newNotification(userID, msg)); err != nil {
		return err
	}
	removed, err := s.repo.Trim(ctx, userID, TrimThreshold, KeepNewest)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.cfg.Log.WithContext(ctx).Debug("Trimmed notifications", "user_id", userID, "removed", removed)
	}
	return nil
}

func (s *notificationService) NotifyAdmins(ctx context.Context, msg Message) error {
	admins, err := s.recipients.AdminIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range admins {
		if err := s.Push(ctx, id, msg); err != nil {
			return err
		}
	}
	return nil
}

// Send delivers a user-authored notification. Without a receiver it goes to
// the first admin.
func (s *notificationService) Send(ctx context.Context, senderID string, req *model.NotificationRequest) error {
	req.Title = sanitizer.TrimAndNormalize(req.Title)
	req.Message = sanitizer.TrimAndNormalize(req.Message)
	req.RedirectPath = sanitizer.TrimAndNormalize(req.RedirectPath)

	if err := s.validator.Struct(req); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return verrs.AppError()
		}
		return apperrors.InvalidInput(err.Error())
	}

	receiver := req.ReceiverID
	if receiver == "" {
		admins, err := s.recipients.AdminIDs(ctx)
		if err != nil {
			s.cfg.Log.WithContext(ctx).Error("Failed to look up admins", "error", err)
			return apperrors.Internal("Error adding notification", err)
		}
		if len(admins) == 0 {
			return apperrors.NotFoundMessage("User not found")
		}
		receiver = admins[0]
	} else {
		ok, err := s.recipients.Exists(ctx, receiver)
		if err != nil {
			return apperrors.Internal("Error adding notification", err)
		}
		if !ok {
			return apperrors.NotFoundMessage("User not found")
		}
	}

	if err := s.Push(ctx, receiver, Message{
		Title:        req.Title,
		Message:      req.Message,
		RedirectPath: req.RedirectPath,
		Sender:       senderID,
	}); err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to add notification", "receiver_id", receiver, "error", err)
		return apperrors.Internal("Error adding notification", err)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	if limit <= 0 || limit > KeepNewest {
		limit = KeepNewest
	}
	list, err := s.repo.FindByUser(ctx, userID, limit)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to list notifications", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve notifications", err)
	}
	return list, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) || errors.Is(err, notificationserrors.ErrInvalidID) {
			return apperrors.NotFoundMessage("Notification not found")
		}
		s.cfg.Log.WithContext(ctx).Error("Failed to mark notification read", "id", id, "error", err)
		return apperrors.Internal("Error reading notification", err)
	}
	return nil
}

func (s *notificationService) Clear(ctx context.Context, userID string) error {
	removed, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to clear notifications", "user_id", userID, "error", err)
		return apperrors.Internal("Error clearing notifications", err)
	}
	s.cfg.Log.WithContext(ctx).Info("Notifications cleared", "user_id", userID, "removed", removed)
	return nil
}

func newNotification(userID string, msg Message) *model.Notification {
	return &model.Notification{
		UserID:       userID,
		Title:        msg.Title,
		Message:      msg.Message,
		RedirectPath: msg.RedirectPath,
		Sender:       msg.Sender,
		Read:         false,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userserrors "github.com/jayant413/contrashutter-backend/internal/users/errors"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/events"
	"github.com/jayant413/contrashutter-backend/pkg/mailer"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const MsgAllFieldsRequired = "All fields are required"

// Accounts is the slice of the user store the auth flows touch.
type Accounts interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindRegistered(ctx context.Context, email, role, contact string) (*model.User, error)
	FindForLogin(ctx context.Context, email, contact, role string) (*model.User, error)
	SetPassword(ctx context.Context, id, hash string) error
}

type Session struct {
	Token string
	User  *model.User
}

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*Session, error)
	ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error
	Contact(ctx context.Context, req *model.ContactRequest) error
}

type authService struct {
	accounts  Accounts
	tokens    *auth.Tokens
	publisher events.Publisher
	mail      mailer.Sender
	validator *validation.Validator
	cfg       *config.Config
	now       func() time.Time
}

func NewAuthService(
	accounts Accounts,
	tokens *auth.Tokens,
	publisher events.Publisher,
	mail mailer.Sender,
	validator *validation.Validator,
	cfg *config.Config,
) AuthService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &authService{
		accounts:  accounts,
		tokens:    tokens,
		publisher: publisher,
		mail:      mail,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	log := s.cfg.Log.WithContext(ctx)

	req.Fullname = sanitizer.TrimAndNormalize(req.Fullname)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Contact = sanitizer.NormalizePhone(req.Contact)
	if s.isAdmin(req.Email, req.Contact, true) {
		req.Role = model.RoleAdmin
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	_, err := s.accounts.FindRegistered(ctx, req.Email, req.Role, req.Contact)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("User already registered")
	case !errors.Is(err, userserrors.ErrNotFound):
		log.Error("Failed to check existing user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Registration failed", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Registration failed", err)
	}

	user := &model.User{
		Fullname: req.Fullname,
		Email:    req.Email,
		Contact:  req.Contact,
		Password: hash,
		Role:     req.Role,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicate) {
			return nil, apperrors.Conflict("User already registered")
		}
		log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Registration failed", err)
	}

	log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks the password and issues a session token. The admin email or
// number alone is enough to log in with the Admin role.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*Session, error) {
	log := s.cfg.Log.WithContext(ctx)

	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Contact = sanitizer.NormalizePhone(req.Contact)
	if s.isAdmin(req.Email, req.Contact, false) {
		req.Role = model.RoleAdmin
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	contact := req.Contact
	if contact == "" {
		// The login form sends a phone number in the email field too.
		contact = sanitizer.NormalizePhone(req.Email)
	}
	user, err := s.accounts.FindForLogin(ctx, req.Email, contact, req.Role)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email/contact or role")
		}
		log.Error("Failed to look up user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Login failed", err)
	}

	if err := auth.ComparePassword(user.Password, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.Unauthorized("Invalid password")
		}
		return nil, apperrors.Internal("Login failed", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Login failed", err)
	}

	log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &Session{Token: token, User: user}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}

	user, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.NotFoundMessage("User not found")
		}
		return apperrors.Internal("Failed to change password", err)
	}

	if err := auth.ComparePassword(user.Password, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperrors.Unauthorized("Invalid password")
		}
		return apperrors.Internal("Failed to change password", err)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal("Failed to change password", err)
	}
	if err := s.accounts.SetPassword(ctx, userID, hash); err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to store password", "user_id", userID, "error", err)
		return apperrors.Internal("Failed to change password", err)
	}

	s.cfg.Log.WithContext(ctx).Info("Password changed", "user_id", userID)
	return nil
}

// Contact forwards a contact-form submission to the admin mailbox, through
// Kafka when a publisher is configured and straight over SMTP otherwise.
func (s *authService) Contact(ctx context.Context, req *model.ContactRequest) error {
	log := s.cfg.Log.WithContext(ctx)

	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.NormalizePhone(req.Phone)
	if err := s.validate(req); err != nil {
		return err
	}

	msg := events.ContactMessage{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Email:       req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
		SubmittedAt: s.now().UTC(),
	}

	if events.Enabled(s.publisher) {
		if err := s.publisher.PublishContact(ctx, msg); err != nil {
			log.Error("Failed to publish contact message", "email", req.Email, "error", err)
			return apperrors.Internal("Failed to send message", err)
		}
		return nil
	}

	if err := s.mail.Send(ctx, ContactMail(s.cfg.AdminEmail, msg)); err != nil {
		log.Error("Failed to send contact mail", "email", req.Email, "error", err)
		return apperrors.Internal("Failed to send message", err)
	}
	return nil
}

// ContactMail renders a contact submission addressed to adminEmail.
func ContactMail(adminEmail string, msg events.ContactMessage) mailer.Message {
	var text strings.Builder
	fmt.Fprintf(&text, "Name: %s %s\n", msg.FirstName, msg.LastName)
	fmt.Fprintf(&text, "Phone: %s\n", msg.Phone)
	fmt.Fprintf(&text, "Email: %s\n", msg.Email)
	fmt.Fprintf(&text, "Subject: %s\n\n", msg.Subject)
	text.WriteString(msg.Message)

	return mailer.Message{
		To:      []string{adminEmail},
		ReplyTo: msg.Email,
		Subject: "New Contact Form Submission: " + msg.Subject,
		Text:    text.String(),
	}
}

// isAdmin reports whether the credentials belong to the configured admin.
// Registration needs both to match, login either one.
func (s *authService) isAdmin(email, contact string, both bool) bool {
	emailMatch := s.cfg.AdminEmail != "" && email == sanitizer.NormalizeEmail(s.cfg.AdminEmail)
	contactMatch := s.cfg.AdminNumber != "" && contact != "" && contact == sanitizer.NormalizePhone(s.cfg.AdminNumber)
	if both {
		return emailMatch && contactMatch
	}
	return emailMatch || contactMatch
}

func (s *authService) validate(req any) error {
	if err := s.validator.Struct(req); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			appErr := verrs.AppError()
			appErr.Message = MsgAllFieldsRequired
			return appErr
		}
		return apperrors.InvalidInput(MsgAllFieldsRequired)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userserrors "github.com/jayant413/contrashutter-backend/internal/users/errors"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/events"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/mailer"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const (
	adminEmail  = "owner@contrashutter.in"
	adminNumber = "9000000001"
)

type memoryAccounts struct {
	users []*model.User
	seq   int
}

func (m *memoryAccounts) Create(_ context.Context, u *model.User) error {
	m.seq++
	u.ID = fmt.Sprintf("64b%021x", m.seq)
	m.users = append(m.users, u)
	return nil
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, userserrors.ErrNotFound
}

func (m *memoryAccounts) FindRegistered(_ context.Context, email, role, contact string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.Role == role && u.Contact == contact {
			return u, nil
		}
	}
	return nil, userserrors.ErrNotFound
}

func (m *memoryAccounts) FindForLogin(_ context.Context, email, contact, role string) (*model.User, error) {
	for _, u := range m.users {
		if u.Role == role && (u.Email == email || (contact != "" && u.Contact == contact)) {
			return u, nil
		}
	}
	return nil, userserrors.ErrNotFound
}

func (m *memoryAccounts) SetPassword(ctx context.Context, id, hash string) error {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

type recordingPublisher struct {
	events.NoopPublisher
	contacts []events.ContactMessage
}

func (p *recordingPublisher) PublishContact(_ context.Context, msg events.ContactMessage) error {
	p.contacts = append(p.contacts, msg)
	return nil
}

type fixture struct {
	svc      AuthService
	accounts *memoryAccounts
	mail     *recordingMailer
	tokens   *auth.Tokens
}

func newFixture(publisher events.Publisher) *fixture {
	log := logger.Discard()
	cfg := &config.Config{Log: log, AdminEmail: adminEmail, AdminNumber: adminNumber}
	f := &fixture{
		accounts: &memoryAccounts{},
		mail:     &recordingMailer{},
		tokens:   auth.NewTokens("test-secret-0123456789", time.Hour),
	}
	f.svc = NewAuthService(f.accounts, f.tokens, publisher, f.mail, validation.New(log), cfg)
	return f
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Fullname: "Asha Rao",
		Email:    "Asha@Example.com ",
		Contact:  "98765 43210",
		Password: "secret123",
		Role:     model.RoleClient,
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(nil)

	user, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "+919876543210", user.Contact)
	assert.Equal(t, model.RoleClient, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, auth.ComparePassword(user.Password, "secret123"))

	_, err = f.svc.Register(context.Background(), registerRequest())
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode())
	assert.Equal(t, "User already registered", appErr.Message)
}

func TestRegister_AdminNeedsEmailAndNumber(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		contact  string
		wantRole string
	}{
		{name: "both match", email: adminEmail, contact: adminNumber, wantRole: model.RoleAdmin},
		{name: "email only", email: adminEmail, contact: "9876543210", wantRole: model.RoleClient},
		{name: "number only", email: "asha@example.com", contact: adminNumber, wantRole: model.RoleClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			req := registerRequest()
			req.Email = tt.email
			req.Contact = tt.contact

			user, err := f.svc.Register(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
		})
	}
}

func TestRegister_MissingFields(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.Register(context.Background(), &model.RegisterRequest{Email: "asha@example.com"})
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
	assert.Equal(t, MsgAllFieldsRequired, appErr.Message)
	assert.Empty(t, f.accounts.users)
}

func TestLogin(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	tests := []struct {
		name       string
		req        model.LoginRequest
		wantStatus int
		wantMsg    string
	}{
		{name: "by email", req: model.LoginRequest{Email: "asha@example.com", Password: "secret123", Role: model.RoleClient}, wantStatus: http.StatusOK},
		{name: "by phone in email field", req: model.LoginRequest{Email: "9876543210", Password: "secret123", Role: model.RoleClient}, wantStatus: http.StatusOK},
		{name: "wrong password", req: model.LoginRequest{Email: "asha@example.com", Password: "nope", Role: model.RoleClient}, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid password"},
		{name: "wrong role", req: model.LoginRequest{Email: "asha@example.com", Password: "secret123", Role: model.RoleServiceProvider}, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid email/contact or role"},
		{name: "missing password", req: model.LoginRequest{Email: "asha@example.com", Role: model.RoleClient}, wantStatus: http.StatusBadRequest, wantMsg: MsgAllFieldsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			session, err := f.svc.Login(context.Background(), &req)
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				claims, err := f.tokens.Parse(session.Token)
				require.NoError(t, err)
				assert.Equal(t, session.User.ID, claims.UserID)
				assert.Equal(t, model.RoleClient, claims.Role)
				return
			}
			appErr := apperrors.AsAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode())
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestLogin_AdminEmailForcesAdminRole(t *testing.T) {
	f := newFixture(nil)
	req := registerRequest()
	req.Email = adminEmail
	req.Contact = adminNumber
	_, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)

	session, err := f.svc.Login(context.Background(), &model.LoginRequest{
		Email:    adminEmail,
		Password: "secret123",
		Role:     model.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, session.User.Role)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(nil)
	user, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	err = f.svc.ChangePassword(context.Background(), user.ID, &model.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "another1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	err = f.svc.ChangePassword(context.Background(), user.ID, &model.ChangePasswordRequest{CurrentPassword: "secret123"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Equal(t, http.StatusBadRequest, apperrors.AsAppError(err).StatusCode())

	require.NoError(t, f.svc.ChangePassword(context.Background(), user.ID, &model.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "another1"}))
	assert.NoError(t, auth.ComparePassword(user.Password, "another1"))
}

func contactRequest() *model.ContactRequest {
	return &model.ContactRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Phone:     "9876543210",
		Email:     "asha@example.com",
		Subject:   "Wedding shoot",
		Message:   "Are you free in December?",
	}
}

func TestContact_SendsMailWithoutKafka(t *testing.T) {
	f := newFixture(nil)

	require.NoError(t, f.svc.Contact(context.Background(), contactRequest()))
	require.Len(t, f.mail.sent, 1)
	msg := f.mail.sent[0]
	assert.Equal(t, []string{adminEmail}, msg.To)
	assert.Equal(t, "asha@example.com", msg.ReplyTo)
	assert.Equal(t, "New Contact Form Submission: Wedding shoot", msg.Subject)
	assert.Contains(t, msg.Text, "Are you free in December?")
}

func TestContact_PublishesWhenKafkaEnabled(t *testing.T) {
	publisher := &recordingPublisher{}
	f := newFixture(publisher)

	require.NoError(t, f.svc.Contact(context.Background(), contactRequest()))
	assert.Empty(t, f.mail.sent)
	require.Len(t, publisher.contacts, 1)
	assert.Equal(t, "+919876543210", publisher.contacts[0].Phone)
}

func TestContact_Errors(t *testing.T) {
	f := newFixture(nil)

	req := contactRequest()
	req.Subject = ""
	err := f.svc.Contact(context.Background(), req)
	assert.Equal(t, MsgAllFieldsRequired, apperrors.AsAppError(err).Message)

	f.mail.err = errors.New("smtp down")
	err = f.svc.Contact(context.Background(), contactRequest())
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode())
	assert.Equal(t, "Failed to send message", appErr.Message)
}

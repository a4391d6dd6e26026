package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jayant413/contrashutter-backend/internal/auth/service"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*service.Session, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *mockAuthService) Contact(ctx context.Context, req *model.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}

func newRouter(svc service.AuthService) (*httprouter.Router, *auth.Tokens) {
	tokens := auth.NewTokens("test-secret-0123456789", time.Hour)
	log := logger.Discard()
	h := NewAuthHandler(svc, middleware.NewAuthenticator(tokens, log), tokens.TTL(), true, log)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router, tokens
}

func TestLogin_SetsCookie(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, mock.MatchedBy(func(req *model.LoginRequest) bool {
		return req.Email == "asha@example.com"
	})).Return(&service.Session{Token: "signed.jwt.value", User: &model.User{ID: "64b000000000000000000001", Fullname: "Asha", Password: "hash"}}, nil)
	router, _ := newRouter(svc)

	body := `{"email":"asha@example.com","password":"secret123","role":"Client"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Login successful"`)
	assert.NotContains(t, rec.Body.String(), "hash")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, "signed.jwt.value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge)
}

func TestLogin_Rejected(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.Unauthorized("Invalid password"))
	router, _ := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout(t *testing.T) {
	router, _ := newRouter(&mockAuthService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestRegister(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Register", mock.Anything, mock.Anything).Return(&model.User{ID: "64b000000000000000000001"}, nil).Once()
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.Conflict("User already registered"))
	router, _ := newRouter(svc)

	body := `{"fullname":"Asha","email":"asha@example.com","contact":"9876543210","password":"secret123","role":"Client"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChangePassword(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ChangePassword", mock.Anything, "64b000000000000000000001", mock.Anything).Return(nil)
	router, tokens := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/change-password", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := tokens.Issue("64b000000000000000000001", "asha@example.com", model.RoleClient)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/change-password", strings.NewReader(`{"currentPassword":"a","newPassword":"bbbbbb"}`))
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestContact(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Contact", mock.Anything, mock.Anything).Return(apperrors.Internal("Failed to send message", nil))
	router, _ := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/contact", strings.NewReader(`{"first_name":"Asha"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to send message")
}

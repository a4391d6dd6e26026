package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jayant413/contrashutter-backend/pkg/auth"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const userID = "64b000000000000000000001"

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*model.Profile)
	return p, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, update *model.ProfileUpdate, image *blob.Upload) (*model.User, error) {
	args := m.Called(ctx, userID, update, image)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) GetPublic(ctx context.Context, id string) (*model.PublicUser, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.PublicUser)
	return u, args.Error(1)
}

func (m *mockUserService) ServiceProviders(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*model.User)
	return users, args.Error(1)
}

func (m *mockUserService) AddToWishlist(ctx context.Context, userID, packageID string) error {
	return m.Called(ctx, userID, packageID).Error(0)
}

func (m *mockUserService) RemoveFromWishlist(ctx context.Context, userID, packageID string) error {
	return m.Called(ctx, userID, packageID).Error(0)
}

func newRouter(svc *mockUserService) (*httprouter.Router, string) {
	tokens := auth.NewTokens("test-secret-0123456789", time.Hour)
	log := logger.Discard()
	h := NewUserHandler(svc, middleware.NewAuthenticator(tokens, log), false, log)
	router := httprouter.New()
	h.RegisterRoutes(router)

	token, _ := tokens.Issue(userID, "asha@example.com", model.RoleClient)
	return router, "Bearer " + token
}

func TestCheckLogin(t *testing.T) {
	svc := &mockUserService{}
	svc.On("Profile", mock.Anything, userID).Return(&model.Profile{
		User:     &model.User{ID: userID, Fullname: "Asha"},
		Wishlist: []*model.Package{},
	}, nil)
	router, authz := newRouter(svc)

	for _, path := range []string{"/api/user/checkLogin", "/api/user/me"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", authz)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["isLoggedIn"])
		assert.Equal(t, "Asha", body["user"].(map[string]any)["fullname"])
	}
}

func TestCheckLogin_DeletedUserClearsCookie(t *testing.T) {
	svc := &mockUserService{}
	svc.On("Profile", mock.Anything, userID).Return(nil, apperrors.NotFoundMessage("User not found"))
	router, authz := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/user/checkLogin", nil)
	req.Header.Set("Authorization", authz)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"isLoggedIn":false,"userExistsInDb":false,"message":"User not found in database"}`, rec.Body.String())

	cookie := rec.Result().Cookies()
	require.Len(t, cookie, 1)
	assert.Equal(t, auth.CookieName, cookie[0].Name)
	assert.Less(t, cookie[0].MaxAge, 0)
}

func TestCheckLogin_RequiresToken(t *testing.T) {
	router, _ := newRouter(&mockUserService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("fullname", "Asha Rao"))
	require.NoError(t, mw.WriteField("contact", "9876543210"))
	require.NoError(t, mw.WriteField("role", model.RoleClient))
	part, err := mw.CreateFormFile("profileImage", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n0000000000000000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	svc := &mockUserService{}
	svc.On("UpdateProfile", mock.Anything, userID,
		mock.MatchedBy(func(u *model.ProfileUpdate) bool { return u.Fullname == "Asha Rao" && u.Role == model.RoleClient }),
		mock.MatchedBy(func(up *blob.Upload) bool { return up != nil && up.Filename == "me.png" }),
	).Return(&model.User{ID: userID, Fullname: "Asha Rao"}, nil)
	router, authz := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/user/updateProfile", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", authz)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Profile updated successfully")
	svc.AssertExpectations(t)
}

func TestUpdateProfile_JSONWithoutImage(t *testing.T) {
	svc := &mockUserService{}
	svc.On("UpdateProfile", mock.Anything, userID, mock.Anything, (*blob.Upload)(nil)).
		Return(nil, apperrors.InvalidInput("Required fields are missing"))
	router, authz := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/user/updateProfile", strings.NewReader(`{"fullname":"Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authz)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestWishlist(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		method     string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "add", path: "/api/user/addToWishlist", method: "AddToWishlist", wantStatus: http.StatusOK, wantMsg: "Package added to wishlist"},
		{name: "add duplicate", path: "/api/user/addToWishlist", method: "AddToWishlist", err: apperrors.InvalidInput("Package already in wishlist"), wantStatus: http.StatusBadRequest, wantMsg: "Package already in wishlist"},
		{name: "remove", path: "/api/user/removeFromWishlist", method: "RemoveFromWishlist", wantStatus: http.StatusOK, wantMsg: "Package removed from wishlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUserService{}
			svc.On(tt.method, mock.Anything, userID, "64e000000000000000000001").Return(tt.err)
			router, authz := newRouter(svc)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(`{"packageId":"64e000000000000000000001"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", authz)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestGetPublic(t *testing.T) {
	svc := &mockUserService{}
	svc.On("GetPublic", mock.Anything, userID).Return(&model.PublicUser{ID: userID, Fullname: "Asha"}, nil)
	router, _ := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/user/"+userID, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"_id":"`+userID+`","fullname":"Asha"}`, rec.Body.String())
}

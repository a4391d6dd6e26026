package integrationtests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayant413/contrashutter-backend/pkg/client"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/test/integration/testutil"
)

func TestAuth_RegisterLoginMe(t *testing.T) {
	c := testutil.NewAPIClient(t)
	reg := testutil.SignedIn(t, c, model.RoleClient)

	resp, err := c.Me()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

	var body struct {
		IsLoggedIn bool       `json:"isLoggedIn"`
		User       model.User `json:"user"`
	}
	require.NoError(t, resp.DecodeJSON(&body))
	assert.True(t, body.IsLoggedIn)
	assert.Equal(t, reg.Email, body.User.Email)
	assert.Equal(t, model.RoleClient, body.User.Role)
}

func TestAuth_DuplicateRegistration(t *testing.T) {
	c := testutil.NewAPIClient(t)
	reg := testutil.NewRegistration(model.RoleClient)

	resp, err := c.Register(reg)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

	resp, err = c.Register(reg)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAuth_WrongPassword(t *testing.T) {
	c := testutil.NewAPIClient(t)
	reg := testutil.NewRegistration(model.RoleClient)

	resp, err := c.Register(reg)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

	resp, err = c.Login(model.LoginRequest{Email: reg.Email, Password: "not-" + reg.Password, Role: reg.Role})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.StatusCode, http.StatusBadRequest)

	resp, err = c.Me()
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_LogoutClearsSession(t *testing.T) {
	c := testutil.NewAPIClient(t)
	testutil.SignedIn(t, c, model.RoleClient)

	resp, err := c.Logout()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = c.Me()
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"bootcamp_backend/internal/config"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	ts := GetTestServer(t)
	email := fmt.Sprintf("register_%d@example.com", time.Now().UnixNano())

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "John Doe",
		"email":    email,
		"password": "password123",
		"role":     "publisher",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "register should succeed: %s", body)

	var registerResp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			User  struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &registerResp))
	assert.True(t, registerResp.Success)
	assert.NotEmpty(t, registerResp.Data.Token)
	assert.Equal(t, "publisher", registerResp.Data.User.Role)

	// The token must also arrive as a cookie for browser clients.
	foundCookie := false
	for _, c := range res.Cookies() {
		if c.Name == "token" && c.Value != "" {
			foundCookie = true
		}
	}
	assert.True(t, foundCookie, "register should set the token cookie")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/me", registerResp.Data.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "me should succeed: %s", body)
	assert.Contains(t, body, email)
	assert.NotContains(t, body, "password_hash", "password hash must never leave the API")
}

func TestRegisterCannotClaimAdminRole(t *testing.T) {
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Wannabe Admin",
		"email":    fmt.Sprintf("admin_%d@example.com", time.Now().UnixNano()),
		"password": "password123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := GetTestServer(t)
	_, user := helpers.CreateAndLoginUser(t, ts, "Login Test", models.UserRoleUser)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, `"success":false`)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	ts := GetTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Not authorized to access this route")
}

func TestUpdatePassword(t *testing.T) {
	ts := GetTestServer(t)
	token, user := helpers.CreateAndLoginUser(t, ts, "Password Change", models.UserRoleUser)

	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/auth/update-user-password", token, map[string]string{
		"current_password": "password123",
		"new_password":     "newpassword456",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "password update should succeed: %s", body)

	// Old password no longer works, new one does.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "newpassword456",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestResetPasswordFlow(t *testing.T) {
	ts := GetTestServer(t)
	_, user := helpers.CreateAndLoginUser(t, ts, "Reset Flow", models.UserRoleUser)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"email": user.Email,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "forgot password should succeed: %s", body)

	msg, ok := ts.Email.LastMessage()
	require.True(t, ok, "a reset email should have been recorded")
	require.Equal(t, user.Email, msg.To)

	// The mail body carries the reset URL; the plaintext token is its
	// last path segment.
	parts := strings.Split(strings.TrimSpace(msg.Body), "/")
	plainToken := parts[len(parts)-1]
	require.NotEmpty(t, plainToken)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/auth/reset-password/"+plainToken, "", map[string]string{
		"password": "resetpassword789",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "reset should succeed: %s", body)
	assert.Contains(t, body, `"token"`)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "resetpassword789",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// The token is single-use.
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/auth/reset-password/"+plainToken, "", map[string]string{
		"password": "anotherpassword",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	ts := GetTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/auth/reset-password/not-a-real-token", "", map[string]string{
		"password": "whatever123",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, `"success":false`)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	ts := GetTestServer(t)
	token, user := helpers.CreateAndLoginUser(t, ts, "Ghost Publisher", models.UserRolePublisher)

	require.NoError(t, ts.DB.Delete(&models.User{}, "id = ?", user.ID).Error)

	// The token is still cryptographically valid, but there is no
	// account behind it anymore.
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/bootcamps", token, map[string]interface{}{
		"name":        fmt.Sprintf("Ghost Camp %d", time.Now().UnixNano()),
		"description": "Should never be created",
		"address":     "233 Bay State Rd, Boston MA",
		"careers":     []string{"Business"},
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Not authorized to access this route")

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestDemotedRoleTakesEffectImmediately(t *testing.T) {
	ts := GetTestServer(t)
	token, admin := helpers.CreateAndLoginUser(t, ts, "Fallen Admin", models.UserRoleAdmin)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, ts.DB.Model(&models.User{}).
		Where("id = ?", admin.ID).
		Update("role", models.UserRoleUser).Error)

	// Role checks run against the stored record, not the token claims.
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, body, "not authorized")
}

func TestTokenCookieSecureInProduction(t *testing.T) {
	ts := GetTestServer(t)
	_, user := helpers.CreateAndLoginUser(t, ts, "Secure Cookie User", models.UserRoleUser)

	cfg := config.GetConfig()
	cfg.Server.Env = "production"
	defer func() { cfg.Server.Env = "test" }()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed: %s", body)

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login should set the token cookie")
	assert.True(t, cookie.Secure, "the auth cookie must be secure outside development")
	assert.True(t, cookie.HttpOnly)
}

package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"bootcamp_backend/internal/models"
	"bootcamp_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRouteRequiresAdmin(t *testing.T) {
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	token, _ := helpers.CreateAndLoginUser(t, ts, "Regular Visitor", models.UserRoleUser)
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, body, "not authorized")
}

func TestAdminUserCRUD(t *testing.T) {
	ts := GetTestServer(t)
	adminToken, _ := helpers.CreateAndLoginUser(t, ts, "User Admin", models.UserRoleAdmin)

	email := fmt.Sprintf("managed%d@example.com", time.Now().UnixNano())
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users", adminToken, map[string]interface{}{
		"name":     "Managed User",
		"email":    email,
		"password": "secret123",
		"role":     "publisher",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "admin create should succeed: %s", body)

	var created struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, models.UserRolePublisher, created.Data.Role)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/users/"+created.Data.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, email)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/users/"+created.Data.ID, adminToken, map[string]interface{}{
		"name": "Renamed User",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "admin update should succeed: %s", body)
	assert.Contains(t, body, "Renamed User")

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/users/"+created.Data.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/users/"+created.Data.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAdminListUsersPagination(t *testing.T) {
	ts := GetTestServer(t)
	adminToken, _ := helpers.CreateAndLoginUser(t, ts, "Listing Admin", models.UserRoleAdmin)

	for i := 0; i < 3; i++ {
		helpers.CreateUser(t, ts.DB, &models.User{
			Name:         fmt.Sprintf("Bulk User %d", i),
			Email:        fmt.Sprintf("bulk%d-%d@example.com", i, time.Now().UnixNano()),
			PasswordHash: "secret123",
			Role:         models.UserRoleUser,
		})
	}

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/users?limit=2&page=1&sort=created_at", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "list should succeed: %s", body)

	env := helpers.ParseEnvelope(t, body)
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Count)
	require.NotNil(t, env.Pagination.Next)
	assert.NotContains(t, body, "password_hash")
}

func TestAdminCreateDuplicateEmail(t *testing.T) {
	ts := GetTestServer(t)
	adminToken, _ := helpers.CreateAndLoginUser(t, ts, "Duplicate Admin", models.UserRoleAdmin)

	email := fmt.Sprintf("taken%d@example.com", time.Now().UnixNano())
	payload := map[string]interface{}{
		"name":     "First Claim",
		"email":    email,
		"password": "secret123",
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users", adminToken, payload)
	require.Equal(t, http.StatusCreated, res.StatusCode, "first create should succeed: %s", body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/users", adminToken, payload)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, `"success":false`)
}

package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"bootcamp_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user, hashing the raw password carried in
// PasswordHash.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	require.NoError(t, err, "failed to hash fixture password")
	user.PasswordHash = string(hashed)

	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	require.NoError(t, db.Create(user).Error, "failed to create fixture user")
}

// CreateAndLoginUser creates an account with a unique email and logs it
// in through the API, returning the bearer token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, name string, role models.UserRole) (string, *models.User) {
	t.Helper()

	email := fmt.Sprintf("%s_%d@example.com", role, time.Now().UnixNano())
	password := "password123"

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: password,
		Role:         role,
	}
	CreateUser(t, ts.DB, user)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed: %s", body)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Data.Token, "login should return a token")

	return resp.Data.Token, user
}

// CreateBootcampFor inserts a bootcamp owned by the given user,
// bypassing the API.
func CreateBootcampFor(t *testing.T, db *gorm.DB, ownerID string) *models.Bootcamp {
	t.Helper()

	bootcamp := &models.Bootcamp{
		Name:        fmt.Sprintf("Bootcamp %d", time.Now().UnixNano()),
		Slug:        fmt.Sprintf("bootcamp-%d", time.Now().UnixNano()),
		Description: "Fixture bootcamp",
		Address:     "220 Pawtucket St, Lowell MA",
		Careers:     []string{"Web Development"},
		UserID:      ownerID,
	}
	require.NoError(t, db.Create(bootcamp).Error, "failed to create fixture bootcamp")
	return bootcamp
}

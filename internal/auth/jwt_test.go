package auth

import (
	"testing"
	"time"

	"bootcamp_backend/internal/config"
	"bootcamp_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 30
	config.AppConfig = cfg
}

func TestGenerateAndParseToken(t *testing.T) {
	setupTestConfig(t)

	user := &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Role:      models.UserRolePublisher,
	}

	tokenStr, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRolePublisher, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setupTestConfig(t)

	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Role: models.UserRoleUser}
	tokenStr, err := GenerateToken(user)
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "another-secret"
	_, err = ParseToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	setupTestConfig(t)

	claims := &Claims{
		UserID: "user-1",
		Role:   models.UserRoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(tokenStr)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestResetTokenRoundTrip(t *testing.T) {
	plaintext, hashed, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, plaintext, 40)
	assert.NotEqual(t, plaintext, hashed)
	assert.Equal(t, hashed, HashResetToken(plaintext))
}

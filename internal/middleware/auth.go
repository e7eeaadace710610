package middleware

import (
	"strings"

	"bootcamp_backend/internal/auth"
	"bootcamp_backend/internal/logger"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/repositories"
	"bootcamp_backend/pkg/apperrors"
	"bootcamp_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware - verifies the JWT and resolves it to a live user
// record, so tokens of deleted accounts stop working and role changes
// take effect immediately. The token is read from the Authorization
// header, falling back to the "token" cookie set at login.
func AuthMiddleware() gin.HandlerFunc {
	userRepo := repositories.NewUserRepository()

	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			c.Abort()
			return
		}

		db := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		user, err := userRepo.FindByID(db, claims.UserID)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			c.Abort()
			return
		}

		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// RequireRoles - restricts a route to the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			c.Abort()
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			roleStr, isString := roleVal.(string)
			if !isString {
				apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
				c.Abort()
				return
			}
			role = models.UserRole(roleStr)
		}

		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.NewForbiddenError(
				"User role '"+string(role)+"' is not authorized to access this route"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from the context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetUserRole extracts the authenticated user role from the context.
func GetUserRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get("role")
	if !exists {
		return ""
	}

	switch role := roleVal.(type) {
	case models.UserRole:
		return role
	case string:
		return models.UserRole(role)
	default:
		return ""
	}
}

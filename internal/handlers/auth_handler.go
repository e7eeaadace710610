package handlers

import (
	"fmt"
	"net/http"

	"bootcamp_backend/internal/config"
	"bootcamp_backend/internal/middleware"
	"bootcamp_backend/internal/services"
	"bootcamp_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/logout", h.Logout)
		auth.POST("/reset-password", h.ForgotPassword)
		auth.PUT("/reset-password/:token", h.ResetPassword)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", h.GetMe)
		protected.PUT("/update-user-data", h.UpdateDetails)
		protected.PUT("/update-user-password", h.UpdatePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	RespondData(c, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	RespondData(c, http.StatusOK, resp)
}

// Logout - clears the auth cookie. Tokens themselves stay valid until
// expiry; logout only removes the browser credential.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", false, true)
	RespondData(c, http.StatusOK, gin.H{})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetMe(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, user)
}

func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDetailsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateDetails(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, user)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.UpdatePassword(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	RespondData(c, http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resetURLBase := fmt.Sprintf("%s://%s/api/v1/auth/reset-password", requestScheme(c), c.Request.Host)
	if err := h.authService.ForgotPassword(h.GetDB(c), req.Email, resetURLBase); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Email sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ResetPassword(h.GetDB(c), c.Param("token"), req.Password)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	RespondData(c, http.StatusOK, resp)
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	cfg := config.GetConfig()
	ttl := cfg.JWT.TTL * 60
	secure := cfg.Server.Env == "production" || c.Request.TLS != nil
	c.SetCookie("token", token, ttl, "/", "", secure, true)
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

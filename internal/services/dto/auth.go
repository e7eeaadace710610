package dto

import "bootcamp_backend/internal/models"

// RegisterRequest - new account registration
type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,max=50"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"omitempty,is-user-role"`
}

// LoginRequest - credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateDetailsRequest - change of name/email for the current user
type UpdateDetailsRequest struct {
	Name  string `json:"name" validate:"omitempty,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdatePasswordRequest - password change for the current user
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ForgotPasswordRequest - start of the reset-password flow
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest - completion of the reset-password flow
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse - a signed token plus the account it belongs to
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

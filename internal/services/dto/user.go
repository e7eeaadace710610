package dto

import "bootcamp_backend/internal/models"

// CreateUserRequest - admin user creation
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=50"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"omitempty,is-user-role"`
}

// UpdateUserRequest - admin user update; zero-value fields are ignored
type UpdateUserRequest struct {
	Name  string          `json:"name" validate:"omitempty,max=50"`
	Email string          `json:"email" validate:"omitempty,email"`
	Role  models.UserRole `json:"role" validate:"omitempty,is-user-role"`
}

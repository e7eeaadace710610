package services

import (
	"bootcamp_backend/internal/email"
	"bootcamp_backend/internal/storage"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService     AuthService
	UserService     UserService
	BootcampService BootcampService
	CourseService   CourseService
	ReviewService   ReviewService
	EmailProvider   email.Provider
	Storage         storage.Storage
}

package services

import (
	"bootcamp_backend/internal/auth"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"
	"bootcamp_backend/internal/repositories"
	"bootcamp_backend/internal/services/dto"
	"bootcamp_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserService is the admin-only account management surface.
type UserService interface {
	List(db *gorm.DB, opts query.Options) ([]models.User, *query.Result, error)
	Get(db *gorm.DB, id string) (*models.User, error)
	Create(db *gorm.DB, req *dto.CreateUserRequest) (*models.User, error)
	Update(db *gorm.DB, id string, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(db *gorm.DB, id string) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) List(db *gorm.DB, opts query.Options) ([]models.User, *query.Result, error) {
	users, res, err := s.userRepo.List(db, opts)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return users, res, nil
}

func (s *UserServiceImpl) Get(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) Create(db *gorm.DB, req *dto.CreateUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.UserRoleUser
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrDuplicate(err, "User with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) Update(db *gorm.DB, id string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(db, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}

	if err := s.userRepo.Update(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrDuplicate(err, "User with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) Delete(db *gorm.DB, id string) error {
	if err := s.userRepo.Delete(db, id); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err, "User not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

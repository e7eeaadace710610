package services

import (
	"fmt"
	"time"

	"bootcamp_backend/internal/auth"
	"bootcamp_backend/internal/email"
	"bootcamp_backend/internal/logger"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/repositories"
	"bootcamp_backend/internal/services/dto"
	"bootcamp_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// resetTokenTTL bounds how long a mailed reset token stays usable.
const resetTokenTTL = 30 * time.Minute

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetMe(db *gorm.DB, userID string) (*models.User, error)
	UpdateDetails(db *gorm.DB, userID string, req *dto.UpdateDetailsRequest) (*models.User, error)
	UpdatePassword(db *gorm.DB, userID string, req *dto.UpdatePasswordRequest) (*dto.AuthResponse, error)
	ForgotPassword(db *gorm.DB, emailAddr, resetURLBase string) error
	ResetPassword(db *gorm.DB, token, newPassword string) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, emailProvider email.Provider) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

// Register - creates an account and returns a signed token for it.
// Only the user and publisher roles are self-assignable; admins are
// seeded, never registered.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = models.UserRoleUser
	}
	if role == models.UserRoleAdmin {
		return nil, apperrors.ErrInvalidUserRole
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
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

	return s.tokenResponse(user)
}

// Login - verifies credentials and returns a signed token.
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// GetMe - returns the authenticated user's account.
func (s *AuthServiceImpl) GetMe(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// UpdateDetails - changes name and/or email of the current user.
func (s *AuthServiceImpl) UpdateDetails(db *gorm.DB, userID string, req *dto.UpdateDetailsRequest) (*models.User, error) {
	user, err := s.GetMe(db, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if err := s.userRepo.Update(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrDuplicate(err, "User with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// UpdatePassword - changes the password after checking the current one
// and returns a fresh token.
func (s *AuthServiceImpl) UpdatePassword(db *gorm.DB, userID string, req *dto.UpdatePasswordRequest) (*dto.AuthResponse, error) {
	user, err := s.GetMe(db, userID)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.tokenResponse(user)
}

// ForgotPassword - issues a reset token and mails its plaintext to the
// account owner. An unknown email yields the same generic error as any
// other failure to find the account.
func (s *AuthServiceImpl) ForgotPassword(db *gorm.DB, emailAddr, resetURLBase string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err, "There is no user with that email")
		}
		return apperrors.InternalError(err)
	}

	plaintext, hashed, err := auth.GenerateResetToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	expire := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hashed
	user.ResetPasswordExpire = &expire
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	resetURL := fmt.Sprintf("%s/%s", resetURLBase, plaintext)
	if s.emailProvider == nil {
		logger.Warn("email provider not configured, skipping reset email", "user_id", user.ID)
		return nil
	}
	if err := s.emailProvider.SendPasswordReset(user.Email, resetURL); err != nil {
		// Roll the token back so a stale one cannot linger after a
		// failed delivery.
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if rbErr := s.userRepo.Update(db, user); rbErr != nil {
			logger.WithError(rbErr).Error("failed to clear reset token after email failure", "user_id", user.ID)
		}
		return apperrors.ErrUpstream(err, "email", "Email could not be sent")
	}

	return nil
}

// ResetPassword - completes the reset flow for a valid, unexpired token
// and returns a fresh signed token.
func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, token, newPassword string) (*dto.AuthResponse, error) {
	hashed := auth.HashResetToken(token)

	user, err := s.userRepo.FindByResetToken(db, hashed, time.Now())
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrResetTokenInvalid
		}
		return nil, apperrors.InternalError(err)
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user.PasswordHash = passwordHash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.tokenResponse(user)
}

func (s *AuthServiceImpl) tokenResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

package repositories

import (
	"errors"
	"time"

	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserFields is the whitelist for the admin user list endpoint.
var UserFields = query.FieldMap{
	"name":       {Column: "name", Kind: query.KindString},
	"email":      {Column: "email", Kind: query.KindString},
	"role":       {Column: "role", Kind: query.KindString},
	"created_at": {Column: "created_at", Kind: query.KindString},
}

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByResetToken(db *gorm.DB, tokenHash string, now time.Time) (*models.User, error)
	Update(db *gorm.DB, user *models.User) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, opts query.Options) ([]models.User, *query.Result, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByResetToken resolves a user by the hashed reset token, requiring
// the expiry window to still be open.
func (r *UserRepositoryImpl) FindByResetToken(db *gorm.DB, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := db.Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	result := db.Save(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) List(db *gorm.DB, opts query.Options) ([]models.User, *query.Result, error) {
	var users []models.User
	res, err := query.Run(db.Model(&models.User{}), UserFields, opts, nil, &users)
	if err != nil {
		return nil, nil, err
	}
	return users, res, nil
}

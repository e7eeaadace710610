package repositories

import (
	"errors"

	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user has already reviewed this bootcamp")
)

// ReviewFields is the filter/sort/select whitelist for review listing.
var ReviewFields = query.FieldMap{
	"title":       {Column: "title", Kind: query.KindString},
	"rating":      {Column: "rating", Kind: query.KindNumber},
	"bootcamp_id": {Column: "bootcamp_id", Kind: query.KindString},
	"user_id":     {Column: "user_id", Kind: query.KindString},
	"created_at":  {Column: "created_at", Kind: query.KindString},
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	Update(db *gorm.DB, review *models.Review) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, opts query.Options) ([]models.Review, *query.Result, error)
	ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Review, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	if err := db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReview
		}
		return err
	}
	return nil
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.Preload("Bootcamp").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) Update(db *gorm.DB, review *models.Review) error {
	return db.Save(review).Error
}

func (r *ReviewRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) List(db *gorm.DB, opts query.Options) ([]models.Review, *query.Result, error) {
	var reviews []models.Review
	preloads := map[string]func(*gorm.DB) *gorm.DB{
		"bootcamp": func(q *gorm.DB) *gorm.DB { return q.Preload("Bootcamp") },
	}
	res, err := query.Run(db.Model(&models.Review{}), ReviewFields, opts, preloads, &reviews)
	if err != nil {
		return nil, nil, err
	}
	return reviews, res, nil
}

func (r *ReviewRepositoryImpl) ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("bootcamp_id = ?", bootcampID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

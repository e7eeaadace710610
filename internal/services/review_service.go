package services

import (
	"fmt"

	"bootcamp_backend/internal/events"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"
	"bootcamp_backend/internal/repositories"
	"bootcamp_backend/internal/services/dto"
	"bootcamp_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	List(db *gorm.DB, opts query.Options) ([]models.Review, *query.Result, error)
	ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Review, error)
	Get(db *gorm.DB, id string) (*models.Review, error)
	Create(db *gorm.DB, userID string, bootcampID string, req *dto.CreateReviewRequest) (*models.Review, error)
	Update(db *gorm.DB, userID string, role models.UserRole, id string, req *dto.UpdateReviewRequest) (*models.Review, error)
	Delete(db *gorm.DB, userID string, role models.UserRole, id string) error
}

type ReviewServiceImpl struct {
	reviewRepo   repositories.ReviewRepository
	bootcampRepo repositories.BootcampRepository
	dispatcher   *events.Dispatcher
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	bootcampRepo repositories.BootcampRepository,
	dispatcher *events.Dispatcher,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:   reviewRepo,
		bootcampRepo: bootcampRepo,
		dispatcher:   dispatcher,
	}
}

func (s *ReviewServiceImpl) List(db *gorm.DB, opts query.Options) ([]models.Review, *query.Result, error) {
	reviews, res, err := s.reviewRepo.List(db, opts)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return reviews, res, nil
}

func (s *ReviewServiceImpl) ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Review, error) {
	if err := s.checkBootcamp(db, bootcampID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByBootcamp(db, bootcampID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return reviews, nil
}

func (s *ReviewServiceImpl) Get(db *gorm.DB, id string) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.ErrNotFound(err, fmt.Sprintf("Review not found with id of %s", id))
		}
		return nil, apperrors.InternalError(err)
	}
	return review, nil
}

// Create - adds a review for a bootcamp. One review per user per
// bootcamp; a successful write triggers the rating rollup.
func (s *ReviewServiceImpl) Create(db *gorm.DB, userID string, bootcampID string, req *dto.CreateReviewRequest) (*models.Review, error) {
	if err := s.checkBootcamp(db, bootcampID); err != nil {
		return nil, err
	}

	review := &models.Review{
		Title:      req.Title,
		Text:       req.Text,
		Rating:     req.Rating,
		BootcampID: bootcampID,
		UserID:     userID,
	}
	if err := s.reviewRepo.Create(db, review); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateReview) {
			return nil, apperrors.ErrDuplicate(err, "User has already submitted a review for this bootcamp")
		}
		return nil, apperrors.InternalError(err)
	}

	s.dispatcher.Fire(events.Event{
		Entity:     events.EntityReview,
		Action:     events.ActionWrite,
		BootcampID: bootcampID,
		DB:         db,
	})
	return review, nil
}

// Update - modifies a review; author or admin only.
func (s *ReviewServiceImpl) Update(db *gorm.DB, userID string, role models.UserRole, id string, req *dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(review.UserID, userID, role); err != nil {
		return nil, err
	}

	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}

	review.Bootcamp = nil
	if err := s.reviewRepo.Update(db, review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.dispatcher.Fire(events.Event{
		Entity:     events.EntityReview,
		Action:     events.ActionWrite,
		BootcampID: review.BootcampID,
		DB:         db,
	})
	return review, nil
}

// Delete - removes a review; author or admin only.
func (s *ReviewServiceImpl) Delete(db *gorm.DB, userID string, role models.UserRole, id string) error {
	review, err := s.Get(db, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(review.UserID, userID, role); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(db, id); err != nil {
		return apperrors.InternalError(err)
	}

	s.dispatcher.Fire(events.Event{
		Entity:     events.EntityReview,
		Action:     events.ActionDelete,
		BootcampID: review.BootcampID,
		DB:         db,
	})
	return nil
}

func (s *ReviewServiceImpl) checkBootcamp(db *gorm.DB, bootcampID string) error {
	if _, err := s.bootcampRepo.FindByID(db, bootcampID); err != nil {
		if apperrors.Is(err, repositories.ErrBootcampNotFound) {
			return apperrors.ErrNotFound(err, fmt.Sprintf("Bootcamp not found with id of %s", bootcampID))
		}
		return apperrors.InternalError(err)
	}
	return nil
}

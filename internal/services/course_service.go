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

type CourseService interface {
	List(db *gorm.DB, opts query.Options) ([]models.Course, *query.Result, error)
	ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Course, error)
	Get(db *gorm.DB, id string) (*models.Course, error)
	Create(db *gorm.DB, userID string, role models.UserRole, bootcampID string, req *dto.CreateCourseRequest) (*models.Course, error)
	Update(db *gorm.DB, userID string, role models.UserRole, id string, req *dto.UpdateCourseRequest) (*models.Course, error)
	Delete(db *gorm.DB, userID string, role models.UserRole, id string) error
}

type CourseServiceImpl struct {
	courseRepo   repositories.CourseRepository
	bootcampRepo repositories.BootcampRepository
	dispatcher   *events.Dispatcher
}

func NewCourseService(
	courseRepo repositories.CourseRepository,
	bootcampRepo repositories.BootcampRepository,
	dispatcher *events.Dispatcher,
) CourseService {
	return &CourseServiceImpl{
		courseRepo:   courseRepo,
		bootcampRepo: bootcampRepo,
		dispatcher:   dispatcher,
	}
}

func (s *CourseServiceImpl) List(db *gorm.DB, opts query.Options) ([]models.Course, *query.Result, error) {
	courses, res, err := s.courseRepo.List(db, opts)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return courses, res, nil
}

func (s *CourseServiceImpl) ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Course, error) {
	if _, err := s.findBootcamp(db, bootcampID); err != nil {
		return nil, err
	}
	courses, err := s.courseRepo.ListByBootcamp(db, bootcampID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return courses, nil
}

func (s *CourseServiceImpl) Get(db *gorm.DB, id string) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.ErrNotFound(err, fmt.Sprintf("Course not found with id of %s", id))
		}
		return nil, apperrors.InternalError(err)
	}
	return course, nil
}

// Create - adds a course to a bootcamp. Only the bootcamp owner or an
// admin may add courses; a successful write triggers the cost rollup.
func (s *CourseServiceImpl) Create(db *gorm.DB, userID string, role models.UserRole, bootcampID string, req *dto.CreateCourseRequest) (*models.Course, error) {
	bootcamp, err := s.findBootcamp(db, bootcampID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(bootcamp.UserID, userID, role); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		BootcampID:           bootcampID,
		UserID:               userID,
	}
	if err := s.courseRepo.Create(db, course); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.dispatcher.Fire(events.Event{
		Entity:     events.EntityCourse,
		Action:     events.ActionWrite,
		BootcampID: bootcampID,
		DB:         db,
	})
	return course, nil
}

// Update - modifies a course; owner or admin only.
func (s *CourseServiceImpl) Update(db *gorm.DB, userID string, role models.UserRole, id string, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(course.UserID, userID, role); err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Weeks != nil {
		course.Weeks = *req.Weeks
	}
	if req.Tuition != nil {
		course.Tuition = *req.Tuition
	}
	if req.MinimumSkill != nil {
		course.MinimumSkill = *req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		course.ScholarshipAvailable = *req.ScholarshipAvailable
	}

	course.Bootcamp = nil
	if err := s.courseRepo.Update(db, course); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.dispatcher.Fire(events.Event{
		Entity:     events.EntityCourse,
		Action:     events.ActionWrite,
		BootcampID: course.BootcampID,
		DB:         db,
	})
	return course, nil
}

// Delete - removes a course; owner or admin only.
func (s *CourseServiceImpl) Delete(db *gorm.DB, userID string, role models.UserRole, id string) error {
	course, err := s.Get(db, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(course.UserID, userID, role); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(db, id); err != nil {
		return apperrors.InternalError(err)
	}

	s.dispatcher.Fire(events.Event{
		Entity:     events.EntityCourse,
		Action:     events.ActionDelete,
		BootcampID: course.BootcampID,
		DB:         db,
	})
	return nil
}

func (s *CourseServiceImpl) findBootcamp(db *gorm.DB, bootcampID string) (*models.Bootcamp, error) {
	bootcamp, err := s.bootcampRepo.FindByID(db, bootcampID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBootcampNotFound) {
			return nil, apperrors.ErrNotFound(err, fmt.Sprintf("Bootcamp not found with id of %s", bootcampID))
		}
		return nil, apperrors.InternalError(err)
	}
	return bootcamp, nil
}

package repositories

import (
	"errors"

	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"

	"gorm.io/gorm"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseFields is the filter/sort/select whitelist for course listing.
var CourseFields = query.FieldMap{
	"title":                 {Column: "title", Kind: query.KindString},
	"weeks":                 {Column: "weeks", Kind: query.KindNumber},
	"tuition":               {Column: "tuition", Kind: query.KindNumber},
	"minimum_skill":         {Column: "minimum_skill", Kind: query.KindString},
	"scholarship_available": {Column: "scholarship_available", Kind: query.KindBool},
	"bootcamp_id":           {Column: "bootcamp_id", Kind: query.KindString},
	"created_at":            {Column: "created_at", Kind: query.KindString},
}

type CourseRepository interface {
	Create(db *gorm.DB, course *models.Course) error
	FindByID(db *gorm.DB, id string) (*models.Course, error)
	Update(db *gorm.DB, course *models.Course) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, opts query.Options) ([]models.Course, *query.Result, error)
	ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Course, error)
}

type CourseRepositoryImpl struct{}

func NewCourseRepository() CourseRepository {
	return &CourseRepositoryImpl{}
}

func (r *CourseRepositoryImpl) Create(db *gorm.DB, course *models.Course) error {
	return db.Create(course).Error
}

func (r *CourseRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Course, error) {
	var course models.Course
	if err := db.Preload("Bootcamp").First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) Update(db *gorm.DB, course *models.Course) error {
	return db.Save(course).Error
}

func (r *CourseRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) List(db *gorm.DB, opts query.Options) ([]models.Course, *query.Result, error) {
	var courses []models.Course
	preloads := map[string]func(*gorm.DB) *gorm.DB{
		"bootcamp": func(q *gorm.DB) *gorm.DB { return q.Preload("Bootcamp") },
	}
	res, err := query.Run(db.Model(&models.Course{}), CourseFields, opts, preloads, &courses)
	if err != nil {
		return nil, nil, err
	}
	return courses, res, nil
}

func (r *CourseRepositoryImpl) ListByBootcamp(db *gorm.DB, bootcampID string) ([]models.Course, error) {
	var courses []models.Course
	err := db.Where("bootcamp_id = ?", bootcampID).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

package repositories

import (
	"errors"
	"math"

	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"

	"gorm.io/gorm"
)

var (
	ErrBootcampNotFound      = errors.New("bootcamp not found")
	ErrBootcampAlreadyExists = errors.New("bootcamp with this name already exists")
)

// earthRadiusMiles is used for haversine distance when filtering
// candidates returned by the bounding-box query.
const earthRadiusMiles = 3963.0

// BootcampFields is the filter/sort/select whitelist for bootcamp listing.
var BootcampFields = query.FieldMap{
	"name":           {Column: "name", Kind: query.KindString},
	"description":    {Column: "description", Kind: query.KindString},
	"careers":        {Column: "careers", Kind: query.KindContains},
	"city":           {Column: "city", Kind: query.KindString},
	"state":          {Column: "state", Kind: query.KindString},
	"housing":        {Column: "housing", Kind: query.KindBool},
	"job_assistance": {Column: "job_assistance", Kind: query.KindBool},
	"job_guarantee":  {Column: "job_guarantee", Kind: query.KindBool},
	"accept_gi":      {Column: "accept_gi", Kind: query.KindBool},
	"average_cost":   {Column: "average_cost", Kind: query.KindNumber},
	"average_rating": {Column: "average_rating", Kind: query.KindNumber},
	"created_at":     {Column: "created_at", Kind: query.KindString},
}

type BootcampRepository interface {
	Create(db *gorm.DB, bootcamp *models.Bootcamp) error
	FindByID(db *gorm.DB, id string) (*models.Bootcamp, error)
	Update(db *gorm.DB, bootcamp *models.Bootcamp) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, opts query.Options) ([]models.Bootcamp, *query.Result, error)
	CountByUser(db *gorm.DB, userID string) (int64, error)
	FindWithinRadius(db *gorm.DB, lat, lng, radiusMiles float64) ([]models.Bootcamp, error)
	UpdatePhoto(db *gorm.DB, id, filename string) error
}

type BootcampRepositoryImpl struct{}

func NewBootcampRepository() BootcampRepository {
	return &BootcampRepositoryImpl{}
}

func (r *BootcampRepositoryImpl) Create(db *gorm.DB, bootcamp *models.Bootcamp) error {
	if err := db.Create(bootcamp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrBootcampAlreadyExists
		}
		return err
	}
	return nil
}

func (r *BootcampRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Bootcamp, error) {
	var bootcamp models.Bootcamp
	if err := db.First(&bootcamp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBootcampNotFound
		}
		return nil, err
	}
	return &bootcamp, nil
}

func (r *BootcampRepositoryImpl) Update(db *gorm.DB, bootcamp *models.Bootcamp) error {
	if err := db.Save(bootcamp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrBootcampAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a bootcamp together with its courses and reviews in a
// single transaction.
func (r *BootcampRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bootcamp_id = ?", id).Delete(&models.Course{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bootcamp_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Bootcamp{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBootcampNotFound
		}
		return nil
	})
}

func (r *BootcampRepositoryImpl) List(db *gorm.DB, opts query.Options) ([]models.Bootcamp, *query.Result, error) {
	var bootcamps []models.Bootcamp
	preloads := map[string]func(*gorm.DB) *gorm.DB{
		"courses": func(q *gorm.DB) *gorm.DB { return q.Preload("Courses") },
	}
	res, err := query.Run(db.Model(&models.Bootcamp{}), BootcampFields, opts, preloads, &bootcamps)
	if err != nil {
		return nil, nil, err
	}
	return bootcamps, res, nil
}

func (r *BootcampRepositoryImpl) CountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Bootcamp{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// FindWithinRadius runs a cheap bounding-box query in SQL, then filters
// candidates with an exact haversine check in Go. One degree of latitude
// is roughly 69 miles; longitude degrees shrink with cos(lat).
func (r *BootcampRepositoryImpl) FindWithinRadius(db *gorm.DB, lat, lng, radiusMiles float64) ([]models.Bootcamp, error) {
	latDelta := radiusMiles / 69.0
	lngScale := math.Cos(lat * math.Pi / 180)
	if lngScale < 0.01 {
		lngScale = 0.01
	}
	lngDelta := radiusMiles / (69.0 * lngScale)

	var candidates []models.Bootcamp
	err := db.
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lng-lngDelta, lng+lngDelta).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	result := make([]models.Bootcamp, 0, len(candidates))
	for _, b := range candidates {
		if haversineMiles(lat, lng, b.Latitude, b.Longitude) <= radiusMiles {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *BootcampRepositoryImpl) UpdatePhoto(db *gorm.DB, id, filename string) error {
	result := db.Model(&models.Bootcamp{}).Where("id = ?", id).Update("photo", filename)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBootcampNotFound
	}
	return nil
}

func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

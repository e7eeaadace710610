package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"bootcamp_backend/internal/config"
	"bootcamp_backend/internal/geocoder"
	"bootcamp_backend/internal/imageprocessor"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"
	"bootcamp_backend/internal/repositories"
	"bootcamp_backend/internal/services/dto"
	"bootcamp_backend/internal/storage"
	"bootcamp_backend/pkg/apperrors"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type BootcampService interface {
	List(db *gorm.DB, opts query.Options) ([]models.Bootcamp, *query.Result, error)
	Get(db *gorm.DB, id string) (*models.Bootcamp, error)
	Create(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, req *dto.CreateBootcampRequest) (*models.Bootcamp, error)
	Update(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error)
	Delete(db *gorm.DB, userID string, role models.UserRole, id string) error
	GetWithinRadius(ctx context.Context, db *gorm.DB, zipcode string, distanceMiles float64) ([]models.Bootcamp, error)
	UploadPhoto(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string, file *multipart.FileHeader) (string, error)
}

type BootcampServiceImpl struct {
	bootcampRepo repositories.BootcampRepository
	geocoder     geocoder.Service
	storage      storage.Storage
	uploadCfg    config.UploadConfig
	photos       *imageprocessor.Processor
}

func NewBootcampService(
	bootcampRepo repositories.BootcampRepository,
	geo geocoder.Service,
	store storage.Storage,
	uploadCfg config.UploadConfig,
) BootcampService {
	return &BootcampServiceImpl{
		bootcampRepo: bootcampRepo,
		geocoder:     geo,
		storage:      store,
		uploadCfg:    uploadCfg,
		photos:       imageprocessor.New(1600, 85),
	}
}

func (s *BootcampServiceImpl) List(db *gorm.DB, opts query.Options) ([]models.Bootcamp, *query.Result, error) {
	bootcamps, res, err := s.bootcampRepo.List(db, opts)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return bootcamps, res, nil
}

func (s *BootcampServiceImpl) Get(db *gorm.DB, id string) (*models.Bootcamp, error) {
	bootcamp, err := s.bootcampRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBootcampNotFound) {
			return nil, apperrors.ErrNotFound(err, fmt.Sprintf("Bootcamp not found with id of %s", id))
		}
		return nil, apperrors.InternalError(err)
	}
	return bootcamp, nil
}

// Create - publishes a bootcamp for the given user. Non-admin users may
// publish at most one; the address is geocoded before persisting.
func (s *BootcampServiceImpl) Create(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, req *dto.CreateBootcampRequest) (*models.Bootcamp, error) {
	if role != models.UserRoleAdmin {
		count, err := s.bootcampRepo.CountByUser(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if count > 0 {
			return nil, apperrors.ErrBootcampLimit
		}
	}

	bootcamp := &models.Bootcamp{
		Name:          req.Name,
		Slug:          slug.Make(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		UserID:        userID,
	}

	if err := s.applyLocation(ctx, bootcamp, req.Address); err != nil {
		return nil, err
	}

	if err := s.bootcampRepo.Create(db, bootcamp); err != nil {
		if apperrors.Is(err, repositories.ErrBootcampAlreadyExists) {
			return nil, apperrors.ErrDuplicate(err, "Bootcamp with this name already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return bootcamp, nil
}

// Update - modifies a bootcamp; only its owner or an admin may do so.
// A changed name refreshes the slug, a changed address is re-geocoded.
func (s *BootcampServiceImpl) Update(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string, req *dto.UpdateBootcampRequest) (*models.Bootcamp, error) {
	bootcamp, err := s.Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(bootcamp.UserID, userID, role); err != nil {
		return nil, err
	}

	if req.Name != nil {
		bootcamp.Name = *req.Name
		bootcamp.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		bootcamp.Description = *req.Description
	}
	if req.Website != nil {
		bootcamp.Website = *req.Website
	}
	if req.Phone != nil {
		bootcamp.Phone = *req.Phone
	}
	if req.Email != nil {
		bootcamp.Email = *req.Email
	}
	if req.Careers != nil {
		bootcamp.Careers = req.Careers
	}
	if req.Housing != nil {
		bootcamp.Housing = *req.Housing
	}
	if req.JobAssistance != nil {
		bootcamp.JobAssistance = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		bootcamp.JobGuarantee = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		bootcamp.AcceptGi = *req.AcceptGi
	}
	if req.Address != nil && *req.Address != bootcamp.Address {
		bootcamp.Address = *req.Address
		if err := s.applyLocation(ctx, bootcamp, *req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.bootcampRepo.Update(db, bootcamp); err != nil {
		if apperrors.Is(err, repositories.ErrBootcampAlreadyExists) {
			return nil, apperrors.ErrDuplicate(err, "Bootcamp with this name already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return bootcamp, nil
}

// Delete - removes a bootcamp with its courses and reviews; only its
// owner or an admin may do so.
func (s *BootcampServiceImpl) Delete(db *gorm.DB, userID string, role models.UserRole, id string) error {
	bootcamp, err := s.Get(db, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(bootcamp.UserID, userID, role); err != nil {
		return err
	}

	if err := s.bootcampRepo.Delete(db, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// GetWithinRadius - finds bootcamps within distanceMiles of a zipcode.
func (s *BootcampServiceImpl) GetWithinRadius(ctx context.Context, db *gorm.DB, zipcode string, distanceMiles float64) ([]models.Bootcamp, error) {
	if distanceMiles <= 0 {
		return nil, apperrors.NewBadRequestError("Distance must be a positive number of miles")
	}

	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}

	bootcamps, err := s.bootcampRepo.FindWithinRadius(db, loc.Latitude, loc.Longitude, distanceMiles)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return bootcamps, nil
}

// UploadPhoto - stores a photo for the bootcamp and records its
// filename. Only images up to the configured size are accepted.
func (s *BootcampServiceImpl) UploadPhoto(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, id string, file *multipart.FileHeader) (string, error) {
	bootcamp, err := s.Get(db, id)
	if err != nil {
		return "", err
	}
	if err := authorizeOwner(bootcamp.UserID, userID, role); err != nil {
		return "", err
	}

	if file.Size > s.uploadCfg.MaxSize {
		return "", apperrors.ErrInvalidOperation("upload",
			fmt.Sprintf("Please upload an image less than %d bytes", s.uploadCfg.MaxSize))
	}

	contentType := file.Header.Get("Content-Type")
	if !s.allowedType(contentType) {
		return "", apperrors.ErrInvalidOperation("upload", "Please upload an image file")
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	normalized, err := s.photos.Normalize(src)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	filename := fmt.Sprintf("photo_%s%s", bootcamp.ID, filepath.Ext(file.Filename))
	if err := s.storage.Save(ctx, filename, normalized, contentType); err != nil {
		return "", apperrors.ErrUpstream(err, "storage", "Problem with file upload")
	}

	if err := s.bootcampRepo.UpdatePhoto(db, bootcamp.ID, filename); err != nil {
		return "", apperrors.InternalError(err)
	}
	return filename, nil
}

func (s *BootcampServiceImpl) allowedType(contentType string) bool {
	for _, prefix := range s.uploadCfg.AllowedTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

func (s *BootcampServiceImpl) applyLocation(ctx context.Context, bootcamp *models.Bootcamp, address string) error {
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return err
	}

	bootcamp.Latitude = loc.Latitude
	bootcamp.Longitude = loc.Longitude
	bootcamp.FormattedAddress = loc.FormattedAddress
	bootcamp.Street = loc.Street
	bootcamp.City = loc.City
	bootcamp.State = loc.State
	bootcamp.Zipcode = loc.Zipcode
	bootcamp.Country = loc.Country
	return nil
}

// authorizeOwner allows the resource owner and admins through.
func authorizeOwner(ownerID, userID string, role models.UserRole) error {
	if role == models.UserRoleAdmin || ownerID == userID {
		return nil
	}
	return apperrors.ErrOwnershipRequired
}

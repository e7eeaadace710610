package app

import (
	"context"
	"errors"
	"fmt"

	"bootcamp_backend/internal/aggregates"
	"bootcamp_backend/internal/auth"
	"bootcamp_backend/internal/config"
	"bootcamp_backend/internal/email"
	"bootcamp_backend/internal/events"
	"bootcamp_backend/internal/geocoder"
	"bootcamp_backend/internal/handlers"
	"bootcamp_backend/internal/logger"
	"bootcamp_backend/internal/metrics"
	"bootcamp_backend/internal/middleware"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/repositories"
	"bootcamp_backend/internal/routes"
	"bootcamp_backend/internal/services"
	"bootcamp_backend/internal/storage"
	"bootcamp_backend/internal/validator"
	"bootcamp_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	workers.NewTokenWorker(gormDB).Start(context.Background())

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// AutoMigrate creates or updates the schema for all domain models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Bootcamp{},
		&models.Course{},
		&models.Review{},
	)
}

// Option overrides a collaborator during router construction; tests use
// these to avoid real geocoding and SMTP.
type Option func(*overrides)

type overrides struct {
	geocoder      geocoder.Service
	emailProvider email.Provider
}

func WithGeocoder(g geocoder.Service) Option {
	return func(o *overrides) { o.geocoder = g }
}

func WithEmailProvider(p email.Provider) Option {
	return func(o *overrides) { o.emailProvider = p }
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, opts ...Option) *gin.Engine {
	var ovr overrides
	for _, opt := range opts {
		opt(&ovr)
	}

	storageInstance, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, storageInstance, &ovr)
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, ovr *overrides) *services.ServiceContainer {
	emailProvider := ovr.emailProvider
	if emailProvider == nil {
		if cfg.Email.SMTPHost != "" {
			emailProvider = email.NewSMTPProvider(cfg.Email)
			logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
		} else {
			logger.Warn("SMTP is not configured, password reset emails are disabled")
		}
	}

	geocodeService := ovr.geocoder
	if geocodeService == nil {
		var geocodeCache *redis.Client
		if cfg.Redis.Addr != "" {
			geocodeCache = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
			logger.Info("Redis geocode cache initialized", "addr", cfg.Redis.Addr)
		}
		geocodeService = geocoder.New(cfg.Geocoder, geocodeCache)
	}

	dispatcher := events.NewDispatcher()
	aggregates.NewMaintainer().Register(dispatcher)

	userRepo := repositories.NewUserRepository()
	bootcampRepo := repositories.NewBootcampRepository()
	courseRepo := repositories.NewCourseRepository()
	reviewRepo := repositories.NewReviewRepository()

	return &services.ServiceContainer{
		AuthService:     services.NewAuthService(userRepo, emailProvider),
		UserService:     services.NewUserService(userRepo),
		BootcampService: services.NewBootcampService(bootcampRepo, geocodeService, storageInstance, cfg.Upload),
		CourseService:   services.NewCourseService(courseRepo, bootcampRepo, dispatcher),
		ReviewService:   services.NewReviewService(reviewRepo, bootcampRepo, dispatcher),
		EmailProvider:   emailProvider,
		Storage:         storageInstance,
	}
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(base, sc.AuthService),
		UserHandler:     handlers.NewUserHandler(base, sc.UserService),
		BootcampHandler: handlers.NewBootcampHandler(base, sc.BootcampService),
		CourseHandler:   handlers.NewCourseHandler(base, sc.CourseService),
		ReviewHandler:   handlers.NewReviewHandler(base, sc.ReviewService),
	}
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.CORSMiddleware(),
		metrics.Middleware(),
		middleware.DBMiddleware(gormDB),
	)
	return ginRouter
}

// seedFirstAdmin guarantees exactly one bootstrap admin account when
// the credentials are configured. Registration can never create admins.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		logger.Warn("First admin credentials not configured, skipping admin seeding")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.FirstAdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(cfg.FirstAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Admin",
		Email:        cfg.FirstAdminEmail,
		PasswordHash: hashed,
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("First admin user seeded", "email", cfg.FirstAdminEmail)
	return nil
}

package app

import (
	"errors"
	"fmt"
	"time"

	"artnuggets/internal/analyzer"
	"artnuggets/internal/auth"
	"artnuggets/internal/blocklist"
	"artnuggets/internal/config"
	"artnuggets/internal/email"
	"artnuggets/internal/handlers"
	"artnuggets/internal/logger"
	"artnuggets/internal/middleware"
	"artnuggets/internal/models"
	"artnuggets/internal/repositories"
	"artnuggets/internal/routes"
	"artnuggets/internal/services"
	"artnuggets/internal/validator"
	"artnuggets/internal/workers"

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
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
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

	if err := autoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	// Фоновая чистка истекших refresh-токенов
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	cleanupWorker := workers.NewTokenCleanupWorker(refreshTokenRepo, 12*time.Hour)
	go cleanupWorker.Run()

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTLMin, cfg.JWT.RefreshTTLDay)

	bl := newBlocklist(cfg)

	serviceContainer := initializeServices(cfg, gormDB, tokens, bl)
	appHandlers := initializeHandlers(cfg, serviceContainer)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, tokens, bl)

	return ginRouter
}

// newBlocklist подключается к Redis; при недоступном Redis откатываемся
// на in-process реализацию, чтобы не блокировать запуск.
func newBlocklist(cfg *config.Config) blocklist.Blocklist {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Info("Redis blocklist configured", "addr", client.Options().Addr)
	return blocklist.NewRedisBlocklist(client)
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, tokens *auth.TokenManager, bl blocklist.Blocklist) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
	} else {
		logger.Warn("SMTP is not configured, emails are disabled")
		emailService = email.NoopProvider{}
	}

	aiClient := analyzer.NewHTTPClient(analyzer.Config{
		BaseURL:          cfg.Analyzer.BaseURL,
		APIKey:           cfg.Analyzer.APIKey,
		Model:            cfg.Analyzer.Model,
		Timeout:          time.Duration(cfg.Analyzer.TimeoutSeconds) * time.Second,
		MaxContractChars: cfg.Analyzer.MaxContractChars,
	})

	// Репозитории
	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	taxonomyRepo := repositories.NewTaxonomyRepository(gormDB)
	courseRepo := repositories.NewCourseRepository(gormDB)
	progressRepo := repositories.NewProgressRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)
	statsRepo := repositories.NewStatsRepository(gormDB)

	// Сервисы
	authService := services.NewAuthService(userRepo, refreshTokenRepo, tokens, bl, emailService, cfg.JWT.AccessTTLMin)
	profileService := services.NewUserProfileService(userRepo, taxonomyRepo)
	taxonomyService := services.NewTaxonomyService(taxonomyRepo)
	courseService := services.NewCourseService(courseRepo, progressRepo, taxonomyRepo)
	chatService := services.NewChatService(chatRepo, aiClient)
	adminService := services.NewAdminService(statsRepo, userRepo)

	return &services.ServiceContainer{
		AuthService:        authService,
		UserProfileService: profileService,
		TaxonomyService:    taxonomyService,
		CourseService:      courseService,
		ChatService:        chatService,
		AdminService:       adminService,
		EmailService:       emailService,
	}
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, services.AuthService),
		ProfileHandler:  handlers.NewProfileHandler(baseHandler, services.UserProfileService),
		TaxonomyHandler: handlers.NewTaxonomyHandler(baseHandler, services.TaxonomyService),
		CourseHandler:   handlers.NewCourseHandler(baseHandler, services.CourseService),
		ChatHandler:     handlers.NewChatHandler(baseHandler, services.ChatService, cfg.Upload.MaxSize),
		AdminHandler:    handlers.NewAdminHandler(baseHandler, services.AdminService, services.CourseService, services.TaxonomyService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(""))
	return router
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserNiche{},
		&models.RefreshToken{},
		&models.Industry{},
		&models.Niche{},
		&models.Course{},
		&models.CourseKeyTakeaway{},
		&models.CourseAdditionalResource{},
		&models.UserCourseProgress{},
		&models.Chat{},
		&models.ChatMessage{},
	)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:               adminEmail,
		PasswordHash:        hashedPassword,
		FullName:            "Platform Administrator",
		Role:                models.UserRoleAdmin,
		IsActive:            true,
		OnboardingCompleted: true,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("✅ Successfully created first admin user", "email", adminEmail)
	return nil
}

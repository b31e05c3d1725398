package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/anirudhb/achievehub/docs" // Import generated swagger docs
	appAuth "github.com/anirudhb/achievehub/internal/app/auth"
	appControllers "github.com/anirudhb/achievehub/internal/app/controllers"
	appMigrations "github.com/anirudhb/achievehub/internal/app/migrations"
	appRepos "github.com/anirudhb/achievehub/internal/app/repositories"
	appRoutes "github.com/anirudhb/achievehub/internal/app/routes"
	appServices "github.com/anirudhb/achievehub/internal/app/services"
	"github.com/anirudhb/achievehub/internal/config"
	"github.com/anirudhb/achievehub/internal/db"
	appMiddleware "github.com/anirudhb/achievehub/internal/middleware"
	pkgAuth "github.com/anirudhb/achievehub/internal/pkg/auth"
	"github.com/anirudhb/achievehub/internal/pkg/filestorage"
	"github.com/anirudhb/achievehub/internal/pkg/helpers"
	"github.com/anirudhb/achievehub/internal/pkg/logger"
	"github.com/anirudhb/achievehub/internal/pkg/validation"
	"github.com/anirudhb/achievehub/internal/pkg/websocket"
	"github.com/anirudhb/achievehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *appServices.AuthService
	AchievementService     *appServices.AchievementService
	CategoryService        *appServices.CategoryService
	NotificationService    *appServices.NotificationService
	StatsService           *appServices.StatsService
	AuthController         *appControllers.AuthController
	AchievementController  *appControllers.AchievementController
	CategoryController     *appControllers.CategoryController
	NotificationController *appControllers.NotificationController
	StatsController        *appControllers.StatsController
	WSHub                  *websocket.Hub
	WSHandler              *websocket.Handler
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	AuthzService           *appAuth.AuthorizationService
	Logger                 zerolog.Logger
	FileStorage            *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default category catalog.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	// File storage base URL must match the static file serving path
	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.WSHub = websocket.NewHub(lgr)
	go deps.WSHub.Run()
	deps.WSHandler = websocket.NewHandler(deps.WSHub, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)

	deps.AchievementService = appServices.NewAchievementService(
		deps.Repos.AchievementRepository,
		deps.Repos.NotificationRepository,
		deps.Repos.UserRepository,
		database,
		deps.AuthzService,
		deps.FileStorage,
		deps.WSHub,
		lgr,
	)

	deps.CategoryService = appServices.NewCategoryService(deps.Repos.CategoryRepository, deps.AuthzService, lgr)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, lgr)
	deps.StatsService = appServices.NewStatsService(deps.Repos.AchievementRepository, deps.Repos.UserRepository, deps.AuthzService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.AchievementController = appControllers.NewAchievementController(deps.AchievementService, deps.Repos.UserRepository, lgr)
	deps.CategoryController = appControllers.NewCategoryController(deps.CategoryService, deps.Repos.UserRepository, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, lgr)
	deps.StatsController = appControllers.NewStatsController(deps.StatsService, deps.Repos.UserRepository, cfg, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	// Register the custom `department` binding rule
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("department", validation.DepartmentRule); err != nil {
			lgr.Error().Err(err).Msg("Failed to register department validation rule")
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.AchievementController,
		deps.CategoryController,
		deps.NotificationController,
		deps.StatsController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

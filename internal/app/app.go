package app

import (
	"context"
	"net/http"
	"time"

	"mls_backend/internal/config"
	"mls_backend/internal/controller"
	"mls_backend/internal/middleware"
	"mls_backend/internal/repository"
	"mls_backend/internal/service"
	"mls_backend/pkg/configwatcher"
	"mls_backend/pkg/database"
	"mls_backend/pkg/logger"
	"mls_backend/pkg/monitoring"
	"mls_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App assembles the portal: database, cache, repositories, services,
// controllers and the HTTP server.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine

	server *http.Server
	tracer *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	monitoring.Init()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, progress caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{Config: cfg, DB: db, Redis: rdb}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("school-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("Tracing disabled", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	app.buildRouter()
	return app, nil
}

func (a *App) buildRouter() {
	cfg := a.Config

	// Repositories
	userRepo := repository.NewUserRepository(a.DB)
	schoolRepo := repository.NewSchoolRepository(a.DB)
	unitRepo := repository.NewUnitRepository(a.DB)
	enrollRepo := repository.NewEnrollmentRepository(a.DB)
	lessonRepo := repository.NewLessonRepository(a.DB)
	attendanceRepo := repository.NewAttendanceRepository(a.DB)
	assessmentRepo := repository.NewAssessmentRepository(a.DB)
	notificationRepo := repository.NewNotificationRepository(a.DB)
	resourceRepo := repository.NewResourceRepository(a.DB)

	// Services
	storage, err := service.NewStorageProvider(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	schoolService := service.NewSchoolService(schoolRepo, unitRepo, enrollRepo, userRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, lessonRepo, unitRepo, enrollRepo, assessmentRepo)
	lessonService := service.NewLessonService(lessonRepo, unitRepo, assessmentRepo, enrollRepo, attendanceService)
	progressService := service.NewProgressService(lessonRepo, enrollRepo, a.Redis)
	assessmentService := service.NewAssessmentService(assessmentRepo, unitRepo, enrollRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	resourceService := service.NewResourceService(resourceRepo, lessonRepo, unitRepo, enrollRepo, storage)

	// Controllers
	ctrls := &controllers{
		Auth:         controller.NewAuthController(authService),
		User:         controller.NewUserController(userService),
		School:       controller.NewSchoolController(schoolService),
		Lesson:       controller.NewLessonController(lessonService, progressService),
		Attendance:   controller.NewAttendanceController(attendanceService),
		Assessment:   controller.NewAssessmentController(assessmentService),
		Notification: controller.NewNotificationController(notificationService),
		Resource:     controller.NewResourceController(resourceService),
		Health:       controller.NewHealthController(a.DB, a.Redis),
	}

	a.Router = buildRoutes(cfg, ctrls, userRepo)
}

// Run starts the HTTP server, the config watcher, and blocks until the
// context is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	gin.SetMode(a.Config.Server.Mode)

	a.server = &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(newCfg interface{}) {
		if cfg, ok := newCfg.(*config.Config); ok {
			logger.Log.Info("Configuration reloaded", zap.String("mode", cfg.Server.Mode))
		}
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.String("port", a.Config.Server.Port))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Log.Info("Shutting down")
	if a.tracer != nil {
		_ = a.tracer.Shutdown(shutdownCtx)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	return a.server.Shutdown(shutdownCtx)
}

// middlewareFor keeps route setup readable in router.go.
func middlewareFor(cfg *config.Config, userRepo *repository.UserRepository) (gin.HandlerFunc, gin.HandlerFunc) {
	return middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ActivityMiddleware(userRepo)
}

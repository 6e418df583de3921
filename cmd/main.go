package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/eventhub/config"
	"github.com/Payphone-Digital/eventhub/internal/handler"
	"github.com/Payphone-Digital/eventhub/internal/middleware"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	"github.com/Payphone-Digital/eventhub/internal/router"
	"github.com/Payphone-Digital/eventhub/internal/service"
	"github.com/Payphone-Digital/eventhub/pkg/cache"
	"github.com/Payphone-Digital/eventhub/pkg/circuit"
	"github.com/Payphone-Digital/eventhub/pkg/database"
	"github.com/Payphone-Digital/eventhub/pkg/events"
	"github.com/Payphone-Digital/eventhub/pkg/health"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/Payphone-Digital/eventhub/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthCheckInterval = 30 * time.Second

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Application starting").
		String("app_name", config.App.Name).
		String("environment", config.App.Environment).
		Log()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectWithRetry(ctx, config.Database.ConnectRetries, config.Database.ConnectRetryDelay,
		func(ctx context.Context) (*gorm.DB, error) {
			return database.NewPostgresDB(ctx, config)
		})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			logger.Error("Failed to close database").Err(err).Log()
		}
	}()

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrated successfully").Log()

	database.EnsureIndexes(ctx, db)

	// Seed data is idempotent; a failure is logged and startup continues.
	if err := database.Seed(ctx, db, config.Seed.DemoData); err != nil {
		logger.Error("Failed to seed database").Err(err).Log()
	}

	monitor := health.NewMonitor(healthCheckInterval)
	monitor.Register(health.NewPingChecker("database", true, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}))

	// Category cache: Redis when enabled and reachable, in-memory otherwise.
	var store cache.Store
	if config.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, config)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory cache").Err(err).Log()
		} else {
			defer redisClient.Close()
			store = redisClient
			monitor.Register(health.NewPingChecker("redis", false, redisClient.Ping))
		}
	}
	if store == nil {
		memory := cache.NewCacheWithGC(time.Minute)
		defer memory.Close()
		store = memory
	}

	publisher := events.New(config.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher").Err(err).Log()
		}
	}()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	tokenService := service.NewTokenService(config.JWT)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db, tokenService.RefreshTTL())
	mailer := service.NewMailer(config.Mail)
	if smtpMailer, ok := mailer.(*service.SMTPMailer); ok {
		monitor.Register(breakerChecker(smtpMailer.Breaker()))
	}
	cacheService := service.NewCacheService(store, config.Cache.CategoryTTL)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, tokenService, publisher)
	eventService := service.NewEventService(eventRepo, categoryRepo, registrationRepo, cacheService)
	categoryService := service.NewCategoryService(categoryRepo, cacheService)
	registrationService := service.NewRegistrationService(registrationRepo, eventRepo, userRepo, mailer, publisher)
	paymentService := service.NewPaymentService(config.Payment, service.PaymentDeps{
		Payments:      paymentRepo,
		Registrations: registrationRepo,
		Events:        eventRepo,
		Users:         userRepo,
		Mailer:        mailer,
		Publisher:     publisher,
	})
	monitor.Register(breakerChecker(paymentService.Breaker()))
	notificationService := service.NewNotificationService(notificationRepo, registrationRepo, eventRepo, mailer, publisher)
	profileService := service.NewProfileService(userRepo, eventRepo, registrationRepo, notificationRepo, refreshTokenRepo)
	analyticsService := service.NewAnalyticsService(userRepo, eventRepo, registrationRepo)

	sweeper := service.NewTokenSweeper(refreshTokenRepo, config.Sweeper.Interval)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	monitor.Start(ctx)
	defer monitor.Stop()

	r := router.NewRouter(router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Event:        handler.NewEventHandler(eventService),
		Category:     handler.NewCategoryHandler(categoryService),
		Registration: handler.NewRegistrationHandler(registrationService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Notification: handler.NewNotificationHandler(notificationService),
		Profile:      handler.NewProfileHandler(profileService),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		Health:       handler.NewHealthHandler(monitor),
		Cache:        handler.NewCacheHandler(cacheService),
	}, middleware.NewAuthMiddleware(tokenService), config).SetupRoutes()

	server := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting").
			String("port", config.App.Port).
			Log()
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...").Log()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown").Err(err).Log()
	}
	logger.Info("Server stopped").Log()
}

// breakerChecker reports a dependency circuit as degraded while it is open.
func breakerChecker(b *circuit.Breaker) health.Checker {
	return health.NewStatsChecker(b.Name(), b.Stats, func(stats map[string]interface{}) bool {
		return stats["state"] == circuit.StateOpen.String()
	})
}

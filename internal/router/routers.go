package router

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/eventhub/config"
	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/handler"
	"github.com/Payphone-Digital/eventhub/internal/middleware"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Event        *handler.EventHandler
	Category     *handler.CategoryHandler
	Registration *handler.RegistrationHandler
	Payment      *handler.PaymentHandler
	Notification *handler.NotificationHandler
	Profile      *handler.ProfileHandler
	Analytics    *handler.AnalyticsHandler
	Health       *handler.HealthHandler
	Cache        *handler.CacheHandler
}

type Router struct {
	handlers Handlers
	authMw   *middleware.AuthMiddleware
	Config   *config.Config
}

func NewRouter(handlers Handlers, authMw *middleware.AuthMiddleware, config *config.Config) *Router {
	return &Router{
		handlers: handlers,
		authMw:   authMw,
		Config:   config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if err := middleware.RegisterValidators(); err != nil {
		logger.Error("Failed to register validation rules").Err(err).Log()
	}

	router := gin.New()

	router.Use(middleware.RequestContext(r.Config.App.Timeout))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware(r.Config.IsDevelopment()))
	router.Use(middleware.CORS())

	router.GET("/health", r.handlers.Health.Liveness)
	router.GET("/health/ready", r.handlers.Health.Readiness)

	api := router.Group("/api")
	{
		r.authRoutes(api)
		r.eventRoutes(api)
		r.registrationRoutes(api)
		r.categoryRoutes(api)
		r.paymentRoutes(api)
		r.notificationRoutes(api)
		r.profileRoutes(api)
		r.dashboardRoutes(api)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, constants.BuildErrorResponse(constants.MsgRouteNotFound, nil))
	})

	return router
}

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
	{
		// Public routes (no authentication required)
		auth.POST("/register", r.handlers.Auth.Register)
		auth.POST("/login", r.handlers.Auth.Login)
		auth.POST("/refresh", r.handlers.Auth.Refresh)

		protected := auth.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("/logout", r.handlers.Auth.Logout)
			protected.POST("/logout-all", r.handlers.Auth.LogoutAll)
		}
	}
}

package router

import (
	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) paymentRoutes(api *gin.RouterGroup) {
	payments := api.Group("/payments")
	{
		payments.GET("/config", r.handlers.Payment.Config)

		protected := payments.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("", r.handlers.Payment.Pay)
			protected.GET("/history", r.handlers.Payment.History)
		}
	}
}

func (r *Router) notificationRoutes(api *gin.RouterGroup) {
	notifications := api.Group("/notifications")
	notifications.Use(r.authMw.RequireAuth())
	{
		notifications.POST("", middleware.RequireRoles(constants.RoleAdmin, constants.RoleOrganizer), r.handlers.Notification.Send)
		notifications.GET("/my", r.handlers.Notification.ListMine)
		notifications.PATCH("/:id/read", r.handlers.Notification.MarkRead)
	}
}

func (r *Router) profileRoutes(api *gin.RouterGroup) {
	profile := api.Group("/profile")
	{
		profile.GET("/user/:id", r.handlers.Profile.Public)

		me := profile.Group("")
		me.Use(r.authMw.RequireAuth())
		{
			me.GET("/me", r.handlers.Profile.Me)
			me.PUT("/me", r.handlers.Profile.Update)
			me.DELETE("/me", r.handlers.Profile.DeleteAccount)
			me.POST("/change-password", r.handlers.Profile.ChangePassword)
		}
	}
}

// dashboardRoutes mounts the same dashboard under both historical paths,
// plus the admin-only cache controls.
func (r *Router) dashboardRoutes(api *gin.RouterGroup) {
	staff := middleware.RequireRoles(constants.RoleAdmin, constants.RoleOrganizer)

	admin := api.Group("/admin")
	admin.Use(r.authMw.RequireAuth())
	{
		admin.GET("/dashboard", staff, r.handlers.Analytics.Dashboard)
		admin.POST("/cache/invalidate", middleware.RequireRoles(constants.RoleAdmin), r.handlers.Cache.InvalidateCache)
	}

	analytics := api.Group("/analytics")
	analytics.Use(r.authMw.RequireAuth())
	{
		analytics.GET("/dashboard", staff, r.handlers.Analytics.Dashboard)
	}
}

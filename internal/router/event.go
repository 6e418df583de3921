package router

import (
	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) eventRoutes(api *gin.RouterGroup) {
	events := api.Group("/events")
	{
		events.GET("", r.handlers.Event.List)
		events.GET("/:id", r.handlers.Event.Get)

		protected := events.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.GET("/my/organized", r.handlers.Event.ListOrganized)

			protected.POST("", middleware.RequireRoles(constants.RoleOrganizer, constants.RoleAdmin), r.handlers.Event.Create)
			protected.PUT("/:id", middleware.RequireRoles(constants.RoleOrganizer, constants.RoleAdmin), r.handlers.Event.Update)
			protected.DELETE("/:id", middleware.RequireRoles(constants.RoleAdmin), r.handlers.Event.Delete)
		}
	}
}

func (r *Router) registrationRoutes(api *gin.RouterGroup) {
	registrations := api.Group("/registrations")
	registrations.Use(r.authMw.RequireAuth())
	{
		registrations.POST("", r.handlers.Registration.Create)
		registrations.GET("/:userId", r.handlers.Registration.ListByUser)
		registrations.DELETE("/:id", r.handlers.Registration.Cancel)
	}
}

func (r *Router) categoryRoutes(api *gin.RouterGroup) {
	categories := api.Group("/categories")
	{
		public := categories.Group("")
		public.Use(r.authMw.OptionalAuth())
		{
			public.GET("", r.handlers.Category.List)
			public.GET("/:id", r.handlers.Category.Get)
		}

		favorites := categories.Group("")
		favorites.Use(r.authMw.RequireAuth())
		{
			favorites.GET("/favorites/my", r.handlers.Category.Favorites)
			favorites.PUT("/favorites", r.handlers.Category.ReplaceFavorites)
			favorites.POST("/:id/favorite", r.handlers.Category.AddFavorite)
			favorites.DELETE("/:id/favorite", r.handlers.Category.RemoveFavorite)
		}
	}
}

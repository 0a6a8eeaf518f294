package app

import (
	"habit_tracker_backend/docs"
	"habit_tracker_backend/internal/config"
	"habit_tracker_backend/internal/middleware"
	"habit_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerHabitRoutes(authGroup, c)
		a.registerProgressRoutes(authGroup, c)
		a.registerUserRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerHabitRoutes(rg *gin.RouterGroup, c *controllers) {
	habits := rg.Group("/habits")
	{
		habits.GET("", c.habit.List)
		habits.POST("", c.habit.Create)
		habits.PUT("/:id", c.habit.Update)
		habits.DELETE("/:id", c.habit.Delete)
		habits.POST("/:id/trackers", c.habit.Toggle)
	}
}

func (a *App) registerProgressRoutes(rg *gin.RouterGroup, c *controllers) {
	progress := rg.Group("/progress")
	{
		progress.GET("/history", c.progress.History)
		progress.GET("/streaks", c.progress.Streaks)
		progress.GET("/overview", c.progress.Overview)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.PUT("/user/password", c.user.UpdatePassword)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/subash43e/taskapp/internal/adapter/http/handlers"
	"github.com/subash43e/taskapp/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler, settingsHandler *handlers.SettingsHandler) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/tasks", taskHandler.CreateTask)
		authed.GET("/tasks", taskHandler.ListTasks)
		authed.GET("/tasks/pending", taskHandler.PendingTasks)
		authed.GET("/tasks/today", taskHandler.TodayTasks)
		authed.GET("/tasks/upcoming", taskHandler.UpcomingTasks)
		authed.GET("/tasks/completed", taskHandler.CompletedTasks)
		authed.PATCH("/tasks/:id", taskHandler.UpdateTask)
		authed.POST("/tasks/:id/toggle", taskHandler.ToggleComplete)
		authed.DELETE("/tasks/:id", taskHandler.DeleteTask)

		authed.GET("/settings", settingsHandler.GetSettings)
		authed.PUT("/settings", settingsHandler.UpdateSettings)
		authed.POST("/notifications/test", settingsHandler.SendTestEmail)
	}
}
